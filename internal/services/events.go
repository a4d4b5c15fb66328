package services

import (
	"errors"
	"log"

	"mars/internal/common"
)

// Domain event types published to the message broker.
const (
	EventUserRegistered = "user.registered"
	EventNewsCreated    = "news.created"
	EventNewsUpdated    = "news.updated"
	EventNewsDeleted    = "news.deleted"
)

// EventPublisher publishes domain events. rabbitmq.Client implements it.
type EventPublisher interface {
	PublishEvent(eventType string, payload map[string]interface{}) error
}

// publishEvent never fails the caller: a missing or failing publisher is only logged.
func publishEvent(p EventPublisher, eventType string, payload map[string]interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(eventType, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", eventType, err)
	}
}

// retryOnce repeats fn a single time when it fails with a transient store error.
func retryOnce[T any](fn func() (T, error)) (T, error) {
	v, err := fn()
	if errors.Is(err, common.ErrTransientStore) {
		log.Printf("Retrying after transient store error: %v", err)
		v, err = fn()
	}
	return v, err
}
