package handlers

import (
	"mars/internal/services"

	"github.com/gofiber/fiber/v2"
)

// JobHandler handles HTTP requests for jobs.
type JobHandler struct {
	service *services.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service *services.JobService) *JobHandler {
	return &JobHandler{
		service: service,
	}
}

// RegisterRoutes registers the job routes with the Fiber app.
func (h *JobHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/jobs", h.HandleGetJobs)
}

// HandleGetJobs retrieves all jobs.
func (h *JobHandler) HandleGetJobs(c *fiber.Ctx) error {
	jobs, err := h.service.GetAllJobs(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve jobs")
	}
	return c.JSON(jobs)
}
