package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mars/internal/common"
	"mars/internal/models"
	"mars/internal/repositories"
)

// SeedJob describes a job by the emails of the colonists involved.
type SeedJob struct {
	TeamLeaderEmail    string
	Job                string
	WorkSize           int
	CollaboratorEmails []string
	IsFinished         bool
}

// DefaultColonists are inserted on every start if missing. The captain comes first.
var DefaultColonists = []Profile{
	{Surname: "Scott", Name: "Ridley", Age: 21, Position: "captain", Speciality: "research engineer", Address: "module_1", Email: "scott_chief@mars.org"},
	{Surname: "Nick", Name: "Valentine", Age: 35, Position: "low", Speciality: "cleaner", Address: "module_5", Email: "nick_valley@mars.org"},
	{Surname: "Elon", Name: "Musk", Age: 51, Position: "high", Speciality: "business man", Address: "module_7", Email: "elon_musk@mars.org"},
	{Surname: "Tony", Name: "Stark", Age: 45, Position: "captain helper", Speciality: "tech engineer", Address: "module_4", Email: "tony_stark@mars.org"},
}

// DefaultJobs are inserted on every start if missing.
var DefaultJobs = []SeedJob{
	{
		TeamLeaderEmail:    "scott_chief@mars.org",
		Job:                "deployment of residential modules 1 and 2",
		WorkSize:           15,
		CollaboratorEmails: []string{"nick_valley@mars.org", "elon_musk@mars.org"},
		IsFinished:         false,
	},
}

// Seeder idempotently populates the well-known colonists and jobs.
type Seeder struct {
	users        repositories.UserRepository
	jobs         repositories.JobRepository
	credentials  *CredentialStore
	seedPassword string
}

// NewSeeder creates a Seeder. With an empty seedPassword the seeded accounts
// get an unusable password hash and cannot log in.
func NewSeeder(users repositories.UserRepository, jobs repositories.JobRepository, credentials *CredentialStore, seedPassword string) *Seeder {
	return &Seeder{
		users:        users,
		jobs:         jobs,
		credentials:  credentials,
		seedPassword: seedPassword,
	}
}

// Run seeds DefaultColonists and then DefaultJobs.
func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.SeedUsers(ctx, DefaultColonists); err != nil {
		return err
	}
	if _, err := s.SeedJobs(ctx, DefaultJobs); err != nil {
		return err
	}
	return nil
}

// SeedUsers creates every profile whose email is not registered yet and
// returns how many were created.
func (s *Seeder) SeedUsers(ctx context.Context, profiles []Profile) (int, error) {
	created := 0
	for _, profile := range profiles {
		_, err := s.users.GetByEmail(ctx, profile.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrNotFound) {
			return created, fmt.Errorf("failed to seed user %s: %w", profile.Email, err)
		}

		hash, err := s.passwordHash()
		if err != nil {
			return created, err
		}
		user := profile.toUser(hash)
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrDuplicateEmail) {
				continue // Seeded concurrently by another process
			}
			return created, fmt.Errorf("failed to seed user %s: %w", profile.Email, err)
		}
		created++
		log.Printf("Seeded colonist: %s %s (ID: %d)", user.Surname, user.Name, user.ID)
	}
	return created, nil
}

// SeedJobs creates every job that has no fully equal row yet and returns how
// many were created. Referenced colonists must exist.
func (s *Seeder) SeedJobs(ctx context.Context, seeds []SeedJob) (int, error) {
	created := 0
	for _, seed := range seeds {
		job, err := s.resolveJob(ctx, seed)
		if err != nil {
			return created, err
		}

		_, err = s.jobs.FindEqual(ctx, job)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrNotFound) {
			return created, fmt.Errorf("failed to seed job %q: %w", seed.Job, err)
		}

		if err := s.jobs.Create(ctx, job); err != nil {
			return created, fmt.Errorf("failed to seed job %q: %w", seed.Job, err)
		}
		created++
		log.Printf("Seeded job: %s (ID: %d)", job.Job, job.ID)
	}
	return created, nil
}

func (s *Seeder) resolveJob(ctx context.Context, seed SeedJob) (*models.Job, error) {
	leader, err := s.users.GetByEmail(ctx, seed.TeamLeaderEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team leader %s: %w", seed.TeamLeaderEmail, err)
	}

	job := &models.Job{
		TeamLeaderID: leader.ID,
		Job:          seed.Job,
		WorkSize:     seed.WorkSize,
		IsFinished:   seed.IsFinished,
	}
	for i, email := range seed.CollaboratorEmails {
		collaborator, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve collaborator %s: %w", email, err)
		}
		job.Collaborators = append(job.Collaborators, models.JobCollaborator{
			Position: i + 1,
			UserID:   collaborator.ID,
		})
	}
	return job, nil
}

func (s *Seeder) passwordHash() (string, error) {
	if s.seedPassword == "" {
		return s.credentials.UnusableHash(), nil
	}
	return s.credentials.Hash(s.seedPassword)
}
