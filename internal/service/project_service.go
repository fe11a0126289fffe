package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/repository"
)

// ProjectService handles project CRUD and plan limit enforcement.
type ProjectService struct {
	projects *repository.ProjectRepository
	profiles *repository.ProfileRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects *repository.ProjectRepository, profiles *repository.ProfileRepository) *ProjectService {
	return &ProjectService{projects: projects, profiles: profiles}
}

// List returns all projects owned by the account.
func (s *ProjectService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	return s.projects.ListByOwner(ctx, ownerID)
}

// Get returns a single project, enforcing ownership.
func (s *ProjectService) Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if project.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return project, nil
}

// Create adds a project, enforcing the free plan cap.
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, req model.CreateProjectRequest) (*model.Project, error) {
	profile, err := s.profiles.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	if profile.SubscriptionPlan == model.PlanFree {
		count, err := s.projects.CountByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("count projects: %w", err)
		}
		if count >= model.FreePlanProjectLimit {
			return nil, ErrProjectLimit
		}
	}

	project := &model.Project{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// Update renames or redescribes a project, enforcing ownership.
func (s *ProjectService) Update(ctx context.Context, ownerID, projectID uuid.UUID, req model.UpdateProjectRequest) (*model.Project, error) {
	project, err := s.Get(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// Delete removes a project, enforcing ownership. Questionnaires in the
// project survive with their project reference cleared.
func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, projectID); err != nil {
		return err
	}
	return s.projects.Delete(ctx, projectID)
}
