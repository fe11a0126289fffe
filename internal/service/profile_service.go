package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/repository"
)

// ProfileService handles account administration: listing profiles and
// changing display names, plans, and roles.
type ProfileService struct {
	profiles *repository.ProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// List returns a page of profiles plus the total count.
func (s *ProfileService) List(ctx context.Context, page, perPage int) ([]model.Profile, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	total, err := s.profiles.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	profiles, err := s.profiles.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Update applies display name, plan, and role changes to a profile.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.SubscriptionPlan != nil {
		profile.SubscriptionPlan = *req.SubscriptionPlan
	}
	if req.Role != nil {
		profile.Role = *req.Role
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
