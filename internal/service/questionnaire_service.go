package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/insightflow/insightflow-backend/internal/config"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/repository"
)

// QuestionnaireService handles questionnaire CRUD and the publish lifecycle.
// Publishing prewarms the Redis survey payload cache so respondent traffic
// never needs the database on the hot path.
type QuestionnaireService struct {
	questionnaires *repository.QuestionnaireRepository
	projects       *repository.ProjectRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewQuestionnaireService creates a new QuestionnaireService.
func NewQuestionnaireService(
	questionnaires *repository.QuestionnaireRepository,
	projects *repository.ProjectRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *QuestionnaireService {
	return &QuestionnaireService{
		questionnaires: questionnaires,
		projects:       projects,
		rdb:            rdb,
		log:            log,
	}
}

// List returns the account's questionnaires, optionally scoped to a project.
func (s *QuestionnaireService) List(ctx context.Context, ownerID uuid.UUID, projectID *uuid.UUID) ([]model.Questionnaire, error) {
	return s.questionnaires.ListByOwner(ctx, ownerID, projectID)
}

// Get returns a single questionnaire, enforcing ownership.
func (s *QuestionnaireService) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Questionnaire, error) {
	q, err := s.questionnaires.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if q.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return q, nil
}

// Create adds a questionnaire in draft status.
func (s *QuestionnaireService) Create(ctx context.Context, ownerID uuid.UUID, req model.CreateQuestionnaireRequest) (*model.Questionnaire, error) {
	if req.ProjectID != nil {
		project, err := s.projects.GetByID(ctx, *req.ProjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if project.OwnerID != ownerID {
			return nil, ErrForbidden
		}
	}

	q := &model.Questionnaire{
		OwnerID:     ownerID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.QuestionnaireStatusDraft,
		Questions:   req.Questions,
		Settings:    req.Settings,
	}
	if err := s.questionnaires.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create questionnaire: %w", err)
	}
	return q, nil
}

// Update replaces the questionnaire's content wholesale, matching the
// builder's save semantics. A published questionnaire's cache is refreshed
// so respondents see the new content immediately.
func (s *QuestionnaireService) Update(ctx context.Context, ownerID, id uuid.UUID, req model.UpdateQuestionnaireRequest) (*model.Questionnaire, error) {
	q, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		q.Title = req.Title
	}
	if req.Description != nil {
		q.Description = *req.Description
	}
	if req.Questions != nil {
		q.Questions = req.Questions
	}
	if req.Settings != nil {
		q.Settings = req.Settings
	}

	if err := s.questionnaires.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update questionnaire: %w", err)
	}

	if q.Status == model.QuestionnaireStatusPublished {
		if err := s.warmCache(ctx, q); err != nil {
			s.log.Warn().Err(err).Str("questionnaire_id", q.ID.String()).Msg("Survey cache refresh failed")
		}
	}
	return q, nil
}

// Delete removes a questionnaire and evicts its cache entries.
func (s *QuestionnaireService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.questionnaires.Delete(ctx, id); err != nil {
		return err
	}
	s.evictCache(ctx, id)
	return nil
}

// Publish transitions a draft to published and prewarms the survey cache.
func (s *QuestionnaireService) Publish(ctx context.Context, ownerID, id uuid.UUID) (*model.Questionnaire, error) {
	q, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if q.Status != model.QuestionnaireStatusDraft {
		return nil, ErrNotDraft
	}
	if len(q.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	if err := s.questionnaires.UpdateStatus(ctx, id, model.QuestionnaireStatusPublished); err != nil {
		return nil, fmt.Errorf("publish questionnaire: %w", err)
	}
	q.Status = model.QuestionnaireStatusPublished

	if err := s.warmCache(ctx, q); err != nil {
		// The cache self-heals from the database on the first fetch.
		s.log.Warn().Err(err).Str("questionnaire_id", q.ID.String()).Msg("Survey cache prewarm failed")
	}
	return q, nil
}

// Unpublish returns a questionnaire to draft and evicts its cache entries.
func (s *QuestionnaireService) Unpublish(ctx context.Context, ownerID, id uuid.UUID) (*model.Questionnaire, error) {
	q, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if q.Status != model.QuestionnaireStatusPublished {
		return nil, ErrNotPublished
	}

	if err := s.questionnaires.UpdateStatus(ctx, id, model.QuestionnaireStatusDraft); err != nil {
		return nil, fmt.Errorf("unpublish questionnaire: %w", err)
	}
	q.Status = model.QuestionnaireStatusDraft

	s.evictCache(ctx, id)
	return q, nil
}

// PrewarmAllCaches loads every published questionnaire into Redis.
// Called at startup so the respondent hot path is warm from the first request.
func (s *QuestionnaireService) PrewarmAllCaches(ctx context.Context) error {
	published, err := s.questionnaires.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published: %w", err)
	}
	for i := range published {
		if err := s.warmCache(ctx, &published[i]); err != nil {
			s.log.Warn().Err(err).Str("questionnaire_id", published[i].ID.String()).Msg("Survey cache prewarm failed")
			continue
		}
	}
	s.log.Info().Int("count", len(published)).Msg("Survey caches prewarmed")
	return nil
}

// BuildSurveyPayload derives the respondent-facing view of a questionnaire.
// The stored passcode never leaves the server; only its presence is exposed.
func BuildSurveyPayload(q *model.Questionnaire) *model.SurveyPayload {
	passcode := ""
	if q.Settings != nil {
		passcode = q.Settings.Passcode
	}
	return &model.SurveyPayload{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Questions:        q.Questions,
		QuestionsPerPage: q.Settings.ResolvedPerPage(),
		RequiresPasscode: passcode != "",
	}
}

func (s *QuestionnaireService) warmCache(ctx context.Context, q *model.Questionnaire) error {
	payload := BuildSurveyPayload(q)
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	id := q.ID.String()
	if err := s.rdb.Set(ctx, config.CacheKey.SurveyPayloadKey(id), raw, 0).Err(); err != nil {
		return err
	}

	passcode := ""
	if q.Settings != nil {
		passcode = q.Settings.Passcode
	}
	if passcode != "" {
		return s.rdb.Set(ctx, config.CacheKey.SurveyPasscodeKey(id), passcode, 0).Err()
	}
	return s.rdb.Del(ctx, config.CacheKey.SurveyPasscodeKey(id)).Err()
}

func (s *QuestionnaireService) evictCache(ctx context.Context, id uuid.UUID) {
	keys := []string{
		config.CacheKey.SurveyPayloadKey(id.String()),
		config.CacheKey.SurveyPasscodeKey(id.String()),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Str("questionnaire_id", id.String()).Msg("Survey cache eviction failed")
	}
}
