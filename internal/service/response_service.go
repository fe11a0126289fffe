package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/insightflow/insightflow-backend/internal/config"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/repository"
	"github.com/insightflow/insightflow-backend/internal/survey"
)

// ValidationError carries per-question failures from server-side
// re-validation of a submission.
type ValidationError struct {
	Fields map[string]survey.ErrorKind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission failed validation on %d question(s)", len(e.Fields))
}

// ResponseService handles the public respondent flow: fetching a published
// survey, passcode checks, and accepting submissions. The fetch path is
// Redis-first with a database fallback that re-warms the cache.
type ResponseService struct {
	questionnaires *repository.QuestionnaireRepository
	responses      *repository.ResponseRepository
	qnService      *QuestionnaireService
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewResponseService creates a new ResponseService.
func NewResponseService(
	questionnaires *repository.QuestionnaireRepository,
	responses *repository.ResponseRepository,
	qnService *QuestionnaireService,
	rdb *redis.Client,
	log zerolog.Logger,
) *ResponseService {
	return &ResponseService{
		questionnaires: questionnaires,
		responses:      responses,
		qnService:      qnService,
		rdb:            rdb,
		log:            log,
	}
}

// FetchSurvey returns the respondent-facing payload of a published
// questionnaire. Draft questionnaires are indistinguishable from missing ones.
func (s *ResponseService) FetchSurvey(ctx context.Context, id uuid.UUID) (*model.SurveyPayload, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.SurveyPayloadKey(id.String())).Bytes()
	if err == nil {
		var payload model.SurveyPayload
		if err := json.Unmarshal(raw, &payload); err == nil {
			return &payload, nil
		}
		s.log.Warn().Str("questionnaire_id", id.String()).Msg("Corrupt survey cache entry, falling back to database")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Survey cache read failed, falling back to database")
	}

	// Cache miss. Load from the database and re-warm.
	q, err := s.questionnaires.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if q.Status != model.QuestionnaireStatusPublished {
		return nil, ErrNotPublished
	}

	if err := s.qnService.warmCache(ctx, q); err != nil {
		s.log.Warn().Err(err).Str("questionnaire_id", id.String()).Msg("Survey cache re-warm failed")
	}
	return BuildSurveyPayload(q), nil
}

// CheckPasscode verifies the supplied passcode against the stored one.
// Questionnaires without a passcode accept any input.
func (s *ResponseService) CheckPasscode(ctx context.Context, id uuid.UUID, passcode string) error {
	stored, err := s.rdb.Get(ctx, config.CacheKey.SurveyPasscodeKey(id.String())).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Passcode cache read failed, falling back to database")
		}
		q, dbErr := s.questionnaires.GetByID(ctx, id)
		if dbErr != nil {
			if errors.Is(dbErr, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return dbErr
		}
		if q.Settings == nil || q.Settings.Passcode == "" {
			return nil
		}
		stored = q.Settings.Passcode
	}

	if stored == "" {
		return nil
	}
	if passcode == "" {
		return ErrPasscodeRequired
	}
	if passcode != stored {
		return ErrPasscodeRejected
	}
	return nil
}

// Submit accepts a respondent's answers. Required/visibility checks are
// re-run server side so a tampered client cannot skip mandatory questions.
// Answers to hidden questions are kept as given; visibility only scopes
// which questions must be answered, never which answers are stored.
func (s *ResponseService) Submit(ctx context.Context, id uuid.UUID, passcode string, req model.SubmitResponseRequest) (*model.QuestionnaireResponse, error) {
	payload, err := s.FetchSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.CheckPasscode(ctx, id, passcode); err != nil {
		return nil, err
	}

	answers := req.AnswerSet()
	visible := survey.VisibleQuestions(&model.Questionnaire{Questions: payload.Questions}, answers)
	if errs := survey.Validate(visible, answers); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	resp := &model.QuestionnaireResponse{
		QuestionnaireID: id,
		Answers:         req.Answers,
	}
	if resp.Answers == nil {
		resp.Answers = []model.ResponseValue{}
	}
	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, fmt.Errorf("store response: %w", err)
	}

	s.afterSubmit(ctx, resp)
	return resp, nil
}

// afterSubmit fans the accepted response out to the counter, the live
// monitor channel, and the webhook queue. Failures here never fail the
// submission; the response is already durable.
func (s *ResponseService) afterSubmit(ctx context.Context, resp *model.QuestionnaireResponse) {
	id := resp.QuestionnaireID.String()

	total, err := s.rdb.Incr(ctx, config.CacheKey.ResponseCountKey(id)).Result()
	if err != nil {
		s.log.Warn().Err(err).Str("questionnaire_id", id).Msg("Response counter increment failed")
	}

	event := model.MonitorEvent{
		Type:            "response.received",
		QuestionnaireID: resp.QuestionnaireID,
		ResponseID:      resp.ID,
		SubmittedAt:     resp.SubmittedAt.UTC().Format(time.RFC3339),
		AnswerCount:     len(resp.Answers),
		TotalResponses:  total,
	}
	if raw, err := json.Marshal(event); err == nil {
		channel := config.CacheKey.ResponseMonitorChannel(id)
		if err := s.rdb.Publish(ctx, channel, raw).Err(); err != nil {
			s.log.Warn().Err(err).Str("questionnaire_id", id).Msg("Monitor publish failed")
		}
	}

	job := model.WebhookJob{
		QuestionnaireID: resp.QuestionnaireID,
		ResponseID:      resp.ID,
	}
	if raw, err := json.Marshal(job); err == nil {
		if err := s.rdb.RPush(ctx, config.WebhookQueue, raw).Err(); err != nil {
			s.log.Warn().Err(err).Str("questionnaire_id", id).Msg("Webhook enqueue failed")
		}
	}
}

// CountResponses returns the durable response total for a questionnaire.
func (s *ResponseService) CountResponses(ctx context.Context, questionnaireID uuid.UUID) (int, error) {
	return s.responses.CountByQuestionnaire(ctx, questionnaireID)
}

// ListResponses returns a page of responses for an owner's questionnaire,
// plus the total count.
func (s *ResponseService) ListResponses(ctx context.Context, ownerID, questionnaireID uuid.UUID, page, perPage int) ([]model.QuestionnaireResponse, int, error) {
	if _, err := s.qnService.Get(ctx, ownerID, questionnaireID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	total, err := s.responses.CountByQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.responses.ListByQuestionnaire(ctx, questionnaireID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
