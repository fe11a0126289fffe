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

// TrendMonths is how far back the usage dashboard's response trend reaches.
const TrendMonths = 6

// StatsService aggregates responses into per-question distributions and
// account-level usage numbers.
type StatsService struct {
	profiles       *repository.ProfileRepository
	projects       *repository.ProjectRepository
	questionnaires *repository.QuestionnaireRepository
	responses      *repository.ResponseRepository
	qnService      *QuestionnaireService
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	profiles *repository.ProfileRepository,
	projects *repository.ProjectRepository,
	questionnaires *repository.QuestionnaireRepository,
	responses *repository.ResponseRepository,
	qnService *QuestionnaireService,
) *StatsService {
	return &StatsService{
		profiles:       profiles,
		projects:       projects,
		questionnaires: questionnaires,
		responses:      responses,
		qnService:      qnService,
	}
}

// QuestionStats tallies submitted answers per question of a questionnaire.
// Boolean and select questions get per-option counts; free-form types only
// report how many respondents answered.
func (s *StatsService) QuestionStats(ctx context.Context, ownerID, questionnaireID uuid.UUID) ([]model.QuestionStat, error) {
	q, err := s.qnService.Get(ctx, ownerID, questionnaireID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responses.ListAllByQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	stats := make([]model.QuestionStat, 0, len(q.Questions))
	for _, question := range q.Questions {
		stat := model.QuestionStat{
			QuestionID: question.ID,
			Title:      question.Title,
			Type:       question.Type,
		}

		counts := make(map[string]int)
		for _, resp := range responses {
			answer, ok := findAnswer(resp.Answers, question.ID)
			if !ok || answer.IsEmpty() {
				continue
			}
			stat.Answered++

			switch question.Type {
			case model.QuestionTypeBoolean, model.QuestionTypeSingleSelect:
				counts[answer.String()]++
			case model.QuestionTypeMultiSelect:
				for _, v := range answer.List() {
					counts[v]++
				}
			}
		}

		stat.Options = optionCounts(question, counts)
		stats = append(stats, stat)
	}
	return stats, nil
}

// findAnswer locates the answer for a question ID; the last entry wins,
// matching how submissions collapse into an answer map.
func findAnswer(answers []model.ResponseValue, questionID string) (model.AnswerValue, bool) {
	var found model.AnswerValue
	ok := false
	for _, a := range answers {
		if a.QuestionID == questionID {
			found = a.Value
			ok = true
		}
	}
	return found, ok
}

// optionCounts orders tallies by the question's declared options so charts
// render in authoring order. Boolean questions get a fixed Yes/No pair.
func optionCounts(q model.Question, counts map[string]int) []model.OptionCount {
	switch q.Type {
	case model.QuestionTypeBoolean:
		return []model.OptionCount{
			{Value: "true", Label: "Yes", Count: counts["true"]},
			{Value: "false", Label: "No", Count: counts["false"]},
		}
	case model.QuestionTypeSingleSelect, model.QuestionTypeMultiSelect:
		out := make([]model.OptionCount, 0, len(q.Options))
		for _, opt := range q.Options {
			out = append(out, model.OptionCount{
				Value: opt.Value,
				Label: opt.Label,
				Count: counts[opt.Value],
			})
		}
		return out
	default:
		return nil
	}
}

// ProjectUsage summarizes activity within one project, enforcing ownership.
func (s *StatsService) ProjectUsage(ctx context.Context, ownerID, projectID uuid.UUID) (*model.ProjectUsage, error) {
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

	total, published, err := s.questionnaires.CountByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("count questionnaires: %w", err)
	}

	responseCount, err := s.responses.CountByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}

	return &model.ProjectUsage{
		Questionnaires:          total,
		PublishedQuestionnaires: published,
		Responses:               responseCount,
	}, nil
}

// Usage summarizes the account's activity for the dashboard.
func (s *StatsService) Usage(ctx context.Context, ownerID uuid.UUID) (*model.UsageStats, error) {
	profile, err := s.profiles.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	projectCount, err := s.projects.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	total, published, err := s.questionnaires.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count questionnaires: %w", err)
	}

	responseCount, err := s.responses.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}

	trend, err := s.responses.MonthlyCountsByOwner(ctx, ownerID, TrendMonths)
	if err != nil {
		return nil, fmt.Errorf("response trend: %w", err)
	}

	limit := 0 // Unlimited
	if profile.SubscriptionPlan == model.PlanFree {
		limit = model.FreePlanProjectLimit
	}

	return &model.UsageStats{
		Projects:                projectCount,
		ProjectLimit:            limit,
		Questionnaires:          total,
		PublishedQuestionnaires: published,
		Responses:               responseCount,
		Plan:                    profile.SubscriptionPlan,
		ResponseTrend:           trend,
	}, nil
}
