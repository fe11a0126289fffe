package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/insightflow/insightflow-backend/internal/model"
)

// ResponseRepository handles submitted response data access. Answers are
// stored as a JSONB array of {questionId, value} pairs.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// Create inserts a submitted response.
func (r *ResponseRepository) Create(ctx context.Context, resp *model.QuestionnaireResponse) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO responses (questionnaire_id, answers)
		 VALUES ($1, $2)
		 RETURNING id, submitted_at`,
		resp.QuestionnaireID, answers,
	).Scan(&resp.ID, &resp.SubmittedAt)
}

// GetByID retrieves a single response.
func (r *ResponseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuestionnaireResponse, error) {
	resp := &model.QuestionnaireResponse{}
	var answersRaw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, questionnaire_id, answers, submitted_at
		 FROM responses WHERE id = $1`, id,
	).Scan(&resp.ID, &resp.QuestionnaireID, &answersRaw, &resp.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answersRaw, &resp.Answers); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListByQuestionnaire retrieves responses for a questionnaire, newest first.
func (r *ResponseRepository) ListByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID, limit, offset int) ([]model.QuestionnaireResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, questionnaire_id, answers, submitted_at
		 FROM responses WHERE questionnaire_id = $1
		 ORDER BY submitted_at DESC
		 LIMIT $2 OFFSET $3`, questionnaireID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.QuestionnaireResponse
	for rows.Next() {
		var resp model.QuestionnaireResponse
		var answersRaw []byte
		if err := rows.Scan(&resp.ID, &resp.QuestionnaireID, &answersRaw, &resp.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answersRaw, &resp.Answers); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// ListAllByQuestionnaire retrieves every response for a questionnaire.
// Used by per-question aggregation.
func (r *ResponseRepository) ListAllByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]model.QuestionnaireResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, questionnaire_id, answers, submitted_at
		 FROM responses WHERE questionnaire_id = $1
		 ORDER BY submitted_at`, questionnaireID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.QuestionnaireResponse
	for rows.Next() {
		var resp model.QuestionnaireResponse
		var answersRaw []byte
		if err := rows.Scan(&resp.ID, &resp.QuestionnaireID, &answersRaw, &resp.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answersRaw, &resp.Answers); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// CountByQuestionnaire returns how many responses a questionnaire received.
func (r *ResponseRepository) CountByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM responses WHERE questionnaire_id = $1`, questionnaireID,
	).Scan(&count)
	return count, err
}

// CountByOwner returns how many responses all of an account's
// questionnaires received in total.
func (r *ResponseRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM responses r
		 JOIN questionnaires q ON q.id = r.questionnaire_id
		 WHERE q.owner_id = $1`, ownerID,
	).Scan(&count)
	return count, err
}

// CountByProject returns how many responses a project's questionnaires
// received in total.
func (r *ResponseRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM responses r
		 JOIN questionnaires q ON q.id = r.questionnaire_id
		 WHERE q.project_id = $1`, projectID,
	).Scan(&count)
	return count, err
}

// MonthlyCountsByOwner returns per-month response counts for the account's
// questionnaires over the last `months` months, oldest first. Months with
// no responses are included with a zero count.
func (r *ResponseRepository) MonthlyCountsByOwner(ctx context.Context, ownerID uuid.UUID, months int) ([]model.MonthlyCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT to_char(m.month, 'YYYY-MM') AS month, COUNT(r.id)
		 FROM generate_series(
		     date_trunc('month', now()) - make_interval(months => $2 - 1),
		     date_trunc('month', now()),
		     interval '1 month'
		 ) AS m(month)
		 LEFT JOIN questionnaires q ON q.owner_id = $1
		 LEFT JOIN responses r
		     ON r.questionnaire_id = q.id
		     AND date_trunc('month', r.submitted_at) = m.month
		 GROUP BY m.month
		 ORDER BY m.month`, ownerID, months,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.MonthlyCount
	for rows.Next() {
		var mc model.MonthlyCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, mc)
	}
	return counts, rows.Err()
}
