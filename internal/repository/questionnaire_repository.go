package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/insightflow/insightflow-backend/internal/model"
)

// QuestionnaireRepository handles questionnaire data access. Questions and
// settings are stored as JSONB documents since the builder always saves them
// wholesale.
type QuestionnaireRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionnaireRepository creates a new QuestionnaireRepository.
func NewQuestionnaireRepository(pool *pgxpool.Pool) *QuestionnaireRepository {
	return &QuestionnaireRepository{pool: pool}
}

const questionnaireColumns = `id, owner_id, project_id, title, description, status, questions, settings, created_at, updated_at`

func scanQuestionnaire(row interface{ Scan(...any) error }) (*model.Questionnaire, error) {
	q := &model.Questionnaire{}
	var questionsRaw, settingsRaw []byte
	err := row.Scan(&q.ID, &q.OwnerID, &q.ProjectID, &q.Title, &q.Description, &q.Status, &questionsRaw, &settingsRaw, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questionsRaw, &q.Questions); err != nil {
		return nil, err
	}
	if len(settingsRaw) > 0 {
		if err := json.Unmarshal(settingsRaw, &q.Settings); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func marshalDocs(q *model.Questionnaire) (questions, settings []byte, err error) {
	if q.Questions == nil {
		q.Questions = []model.Question{}
	}
	questions, err = json.Marshal(q.Questions)
	if err != nil {
		return nil, nil, err
	}
	if q.Settings != nil {
		settings, err = json.Marshal(q.Settings)
		if err != nil {
			return nil, nil, err
		}
	}
	return questions, settings, nil
}

// GetByID retrieves a questionnaire by ID.
func (r *QuestionnaireRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Questionnaire, error) {
	return scanQuestionnaire(r.pool.QueryRow(ctx,
		`SELECT `+questionnaireColumns+` FROM questionnaires WHERE id = $1`, id,
	))
}

// ListByOwner retrieves all questionnaires owned by the given account,
// newest first. If projectID is non-nil, only that project's questionnaires
// are returned.
func (r *QuestionnaireRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, projectID *uuid.UUID) ([]model.Questionnaire, error) {
	query := `SELECT ` + questionnaireColumns + ` FROM questionnaires WHERE owner_id = $1`
	args := []any{ownerID}
	if projectID != nil {
		query += ` AND project_id = $2`
		args = append(args, *projectID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questionnaires []model.Questionnaire
	for rows.Next() {
		q, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, err
		}
		questionnaires = append(questionnaires, *q)
	}
	return questionnaires, rows.Err()
}

// Create inserts a new questionnaire in draft status.
func (r *QuestionnaireRepository) Create(ctx context.Context, q *model.Questionnaire) error {
	questions, settings, err := marshalDocs(q)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questionnaires (owner_id, project_id, title, description, status, questions, settings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		q.OwnerID, q.ProjectID, q.Title, q.Description, q.Status, questions, settings,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update replaces the questionnaire's content wholesale.
func (r *QuestionnaireRepository) Update(ctx context.Context, q *model.Questionnaire) error {
	questions, settings, err := marshalDocs(q)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`UPDATE questionnaires
		 SET title = $2, description = $3, questions = $4, settings = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		q.ID, q.Title, q.Description, questions, settings,
	).Scan(&q.UpdatedAt)
}

// UpdateStatus transitions the questionnaire between draft and published.
func (r *QuestionnaireRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuestionnaireStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questionnaires SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	return err
}

// Delete removes a questionnaire and, via cascade, its responses.
func (r *QuestionnaireRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questionnaires WHERE id = $1`, id)
	return err
}

// ListPublished retrieves all published questionnaires. Used at startup to
// prewarm the survey payload cache.
func (r *QuestionnaireRepository) ListPublished(ctx context.Context) ([]model.Questionnaire, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionnaireColumns+` FROM questionnaires WHERE status = $1`,
		model.QuestionnaireStatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questionnaires []model.Questionnaire
	for rows.Next() {
		q, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, err
		}
		questionnaires = append(questionnaires, *q)
	}
	return questionnaires, rows.Err()
}

// CountByOwner returns total and published questionnaire counts for an account.
func (r *QuestionnaireRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (total, published int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'published')
		 FROM questionnaires WHERE owner_id = $1`, ownerID,
	).Scan(&total, &published)
	return total, published, err
}

// CountByProject returns total and published questionnaire counts for a project.
func (r *QuestionnaireRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (total, published int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'published')
		 FROM questionnaires WHERE project_id = $1`, projectID,
	).Scan(&total, &published)
	return total, published, err
}
