package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/insightflow/insightflow-backend/internal/model"
)

// ProjectRepository handles project data access.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	p := &model.Project{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByOwner retrieves all projects owned by the given account,
// newest first.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM projects WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CountByOwner returns how many projects the account owns.
func (r *ProjectRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE owner_id = $1`, ownerID,
	).Scan(&count)
	return count, err
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO projects (owner_id, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.OwnerID, p.Name, p.Description,
	).Scan(&p.ID, &p.CreatedAt)
}

// Update persists name and description changes.
func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE projects SET name = $2, description = $3 WHERE id = $1`,
		p.ID, p.Name, p.Description,
	)
	return err
}

// Delete removes a project. Questionnaires in the project are detached,
// not deleted.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}
