package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/insightflow/insightflow-backend/internal/model"
)

// ProfileRepository handles account data access.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, email, display_name, subscription_plan, role, password_hash, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.SubscriptionPlan, &p.Role, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a profile by ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id,
	))
}

// GetByEmail retrieves a profile by its unique email.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email,
	))
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO profiles (email, display_name, subscription_plan, role, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		p.Email, p.DisplayName, p.SubscriptionPlan, p.Role, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update persists display name, plan and role changes.
func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	return r.pool.QueryRow(ctx,
		`UPDATE profiles
		 SET display_name = $2, subscription_plan = $3, role = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		p.ID, p.DisplayName, p.SubscriptionPlan, p.Role,
	).Scan(&p.UpdatedAt)
}

// List retrieves profiles ordered by creation date, newest first.
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]model.Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// CountAll returns the total number of profiles.
func (r *ProfileRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}
