package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-report/internal/domain"
)

// UserRepository encapsulates user persistence. GetByIdentifier matches a
// user by either email or national-ID number.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates the Postgres-backed repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, email, national_id, password_hash, role, language, created_at)
        VALUES ($1, NULLIF($2,''), NULLIF($3,''), $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.NationalID,
		user.PasswordHash,
		user.Role,
		user.Language,
		user.CreatedAt,
	)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, COALESCE(email,''), COALESCE(national_id,''), password_hash, role, language, created_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	const query = `
        SELECT id, COALESCE(email,''), COALESCE(national_id,''), password_hash, role, language, created_at
        FROM users WHERE email=$1 OR national_id=$1`
	return r.fetchSingle(ctx, query, identifier)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.NationalID,
		&user.PasswordHash,
		&user.Role,
		&user.Language,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
