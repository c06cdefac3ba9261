package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `uid, email, role, display_name, password_hash, created_at`

func (r *UserPostgres) FindByID(ctx context.Context, uid string) (*model.UserProfile, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, uid))
}

// FindByEmail matches emails case-insensitively.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *UserPostgres) Create(ctx context.Context, u *model.UserProfile) error {
	const q = `
		INSERT INTO users (uid, email, role, display_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, q,
		u.UID,
		u.Email,
		u.Role,
		u.DisplayName,
		u.PasswordHash,
		u.CreatedAt,
	)
	return err
}

func (r *UserPostgres) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *UserPostgres) scanOne(row *sql.Row) (*model.UserProfile, error) {
	var u model.UserProfile
	if err := row.Scan(
		&u.UID,
		&u.Email,
		&u.Role,
		&u.DisplayName,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
