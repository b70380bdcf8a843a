package repo

import (
	"context"
	"database/sql"
	"time"

	dom "github.com/faithingod1/parish-record/internal/domain"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Create(ctx context.Context, username, passwordHash string) (dom.User, error)
	Count(ctx context.Context) (int64, error)
}

// SQLiteUserRepo implements UserRepo over SQLite.
type SQLiteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo returns a new SQLiteUserRepo.
func NewSQLiteUserRepo(db *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

// GetByUsername returns the user by username. sql.ErrNoRows if absent.
func (r *SQLiteUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var (
		u         dom.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt)
	if err != nil {
		return dom.User{}, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// Create inserts a new user and returns it.
func (r *SQLiteUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	var (
		u         dom.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id, username, password_hash, created_at`,
		username, passwordHash, toMillis(time.Now()),
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt)
	if err != nil {
		return dom.User{}, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// Count returns the number of user accounts.
func (r *SQLiteUserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
