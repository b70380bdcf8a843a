package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/faithingod1/parish-record/internal/auth"
	dom "github.com/faithingod1/parish-record/internal/domain"
	"github.com/faithingod1/parish-record/internal/repo"
	"github.com/faithingod1/parish-record/internal/utils"
)

// ErrInvalidCredentials is deliberately the same for an unknown username and
// a wrong password, so login failures cannot be used to enumerate users.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService handles credential checks and the bootstrap admin account.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// ValidateCredentials checks username and password; returns the user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap account when the user table is empty.
// The default credentials are a deployment responsibility; see config.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.repo.Create(ctx, strings.TrimSpace(username), hash); err != nil {
		// Another instance won the race; the account exists either way.
		if utils.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}
