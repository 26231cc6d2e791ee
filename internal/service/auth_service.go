package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk/chamados/internal/auth"
	"github.com/helpdesk/chamados/internal/domain"
	"github.com/helpdesk/chamados/internal/repository"
	"github.com/helpdesk/chamados/pkg/errorutil"
)

// ErrInvalidCredentials is returned for any login failure so the caller
// cannot tell whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService verifies credentials for session login.
type AuthService struct {
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
}

// NewAuthService builds the service.
func NewAuthService(accounts repository.AccountRepository, profiles repository.ProfileRepository) *AuthService {
	return &AuthService{accounts: accounts, profiles: profiles}
}

// Login authenticates a username/password pair and returns the account
// with its profile.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Account, *domain.Profile, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, errorutil.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := s.profiles.GetByAccount(ctx, account.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, errorutil.MapError(err)
	}
	return account, profile, nil
}
