package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/helpdesk/chamados/internal/auth"
	"github.com/helpdesk/chamados/internal/domain"
	"github.com/helpdesk/chamados/internal/repository"
	"github.com/helpdesk/chamados/pkg/errorutil"
)

// RegisterInput describes the registration form payload.
type RegisterInput struct {
	Username        string `validate:"required,max=150"`
	Email           string `validate:"required,email,max=254"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
	// Role is optional; empty defaults to requester.
	Role string
}

// RegistrationService creates accounts together with their role
// profile. Account and profile are written in a single transaction so
// the one-profile-per-account invariant holds without a reactive hook.
type RegistrationService struct {
	tx         repository.Transactor
	accounts   repository.AccountRepository
	profiles   repository.ProfileRepository
	validate   *validator.Validate
	bcryptCost int
}

// RegistrationDependencies bundles requirements for the service.
type RegistrationDependencies struct {
	Transactor  repository.Transactor
	AccountRepo repository.AccountRepository
	ProfileRepo repository.ProfileRepository
	BcryptCost  int
}

// NewRegistrationService builds the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		tx:         deps.Transactor,
		accounts:   deps.AccountRepo,
		profiles:   deps.ProfileRepo,
		validate:   validator.New(),
		bcryptCost: deps.BcryptCost,
	}
}

// Register validates the form and creates account plus profile. All
// validation failures return user-facing messages and commit nothing.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*domain.Account, *domain.Profile, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.Role = strings.TrimSpace(input.Role)

	if err := s.validate.Struct(input); err != nil {
		return nil, nil, errorutil.NewValidationError("Preencha todos os campos corretamente.", nil)
	}
	if input.Password != input.ConfirmPassword {
		return nil, nil, errorutil.NewValidationError("As senhas não coincidem.", nil)
	}

	role := domain.RoleRequester
	if input.Role != "" {
		role = domain.Role(input.Role)
		if !role.Valid() {
			return nil, nil, errorutil.NewValidationError("Tipo de conta inválido.", nil)
		}
	}

	taken, err := s.accounts.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, nil, errorutil.MapError(err)
	}
	if taken {
		return nil, nil, errorutil.NewValidationError("Este usuário já está em uso.", nil)
	}

	taken, err = s.accounts.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, errorutil.MapError(err)
	}
	if taken {
		return nil, nil, errorutil.NewValidationError("Este e-mail já está em uso.", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, errorutil.MapError(err)
	}

	account := &domain.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	profile := &domain.Profile{Role: role}

	err = s.tx.InTx(ctx, func(q repository.Querier) error {
		if err := s.accounts.WithTx(q).Create(ctx, account); err != nil {
			return err
		}
		profile.AccountID = account.ID
		return s.profiles.WithTx(q).Create(ctx, profile)
	})
	if err != nil {
		return nil, nil, errorutil.MapError(err)
	}
	return account, profile, nil
}
