package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdesk/chamados/internal/domain"
	"github.com/helpdesk/chamados/pkg/errorutil"
)

func newRegistrationService() (*RegistrationService, *fakeAccountRepo, *fakeProfileRepo) {
	accounts := newFakeAccountRepo()
	profiles := newFakeProfileRepo(accounts)
	svc := NewRegistrationService(RegistrationDependencies{
		Transactor:  &fakeTransactor{},
		AccountRepo: accounts,
		ProfileRepo: profiles,
		BcryptCost:  bcrypt.MinCost,
	})
	return svc, accounts, profiles
}

func TestRegisterDefaultsToRequesterRole(t *testing.T) {
	svc, _, _ := newRegistrationService()

	account, profile, err := svc.Register(context.Background(), RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "segredo1",
		ConfirmPassword: "segredo1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, domain.RoleRequester, profile.Role)
	assert.NotEqual(t, "segredo1", account.PasswordHash)
}

func TestRegisterTechnicianRole(t *testing.T) {
	svc, _, profiles := newRegistrationService()

	account, profile, err := svc.Register(context.Background(), RegisterInput{
		Username:        "bruno",
		Email:           "bruno@example.com",
		Password:        "segredo1",
		ConfirmPassword: "segredo1",
		Role:            string(domain.RoleTechnician),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, profile.Role)

	stored, err := profiles.GetByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsTechnician())
}

func TestRegisterValidationFailures(t *testing.T) {
	svc, _, _ := newRegistrationService()

	seed := RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "segredo1",
		ConfirmPassword: "segredo1",
	}
	_, _, err := svc.Register(context.Background(), seed)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   RegisterInput
		message string
	}{
		{
			name: "password mismatch",
			input: RegisterInput{
				Username: "novo", Email: "novo@example.com",
				Password: "abc12345", ConfirmPassword: "outra",
			},
			message: "As senhas não coincidem.",
		},
		{
			name: "duplicate username",
			input: RegisterInput{
				Username: "alice", Email: "outra@example.com",
				Password: "abc12345", ConfirmPassword: "abc12345",
			},
			message: "Este usuário já está em uso.",
		},
		{
			name: "duplicate email",
			input: RegisterInput{
				Username: "novo", Email: "alice@example.com",
				Password: "abc12345", ConfirmPassword: "abc12345",
			},
			message: "Este e-mail já está em uso.",
		},
		{
			name: "invalid role",
			input: RegisterInput{
				Username: "novo", Email: "novo@example.com",
				Password: "abc12345", ConfirmPassword: "abc12345",
				Role: "GERENTE",
			},
			message: "Tipo de conta inválido.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.input)
			require.Error(t, err)
			domainErr := errorutil.ToDomainError(err)
			assert.Equal(t, tt.message, domainErr.Message)
		})
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc, accounts, _ := newRegistrationService()

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "sememail",
		Password: "abc12345", ConfirmPassword: "abc12345",
	})
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeValidation))

	exists, err := accounts.ExistsByUsername(context.Background(), "sememail")
	require.NoError(t, err)
	assert.False(t, exists)
}
