package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdesk/chamados/internal/auth"
	"github.com/helpdesk/chamados/internal/domain"
)

func TestLogin(t *testing.T) {
	accounts := newFakeAccountRepo()
	profiles := newFakeProfileRepo(accounts)
	svc := NewAuthService(accounts, profiles)

	hash, err := auth.HashPassword("senha-forte", bcrypt.MinCost)
	require.NoError(t, err)
	account := &domain.Account{Username: "alice", Email: "alice@example.com", PasswordHash: hash}
	require.NoError(t, accounts.Create(context.Background(), account))
	require.NoError(t, profiles.Create(context.Background(), &domain.Profile{
		AccountID: account.ID,
		Role:      domain.RoleTechnician,
	}))

	t.Run("valid credentials", func(t *testing.T) {
		got, profile, err := svc.Login(context.Background(), "alice", "senha-forte")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, domain.RoleTechnician, profile.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "alice", "errada")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "ninguem", "senha-forte")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginAccountWithoutProfile(t *testing.T) {
	accounts := newFakeAccountRepo()
	profiles := newFakeProfileRepo(accounts)
	svc := NewAuthService(accounts, profiles)

	hash, err := auth.HashPassword("senha-forte", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, accounts.Create(context.Background(), &domain.Account{
		Username: "orfao", Email: "orfao@example.com", PasswordHash: hash,
	}))

	_, _, err = svc.Login(context.Background(), "orfao", "senha-forte")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
