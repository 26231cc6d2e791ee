package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk/chamados/internal/domain"
)

// ProfileRepository defines persistence access for role profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, profile *domain.Profile) error
	GetByAccount(ctx context.Context, accountID int64) (*domain.Profile, error)
	// ListAccountsByRole returns accounts holding the given role,
	// ordered by username. Used to populate dashboard filter and
	// assignment dropdowns.
	ListAccountsByRole(ctx context.Context, role domain.Role) ([]domain.Account, error)
	WithTx(q Querier) ProfileRepository
}

type profileRepository struct {
	db Querier
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(db Querier) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) WithTx(q Querier) ProfileRepository {
	return &profileRepository{db: q}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (account_id, role)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		profile.AccountID,
		profile.Role,
	).Scan(&profile.ID, &profile.CreatedAt)
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	const query = `UPDATE profiles SET role=$1 WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, profile.Role, profile.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) GetByAccount(ctx context.Context, accountID int64) (*domain.Profile, error) {
	const query = `
        SELECT id, account_id, role, created_at
        FROM profiles WHERE account_id=$1`

	var profile domain.Profile
	if err := r.db.QueryRow(ctx, query, accountID).Scan(
		&profile.ID,
		&profile.AccountID,
		&profile.Role,
		&profile.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ListAccountsByRole(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	const query = `
        SELECT a.id, a.username, a.email, a.password_hash, a.created_at, a.updated_at
        FROM accounts a
        JOIN profiles p ON p.account_id = a.id
        WHERE p.role=$1
        ORDER BY a.username`

	rows, err := r.db.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.Email,
			&account.PasswordHash,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}
