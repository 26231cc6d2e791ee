package repository

import (
	"context"

	"github.com/helpdesk/chamados/internal/domain"
)

// HistoryRepository stores the append-only change log per ticket.
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.HistoryEntry) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.HistoryEntry, error)
	CountByTicket(ctx context.Context, ticketID int64) (int64, error)
	WithTx(q Querier) HistoryRepository
}

type historyRepository struct {
	db Querier
}

// NewHistoryRepository builds repository.
func NewHistoryRepository(db Querier) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) WithTx(q Querier) HistoryRepository {
	return &historyRepository{db: q}
}

func (r *historyRepository) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, description, account_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		entry.TicketID,
		entry.Description,
		entry.AccountID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *historyRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT h.id, h.ticket_id, h.description, h.account_id, COALESCE(a.username, ''), h.created_at
        FROM ticket_history h
        LEFT JOIN accounts a ON a.id = h.account_id
        WHERE h.ticket_id=$1
        ORDER BY h.created_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Description,
			&entry.AccountID,
			&entry.ActorName,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *historyRepository) CountByTicket(ctx context.Context, ticketID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM ticket_history WHERE ticket_id=$1`
	var count int64
	err := r.db.QueryRow(ctx, query, ticketID).Scan(&count)
	return count, err
}
