package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk/chamados/internal/domain"
)

// TicketFilter captures dashboard search parameters. All set fields
// combine with AND semantics.
type TicketFilter struct {
	RequesterID  *int64
	TitleSearch  *string
	Status       *domain.TicketStatus
	Priority     *domain.TicketPriority
	TechnicianID *int64
	// Unassigned selects tickets with no technician. Mutually
	// exclusive with TechnicianID; when both are set Unassigned wins.
	Unassigned bool
}

// TicketSummary is a listing row enriched with display names.
type TicketSummary struct {
	domain.Ticket
	RequesterName  string
	TechnicianName *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]TicketSummary, error)
	WithTx(q Querier) TicketRepository
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) WithTx(q Querier) TicketRepository {
	return &ticketRepository{db: q}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, category, status, priority, requester_id, technician_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Status,
		ticket.Priority,
		ticket.RequesterID,
		ticket.TechnicianID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, category=$3, status=$4, priority=$5,
            technician_id=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Status,
		ticket.Priority,
		ticket.TechnicianID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, category, status, priority, requester_id, technician_id,
               created_at, updated_at
        FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Status,
		&ticket.Priority,
		&ticket.RequesterID,
		&ticket.TechnicianID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]TicketSummary, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TicketSummary
	for rows.Next() {
		var summary TicketSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.Description,
			&summary.Category,
			&summary.Status,
			&summary.Priority,
			&summary.RequesterID,
			&summary.TechnicianID,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.RequesterName,
			&summary.TechnicianName,
		); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

func buildListQuery(filter TicketFilter) (string, []any) {
	base := `SELECT t.id, t.title, t.description, t.category, t.status, t.priority,
                    t.requester_id, t.technician_id, t.created_at, t.updated_at,
                    req.username, tech.username
             FROM tickets t
             JOIN accounts req ON req.id = t.requester_id
             LEFT JOIN accounts tech ON tech.id = t.technician_id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("t.requester_id=$%d", len(args)))
	}
	if filter.TitleSearch != nil && strings.TrimSpace(*filter.TitleSearch) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.TitleSearch))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(t.title) LIKE $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("t.priority=$%d", len(args)))
	}
	if filter.Unassigned {
		clauses = append(clauses, "t.technician_id IS NULL")
	} else if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("t.technician_id=$%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY t.created_at DESC",
		base, strings.Join(clauses, " AND "))
	return query, args
}
