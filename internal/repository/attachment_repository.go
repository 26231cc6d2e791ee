package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk/chamados/internal/domain"
)

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	// GetByTicket loads an attachment scoped to its owning ticket;
	// pgx.ErrNoRows when the attachment does not belong to the ticket.
	GetByTicket(ctx context.Context, ticketID, attachmentID int64) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error)
	Delete(ctx context.Context, id int64) error
	WithTx(q Querier) AttachmentRepository
}

type attachmentRepository struct {
	db Querier
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(db Querier) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) WithTx(q Querier) AttachmentRepository {
	return &attachmentRepository{db: q}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	const query = `
        INSERT INTO attachments (ticket_id, storage_path, original_name, size_bytes, account_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.StoragePath,
		attachment.OriginalName,
		attachment.SizeBytes,
		attachment.AccountID,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) GetByTicket(ctx context.Context, ticketID, attachmentID int64) (*domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, storage_path, original_name, size_bytes, account_id, created_at
        FROM attachments WHERE id=$1 AND ticket_id=$2`

	var attachment domain.Attachment
	if err := r.db.QueryRow(ctx, query, attachmentID, ticketID).Scan(
		&attachment.ID,
		&attachment.TicketID,
		&attachment.StoragePath,
		&attachment.OriginalName,
		&attachment.SizeBytes,
		&attachment.AccountID,
		&attachment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error) {
	const query = `
        SELECT ax.id, ax.ticket_id, ax.storage_path, ax.original_name, ax.size_bytes, ax.account_id,
               COALESCE(a.username, ''), ax.created_at
        FROM attachments ax
        LEFT JOIN accounts a ON a.id = ax.account_id
        WHERE ax.ticket_id=$1
        ORDER BY ax.created_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.StoragePath,
			&attachment.OriginalName,
			&attachment.SizeBytes,
			&attachment.AccountID,
			&attachment.UploaderName,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

func (r *attachmentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM attachments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
