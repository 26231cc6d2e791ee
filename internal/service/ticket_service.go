package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/helpdesk/chamados/internal/auth"
	"github.com/helpdesk/chamados/internal/domain"
	"github.com/helpdesk/chamados/internal/events"
	"github.com/helpdesk/chamados/internal/repository"
	"github.com/helpdesk/chamados/pkg/errorutil"
)

// BlobStore abstracts physical attachment storage.
type BlobStore interface {
	Save(ticketID int64, filename string, r io.Reader) (string, int64, error)
	Remove(path string) error
}

// PermissionChecker answers role capability questions.
type PermissionChecker interface {
	Can(role domain.Role, resource, action string) bool
}

// UploadInput is one file submitted with a create or update form.
type UploadInput struct {
	Filename string
	Content  io.Reader
}

// CreateTicketInput describes the creation form payload.
type CreateTicketInput struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required"`
	Category    string `validate:"required"`
	Priority    string
}

// UpdateTicketInput describes the detail form payload. Empty field
// values mean "keep current". Technician distinguishes nil (field not
// submitted) from the empty string (clear the assignment).
type UpdateTicketInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	Technician  *string
}

// ListFilter describes dashboard query parameters before role scoping.
type ListFilter struct {
	Search      string
	Status      string
	Priority    string
	RequesterID string
	// TechnicianID holds an account id or the special value
	// "nao_atribuido" selecting unassigned tickets.
	TechnicianID string
}

// DashboardData is everything the dashboard page needs.
type DashboardData struct {
	Tickets     []repository.TicketSummary
	Requesters  []domain.Account
	Technicians []domain.Account
}

// TicketDetail is everything the detail page needs.
type TicketDetail struct {
	Ticket         *domain.Ticket
	RequesterName  string
	TechnicianName string
	History        []domain.HistoryEntry
	Attachments    []domain.Attachment
	Technicians    []domain.Account
}

// AttachmentDeletion reports the outcome of an attachment delete. A
// non-nil StorageErr means the metadata record was removed but the
// physical file could not be deleted; callers surface it as a warning.
type AttachmentDeletion struct {
	OriginalName string
	StorageErr   error
}

// TicketService coordinates the ticket workflow: listing, creation,
// updates and attachment deletion, appending history entries as a side
// effect of every mutation.
type TicketService struct {
	tx          repository.Transactor
	tickets     repository.TicketRepository
	accounts    repository.AccountRepository
	profiles    repository.ProfileRepository
	history     repository.HistoryRepository
	attachments repository.AttachmentRepository
	store       BlobStore
	perms       PermissionChecker
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	validate    *validator.Validate
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	Transactor     repository.Transactor
	TicketRepo     repository.TicketRepository
	AccountRepo    repository.AccountRepository
	ProfileRepo    repository.ProfileRepository
	HistoryRepo    repository.HistoryRepository
	AttachmentRepo repository.AttachmentRepository
	Store          BlobStore
	Permissions    PermissionChecker
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tx:          deps.Transactor,
		tickets:     deps.TicketRepo,
		accounts:    deps.AccountRepo,
		profiles:    deps.ProfileRepo,
		history:     deps.HistoryRepo,
		attachments: deps.AttachmentRepo,
		store:       deps.Store,
		perms:       deps.Permissions,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		validate:    validator.New(),
	}
}

// List returns the dashboard data for the caller. Technicians see every
// ticket; requesters only their own. Filters combine with AND semantics
// and results are ordered by creation time, newest first.
func (s *TicketService) List(ctx context.Context, principal *auth.Principal, filter ListFilter) (*DashboardData, error) {
	repoFilter := repository.TicketFilter{}

	if !s.perms.Can(principal.Role(), auth.ResourceTicket, auth.ActionViewAll) {
		id := principal.Account.ID
		repoFilter.RequesterID = &id
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		repoFilter.TitleSearch = &search
	}
	if filter.Status != "" {
		status := domain.TicketStatus(filter.Status)
		if status.Valid() {
			repoFilter.Status = &status
		}
	}
	if filter.Priority != "" {
		priority := domain.TicketPriority(filter.Priority)
		if priority.Valid() {
			repoFilter.Priority = &priority
		}
	}
	if filter.RequesterID != "" && repoFilter.RequesterID == nil {
		if id, err := strconv.ParseInt(filter.RequesterID, 10, 64); err == nil {
			repoFilter.RequesterID = &id
		}
	}
	if filter.TechnicianID == "nao_atribuido" {
		repoFilter.Unassigned = true
	} else if filter.TechnicianID != "" {
		if id, err := strconv.ParseInt(filter.TechnicianID, 10, 64); err == nil {
			repoFilter.TechnicianID = &id
		}
	}

	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	requesters, err := s.profiles.ListAccountsByRole(ctx, domain.RoleRequester)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	technicians, err := s.profiles.ListAccountsByRole(ctx, domain.RoleTechnician)
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	return &DashboardData{
		Tickets:     tickets,
		Requesters:  requesters,
		Technicians: technicians,
	}, nil
}

// Create opens a new ticket for the caller. Status is always forced to
// open regardless of any submitted value, uploads become attachments,
// and exactly one history entry summarizes the creation. Nothing is
// committed when validation fails.
func (s *TicketService) Create(ctx context.Context, principal *auth.Principal, input CreateTicketInput, uploads []UploadInput) (*domain.Ticket, error) {
	if !s.perms.Can(principal.Role(), auth.ResourceTicket, auth.ActionCreate) {
		return nil, errorutil.NewForbidden("ticket creation not allowed")
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate.Struct(input); err != nil {
		return nil, errorutil.NewValidationError("Preencha todos os campos obrigatórios.", nil)
	}
	category := domain.TicketCategory(input.Category)
	if !category.Valid() {
		return nil, errorutil.NewValidationError("Categoria inválida.", nil)
	}
	priority := domain.PriorityMedium
	if input.Priority != "" {
		priority = domain.TicketPriority(input.Priority)
		if !priority.Valid() {
			return nil, errorutil.NewValidationError("Prioridade inválida.", nil)
		}
	}

	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Category:    category,
		Status:      domain.StatusOpen,
		Priority:    priority,
		RequesterID: principal.Account.ID,
	}

	var savedPaths []string
	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		if err := s.tickets.WithTx(q).Create(ctx, ticket); err != nil {
			return err
		}

		attachmentRepo := s.attachments.WithTx(q)
		for _, upload := range uploads {
			path, size, err := s.store.Save(ticket.ID, upload.Filename, upload.Content)
			if err != nil {
				return fmt.Errorf("save upload %s: %w", upload.Filename, err)
			}
			savedPaths = append(savedPaths, path)

			accountID := principal.Account.ID
			if err := attachmentRepo.Create(ctx, &domain.Attachment{
				TicketID:     ticket.ID,
				StoragePath:  path,
				OriginalName: upload.Filename,
				SizeBytes:    size,
				AccountID:    &accountID,
			}); err != nil {
				return err
			}
		}

		message := fmt.Sprintf("Chamado criado por %s", principal.Username())
		if len(uploads) > 0 {
			message += fmt.Sprintf(" com %d anexo(s)", len(uploads))
		}
		return s.appendHistory(ctx, q, ticket.ID, principal.Account.ID, message)
	})
	if err != nil {
		// The database rolled back; stored files are on disk only.
		for _, path := range savedPaths {
			if removeErr := s.store.Remove(path); removeErr != nil {
				s.logger.Warn("orphaned upload cleanup failed", zap.String("path", path), zap.Error(removeErr))
			}
		}
		return nil, errorutil.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		AccountID: principal.Account.ID,
		Payload: events.TicketCreatedPayload{
			Title:           ticket.Title,
			Category:        ticket.Category,
			Priority:        ticket.Priority,
			AttachmentCount: len(uploads),
		},
	})
	return ticket, nil
}

// GetDetail loads the detail page data, enforcing the view gate: the
// caller must be a technician or the ticket's requester.
func (s *TicketService) GetDetail(ctx context.Context, principal *auth.Principal, ticketID int64) (*TicketDetail, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(principal, ticket) {
		return nil, errorutil.NewForbidden("Você não tem permissão para acessar este chamado.")
	}

	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	technicians, err := s.profiles.ListAccountsByRole(ctx, domain.RoleTechnician)
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	detail := &TicketDetail{
		Ticket:      ticket,
		History:     history,
		Attachments: attachments,
		Technicians: technicians,
	}
	if requester, err := s.accounts.GetByID(ctx, ticket.RequesterID); err == nil {
		detail.RequesterName = requester.Username
	}
	if ticket.TechnicianID != nil {
		if technician, err := s.accounts.GetByID(ctx, *ticket.TechnicianID); err == nil {
			detail.TechnicianName = technician.Username
		}
	}
	return detail, nil
}

// Update applies the detail form: new attachments, guarded field edits,
// status change and technician (re)assignment, each with its own
// history entry, all inside one transaction.
//
// Field edits only apply while the ticket is open and are silently
// skipped otherwise. Status and assignment changes are technician-only
// and silently skipped for requesters.
func (s *TicketService) Update(ctx context.Context, principal *auth.Principal, ticketID int64, input UpdateTicketInput, uploads []UploadInput) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(principal, ticket) {
		return nil, errorutil.NewForbidden("Você não tem permissão para acessar este chamado.")
	}

	newStatus, newTechnician, err := s.resolveUpdateTargets(ctx, principal, ticket, input)
	if err != nil {
		return nil, err
	}

	var (
		savedPaths    []string
		statusChanged bool
		oldStatus     = ticket.Status
	)
	assignmentChanged := false

	err = s.tx.InTx(ctx, func(q repository.Querier) error {
		attachmentRepo := s.attachments.WithTx(q)
		for _, upload := range uploads {
			path, size, err := s.store.Save(ticket.ID, upload.Filename, upload.Content)
			if err != nil {
				return fmt.Errorf("save upload %s: %w", upload.Filename, err)
			}
			savedPaths = append(savedPaths, path)

			accountID := principal.Account.ID
			if err := attachmentRepo.Create(ctx, &domain.Attachment{
				TicketID:     ticket.ID,
				StoragePath:  path,
				OriginalName: upload.Filename,
				SizeBytes:    size,
				AccountID:    &accountID,
			}); err != nil {
				return err
			}
		}
		if len(uploads) > 0 {
			message := fmt.Sprintf("%s adicionou %d anexo(s)", principal.Username(), len(uploads))
			if err := s.appendHistory(ctx, q, ticket.ID, principal.Account.ID, message); err != nil {
				return err
			}
		}

		// Guarded no-op: edits to a non-open ticket are ignored
		// without an error or history entry.
		if ticket.Status == domain.StatusOpen && s.perms.Can(principal.Role(), auth.ResourceTicket, auth.ActionEditFields) {
			applyFieldEdits(ticket, input)
		}

		if newStatus != nil && *newStatus != ticket.Status {
			message := fmt.Sprintf("Status alterado de '%s' para '%s'", ticket.Status.Label(), newStatus.Label())
			ticket.Status = *newStatus
			statusChanged = true
			if err := s.appendHistory(ctx, q, ticket.ID, principal.Account.ID, message); err != nil {
				return err
			}
		}

		if newTechnician != nil {
			var message string
			if newTechnician.account != nil {
				message = fmt.Sprintf("Técnico atribuído: %s", newTechnician.account.Username)
				ticket.TechnicianID = &newTechnician.account.ID
			} else {
				message = "Técnico removido"
				ticket.TechnicianID = nil
			}
			assignmentChanged = true
			if err := s.appendHistory(ctx, q, ticket.ID, principal.Account.ID, message); err != nil {
				return err
			}
		}

		return s.tickets.WithTx(q).Update(ctx, ticket)
	})
	if err != nil {
		for _, path := range savedPaths {
			if removeErr := s.store.Remove(path); removeErr != nil {
				s.logger.Warn("orphaned upload cleanup failed", zap.String("path", path), zap.Error(removeErr))
			}
		}
		return nil, errorutil.MapError(err)
	}

	if len(uploads) > 0 {
		s.publish(ctx, events.Event{
			Type:      events.EventTicketAttachmentsAdded,
			TicketID:  ticket.ID,
			AccountID: principal.Account.ID,
			Payload:   events.TicketAttachmentsAddedPayload{Count: len(uploads)},
		})
	}
	if statusChanged {
		s.publish(ctx, events.Event{
			Type:      events.EventTicketStatusChanged,
			TicketID:  ticket.ID,
			AccountID: principal.Account.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	if assignmentChanged {
		s.publish(ctx, events.Event{
			Type:      events.EventTicketAssigned,
			TicketID:  ticket.ID,
			AccountID: principal.Account.ID,
			Payload:   events.TicketAssignedPayload{TechnicianID: ticket.TechnicianID},
		})
	}
	return ticket, nil
}

// DeleteAttachment removes an attachment's physical file (best effort)
// and its metadata record, appending a history entry naming the file.
// The record is deleted even when the physical removal fails; that
// failure comes back in the result for the caller to surface as a
// warning.
func (s *TicketService) DeleteAttachment(ctx context.Context, principal *auth.Principal, ticketID, attachmentID int64) (*AttachmentDeletion, error) {
	attachment, err := s.attachments.GetByTicket(ctx, ticketID, attachmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("anexo", map[string]any{"attachment_id": attachmentID})
		}
		return nil, errorutil.MapError(err)
	}

	isUploader := attachment.AccountID != nil && *attachment.AccountID == principal.Account.ID
	if !s.perms.Can(principal.Role(), auth.ResourceAttachment, auth.ActionDelete) && !isUploader {
		return nil, errorutil.NewForbidden("Você não tem permissão para deletar este anexo.")
	}

	result := &AttachmentDeletion{OriginalName: attachment.OriginalName}
	if err := s.store.Remove(attachment.StoragePath); err != nil {
		s.logger.Warn("physical file removal failed",
			zap.String("path", attachment.StoragePath),
			zap.Error(err))
		result.StorageErr = err
	}

	err = s.tx.InTx(ctx, func(q repository.Querier) error {
		if err := s.attachments.WithTx(q).Delete(ctx, attachment.ID); err != nil {
			return err
		}
		message := fmt.Sprintf("Anexo \"%s\" foi deletado por %s", attachment.OriginalName, principal.Username())
		return s.appendHistory(ctx, q, ticketID, principal.Account.ID, message)
	})
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTicketAttachmentDeleted,
		TicketID:  ticketID,
		AccountID: principal.Account.ID,
		Payload:   events.TicketAttachmentDeletedPayload{OriginalName: attachment.OriginalName},
	})
	return result, nil
}

type technicianChange struct {
	// account is nil when the assignment is being cleared.
	account *domain.Account
}

// resolveUpdateTargets validates the status and technician parts of an
// update form up front, before any write happens. It returns nil for a
// part when it is absent, unchanged, or the caller lacks the role for
// it (silent skip, mirroring the form only offering those controls to
// technicians).
func (s *TicketService) resolveUpdateTargets(ctx context.Context, principal *auth.Principal, ticket *domain.Ticket, input UpdateTicketInput) (*domain.TicketStatus, *technicianChange, error) {
	var newStatus *domain.TicketStatus
	if input.Status != "" && s.perms.Can(principal.Role(), auth.ResourceTicket, auth.ActionChangeStatus) {
		status := domain.TicketStatus(input.Status)
		if !status.Valid() {
			return nil, nil, errorutil.NewValidationError("Status inválido.", nil)
		}
		if status != ticket.Status {
			newStatus = &status
		}
	}

	var change *technicianChange
	if input.Technician != nil && s.perms.Can(principal.Role(), auth.ResourceTicket, auth.ActionAssign) {
		submitted := strings.TrimSpace(*input.Technician)
		current := ""
		if ticket.TechnicianID != nil {
			current = strconv.FormatInt(*ticket.TechnicianID, 10)
		}
		if submitted != current {
			if submitted == "" {
				change = &technicianChange{}
			} else {
				id, err := strconv.ParseInt(submitted, 10, 64)
				if err != nil {
					return nil, nil, errorutil.NewNotFound("técnico", nil)
				}
				account, err := s.accounts.GetByID(ctx, id)
				if err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return nil, nil, errorutil.NewNotFound("técnico", map[string]any{"account_id": id})
					}
					return nil, nil, errorutil.MapError(err)
				}
				profile, err := s.profiles.GetByAccount(ctx, account.ID)
				if err != nil || !profile.IsTechnician() {
					return nil, nil, errorutil.NewValidationError("Técnico inválido.", nil)
				}
				change = &technicianChange{account: account}
			}
		}
	}
	return newStatus, change, nil
}

func applyFieldEdits(ticket *domain.Ticket, input UpdateTicketInput) {
	if title := strings.TrimSpace(input.Title); title != "" {
		ticket.Title = title
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		ticket.Description = description
	}
	if input.Category != "" {
		if category := domain.TicketCategory(input.Category); category.Valid() {
			ticket.Category = category
		}
	}
	if input.Priority != "" {
		if priority := domain.TicketPriority(input.Priority); priority.Valid() {
			ticket.Priority = priority
		}
	}
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("chamado", map[string]any{"ticket_id": ticketID})
		}
		return nil, errorutil.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) canAccess(principal *auth.Principal, ticket *domain.Ticket) bool {
	if s.perms.Can(principal.Role(), auth.ResourceTicket, auth.ActionViewAll) {
		return true
	}
	return ticket.RequesterID == principal.Account.ID
}

func (s *TicketService) appendHistory(ctx context.Context, q repository.Querier, ticketID, accountID int64, message string) error {
	return s.history.WithTx(q).Create(ctx, &domain.HistoryEntry{
		TicketID:    ticketID,
		Description: message,
		AccountID:   &accountID,
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
