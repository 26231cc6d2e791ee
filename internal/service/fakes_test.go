package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk/chamados/internal/domain"
	"github.com/helpdesk/chamados/internal/events"
	"github.com/helpdesk/chamados/internal/repository"
)

type fakeTransactor struct {
	failWith error
	calls    int
}

func (f *fakeTransactor) InTx(_ context.Context, fn func(q repository.Querier) error) error {
	f.calls++
	if f.failWith != nil {
		return f.failWith
	}
	return fn(nil)
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{nextID: 1, accounts: map[int64]*domain.Account{}}
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account.ID = f.nextID
	f.nextID++
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Username == username {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountRepo) WithTx(repository.Querier) repository.AccountRepository { return f }

type fakeProfileRepo struct {
	mu       sync.Mutex
	accounts *fakeAccountRepo
	profiles map[int64]*domain.Profile
}

func newFakeProfileRepo(accounts *fakeAccountRepo) *fakeProfileRepo {
	return &fakeProfileRepo{accounts: accounts, profiles: map[int64]*domain.Profile{}}
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *profile
	f.profiles[profile.AccountID] = &copied
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	return f.Create(context.Background(), profile)
}

func (f *fakeProfileRepo) GetByAccount(_ context.Context, accountID int64) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[accountID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) ListAccountsByRole(_ context.Context, role domain.Role) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Account
	for accountID, profile := range f.profiles {
		if profile.Role != role {
			continue
		}
		if account, ok := f.accounts.accounts[accountID]; ok {
			result = append(result, *account)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (f *fakeProfileRepo) WithTx(repository.Querier) repository.ProfileRepository { return f }

type fakeTicketRepo struct {
	mu         sync.Mutex
	nextID     int64
	tickets    map[int64]*domain.Ticket
	lastFilter *repository.TicketFilter
	updateErr  error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{nextID: 1, tickets: map[int64]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket.ID = f.nextID
	f.nextID++
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]repository.TicketSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = &filter
	var result []repository.TicketSummary
	for _, ticket := range f.tickets {
		if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
			continue
		}
		result = append(result, repository.TicketSummary{Ticket: *ticket})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeTicketRepo) WithTx(repository.Querier) repository.TicketRepository { return f }

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
	err     error
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.HistoryEntry
	for _, entry := range f.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (f *fakeHistoryRepo) CountByTicket(_ context.Context, ticketID int64) (int64, error) {
	entries, _ := f.ListByTicket(context.Background(), ticketID)
	return int64(len(entries)), nil
}

func (f *fakeHistoryRepo) WithTx(repository.Querier) repository.HistoryRepository { return f }

func (f *fakeHistoryRepo) descriptions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []string
	for _, entry := range f.entries {
		result = append(result, entry.Description)
	}
	return result
}

type fakeAttachmentRepo struct {
	mu          sync.Mutex
	nextID      int64
	attachments map[int64]*domain.Attachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{nextID: 1, attachments: map[int64]*domain.Attachment{}}
}

func (f *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	attachment.ID = f.nextID
	f.nextID++
	copied := *attachment
	f.attachments[attachment.ID] = &copied
	return nil
}

func (f *fakeAttachmentRepo) GetByTicket(_ context.Context, ticketID, attachmentID int64) (*domain.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	attachment, ok := f.attachments[attachmentID]
	if !ok || attachment.TicketID != ticketID {
		return nil, pgx.ErrNoRows
	}
	copied := *attachment
	return &copied, nil
}

func (f *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Attachment
	for _, attachment := range f.attachments {
		if attachment.TicketID == ticketID {
			result = append(result, *attachment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAttachmentRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.attachments, id)
	return nil
}

func (f *fakeAttachmentRepo) WithTx(repository.Querier) repository.AttachmentRepository { return f }

type fakeStore struct {
	mu        sync.Mutex
	saveErr   error
	removeErr error
	saved     []string
	removed   []string
}

func (f *fakeStore) Save(ticketID int64, filename string, r io.Reader) (string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", 0, f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	path := fmt.Sprintf("anexos/chamado_%d/%s", ticketID, filename)
	f.saved = append(f.saved, path)
	return path, int64(len(data)), nil
}

func (f *fakeStore) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, path)
	return nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (f *fakeDispatcher) types() []events.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []events.EventType
	for _, event := range f.events {
		result = append(result, event.Type)
	}
	return result
}
