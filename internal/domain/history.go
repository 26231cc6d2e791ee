package domain

import "time"

// HistoryEntry is an immutable log line recording one change to a
// ticket. Entries are only created as side effects of ticket mutations
// and are listed in ascending timestamp order.
type HistoryEntry struct {
	ID          int64
	TicketID    int64
	Description string
	// AccountID is the acting account. Nil when the account was
	// removed after the entry was written.
	AccountID *int64
	// ActorName is resolved by the repository for display; empty when
	// the acting account no longer exists.
	ActorName string
	CreatedAt time.Time
}
