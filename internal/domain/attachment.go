package domain

import (
	"fmt"
	"time"
)

// Attachment records metadata for a file uploaded to a ticket. The
// bytes themselves live in blob storage under StoragePath, which is
// derived from the owning ticket's id.
type Attachment struct {
	ID           int64
	TicketID     int64
	StoragePath  string
	OriginalName string
	SizeBytes    int64
	// AccountID is the uploading account. Nil when the account was
	// removed after the upload.
	AccountID *int64
	// UploaderName is resolved by the repository for display.
	UploaderName string
	CreatedAt    time.Time
}

// FormatSize renders the byte size with a human unit.
func (a *Attachment) FormatSize() string {
	size := float64(a.SizeBytes)
	for _, unit := range []string{"bytes", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}
