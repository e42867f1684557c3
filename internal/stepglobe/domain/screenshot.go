package domain

import "time"

// Screenshot records an uploaded step screenshot and what was read from it.
type Screenshot struct {
	ID        string
	AccountID string
	ObjectKey string // "<account-id>/<id>.<ext>" in the blob store
	MimeType  string
	Steps     int64
	CreatedAt time.Time
}
