package model

import "time"

// Document represents an uploaded file carried by one or more Sent records.
// Rows are immutable once created; re-sending an attachment along a chain
// links the same row to another Sent record instead of copying it.
// This is a pure domain model with no database-specific dependencies or tags.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
