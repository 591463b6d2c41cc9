package model

import "time"

// SentStatusHistory is one row of the append-only audit trail. A row is
// written for every status-affecting operation, including the implicit
// PENDING->SENT hop at creation. Rows are never updated or deleted.
type SentStatusHistory struct {
	ID          int64     `json:"id"`
	SentID      string    `json:"sent_id"`
	FromStatus  Status    `json:"from_status"`
	ToStatus    Status    `json:"to_status"`
	ChangedByID string    `json:"changed_by_id"`
	ChangedAt   time.Time `json:"changed_at"`
}
