package repository

import (
	"context"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
)

// SentRepository defines data access for Sent records using SQL queries only.
// No business logic here — strictly persistence operations.
type SentRepository interface {
	// Create inserts a new Sent record, its document links, and the initial
	// status-history row in a single transaction. A violation of the
	// (parent_sent_id, sender_id) uniqueness constraint is reported as
	// ErrDuplicateSend.
	Create(ctx context.Context, s *model.Sent, documentIDs []string, hist *model.SentStatusHistory) (*model.Sent, error)

	// FindByID returns a Sent record by its ID.
	FindByID(ctx context.Context, id string) (*model.Sent, error)

	// FindByParentAndSender returns the record a given sender already created
	// against a parent hand-off, if any. Used as the fast-path duplicate
	// check before an insert.
	FindByParentAndSender(ctx context.Context, parentSentID, senderID string) (*model.Sent, error)

	// ListByThread returns every record of a thread in canonical order
	// (depth asc, sent_at asc, id asc) from a single query.
	ListByThread(ctx context.Context, threadID string) ([]model.Sent, error)

	// ListByReceiver returns a page of records addressed to a user, newest
	// first, plus the total row count.
	ListByReceiver(ctx context.Context, receiverID string, pq PageQuery) (*PageResult[model.Sent], error)

	// TransitionStatus persists an already-validated status change together
	// with its history row. Both writes happen in one transaction: the Sent
	// update and the history append succeed or fail together.
	TransitionStatus(ctx context.Context, s *model.Sent, hist *model.SentStatusHistory) error
}

// StatusHistoryRepository reads the append-only status audit trail. Rows are
// only ever written inside SentRepository transactions.
type StatusHistoryRepository interface {
	// ListBySent returns all history rows for a record, oldest first.
	ListBySent(ctx context.Context, sentID string) ([]model.SentStatusHistory, error)
}
