package repository

import (
	"context"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record.
	// The caller provides required fields (ID, CreatedAt) according to the schema.
	// Returns the stored document (may include values set by the DB).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListBySent returns the documents linked to a Sent record, in the order
	// they were attached.
	ListBySent(ctx context.Context, sentID string) ([]model.Document, error)
}

// UserRepository resolves user references. User rows are owned by the
// surrounding system; the engine only reads them.
type UserRepository interface {
	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail resolves a routing counterpart by email address.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
