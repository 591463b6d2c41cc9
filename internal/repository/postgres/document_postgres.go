package postgres

import (
	"context"
	"database/sql"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, filename, storage_path, size, content_type, uploaded_by, created_at`

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Filename,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.UploadedBy,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, filename, storage_path, size, content_type, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Filename,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.UploadedBy,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// ListBySent returns the documents linked to a Sent record in attach order.
func (r *DocumentPostgres) ListBySent(ctx context.Context, sentID string) ([]model.Document, error) {
	const q = `
		SELECT d.id, d.filename, d.storage_path, d.size, d.content_type, d.uploaded_by, d.created_at
		FROM documents d
		JOIN sent_documents sd ON sd.document_id = d.id
		WHERE sd.sent_id = $1
		ORDER BY d.created_at ASC, d.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, sentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, first_name, last_name, email, created_at`

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID fetches a user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail resolves a user by email address.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}
