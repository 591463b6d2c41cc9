package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
)

var documentTestColumns = []string{"id", "filename", "storage_path", "size", "content_type", "uploaded_by", "created_at"}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          "doc-1",
		Filename:    "memo.pdf",
		StoragePath: "documents/doc-1.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		UploadedBy:  "user-a",
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(documentTestColumns).
		AddRow(doc.ID, doc.Filename, doc.StoragePath, doc.Size, doc.ContentType, doc.UploadedBy, doc.CreatedAt)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Filename, doc.StoragePath, doc.Size, doc.ContentType, doc.UploadedBy, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, int64(2048), result.Size)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentTestColumns).
			AddRow("doc-1", "memo.pdf", "documents/doc-1.pdf", 100, "application/pdf", "user-a", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id =").
			WithArgs("doc-1").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "doc-1", doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id =").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestDocumentPostgres_ListBySent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(documentTestColumns).
		AddRow("doc-1", "memo.pdf", "documents/doc-1.pdf", 100, "application/pdf", "user-a", now).
		AddRow("doc-2", "annex.xlsx", "documents/doc-2.xlsx", 200,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "user-a", now.Add(time.Second))

	mock.ExpectQuery("SELECT (.+) FROM documents d JOIN sent_documents sd ON sd.document_id = d.id WHERE sd.sent_id =").
		WithArgs("sent-1").
		WillReturnRows(rows)

	docs, err := repo.ListBySent(ctx, "sent-1")

	assert.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, "annex.xlsx", docs[1].Filename)
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "created_at"}).
			AddRow("user-b", "Somsri", "Jaidee", "b@example.com", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
			WithArgs("b@example.com").
			WillReturnRows(rows)

		u, err := repo.FindByEmail(ctx, "b@example.com")

		assert.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "user-b", u.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByEmail(ctx, "nobody@example.com")

		assert.Nil(t, u)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}
