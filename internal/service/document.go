package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/storage"
)

// allowedContentTypes is the attachment allow-list. Anything else is
// rejected before touching object storage.
var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/zip": {},
	"image/png":       {},
	"image/jpeg":      {},
	"text/plain":      {},
}

// Attachment is one already-validated file blob handed to the engine. The
// engine streams Reader to object storage and records the locator; it never
// buffers the content.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// DocumentService defines the use cases for handling attached documents.
type DocumentService interface {
	// Upload streams the attachment to object storage and records its
	// metadata, including the byte size, at creation time. The stored object
	// is deleted again if the metadata insert fails.
	Upload(ctx context.Context, actorID string, att Attachment) (*model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// ListBySent returns the documents carried by a hand-off.
	ListBySent(ctx context.Context, sentID string) ([]model.Document, error)

	// DownloadURL returns a time-limited URL for fetching the document content.
	DownloadURL(ctx context.Context, id string) (string, error)
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

const presignExpiry = 15 * time.Minute

func (s *documentService) Upload(ctx context.Context, actorID string, att Attachment) (*model.Document, error) {
	if att.Reader == nil {
		return nil, fmt.Errorf("%w: attachment reader is nil", ErrValidation)
	}
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor id is required", ErrValidation)
	}
	if _, ok := allowedContentTypes[att.ContentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAttachmentType, att.ContentType)
	}

	// Stored name is UUID + original extension; the original filename only
	// survives as display metadata.
	ext := filepath.Ext(att.Filename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, att.Reader, storage.PutObjectOptions{
		Size:        att.Size,
		ContentType: att.ContentType,
		Metadata: map[string]string{
			"original-filename": att.Filename,
			"uploaded-by":       actorID,
		},
	})
	if err != nil {
		return nil, persistence("upload to storage", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Filename:    att.Filename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		UploadedBy:  actorID,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, persistence("db save failed", fmt.Errorf("%v; rollback delete failed: %v", err, delErr))
		}
		return nil, persistence("db save failed", err)
	}
	return stored, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, persistence("find document", err)
	}
	return doc, nil
}

func (s *documentService) ListBySent(ctx context.Context, sentID string) ([]model.Document, error) {
	if sentID == "" {
		return nil, fmt.Errorf("%w: sent id is required", ErrValidation)
	}
	docs, err := s.repo.ListBySent(ctx, sentID)
	if err != nil {
		return nil, persistence("list documents", err)
	}
	return docs, nil
}

func (s *documentService) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, doc.StoragePath, presignExpiry)
	if err != nil {
		return "", persistence("presign download", err)
	}
	return u, nil
}
