package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository"
)

// SentPostgres is a PostgreSQL implementation of repository.SentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type SentPostgres struct {
	db *sql.DB
}

// NewSentPostgres creates a new SentPostgres repository.
func NewSentPostgres(db *sql.DB) *SentPostgres {
	return &SentPostgres{db: db}
}

var _ repository.SentRepository = (*SentPostgres)(nil)

const sentColumns = `id, parent_sent_id, thread_id, depth, sender_id, receiver_id, is_forwarded, status,
		number, category, subject, description, remark,
		sent_at, received_at, read_at, archived_at, status_changed_at, status_by_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSent(row rowScanner) (*model.Sent, error) {
	var s model.Sent
	if err := row.Scan(
		&s.ID,
		&s.ParentSentID,
		&s.ThreadID,
		&s.Depth,
		&s.SenderID,
		&s.ReceiverID,
		&s.IsForwarded,
		&s.Status,
		&s.Number,
		&s.Category,
		&s.Subject,
		&s.Description,
		&s.Remark,
		&s.SentAt,
		&s.ReceivedAt,
		&s.ReadAt,
		&s.ArchivedAt,
		&s.StatusChangedAt,
		&s.StatusByID,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts the Sent row, its document links, and the initial history row
// in one transaction. The ux_sents_parent_sender index rejects a second action
// by the same sender on the same parent; that violation surfaces as
// repository.ErrDuplicateSend.
func (r *SentPostgres) Create(ctx context.Context, s *model.Sent, documentIDs []string, hist *model.SentStatusHistory) (*model.Sent, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qInsert = `
		INSERT INTO sents (id, parent_sent_id, thread_id, depth, sender_id, receiver_id, is_forwarded, status,
			number, category, subject, description, remark,
			sent_at, received_at, read_at, archived_at, status_changed_at, status_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + sentColumns
	row := tx.QueryRowContext(ctx, qInsert,
		s.ID,
		s.ParentSentID,
		s.ThreadID,
		s.Depth,
		s.SenderID,
		s.ReceiverID,
		s.IsForwarded,
		s.Status,
		s.Number,
		s.Category,
		s.Subject,
		s.Description,
		s.Remark,
		s.SentAt,
		s.ReceivedAt,
		s.ReadAt,
		s.ArchivedAt,
		s.StatusChangedAt,
		s.StatusByID,
	)
	out, err := scanSent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateSend
		}
		return nil, err
	}

	const qLink = `INSERT INTO sent_documents (sent_id, document_id) VALUES ($1, $2)`
	for _, docID := range documentIDs {
		if _, err := tx.ExecContext(ctx, qLink, out.ID, docID); err != nil {
			return nil, fmt.Errorf("link document %s: %w", docID, err)
		}
	}

	if err := appendHistory(ctx, tx, out.ID, hist); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single Sent record by its ID.
func (r *SentPostgres) FindByID(ctx context.Context, id string) (*model.Sent, error) {
	const q = `SELECT ` + sentColumns + ` FROM sents WHERE id = $1`
	return scanSent(r.db.QueryRowContext(ctx, q, id))
}

// FindByParentAndSender returns the sender's existing action on a parent, if any.
func (r *SentPostgres) FindByParentAndSender(ctx context.Context, parentSentID, senderID string) (*model.Sent, error) {
	const q = `SELECT ` + sentColumns + ` FROM sents WHERE parent_sent_id = $1 AND sender_id = $2`
	return scanSent(r.db.QueryRowContext(ctx, q, parentSentID, senderID))
}

// ListByThread returns a thread's records in canonical order from one query.
func (r *SentPostgres) ListByThread(ctx context.Context, threadID string) ([]model.Sent, error) {
	const q = `
		SELECT ` + sentColumns + `
		FROM sents
		WHERE thread_id = $1
		ORDER BY depth ASC, sent_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Sent, 0)
	for rows.Next() {
		s, err := scanSent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByReceiver returns a page of records addressed to a user, newest first.
func (r *SentPostgres) ListByReceiver(ctx context.Context, receiverID string, pq repository.PageQuery) (*repository.PageResult[model.Sent], error) {
	const qCount = `SELECT COUNT(*) FROM sents WHERE receiver_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, receiverID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + sentColumns + `
		FROM sents
		WHERE receiver_id = $1
		ORDER BY sent_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, receiverID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Sent, 0)
	for rows.Next() {
		s, err := scanSent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Sent]{Items: items, Total: total}, nil
}

// TransitionStatus updates the record's status fields and appends the history
// row in the same transaction.
func (r *SentPostgres) TransitionStatus(ctx context.Context, s *model.Sent, hist *model.SentStatusHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qUpdate = `
		UPDATE sents
		SET status = $2, received_at = $3, read_at = $4, archived_at = $5, status_changed_at = $6, status_by_id = $7
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, qUpdate,
		s.ID,
		s.Status,
		s.ReceivedAt,
		s.ReadAt,
		s.ArchivedAt,
		s.StatusChangedAt,
		s.StatusByID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if err := appendHistory(ctx, tx, s.ID, hist); err != nil {
		return err
	}

	return tx.Commit()
}

func appendHistory(ctx context.Context, tx *sql.Tx, sentID string, hist *model.SentStatusHistory) error {
	const q = `
		INSERT INTO sent_status_history (sent_id, from_status, to_status, changed_by_id, changed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, q, sentID, hist.FromStatus, hist.ToStatus, hist.ChangedByID, hist.ChangedAt); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

// StatusHistoryPostgres is a PostgreSQL implementation of repository.StatusHistoryRepository.
type StatusHistoryPostgres struct {
	db *sql.DB
}

// NewStatusHistoryPostgres creates a new StatusHistoryPostgres repository.
func NewStatusHistoryPostgres(db *sql.DB) *StatusHistoryPostgres {
	return &StatusHistoryPostgres{db: db}
}

var _ repository.StatusHistoryRepository = (*StatusHistoryPostgres)(nil)

// ListBySent returns the audit trail for one record, oldest entry first.
func (r *StatusHistoryPostgres) ListBySent(ctx context.Context, sentID string) ([]model.SentStatusHistory, error) {
	const q = `
		SELECT id, sent_id, from_status, to_status, changed_by_id, changed_at
		FROM sent_status_history
		WHERE sent_id = $1
		ORDER BY changed_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, sentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SentStatusHistory, 0)
	for rows.Next() {
		var h model.SentStatusHistory
		if err := rows.Scan(&h.ID, &h.SentID, &h.FromStatus, &h.ToStatus, &h.ChangedByID, &h.ChangedAt); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
