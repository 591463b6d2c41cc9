package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository"
)

var sentTestColumns = []string{
	"id", "parent_sent_id", "thread_id", "depth", "sender_id", "receiver_id", "is_forwarded", "status",
	"number", "category", "subject", "description", "remark",
	"sent_at", "received_at", "read_at", "archived_at", "status_changed_at", "status_by_id", "created_at",
}

func sentRow(s *model.Sent) *sqlmock.Rows {
	return sqlmock.NewRows(sentTestColumns).AddRow(
		s.ID, s.ParentSentID, s.ThreadID, s.Depth, s.SenderID, s.ReceiverID, s.IsForwarded, s.Status,
		s.Number, s.Category, s.Subject, s.Description, s.Remark,
		s.SentAt, s.ReceivedAt, s.ReadAt, s.ArchivedAt, s.StatusChangedAt, s.StatusByID, s.CreatedAt,
	)
}

func testSent() *model.Sent {
	now := time.Now().UTC()
	actor := "user-a"
	return &model.Sent{
		ID:              "sent-1",
		ThreadID:        "sent-1",
		Depth:           0,
		SenderID:        "user-a",
		ReceiverID:      "user-b",
		Status:          model.StatusSent,
		Subject:         "budget review",
		SentAt:          now,
		StatusChangedAt: now,
		StatusByID:      &actor,
		CreatedAt:       now,
	}
}

func testHistory(s *model.Sent) *model.SentStatusHistory {
	return &model.SentStatusHistory{
		SentID:      s.ID,
		FromStatus:  model.StatusPending,
		ToStatus:    model.StatusSent,
		ChangedByID: s.SenderID,
		ChangedAt:   s.SentAt,
	}
}

func TestSentPostgres_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts record, links and history in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewSentPostgres(db)
		s := testSent()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO sents").
			WillReturnRows(sentRow(s))
		mock.ExpectExec("INSERT INTO sent_documents").
			WithArgs("sent-1", "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO sent_documents").
			WithArgs("sent-1", "doc-2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO sent_status_history").
			WithArgs("sent-1", model.StatusPending, model.StatusSent, "user-a", s.SentAt).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		out, err := repo.Create(ctx, s, []string{"doc-1", "doc-2"}, testHistory(s))

		assert.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, "sent-1", out.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateSend", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewSentPostgres(db)
		s := testSent()
		parent := "parent-1"
		s.ParentSentID = &parent

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO sents").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_sents_parent_sender"})
		mock.ExpectRollback()

		out, err := repo.Create(ctx, s, nil, testHistory(s))

		assert.Nil(t, out)
		assert.ErrorIs(t, err, repository.ErrDuplicateSend)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("link failure rolls everything back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewSentPostgres(db)
		s := testSent()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO sents").
			WillReturnRows(sentRow(s))
		mock.ExpectExec("INSERT INTO sent_documents").
			WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		_, err = repo.Create(ctx, s, []string{"doc-1"}, testHistory(s))

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		s := testSent()
		mock.ExpectQuery("SELECT (.+) FROM sents WHERE id =").
			WithArgs("sent-1").
			WillReturnRows(sentRow(s))

		out, err := repo.FindByID(ctx, "sent-1")
		assert.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, "user-b", out.ReceiverID)
		assert.Nil(t, out.ParentSentID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sents WHERE id =").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		out, err := repo.FindByID(ctx, "missing")
		assert.Nil(t, out)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestSentPostgres_FindByParentAndSender(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSentPostgres(db)
	ctx := context.Background()

	t.Run("existing action", func(t *testing.T) {
		s := testSent()
		parent := "parent-1"
		s.ParentSentID = &parent

		mock.ExpectQuery("SELECT (.+) FROM sents WHERE parent_sent_id = (.+) AND sender_id =").
			WithArgs("parent-1", "user-a").
			WillReturnRows(sentRow(s))

		out, err := repo.FindByParentAndSender(ctx, "parent-1", "user-a")
		assert.NoError(t, err)
		require.NotNil(t, out)
		require.NotNil(t, out.ParentSentID)
		assert.Equal(t, "parent-1", *out.ParentSentID)
	})

	t.Run("no action yet", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sents WHERE parent_sent_id = (.+) AND sender_id =").
			WithArgs("parent-1", "user-z").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByParentAndSender(ctx, "parent-1", "user-z")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestSentPostgres_ListByThread(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(sentTestColumns).
		AddRow("root", nil, "root", 0, "user-a", "user-b", false, model.StatusSent,
			"", "", "s", "", "", now, nil, nil, nil, now, nil, now).
		AddRow("reply-1", "root", "root", 1, "user-b", "user-a", false, model.StatusSent,
			"", "", "re: s", "", "", now.Add(time.Hour), nil, nil, nil, now, nil, now)

	mock.ExpectQuery("SELECT (.+) FROM sents WHERE thread_id = (.+) ORDER BY depth ASC, sent_at ASC, id ASC").
		WithArgs("root").
		WillReturnRows(rows)

	items, err := repo.ListByThread(ctx, "root")
	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "root", items[0].ID)
	require.NotNil(t, items[1].ParentSentID)
	assert.Equal(t, "root", *items[1].ParentSentID)
}

func TestSentPostgres_ListByReceiver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM sents WHERE receiver_id =").
		WithArgs("user-b").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	s := testSent()
	mock.ExpectQuery("SELECT (.+) FROM sents WHERE receiver_id = (.+) ORDER BY sent_at DESC").
		WithArgs("user-b", 10, 0).
		WillReturnRows(sentRow(s))

	res, err := repo.ListByReceiver(ctx, "user-b", repository.PageQuery{Limit: 10, Offset: 0})
	assert.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Items, 1)
}

func TestSentPostgres_TransitionStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("updates and appends history atomically", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewSentPostgres(db)
		s := testSent()
		now := time.Now().UTC()
		s.Status = model.StatusRead
		s.ReceivedAt = &now
		s.ReadAt = &now
		s.StatusChangedAt = now

		hist := &model.SentStatusHistory{
			SentID:      s.ID,
			FromStatus:  model.StatusSent,
			ToStatus:    model.StatusRead,
			ChangedByID: "user-b",
			ChangedAt:   now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE sents").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO sent_status_history").
			WithArgs("sent-1", model.StatusSent, model.StatusRead, "user-b", now).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err = repo.TransitionStatus(ctx, s, hist)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("vanished row maps to sql.ErrNoRows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewSentPostgres(db)
		s := testSent()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE sents").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.TransitionStatus(ctx, s, testHistory(s))
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStatusHistoryPostgres_ListBySent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStatusHistoryPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "sent_id", "from_status", "to_status", "changed_by_id", "changed_at"}).
		AddRow(1, "sent-1", model.StatusPending, model.StatusSent, "user-a", now).
		AddRow(2, "sent-1", model.StatusSent, model.StatusRead, "user-b", now.Add(time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM sent_status_history WHERE sent_id = (.+) ORDER BY changed_at ASC").
		WithArgs("sent-1").
		WillReturnRows(rows)

	items, err := repo.ListBySent(ctx, "sent-1")
	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.StatusPending, items[0].FromStatus)
	assert.Equal(t, model.StatusRead, items[1].ToStatus)
}
