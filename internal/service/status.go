package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/notify"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository"
)

// allowedTransitions is the full transition table of the status state
// machine, keyed by actor role. Anything absent here is rejected; requesting
// the record's current status is an idempotent no-op handled before lookup.
// Transitions only ever move forward — there is no way back from any state.
var allowedTransitions = map[model.Role]map[model.Status][]model.Status{
	model.RoleSender: {
		model.StatusPending: {model.StatusSent},
	},
	model.RoleReceiver: {
		model.StatusSent:     {model.StatusReceived, model.StatusRead, model.StatusDone, model.StatusArchived},
		model.StatusReceived: {model.StatusRead, model.StatusDone, model.StatusArchived},
		model.StatusRead:     {model.StatusDone, model.StatusArchived},
	},
}

func canTransition(from, to model.Status, role model.Role) bool {
	for _, next := range allowedTransitions[role][from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusService applies status transitions to Sent records.
type StatusService interface {
	// Transition validates and applies a status change requested by actorID
	// and returns the updated record. The Sent update and its history row are
	// persisted atomically.
	Transition(ctx context.Context, sentID string, requested model.Status, actorID string) (*model.Sent, error)
}

type statusService struct {
	sents repository.SentRepository
	queue notify.Queue
	now   func() time.Time
}

// NewStatusService constructs a StatusService.
func NewStatusService(sents repository.SentRepository, queue notify.Queue) StatusService {
	return &statusService{sents: sents, queue: queue, now: func() time.Time { return time.Now().UTC() }}
}

func (s *statusService) Transition(ctx context.Context, sentID string, requested model.Status, actorID string) (*model.Sent, error) {
	if sentID == "" || actorID == "" {
		return nil, ErrValidation
	}

	rec, err := s.sents.FindByID(ctx, sentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, persistence("find sent", err)
	}

	role := rec.RoleOf(actorID)
	if role == model.RoleNone {
		return nil, &InvalidTransitionError{From: rec.Status, To: requested, Role: model.RoleNone}
	}

	// Idempotent: re-requesting the current status succeeds without writing.
	if requested == rec.Status {
		return rec, nil
	}

	if !canTransition(rec.Status, requested, role) {
		return nil, &InvalidTransitionError{From: rec.Status, To: requested, Role: role}
	}

	now := s.now()
	from := rec.Status
	rec.Status = requested
	rec.StatusChangedAt = now
	rec.StatusByID = &actorID

	switch requested {
	case model.StatusReceived:
		if rec.ReceivedAt == nil {
			rec.ReceivedAt = &now
		}
	case model.StatusRead:
		if rec.ReadAt == nil {
			rec.ReadAt = &now
		}
		// A record can be read without ever passing through RECEIVED.
		if rec.ReceivedAt == nil {
			rec.ReceivedAt = &now
		}
	case model.StatusArchived:
		if rec.ArchivedAt == nil {
			rec.ArchivedAt = &now
		}
	}

	hist := &model.SentStatusHistory{
		SentID:      rec.ID,
		FromStatus:  from,
		ToStatus:    requested,
		ChangedByID: actorID,
		ChangedAt:   now,
	}
	if err := s.sents.TransitionStatus(ctx, rec, hist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, persistence("transition status", err)
	}

	// Tell the counterpart; delivery is best-effort and detached.
	counterpart := rec.SenderID
	if role == model.RoleSender {
		counterpart = rec.ReceiverID
	}
	s.queue.Enqueue(notify.Event{
		RecipientID: counterpart,
		Kind:        notify.KindStatusChanged,
		Payload: map[string]any{
			"sent_id": rec.ID,
			"from":    string(from),
			"to":      string(requested),
		},
	})

	return rec, nil
}
