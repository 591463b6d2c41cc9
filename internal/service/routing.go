package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/notify"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository"
)

// RouteInput carries everything a routing operation needs. ActorID is always
// an explicit parameter — there is no ambient "current user" anywhere below
// the HTTP layer.
type RouteInput struct {
	ActorID        string
	RecipientEmail string

	Number      string
	Category    string
	Subject     string
	Description string
	Remark      string

	Attachments []Attachment
}

// RoutingResult is the response payload of a routing operation: the created
// record plus the flags list views need, recomputed from the fresh thread.
type RoutingResult struct {
	Sent      ChainNode        `json:"sent"`
	Documents []model.Document `json:"documents"`
	HasReply  bool             `json:"has_reply"`
	Recipient *model.User      `json:"recipient"`
}

// RoutingService implements the three mutating entry points of the engine.
type RoutingService interface {
	// Send starts a new thread: the created record is its own root.
	Send(ctx context.Context, in RouteInput) (*RoutingResult, error)

	// Reply answers a hand-off. An actor may reply to a given parent at most
	// once; the second attempt fails with DuplicateActionError carrying the
	// first.
	Reply(ctx context.Context, parentSentID string, in RouteInput) (*RoutingResult, error)

	// Forward passes a hand-off on to another user, under the same
	// action-uniqueness rule as Reply.
	Forward(ctx context.Context, parentSentID string, in RouteInput) (*RoutingResult, error)
}

type routingService struct {
	sents repository.SentRepository
	users repository.UserRepository
	docs  DocumentService
	chain ChainService
	queue notify.Queue
	now   func() time.Time
	newID func() string
}

// NewRoutingService constructs a RoutingService.
func NewRoutingService(
	sents repository.SentRepository,
	users repository.UserRepository,
	docs DocumentService,
	chain ChainService,
	queue notify.Queue,
) RoutingService {
	return &routingService{
		sents: sents,
		users: users,
		docs:  docs,
		chain: chain,
		queue: queue,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

func (s *routingService) Send(ctx context.Context, in RouteInput) (*RoutingResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if len(in.Attachments) == 0 {
		return nil, fmt.Errorf("%w: a new send requires at least one attachment", ErrValidation)
	}

	recipient, err := s.resolveRecipient(ctx, in.RecipientEmail)
	if err != nil {
		return nil, err
	}

	docs, err := s.uploadAttachments(ctx, in.ActorID, in.Attachments)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := newSentRecord(in, recipient.ID, now)
	rec.ID = s.newID()
	// A root is its own thread.
	rec.ThreadID = rec.ID
	rec.Depth = 0

	created, err := s.persist(ctx, rec, documentIDs(docs))
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, created, docs, recipient, notify.KindDocumentSent)
}

func (s *routingService) Reply(ctx context.Context, parentSentID string, in RouteInput) (*RoutingResult, error) {
	return s.respond(ctx, parentSentID, in, false)
}

func (s *routingService) Forward(ctx context.Context, parentSentID string, in RouteInput) (*RoutingResult, error) {
	return s.respond(ctx, parentSentID, in, true)
}

// respond implements the shared reply/forward path; forwarded selects the kind.
func (s *routingService) respond(ctx context.Context, parentSentID string, in RouteInput, forwarded bool) (*RoutingResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if parentSentID == "" {
		return nil, fmt.Errorf("%w: parent sent id is required", ErrValidation)
	}

	parent, err := s.sents.FindByID(ctx, parentSentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParentNotFound
		}
		return nil, persistence("find parent", err)
	}

	// Advisory fast path of the action-uniqueness guard. The database
	// constraint behind persist() is what actually closes the race.
	if existing, err := s.sents.FindByParentAndSender(ctx, parent.ID, in.ActorID); err == nil {
		return nil, &DuplicateActionError{Existing: existing}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, persistence("check existing action", err)
	}

	recipient, err := s.resolveRecipient(ctx, in.RecipientEmail)
	if err != nil {
		return nil, err
	}

	// New files are persisted as new documents; without them the hand-off
	// carries the parent's document set onward.
	var docs []model.Document
	if len(in.Attachments) > 0 {
		docs, err = s.uploadAttachments(ctx, in.ActorID, in.Attachments)
	} else {
		docs, err = s.docs.ListBySent(ctx, parent.ID)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := newSentRecord(in, recipient.ID, now)
	rec.ID = s.newID()
	rec.ParentSentID = &parent.ID
	rec.ThreadID = parent.ThreadID
	rec.Depth = parent.Depth + 1
	rec.IsForwarded = forwarded

	created, err := s.persist(ctx, rec, documentIDs(docs))
	if err != nil {
		return nil, err
	}

	kind := notify.KindDocumentReplied
	if forwarded {
		kind = notify.KindDocumentForwarded
	}
	return s.finish(ctx, created, docs, recipient, kind)
}

// persist inserts the record with its initial history row. A constraint
// violation means a concurrent request won the race; the winner's record is
// re-read so the caller still gets the full duplicate-action payload.
func (s *routingService) persist(ctx context.Context, rec *model.Sent, docIDs []string) (*model.Sent, error) {
	hist := &model.SentStatusHistory{
		SentID:      rec.ID,
		FromStatus:  model.StatusPending,
		ToStatus:    model.StatusSent,
		ChangedByID: rec.SenderID,
		ChangedAt:   rec.SentAt,
	}

	created, err := s.sents.Create(ctx, rec, docIDs, hist)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, repository.ErrDuplicateSend) && rec.ParentSentID != nil {
		existing, findErr := s.sents.FindByParentAndSender(ctx, *rec.ParentSentID, rec.SenderID)
		if findErr != nil {
			return nil, persistence("load duplicate winner", findErr)
		}
		return nil, &DuplicateActionError{Existing: existing}
	}
	return nil, persistence("insert sent", err)
}

// finish recomputes derived flags for the response and emits the
// notification event. Enqueueing happens after the commit and its outcome
// never affects the returned result.
func (s *routingService) finish(ctx context.Context, created *model.Sent, docs []model.Document, recipient *model.User, kind notify.Kind) (*RoutingResult, error) {
	hasReply := false
	if view, err := s.chain.BuildChain(ctx, created.ID); err == nil {
		hasReply = view.HasReply
	}

	s.queue.Enqueue(notify.Event{
		RecipientID: recipient.ID,
		Kind:        kind,
		Payload: map[string]any{
			"sent_id":   created.ID,
			"thread_id": created.ThreadID,
			"subject":   created.Subject,
			"sender_id": created.SenderID,
		},
	})

	return &RoutingResult{
		Sent:      ChainNode{Sent: *created, Kind: created.Kind()},
		Documents: docs,
		HasReply:  hasReply,
		Recipient: recipient,
	}, nil
}

func (s *routingService) resolveRecipient(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipientNotFound
		}
		return nil, persistence("resolve recipient", err)
	}
	return u, nil
}

func (s *routingService) uploadAttachments(ctx context.Context, actorID string, atts []Attachment) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(atts))
	for _, att := range atts {
		doc, err := s.docs.Upload(ctx, actorID, att)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func validateInput(in RouteInput) error {
	switch {
	case in.ActorID == "":
		return fmt.Errorf("%w: actor id is required", ErrValidation)
	case in.RecipientEmail == "":
		return fmt.Errorf("%w: recipient email is required", ErrValidation)
	case in.Subject == "":
		return fmt.Errorf("%w: subject is required", ErrValidation)
	}
	return nil
}

func newSentRecord(in RouteInput, receiverID string, now time.Time) *model.Sent {
	actor := in.ActorID
	return &model.Sent{
		SenderID:        in.ActorID,
		ReceiverID:      receiverID,
		Status:          model.StatusSent,
		Number:          in.Number,
		Category:        in.Category,
		Subject:         in.Subject,
		Description:     in.Description,
		Remark:          in.Remark,
		SentAt:          now,
		StatusChangedAt: now,
		StatusByID:      &actor,
	}
}

func documentIDs(docs []model.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids
}
