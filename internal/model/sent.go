package model

import "time"

// Kind classifies a Sent record by its position in the chain.
type Kind string

const (
	KindRoot    Kind = "root"
	KindReply   Kind = "reply"
	KindForward Kind = "forward"
)

// Sent is one hand-off of a document between two users: the chain node.
// Records are created by a routing operation and afterwards mutated only
// through status transitions; parent, thread, sender, receiver and the
// carried documents never change.
type Sent struct {
	ID           string  `json:"id"`
	ParentSentID *string `json:"parent_sent_id"`
	ThreadID     string  `json:"thread_id"`
	Depth        int     `json:"depth"`
	SenderID     string  `json:"sender_id"`
	ReceiverID   string  `json:"receiver_id"`
	IsForwarded  bool    `json:"is_forwarded"`
	Status       Status  `json:"status"`

	Number      string `json:"number"`
	Category    string `json:"category"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Remark      string `json:"remark"`

	SentAt          time.Time  `json:"sent_at"`
	ReceivedAt      *time.Time `json:"received_at"`
	ReadAt          *time.Time `json:"read_at"`
	ArchivedAt      *time.Time `json:"archived_at"`
	StatusChangedAt time.Time  `json:"status_changed_at"`
	StatusByID      *string    `json:"status_by_id"`

	CreatedAt time.Time `json:"created_at"`
}

// Kind derives the record's classification: a nil parent marks the thread
// root, otherwise the forwarded flag separates forwards from replies.
func (s *Sent) Kind() Kind {
	if s.ParentSentID == nil {
		return KindRoot
	}
	if s.IsForwarded {
		return KindForward
	}
	return KindReply
}

// IsRoot reports whether this record starts its thread.
func (s *Sent) IsRoot() bool {
	return s.ParentSentID == nil
}

// RoleOf resolves the actor's role relative to this record.
func (s *Sent) RoleOf(actorID string) Role {
	switch actorID {
	case s.SenderID:
		return RoleSender
	case s.ReceiverID:
		return RoleReceiver
	}
	return RoleNone
}
