package service

import (
	"errors"
	"fmt"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
)

// The routing operations surface every failure as one of these distinct,
// recoverable outcomes. Callers (the HTTP layer) translate them to status
// codes; none of them should ever crash the process.
var (
	ErrValidation                = errors.New("validation error")
	ErrRecipientNotFound         = errors.New("recipient not found")
	ErrParentNotFound            = errors.New("parent sent record not found")
	ErrNotFound                  = errors.New("record not found")
	ErrUnsupportedAttachmentType = errors.New("unsupported attachment type")
)

// DuplicateActionError reports that the actor already replied to or forwarded
// the same parent hand-off. Existing carries the earlier record so callers
// can render "you already responded on <date>" instead of a bare error.
type DuplicateActionError struct {
	Existing *model.Sent
}

func (e *DuplicateActionError) Error() string {
	return fmt.Sprintf("actor %s already acted on sent %s", e.Existing.SenderID, *e.Existing.ParentSentID)
}

// InvalidTransitionError reports a status change the state machine rejects.
// Role is RoleNone when the actor is neither sender nor receiver of the
// record — an access failure rather than a domain one, kept on the same type
// so callers always learn which transition was attempted and by whom.
type InvalidTransitionError struct {
	From model.Status
	To   model.Status
	Role model.Role
}

func (e *InvalidTransitionError) Error() string {
	if e.Role == model.RoleNone {
		return fmt.Sprintf("actor is neither sender nor receiver, cannot transition %s -> %s", e.From, e.To)
	}
	return fmt.Sprintf("%s may not transition %s -> %s", e.Role, e.From, e.To)
}

// PersistenceError wraps a storage failure, keeping the failed operation name
// for logs while letting callers treat all storage faults uniformly.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
