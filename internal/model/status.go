package model

import "fmt"

// Status is the delivery state of a Sent record. The initial PENDING state is
// implicit: a record is created already transitioned to SENT, with the
// PENDING->SENT hop recorded in its status history.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSent     Status = "SENT"
	StatusReceived Status = "RECEIVED"
	StatusRead     Status = "READ"
	StatusDone     Status = "DONE"
	StatusArchived Status = "ARCHIVED"
)

// ParseStatus validates a raw status string as received over the API.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusSent, StatusReceived, StatusRead, StatusDone, StatusArchived:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Role is the position of an actor relative to a single Sent record.
type Role string

const (
	RoleSender   Role = "sender"
	RoleReceiver Role = "receiver"
	// RoleNone marks an actor who is neither the sender nor the receiver of
	// the record they tried to act on.
	RoleNone Role = "none"
)
