package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import "errors"

// ErrDuplicateSend is returned when inserting a Sent record violates the
// (parent_sent_id, sender_id) uniqueness constraint. The constraint, not the
// advisory pre-check in the service layer, is what actually closes the
// check-then-insert race between concurrent replies/forwards.
var ErrDuplicateSend = errors.New("sent record already exists for parent and sender")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
