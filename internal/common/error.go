// Package common defines shared constants and sentinel errors used across
// the bot and web layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Session lifecycle errors.
	ErrSessionExists = errors.New("session already open")
	ErrNoSession     = errors.New("no open session")

	// Terminal-step errors. ErrUpload covers attachment fetch and object
	// storage write failures; ErrPersist covers the relational commit.
	ErrUpload  = errors.New("photo upload failed")
	ErrPersist = errors.New("record write failed")

	// ErrCancelled reports that the session disappeared underneath an
	// in-flight terminal step (the user cancelled concurrently).
	ErrCancelled = errors.New("session cancelled")
)
