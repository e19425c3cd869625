// Package repository implements the persistence layer over MySQL. The
// sentinel errors defined here let the service layer distinguish failure
// scenarios without inspecting driver errors: uniqueness violations on
// sign-up and lookups of records that do not exist.
package repository

import "errors"

// ErrUserExists is returned when an insert violates the uniqueness
// constraint on users.username or users.email.
var ErrUserExists = errors.New("username or email already exists")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrNoteNotFound is returned when a note lookup, update or delete targets
// an id with no row.
var ErrNoteNotFound = errors.New("note not found")
