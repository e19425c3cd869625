// Package policy holds the stateless authorization rules of the service.
// Every predicate is a pure function over the caller identity and, where
// relevant, the target record. Read operations are world-readable and have
// no predicate here.
package policy

import (
	"github.com/iliyamo/notes-api/internal/apperror"
	"github.com/iliyamo/notes-api/internal/model"
)

// Caller is the per-request identity resolved at the API boundary and
// passed by parameter into every service call. The zero value is an
// anonymous caller.
type Caller struct {
	UserID uint64
}

// Anonymous reports whether no signed-in user is behind the request.
func (c Caller) Anonymous() bool { return c.UserID == 0 }

// CanViewProfile gates the me query.
func CanViewProfile(caller Caller) error {
	if caller.Anonymous() {
		return apperror.NewUnauthenticated("you must be signed in to view your profile")
	}
	return nil
}

// CanCreateNote gates note creation. Any signed-in user may create.
func CanCreateNote(caller Caller) error {
	if caller.Anonymous() {
		return apperror.NewUnauthenticated("you must be signed in to create a note")
	}
	return nil
}

// CanModifyNote gates content updates and deletion. Only the author may
// modify an existing note. A nil note skips the ownership check: the store
// operation that follows reports not-found on its own.
func CanModifyNote(caller Caller, note *model.Note) error {
	if caller.Anonymous() {
		return apperror.NewUnauthenticated("you must be signed in to modify a note")
	}
	if note != nil && note.AuthorID != caller.UserID {
		return apperror.NewForbidden("you don't have permission to modify the note")
	}
	return nil
}

// CanToggleFavorite gates favorite toggling. Authorship is irrelevant;
// any signed-in user may toggle their own membership on any note.
func CanToggleFavorite(caller Caller) error {
	if caller.Anonymous() {
		return apperror.NewUnauthenticated("you must be signed in to favorite a note")
	}
	return nil
}
