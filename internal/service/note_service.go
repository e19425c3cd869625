package service

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/notes-api/internal/apperror"
	"github.com/iliyamo/notes-api/internal/model"
	"github.com/iliyamo/notes-api/internal/policy"
	"github.com/iliyamo/notes-api/internal/repository"
)

// NoteService orchestrates note mutations: every operation runs its
// authorization predicate before touching the store. Events is optional;
// when set, successful creations are announced to the queue.
type NoteService struct {
	Notes  NoteStore
	Events NoteEventPublisher
}

func NewNoteService(notes NoteStore, events NoteEventPublisher) *NoteService {
	return &NoteService{Notes: notes, Events: events}
}

// CreateNote persists a new note authored by the caller. New notes have an
// empty favorite set.
func (s *NoteService) CreateNote(ctx context.Context, caller policy.Caller, content string) (*model.Note, error) {
	if err := policy.CanCreateNote(caller); err != nil {
		return nil, err
	}
	note, err := s.Notes.Create(ctx, caller.UserID, content)
	if err != nil {
		return nil, apperror.NewDatabase("could not create note", err)
	}
	if s.Events != nil {
		// Best effort: a broker outage must not fail the request.
		_ = s.Events.PublishNoteCreated(ctx, note)
	}
	return note, nil
}

// UpdateNote sets a note's content and returns the post-update record.
// Only the author may update. When the note does not exist the ownership
// check is skipped and the store's not-found is surfaced instead.
func (s *NoteService) UpdateNote(ctx context.Context, caller policy.Caller, id uint64, content string) (*model.Note, error) {
	note, err := s.loadForModify(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyNote(caller, note); err != nil {
		return nil, err
	}
	updated, err := s.Notes.UpdateContent(ctx, id, content)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return nil, apperror.NewNotFound("note not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabase("could not update note", err)
	}
	return updated, nil
}

// DeleteNote removes a note. Authorization failures are raised; a store
// failure after a passed check is swallowed into a false return, so the
// caller can tell "not allowed" apart from "deletion didn't happen".
func (s *NoteService) DeleteNote(ctx context.Context, caller policy.Caller, id uint64) (bool, error) {
	note, err := s.loadForModify(ctx, id)
	if err != nil {
		return false, err
	}
	if err := policy.CanModifyNote(caller, note); err != nil {
		return false, err
	}
	if err := s.Notes.Delete(ctx, id); err != nil {
		log.Printf("delete note %d failed: %v", id, err)
		return false, nil
	}
	return true, nil
}

// ToggleFavorite flips the caller's membership in the note's favorite set.
// Any signed-in user may toggle any note; the store performs the flip and
// the counter refresh as one atomic operation.
func (s *NoteService) ToggleFavorite(ctx context.Context, caller policy.Caller, id uint64) (*model.Note, error) {
	if err := policy.CanToggleFavorite(caller); err != nil {
		return nil, err
	}
	note, err := s.Notes.ToggleFavorite(ctx, id, caller.UserID)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return nil, apperror.NewNotFound("note not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabase("could not toggle favorite", err)
	}
	return note, nil
}

// loadForModify fetches the target of an update/delete for the ownership
// check. A missing note yields (nil, nil): the policy skips the check and
// the store operation that follows reports not-found on its own.
func (s *NoteService) loadForModify(ctx context.Context, id uint64) (*model.Note, error) {
	note, err := s.Notes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewDatabase("could not load note", err)
	}
	return note, nil
}
