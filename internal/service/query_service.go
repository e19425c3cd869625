package service

import (
	"context"
	"errors"

	"github.com/iliyamo/notes-api/internal/apperror"
	"github.com/iliyamo/notes-api/internal/model"
	"github.com/iliyamo/notes-api/internal/policy"
	"github.com/iliyamo/notes-api/internal/repository"
)

// QueryService serves the read-only surface. Listing and direct lookups
// are world-readable; only Me requires a signed-in caller. Relationship
// lookups are resolved lazily per parent record, not joined eagerly.
type QueryService struct {
	Users UserStore
	Notes NoteStore
}

func NewQueryService(users UserStore, notes NoteStore) *QueryService {
	return &QueryService{Users: users, Notes: notes}
}

// ListNotes returns all notes.
func (s *QueryService) ListNotes(ctx context.Context) ([]model.Note, error) {
	notes, err := s.Notes.List(ctx)
	if err != nil {
		return nil, apperror.NewDatabase("could not list notes", err)
	}
	return notes, nil
}

// GetNote returns a single note by id.
func (s *QueryService) GetNote(ctx context.Context, id uint64) (*model.Note, error) {
	note, err := s.Notes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return nil, apperror.NewNotFound("note not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabase("could not load note", err)
	}
	return note, nil
}

// ListUsers returns all users.
func (s *QueryService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, apperror.NewDatabase("could not list users", err)
	}
	return users, nil
}

// GetUser returns a user by username.
func (s *QueryService) GetUser(ctx context.Context, username string) (*model.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NewNotFound("user not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabase("could not load user", err)
	}
	return u, nil
}

// Me resolves the caller's own profile. Anonymous callers are rejected.
func (s *QueryService) Me(ctx context.Context, caller policy.Caller) (*model.User, error) {
	if err := policy.CanViewProfile(caller); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, caller.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NewNotFound("user not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabase("could not load user", err)
	}
	return u, nil
}

// NoteAuthor resolves a note's author.
func (s *QueryService) NoteAuthor(ctx context.Context, note *model.Note) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, note.AuthorID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NewNotFound("user not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabase("could not load author", err)
	}
	return u, nil
}

// NoteFavoritedBy resolves the users who favorited a note.
func (s *QueryService) NoteFavoritedBy(ctx context.Context, note *model.Note) ([]model.User, error) {
	ids, err := s.Notes.FavoriteUserIDs(ctx, note.ID)
	if err != nil {
		return nil, apperror.NewDatabase("could not load favorites", err)
	}
	users, err := s.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.NewDatabase("could not load favorites", err)
	}
	return users, nil
}

// UserNotes resolves the notes authored by a user, newest first.
func (s *QueryService) UserNotes(ctx context.Context, user *model.User) ([]model.Note, error) {
	notes, err := s.Notes.ListByAuthor(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewDatabase("could not list notes", err)
	}
	return notes, nil
}

// UserFavorites resolves the notes a user favorited, newest first.
func (s *QueryService) UserFavorites(ctx context.Context, user *model.User) ([]model.Note, error) {
	notes, err := s.Notes.ListFavoritedBy(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewDatabase("could not list favorites", err)
	}
	return notes, nil
}
