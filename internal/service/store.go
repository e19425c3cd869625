// Package service contains the application logic between the HTTP boundary
// and the repositories: credential issuance, authorization-checked note
// mutations and read-only queries. Services depend on small store
// interfaces; the concrete MySQL repositories satisfy them and are wired
// in at startup.
package service

import (
	"context"

	"github.com/iliyamo/notes-api/internal/model"
)

// UserStore is the slice of the persistence layer the services need for
// user records. *repository.UserRepo implements it.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]model.User, error)
}

// NoteStore is the slice of the persistence layer the services need for
// note records. *repository.NoteRepo implements it. ToggleFavorite must be
// atomic: membership flip and counter refresh happen as one store
// operation, never as separate calls from here.
type NoteStore interface {
	Create(ctx context.Context, authorID uint64, content string) (*model.Note, error)
	GetByID(ctx context.Context, id uint64) (*model.Note, error)
	List(ctx context.Context) ([]model.Note, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]model.Note, error)
	ListFavoritedBy(ctx context.Context, userID uint64) ([]model.Note, error)
	FavoriteUserIDs(ctx context.Context, noteID uint64) ([]uint64, error)
	UpdateContent(ctx context.Context, id uint64, content string) (*model.Note, error)
	Delete(ctx context.Context, id uint64) error
	ToggleFavorite(ctx context.Context, noteID, userID uint64) (*model.Note, error)
}

// NoteEventPublisher publishes domain events after successful mutations.
// Publishing is best effort; implementations log failures and the caller
// ignores the returned error.
type NoteEventPublisher interface {
	PublishNoteCreated(ctx context.Context, note *model.Note) error
}
