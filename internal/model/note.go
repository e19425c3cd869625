package model

import "time"

// Note represents a row in the `notes` table. AuthorID references the
// user that created the note and never changes afterwards. The set of
// users who favorited the note lives in the `note_favorites` junction
// table; FavoriteCount is a denormalized copy that must always equal
// the size of that set.
type Note struct {
	ID            uint64    // notes.id
	Content       string    // notes.content
	AuthorID      uint64    // notes.author_id
	FavoriteCount uint32    // notes.favorite_count
	CreatedAt     time.Time // notes.created_at
	UpdatedAt     time.Time // notes.updated_at
}
