// Package queue defines the note.created message payload, its publisher and
// the background consumer that records published events.
package queue

// NoteCreatedEvent is published when a note is successfully created. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type NoteCreatedEvent struct {
	NoteID    uint64 `json:"note_id"`
	AuthorID  uint64 `json:"author_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
