package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/notes-api/internal/model"
)

type NoteRepo struct{ DB *sql.DB }

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{DB: db} }

const noteColumns = "id,content,author_id,favorite_count,created_at,updated_at"

// Create inserts a note for the given author and returns the stored row.
// New notes start with zero favorites.
func (r *NoteRepo) Create(ctx context.Context, authorID uint64, content string) (*model.Note, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notes (content, author_id, favorite_count) VALUES (?,?,0)",
		content, authorID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a note by id.
func (r *NoteRepo) GetByID(ctx context.Context, id uint64) (*model.Note, error) {
	return scanNote(r.DB.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id=? LIMIT 1", id))
}

// List returns all notes.
func (r *NoteRepo) List(ctx context.Context) ([]model.Note, error) {
	return r.queryNotes(ctx, "SELECT "+noteColumns+" FROM notes")
}

// ListByAuthor returns the notes authored by a user, newest first.
func (r *NoteRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Note, error) {
	return r.queryNotes(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE author_id=? ORDER BY id DESC", authorID)
}

// ListFavoritedBy returns the notes a user has favorited, newest first.
func (r *NoteRepo) ListFavoritedBy(ctx context.Context, userID uint64) ([]model.Note, error) {
	return r.queryNotes(ctx,
		`SELECT n.id,n.content,n.author_id,n.favorite_count,n.created_at,n.updated_at
		 FROM notes n JOIN note_favorites f ON f.note_id = n.id
		 WHERE f.user_id=? ORDER BY n.id DESC`, userID)
}

// FavoriteUserIDs returns the ids of the users who favorited a note.
func (r *NoteRepo) FavoriteUserIDs(ctx context.Context, noteID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM note_favorites WHERE note_id=?", noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateContent sets a note's content, bumps updated_at and returns the
// post-update row. A missing id surfaces as ErrNoteNotFound from the
// follow-up read.
func (r *NoteRepo) UpdateContent(ctx context.Context, id uint64, content string) (*model.Note, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE notes SET content=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", content, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a note and its favorite memberships in one transaction.
// Returns ErrNoteNotFound when no note row was deleted.
func (r *NoteRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM note_favorites WHERE note_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoteNotFound
	}
	return tx.Commit()
}

// ToggleFavorite flips the caller's membership in a note's favorite set and
// refreshes the denormalized counter, all in one transaction. The note row
// is locked first so concurrent toggles on the same note serialize, and the
// counter is recomputed from the membership set rather than incremented, so
// favorite_count always equals the set size no matter how toggles interleave.
func (r *NoteRepo) ToggleFavorite(ctx context.Context, noteID, userID uint64) (*model.Note, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var id uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM notes WHERE id=? FOR UPDATE", noteID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM note_favorites WHERE note_id=? AND user_id=?", noteID, userID)
	if err != nil {
		return nil, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO note_favorites (note_id, user_id) VALUES (?,?)",
			noteID, userID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE notes SET favorite_count =
		   (SELECT COUNT(*) FROM note_favorites WHERE note_id=?),
		   updated_at = updated_at -- a favorite is not an edit
		 WHERE id=?`, noteID, noteID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, noteID)
}

func (r *NoteRepo) queryNotes(ctx context.Context, query string, args ...interface{}) ([]model.Note, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.AuthorID, &n.FavoriteCount, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func scanNote(row *sql.Row) (*model.Note, error) {
	var n model.Note
	err := row.Scan(&n.ID, &n.Content, &n.AuthorID, &n.FavoriteCount, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
