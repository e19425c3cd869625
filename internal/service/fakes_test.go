package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/notes-api/internal/model"
	"github.com/iliyamo/notes-api/internal/repository"
)

// In-memory stands-ins for the MySQL repositories. They return the same
// sentinel errors and keep the favorite counter in lockstep with the
// membership set under a single mutex, mirroring the transactional toggle.

type fakeUserStore struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint64]model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, username, email, passwordHash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return 0, repository.ErrUserExists
		}
	}
	f.seq++
	now := time.Now().UTC()
	f.users[f.seq] = model.User{
		ID: f.seq, Username: username, Email: email, PasswordHash: passwordHash,
		CreatedAt: now, UpdatedAt: now,
	}
	return f.seq, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByLogin(_ context.Context, login string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) ListByIDs(_ context.Context, ids []uint64) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeNoteStore struct {
	mu    sync.Mutex
	seq   uint64
	notes map[uint64]model.Note
	favs  map[uint64]map[uint64]bool

	failDelete bool
	failUpdate bool
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{
		notes: make(map[uint64]model.Note),
		favs:  make(map[uint64]map[uint64]bool),
	}
}

func (f *fakeNoteStore) Create(_ context.Context, authorID uint64, content string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	now := time.Now().UTC()
	n := model.Note{ID: f.seq, Content: content, AuthorID: authorID, CreatedAt: now, UpdatedAt: now}
	f.notes[n.ID] = n
	f.favs[n.ID] = make(map[uint64]bool)
	return &n, nil
}

func (f *fakeNoteStore) GetByID(_ context.Context, id uint64) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.notes[id]; ok {
		return &n, nil
	}
	return nil, repository.ErrNoteNotFound
}

func (f *fakeNoteStore) List(_ context.Context) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Note, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeNoteStore) ListByAuthor(_ context.Context, authorID uint64) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Note
	for _, n := range f.notes {
		if n.AuthorID == authorID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID }) // newest first
	return out, nil
}

func (f *fakeNoteStore) ListFavoritedBy(_ context.Context, userID uint64) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Note
	for id, set := range f.favs {
		if set[userID] {
			out = append(out, f.notes[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID }) // newest first
	return out, nil
}

func (f *fakeNoteStore) FavoriteUserIDs(_ context.Context, noteID uint64) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uint64
	for uid := range f.favs[noteID] {
		out = append(out, uid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (f *fakeNoteStore) UpdateContent(_ context.Context, id uint64, content string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return nil, errUpdateBroken
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	f.notes[id] = n
	return &n, nil
}

func (f *fakeNoteStore) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errDeleteBroken
	}
	if _, ok := f.notes[id]; !ok {
		return repository.ErrNoteNotFound
	}
	delete(f.notes, id)
	delete(f.favs, id)
	return nil
}

func (f *fakeNoteStore) ToggleFavorite(_ context.Context, noteID, userID uint64) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[noteID]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	set := f.favs[noteID]
	if set[userID] {
		delete(set, userID)
	} else {
		set[userID] = true
	}
	n.FavoriteCount = uint32(len(set))
	f.notes[noteID] = n
	return &n, nil
}

// favoriteSetSize reads |favoriteBy| directly for invariant checks.
func (f *fakeNoteStore) favoriteSetSize(noteID uint64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.favs[noteID])
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.Note
	fail   bool
}

func (p *fakePublisher) PublishNoteCreated(_ context.Context, note *model.Note) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPublishBroken
	}
	p.events = append(p.events, *note)
	return nil
}
