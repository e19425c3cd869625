package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/notes-api/internal/handler"
	"github.com/iliyamo/notes-api/internal/model"
	"github.com/iliyamo/notes-api/internal/repository"
	"github.com/iliyamo/notes-api/internal/service"
)

const testSecret = "router-test-secret"

// memUsers and memNotes are minimal in-memory stores so the whole HTTP
// surface can be exercised without MySQL.

type memUsers struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{users: make(map[uint64]model.User)} }

func (m *memUsers) Create(_ context.Context, username, email, hash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return 0, repository.ErrUserExists
		}
	}
	m.seq++
	now := time.Now().UTC()
	m.users[m.seq] = model.User{ID: m.seq, Username: username, Email: email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	return m.seq, nil
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByLogin(_ context.Context, login string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) ListByIDs(_ context.Context, ids []uint64) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type memNotes struct {
	mu    sync.Mutex
	seq   uint64
	notes map[uint64]model.Note
	favs  map[uint64]map[uint64]bool
}

func newMemNotes() *memNotes {
	return &memNotes{notes: make(map[uint64]model.Note), favs: make(map[uint64]map[uint64]bool)}
}

func (m *memNotes) Create(_ context.Context, authorID uint64, content string) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now().UTC()
	n := model.Note{ID: m.seq, Content: content, AuthorID: authorID, CreatedAt: now, UpdatedAt: now}
	m.notes[n.ID] = n
	m.favs[n.ID] = make(map[uint64]bool)
	return &n, nil
}

func (m *memNotes) GetByID(_ context.Context, id uint64) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notes[id]; ok {
		return &n, nil
	}
	return nil, repository.ErrNoteNotFound
}

func (m *memNotes) List(_ context.Context) ([]model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Note, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memNotes) ListByAuthor(_ context.Context, authorID uint64) ([]model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Note
	for _, n := range m.notes {
		if n.AuthorID == authorID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memNotes) ListFavoritedBy(_ context.Context, userID uint64) ([]model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Note
	for id, set := range m.favs {
		if set[userID] {
			out = append(out, m.notes[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memNotes) FavoriteUserIDs(_ context.Context, noteID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for uid := range m.favs[noteID] {
		out = append(out, uid)
	}
	return out, nil
}

func (m *memNotes) UpdateContent(_ context.Context, id uint64, content string) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	m.notes[id] = n
	return &n, nil
}

func (m *memNotes) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return repository.ErrNoteNotFound
	}
	delete(m.notes, id)
	delete(m.favs, id)
	return nil
}

func (m *memNotes) ToggleFavorite(_ context.Context, noteID, userID uint64) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	set := m.favs[noteID]
	if set[userID] {
		delete(set, userID)
	} else {
		set[userID] = true
	}
	n.FavoriteCount = uint32(len(set))
	m.notes[noteID] = n
	return &n, nil
}

func newTestServer() *echo.Echo {
	users := newMemUsers()
	notes := newMemNotes()

	authSvc := service.NewAuthService(users, testSecret, bcrypt.MinCost)
	noteSvc := service.NewNoteService(notes, nil)
	querySvc := service.NewQueryService(users, notes)

	e := echo.New()
	RegisterRoutes(e,
		handler.NewAuthHandler(authSvc),
		handler.NewNoteHandler(noteSvc, querySvc),
		handler.NewUserHandler(querySvc),
		testSecret, nil)
	return e
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signUp(t *testing.T, e *echo.Echo, username, email, password string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/v1/auth/signup", "",
		`{"username":"`+username+`","email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAPI_HealthAndAnonymousReads(t *testing.T) {
	t.Parallel()
	e := newTestServer()

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/notes", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/users", "", "").Code)
}

func TestAPI_InvalidBearerFailsWholeRequest(t *testing.T) {
	t.Parallel()
	e := newTestServer()

	// Even a world-readable endpoint must reject a bad credential rather
	// than proceed as anonymous.
	rec := do(e, http.MethodGet, "/v1/notes", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_CreateNoteRequiresAuth(t *testing.T) {
	t.Parallel()
	e := newTestServer()

	rec := do(e, http.MethodPost, "/v1/notes", "", `{"content":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := signUp(t, e, "alice", "alice@x.com", "pw1")
	rec = do(e, http.MethodPost, "/v1/notes", token, `{"content":"hi"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var note struct {
		ID            uint64 `json:"id"`
		AuthorID      uint64 `json:"author_id"`
		FavoriteCount uint32 `json:"favorite_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
	assert.Equal(t, uint64(1), note.AuthorID)
	assert.Zero(t, note.FavoriteCount)
}

func TestAPI_OwnershipOverHTTP(t *testing.T) {
	t.Parallel()
	e := newTestServer()

	alice := signUp(t, e, "alice", "alice@x.com", "pw1")
	bob := signUp(t, e, "bob", "bob@x.com", "pw2")

	rec := do(e, http.MethodPost, "/v1/notes", alice, `{"content":"hi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, http.StatusForbidden,
		do(e, http.MethodPatch, "/v1/notes/1", bob, `{"content":"edited"}`).Code)
	assert.Equal(t, http.StatusForbidden,
		do(e, http.MethodDelete, "/v1/notes/1", bob, "").Code)

	rec = do(e, http.MethodPatch, "/v1/notes/1", alice, `{"content":"edited"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "edited")

	rec = do(e, http.MethodDelete, "/v1/notes/1", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())
}

func TestAPI_ToggleFavoriteFlow(t *testing.T) {
	t.Parallel()
	e := newTestServer()

	alice := signUp(t, e, "alice", "alice@x.com", "pw1")
	bob := signUp(t, e, "bob", "bob@x.com", "pw2")

	require.Equal(t, http.StatusCreated,
		do(e, http.MethodPost, "/v1/notes", alice, `{"content":"hi"}`).Code)

	rec := do(e, http.MethodPost, "/v1/notes/1/favorite", bob, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"favorite_count":1`)

	rec = do(e, http.MethodGet, "/v1/notes/1/favorited-by", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)

	rec = do(e, http.MethodPost, "/v1/notes/1/favorite", bob, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"favorite_count":0`)

	assert.Equal(t, http.StatusUnauthorized,
		do(e, http.MethodPost, "/v1/notes/1/favorite", "", "").Code)
}

func TestAPI_SignInAndMe(t *testing.T) {
	t.Parallel()
	e := newTestServer()

	signUp(t, e, "alice", "alice@x.com", "pw1")

	rec := do(e, http.MethodPost, "/v1/auth/signin", "", `{"login":"alice","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = do(e, http.MethodGet, "/v1/me", resp.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "pw1")

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/me", "", "").Code)

	rec = do(e, http.MethodPost, "/v1/auth/signin", "", `{"login":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "error signing in")
}

func TestAPI_SignUpDuplicate(t *testing.T) {
	t.Parallel()
	e := newTestServer()

	signUp(t, e, "alice", "alice@x.com", "pw1")

	rec := do(e, http.MethodPost, "/v1/auth/signup", "",
		`{"username":"alice2","email":" ALICE@X.COM ","password":"pw2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error creating account")
	assert.NotContains(t, rec.Body.String(), "duplicate")
}

func TestAPI_UserRelationships(t *testing.T) {
	t.Parallel()
	e := newTestServer()

	alice := signUp(t, e, "alice", "alice@x.com", "pw1")
	bob := signUp(t, e, "bob", "bob@x.com", "pw2")

	require.Equal(t, http.StatusCreated,
		do(e, http.MethodPost, "/v1/notes", alice, `{"content":"first"}`).Code)
	require.Equal(t, http.StatusCreated,
		do(e, http.MethodPost, "/v1/notes", alice, `{"content":"second"}`).Code)
	require.Equal(t, http.StatusOK,
		do(e, http.MethodPost, "/v1/notes/1/favorite", bob, "").Code)

	rec := do(e, http.MethodGet, "/v1/users/alice/notes", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 2)
	assert.Equal(t, uint64(2), notes[0].ID) // newest first

	rec = do(e, http.MethodGet, "/v1/users/bob/favorites", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content":"first"`)

	rec = do(e, http.MethodGet, "/v1/notes/1/author", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/v1/users/ghost", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/v1/notes/99", "", "").Code)
}
