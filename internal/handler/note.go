package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/notes-api/internal/middleware"
	"github.com/iliyamo/notes-api/internal/service"
)

// NoteHandler bundles the mutation and query services for note endpoints.
type NoteHandler struct {
	Notes *service.NoteService
	Query *service.QueryService
}

func NewNoteHandler(notes *service.NoteService, query *service.QueryService) *NoteHandler {
	if notes == nil || query == nil {
		panic("nil service passed to NewNoteHandler")
	}
	return &NoteHandler{Notes: notes, Query: query}
}

type noteReq struct {
	Content string `json:"content"`
}

// List handles GET /v1/notes and returns every note.
func (h *NoteHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	notes, err := h.Query.ListNotes(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toNoteResps(notes))
}

// Get handles GET /v1/notes/:id.
func (h *NoteHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	note, err := h.Query.GetNote(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toNoteResp(note))
}

// Create handles POST /v1/notes. The caller becomes the author.
func (h *NoteHandler) Create(c echo.Context) error {
	var req noteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	note, err := h.Notes.CreateNote(ctx, middleware.CallerFrom(c), content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toNoteResp(note))
}

// Update handles PATCH /v1/notes/:id and returns the post-update note.
func (h *NoteHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req noteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	note, err := h.Notes.UpdateNote(ctx, middleware.CallerFrom(c), id, content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toNoteResp(note))
}

// Delete handles DELETE /v1/notes/:id. Authorization failures surface as
// 401/403; a store-level failure shows up as deleted=false, not an error.
func (h *NoteHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	deleted, err := h.Notes.DeleteNote(ctx, middleware.CallerFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}

// ToggleFavorite handles POST /v1/notes/:id/favorite and returns the note
// with its refreshed favorite count.
func (h *NoteHandler) ToggleFavorite(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	note, err := h.Notes.ToggleFavorite(ctx, middleware.CallerFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toNoteResp(note))
}

// Author handles GET /v1/notes/:id/author and resolves the note's author.
func (h *NoteHandler) Author(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	note, err := h.Query.GetNote(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	author, err := h.Query.NoteAuthor(ctx, note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(author))
}

// FavoritedBy handles GET /v1/notes/:id/favorited-by and lists the users
// who favorited the note.
func (h *NoteHandler) FavoritedBy(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	note, err := h.Query.GetNote(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	users, err := h.Query.NoteFavoritedBy(ctx, note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResps(users))
}
