package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/notes-api/internal/middleware"
	"github.com/iliyamo/notes-api/internal/service"
)

// UserHandler serves the user read surface.
type UserHandler struct {
	Query *service.QueryService
}

func NewUserHandler(query *service.QueryService) *UserHandler {
	if query == nil {
		panic("nil service passed to NewUserHandler")
	}
	return &UserHandler{Query: query}
}

// List handles GET /v1/users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Query.ListUsers(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResps(users))
}

// Get handles GET /v1/users/:username.
func (h *UserHandler) Get(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid username"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Query.GetUser(ctx, username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Me handles GET /v1/me and resolves the caller's own profile.
func (h *UserHandler) Me(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Query.Me(ctx, middleware.CallerFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Notes handles GET /v1/users/:username/notes, newest first.
func (h *UserHandler) Notes(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid username"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Query.GetUser(ctx, username)
	if err != nil {
		return writeError(c, err)
	}
	notes, err := h.Query.UserNotes(ctx, u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toNoteResps(notes))
}

// Favorites handles GET /v1/users/:username/favorites, newest first.
func (h *UserHandler) Favorites(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid username"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Query.GetUser(ctx, username)
	if err != nil {
		return writeError(c, err)
	}
	notes, err := h.Query.UserFavorites(ctx, u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toNoteResps(notes))
}
