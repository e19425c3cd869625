package handler // handler defines the HTTP handlers of the API

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/notes-api/internal/apperror"
	"github.com/iliyamo/notes-api/internal/model"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// writeError maps service errors onto HTTP responses. An AppError carries
// its own status code and a message safe to show; anything else becomes a
// generic 500 so no internal detail leaks.
func writeError(c echo.Context, err error) error {
	if ae, ok := apperror.FromError(err); ok {
		return c.JSON(ae.StatusCode(), echo.Map{"error": ae.Message})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// ----- response DTOs -----

// noteResp is the wire shape of a note. The author is referenced by id;
// the full record is resolved through the relationship endpoints.
type noteResp struct {
	ID            uint64    `json:"id"`
	Content       string    `json:"content"`
	AuthorID      uint64    `json:"author_id"`
	FavoriteCount uint32    `json:"favorite_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// userResp is the wire shape of a user. The password hash never appears.
type userResp struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNoteResp(n *model.Note) noteResp {
	return noteResp{
		ID:            n.ID,
		Content:       n.Content,
		AuthorID:      n.AuthorID,
		FavoriteCount: n.FavoriteCount,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func toNoteResps(notes []model.Note) []noteResp {
	out := make([]noteResp, 0, len(notes))
	for i := range notes {
		out = append(out, toNoteResp(&notes[i]))
	}
	return out
}

func toUserResp(u *model.User) userResp {
	return userResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResps(users []model.User) []userResp {
	out := make([]userResp, 0, len(users))
	for i := range users {
		out = append(out, toUserResp(&users[i]))
	}
	return out
}
