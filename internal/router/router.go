package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/notes-api/internal/handler"
	"github.com/iliyamo/notes-api/internal/middleware"
)

// RegisterRoutes wires every endpoint of the API onto the Echo instance.
// The Identity middleware runs for the whole tree: an absent bearer token
// means an anonymous caller, a present-but-invalid one fails the request
// with 401 before any handler executes. Per-operation authentication and
// ownership rules live in the policy package, so no route here is wrapped
// in a require-auth guard.
//
// The response cache covers the world-readable note and user groups plus
// the auth group, so that mutations in those groups (and sign-ups, which
// change the user listing) flush cached reads. /v1/me is deliberately kept
// out of any cached group: its response depends on the caller.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, n *handler.NoteHandler, u *handler.UserHandler, jwtSecret string, cache *middleware.ResponseCache) {
	e.Use(middleware.Identity(jwtSecret))

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Credential issuance.
	auth := e.Group("/v1/auth", cache.Middleware())
	auth.POST("/signup", a.SignUp)
	auth.POST("/signin", a.SignIn)

	// Caller's own profile.
	e.GET("/v1/me", u.Me)

	// Notes: world-readable reads, policy-guarded mutations.
	notes := e.Group("/v1/notes", cache.Middleware())
	notes.GET("", n.List)
	notes.POST("", n.Create)
	notes.GET("/:id", n.Get)
	notes.PATCH("/:id", n.Update)
	notes.DELETE("/:id", n.Delete)
	notes.POST("/:id/favorite", n.ToggleFavorite)
	notes.GET("/:id/author", n.Author)
	notes.GET("/:id/favorited-by", n.FavoritedBy)

	// Users: world-readable reads and relationship listings.
	users := e.Group("/v1/users", cache.Middleware())
	users.GET("", u.List)
	users.GET("/:username", u.Get)
	users.GET("/:username/notes", u.Notes)
	users.GET("/:username/favorites", u.Favorites)
}
