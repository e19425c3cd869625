package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/notes-api/internal/config"
	"github.com/iliyamo/notes-api/internal/database"
	"github.com/iliyamo/notes-api/internal/handler"
	"github.com/iliyamo/notes-api/internal/middleware"
	"github.com/iliyamo/notes-api/internal/queue"
	"github.com/iliyamo/notes-api/internal/repository"
	"github.com/iliyamo/notes-api/internal/router"
	"github.com/iliyamo/notes-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response cache disabled")
	}
	cache := middleware.NewResponseCache(rdb, "notes-api", 30*time.Second)

	userRepo := repository.NewUserRepo(db)
	noteRepo := repository.NewNoteRepo(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.BcryptCost)
	noteSvc := service.NewNoteService(noteRepo, queue.NewPublisher())
	querySvc := service.NewQueryService(userRepo, noteRepo)

	// Background consumer records note.created events to logs/notes.log.
	go func() {
		if err := queue.StartNoteConsumer(); err != nil {
			log.Printf("note consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewAuthHandler(authSvc),
		handler.NewNoteHandler(noteSvc, querySvc),
		handler.NewUserHandler(querySvc),
		cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
