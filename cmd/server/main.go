package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/jwkim/studyroom-seat-reservation/internal/config"
	"github.com/jwkim/studyroom-seat-reservation/internal/database"
	"github.com/jwkim/studyroom-seat-reservation/internal/fanout"
	"github.com/jwkim/studyroom-seat-reservation/internal/handler"
	"github.com/jwkim/studyroom-seat-reservation/internal/middleware"
	"github.com/jwkim/studyroom-seat-reservation/internal/queue"
	"github.com/jwkim/studyroom-seat-reservation/internal/repository"
	"github.com/jwkim/studyroom-seat-reservation/internal/router"
	"github.com/jwkim/studyroom-seat-reservation/internal/scheduler"
	"github.com/jwkim/studyroom-seat-reservation/internal/store"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open registry database: %v", err)
	}
	defer db.Close()

	students := repository.NewStudentRepo(db)
	st := store.New(students)
	hub := fanout.NewHub()

	// The poll buffer observes every broadcast so interval pollers
	// see the same events as push clients.
	buffer := fanout.NewPollBuffer()
	hub.Attach("poll-buffer", buffer)

	adminHandler, err := handler.NewAdminHandler(cfg, st, hub)
	if err != nil {
		log.Fatalf("init admin handler: %v", err)
	}

	// Redis is optional; both middlewares degrade to pass-through
	// when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewReservationHandler(st, hub), handler.NewWSHandler(st, hub), cacheMW)
	router.RegisterAPI(e, handler.NewEventsHandler(buffer), handler.NewStatsHandler(st, hub), adminHandler, handler.NewStudentHandler(students), cfg.JWTSecret, limitMW)

	ctx := context.Background()
	go func() {
		if err := scheduler.NewSessionTimer(st, hub).Run(ctx); err != nil {
			log.Printf("session timer stopped: %v", err)
		}
	}()
	go func() {
		if err := scheduler.NewPresenceReaper(hub).Run(ctx); err != nil {
			log.Printf("presence reaper stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartSeatActivityConsumer(); err != nil {
			log.Printf("seat activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
