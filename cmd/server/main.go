package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/config"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/database"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/engine"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/handler"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/middleware"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/payment"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/queue"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/repository"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	rooms := repository.NewRoomRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hostel := repository.NewHostelRepo(db)
	assignments := repository.NewAssignmentRepo(db, rooms, users)
	eng := engine.New(assignments)
	payments := payment.New(cfg.PaymentBaseURL)

	// Broker consumer writes committed seat events to the audit log. The
	// server still works when the broker is down; events queue up broker
	// side once it returns.
	go func() {
		if err := queue.StartSeatEventConsumer(); err != nil {
			log.Printf("[main] seat event consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Public:    handler.NewPublicHandler(rooms, assignments, hostel),
		Admin:     handler.NewAdminHandler(rooms, assignments, eng),
		Member:    handler.NewMemberHandler(users, assignments),
		Hostel:    handler.NewHostelHandler(hostel, payments),
		JWTSecret: cfg.JWTSecret,
		Cache:     cache,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
