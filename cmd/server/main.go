package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ravelor/dealer-inventory/internal/auth"
	"github.com/ravelor/dealer-inventory/internal/config"
	"github.com/ravelor/dealer-inventory/internal/database"
	"github.com/ravelor/dealer-inventory/internal/flash"
	"github.com/ravelor/dealer-inventory/internal/handler"
	"github.com/ravelor/dealer-inventory/internal/middleware"
	"github.com/ravelor/dealer-inventory/internal/moderation"
	"github.com/ravelor/dealer-inventory/internal/queue"
	"github.com/ravelor/dealer-inventory/internal/repository"
	"github.com/ravelor/dealer-inventory/internal/router"
	queue_publisher "github.com/ravelor/dealer-inventory/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	accounts := repository.NewAccountRepo(db)
	classifications := repository.NewClassificationRepo(db)
	inventory := repository.NewInventoryRepo(db)

	codec := auth.NewCodec(cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)
	notices := flash.NewStore(cfg.SessionSecret)
	workflow := moderation.NewService(classifications, inventory, queue_publisher.PublishModerationDecided)

	// cache for the public browsing routes; nil redis disables it
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response cache disabled")
	}
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	// background consumer writing the moderation decision log
	go func() {
		if err := queue.StartModerationConsumer(); err != nil {
			log.Printf("moderation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.ResolveIdentity(codec))

	router.RegisterRoutes(e)
	router.RegisterAccount(e, handler.NewAccountHandler(cfg, accounts, codec, notices), notices)
	router.RegisterInventory(e,
		handler.NewInventoryHandler(inventory, classifications, notices),
		handler.NewModerationHandler(workflow, notices),
		notices, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
