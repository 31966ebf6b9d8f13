package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openwager/engine/internal/api"
	"github.com/openwager/engine/internal/config"
	"github.com/openwager/engine/internal/games"
	"github.com/openwager/engine/internal/ledger"
	"github.com/openwager/engine/internal/seeds"
	"github.com/openwager/engine/internal/session"
	"github.com/openwager/engine/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "[wagerd] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	var cache session.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := session.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Fatalf("connect redis: %v", err)
		}
		defer redisCache.Close()
		cache = redisCache
		logger.Printf("session cache: redis at %s", cfg.RedisAddr)
	} else {
		cache = session.NewMemory()
		logger.Printf("session cache: in-process")
	}

	registry := games.NewRegistry(games.Tuning{HouseEdge: cfg.HouseEdge})
	chain := seeds.NewChain(db)
	lgr := ledger.New(db, chain, registry, cache, logger)
	server := api.NewServer(db, lgr, chain, registry, logger)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}
