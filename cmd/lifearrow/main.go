package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lifearrow/platform/internal/api"
	"github.com/lifearrow/platform/internal/config"
	"github.com/lifearrow/platform/internal/db"
	"github.com/lifearrow/platform/internal/ingest"
	"github.com/lifearrow/platform/internal/scheduler"
	"github.com/lifearrow/platform/internal/version"
)

func main() {
	ver := version.Load()
	log.Printf("Life Arrow %s starting...", ver.Version)

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, "migrations"); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	cfg.MergeFromDB(database)

	queue := ingest.NewQueue(cfg.RedisAddr)
	srv := api.NewServer(database, cfg, queue)
	defer srv.Close()

	queueCtx, queueCancel := context.WithCancel(context.Background())
	defer queueCancel()
	go func() {
		if err := queue.Start(queueCtx); err != nil {
			log.Fatalf("job queue failed: %v", err)
		}
	}()

	sched := scheduler.New(srv.Catalog(), srv.Enqueuer(), srv.Sessions(), cfg.StaleCutoff)
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler failed: %v", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	sched.Stop()
	queue.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
