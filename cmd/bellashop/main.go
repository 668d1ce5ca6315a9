package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bellashop/internal/config"
	"bellashop/internal/http/handlers"
	"bellashop/internal/jobs"
	"bellashop/internal/media"
	"bellashop/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := repos.EnsureAdmin(ctx, db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword, time.Now()); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	} else if n, _ := repos.NewAdminRepo(db).Count(ctx); n == 0 {
		log.Printf("[warn] no admin account; set ADMIN_EMAIL and ADMIN_PASSWORD to create one")
	}

	history := repos.NopHistory()
	if cfg.MongoURI != "" {
		client, err := repos.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Disconnect(context.Background())
		history = repos.NewMongoHistory(client.Database(cfg.MongoDB))
		log.Printf("[history] recording status changes in %s.%s", cfg.MongoDB, repos.CollectionStatusHistory)
	}

	mediaDir := cfg.MediaDir
	if abs, err := filepath.Abs(mediaDir); err == nil {
		mediaDir = abs
	}
	store, err := media.NewStore(mediaDir, int64(cfg.MaxUploadMB)<<20)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[static] %s -> %s", media.URLPrefix, mediaDir)

	deps := handlers.NewDeps(db, cfg, history, store)
	app := handlers.NewApp(cfg, deps, handlers.DefaultAppOptions())
	sweeper := jobs.NewSweeper(deps.Catalog.SweepOldSold, cfg.SweepInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	log.Printf("[shutdown] bye")
}
