package main

import (
	"Buildrs/internal/api/config"
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/cron"
	"Buildrs/internal/pkg/docstore"
	"Buildrs/internal/pkg/logger"
	"Buildrs/internal/pkg/minio"
	"Buildrs/internal/pkg/mongo"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/security"
	"Buildrs/internal/service"
	"Buildrs/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

var collectionIndexes = map[string][]string{
	model.ProfileCollection:  {"username", "buildStreak"},
	model.BuildCollection:    {"userId", "createdAt", "type", "tags"},
	model.VoteCollection:     {"buildId"},
	model.CommentCollection:  {"buildId"},
	model.FollowCollection:   {"followerId", "followingId"},
	model.ActivityCollection: {"createdAt"},
}

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	logger.InitLogger(cfg.Server.Debug)
	security.Configure(cfg.JWT)

	if err := redis.InitRedis(cfg.Redis); err != nil {
		log.Error("Fatal error: failed to create redis connection", "err", err)
		panic(err)
	}

	var store docstore.Store
	var shutdownStore func()
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("Using in-memory store, data is lost on exit")
		store = docstore.NewMemoryStore()
		shutdownStore = func() {}
	default:
		db, err := mongo.InitMongo(cfg.Mongo)
		if err != nil {
			log.Error("Fatal error: failed to create mongo connection", "err", err)
			panic(err)
		}
		mongoStore := docstore.NewMongoStore(db)
		indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = mongoStore.EnsureIndexes(indexCtx, collectionIndexes)
		indexCancel()
		if err != nil {
			log.Error("Fatal error: failed to create mongo indexes", "err", err)
			panic(err)
		}
		store = mongoStore
		shutdownStore = func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				log.Error("MongoDB disconnect failed", "err", err)
			}
		}
	}
	defer shutdownStore()

	var storage service.ObjectStorage
	if cfg.MinIO.Enable {
		minioStorage, err := minio.NewStorage(context.Background(), cfg.MinIO)
		if err != nil {
			log.Error("Fatal error: failed to initialize MinIO", "err", err)
			panic(err)
		}
		storage = minioStorage
	}

	app, err := wire.BuildApplication(store, storage, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}
	if app.Producer != nil {
		defer func() { _ = app.Producer.Close() }()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if err = cron.InitCron(app.CronMgr); err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		panic(err)
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	if app.KafkaManager != nil {
		g.Go(func() error {
			log.Info("Kafka Consumers starting...")
			return app.KafkaManager.Start(ctx, cfg)
		})
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}
	log.Info("App exited successfully.")
}
