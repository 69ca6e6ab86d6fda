package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ray-remotestate/foodcourt/config"
	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/database/dbhelper"
	"github.com/ray-remotestate/foodcourt/database/memstore"
	"github.com/ray-remotestate/foodcourt/database/mongostore"
	"github.com/ray-remotestate/foodcourt/handlers"
	"github.com/ray-remotestate/foodcourt/server"
	"github.com/ray-remotestate/foodcourt/services"
	"github.com/sirupsen/logrus"
)

const connectTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config, error: %v", err)
	}
	setupLogging(cfg)

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	store, err := openStore(cfg.DB)
	if err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.WithField("driver", cfg.DB.Driver).Info("database is ready")

	accounts := services.NewAccounts(store, cfg.SecretKey, cfg.AccessTokenTTL)
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		err := accounts.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		cancel()
		if err != nil {
			logrus.WithError(err).Error("failed to ensure admin account")
		}
	}

	h := handlers.New(
		services.NewCatalog(store),
		services.NewOrders(store, store, store),
		accounts,
	)
	srv := server.SetupRoutes(h, store, cfg.SecretKey)

	go func() {
		if err := srv.Run(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("failed to run server, error: %v", err)
		}
	}()
	logrus.Infof("server is listening on %s", cfg.Port)

	<-done

	logrus.Info("shutting down...")
	if err := srv.Shutdown(cfg.ShutdownTimeout); err != nil {
		logrus.WithError(err).Error("failed to gracefully shutdown server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}

	logrus.Info("system is shut ..zzz")
}

func openStore(cfg config.DBConfig) (database.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.ConnectAndMigrate(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return dbhelper.New(db), nil
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		logrus.Warn("using in-memory store, data is lost on shutdown")
		return memstore.New(), nil
	}
}

func runMigrate(cfg *config.Config) {
	db, err := database.ConnectAndMigrate(cfg.DB.DatabaseURL)
	if err != nil {
		logrus.Fatalf("migration failed, error: %v", err)
	}
	defer db.Close()
	logrus.Println("migration is successful")
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Warn("unknown log level, falling back to info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
