package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/adapter/http/handler"
	httprouter "github.com/ZeyadW/Apartment-Finder/internal/adapter/http/router"
	"github.com/ZeyadW/Apartment-Finder/internal/adapter/messaging/nats"
	"github.com/ZeyadW/Apartment-Finder/internal/adapter/repository/cache"
	"github.com/ZeyadW/Apartment-Finder/internal/adapter/repository/mongodb"
	"github.com/ZeyadW/Apartment-Finder/internal/apartment/usecase"
	"github.com/ZeyadW/Apartment-Finder/internal/config"
	"github.com/ZeyadW/Apartment-Finder/internal/mailer"
	userusecase "github.com/ZeyadW/Apartment-Finder/internal/user/usecase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.Fatal("MongoDB is unreachable", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDB)

	apartmentRepo := mongodb.NewApartmentRepository(db, logger)
	developerRepo := mongodb.NewDeveloperRepository(db, logger)
	compoundRepo := mongodb.NewCompoundRepository(db, logger)
	amenityRepo := mongodb.NewAmenityRepository(db, logger)
	userRepo := mongodb.NewUserRepository(db, logger)

	// Redis, NATS and SMTP are optional: the service degrades to
	// uncached, eventless operation when they are not reachable.
	var apartmentCache usecase.Cache
	if c, err := cache.NewApartmentCache(cfg.RedisAddr); err != nil {
		logger.Warn("Redis unavailable, running without cache", zap.Error(err))
	} else {
		apartmentCache = c
		defer c.Close()
	}

	var publisher usecase.EventPublisher
	if p, err := nats.NewPublisher(cfg.NATSURL); err != nil {
		logger.Warn("NATS unavailable, running without events", zap.Error(err))
	} else {
		publisher = p
		defer p.Close()
	}

	var notifier usecase.Notifier
	if cfg.SMTPEmail != "" {
		notifier = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Email:    cfg.SMTPEmail,
			Password: cfg.SMTPPassword,
		})
	}

	apartmentUC := usecase.NewApartmentUsecase(
		apartmentRepo, developerRepo, compoundRepo, amenityRepo,
		apartmentCache, publisher, notifier, logger)
	favoriteUC := usecase.NewFavoriteUsecase(apartmentRepo, apartmentCache, logger)
	developerUC := usecase.NewDeveloperUsecase(developerRepo, logger)
	compoundUC := usecase.NewCompoundUsecase(compoundRepo, logger)
	amenityUC := usecase.NewAmenityUsecase(amenityRepo, logger)
	userUC := userusecase.NewUserUsecase(userRepo, cfg.JWTSecret, logger)

	mux := httprouter.New(httprouter.Handlers{
		Apartments: handler.NewApartmentHandler(apartmentUC, favoriteUC, logger),
		Developers: handler.NewDeveloperHandler(developerUC, logger),
		Compounds:  handler.NewCompoundHandler(compoundUC, logger),
		Amenities:  handler.NewAmenityHandler(amenityUC, logger),
		Auth:       handler.NewAuthHandler(userUC, logger),
	}, cfg.JWTSecret, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
