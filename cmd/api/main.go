package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/config"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/handler"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/middleware"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/repository"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/scheduler"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/service"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg)
	h := handler.NewHandler(svc)

	var sender *email.Sender
	if cfg.SMTPHost != "" {
		sender = email.NewSender(cfg, logger)
	}

	// Nightly prediction sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched := scheduler.NewScheduler(ctx, svc, sender, cfg, logger)
	if err := sched.Register(); err != nil {
		logger.Fatalf("Failed to register sweep task: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	if cfg.RunSweepOnStart {
		logger.Info("RUN_SWEEP_ON_START enabled, executing sweep now")
		go sched.RunSweepNow()
	}

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/drivers/{id:[0-9]+}/prediction", h.GetPrediction).Methods("GET")
	authRouter.HandleFunc("/predictions/sweep", h.TriggerSweep).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
