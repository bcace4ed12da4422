package main

import (
	"fmt"
	"net/http"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/finassist/finance-service/internal/classify"
	"github.com/finassist/finance-service/internal/config"
	"github.com/finassist/finance-service/internal/handler"
	"github.com/finassist/finance-service/internal/integrations/extractor"
	"github.com/finassist/finance-service/internal/integrations/rates"
	"github.com/finassist/finance-service/internal/middleware"
	"github.com/finassist/finance-service/internal/repository"
	"github.com/finassist/finance-service/internal/scheduler"
	"github.com/finassist/finance-service/internal/service"
	"github.com/finassist/finance-service/internal/utils/email"
)

func main() {
	// Local development overrides; missing file is fine.
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	repo := repository.NewRepository(db)
	if err := repository.InitSchema(db); err != nil {
		logger.Fatalf("Failed to init schema: %v", err)
	}

	// Keyword table for priority and one-time classification
	keywords := classify.DefaultTable()
	if cfg.KeywordTablePath != "" {
		keywords, err = classify.LoadTable(cfg.KeywordTablePath)
		if err != nil {
			logger.Fatalf("Failed to load keyword table: %v", err)
		}
	}

	// Initialize layers
	extractorClient := extractor.NewClient(cfg, logger)
	ratesClient := rates.NewClient(cfg, logger)
	sender := email.NewSender(cfg, logger)
	svc := service.NewService(repo, logger, cfg, keywords, extractorClient, ratesClient)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/password-reset/request", h.RequestPasswordReset).Methods("POST")
	r.HandleFunc("/password-reset", h.ResetPassword).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/assets", h.CreateAsset).Methods("POST")
	authRouter.HandleFunc("/assets", h.ListAssets).Methods("GET")
	authRouter.HandleFunc("/future-assets", h.CreateFutureAsset).Methods("POST")
	authRouter.HandleFunc("/future-assets", h.ListFutureAssets).Methods("GET")
	authRouter.HandleFunc("/liabilities", h.CreateLiability).Methods("POST")
	authRouter.HandleFunc("/liabilities", h.ListLiabilities).Methods("GET")
	authRouter.HandleFunc("/liabilities/{id:[0-9]+}/installments", h.ListInstallments).Methods("GET")
	authRouter.HandleFunc("/liabilities/{id:[0-9]+}/payments", h.ApplyPayment).Methods("POST")
	authRouter.HandleFunc("/expenses", h.ApplyExpense).Methods("POST")
	authRouter.HandleFunc("/projection", h.Projection).Methods("GET")
	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	authRouter.HandleFunc("/recommendations", h.Recommendations).Methods("GET")
	authRouter.HandleFunc("/chat/sessions", h.CreateChatSession).Methods("POST")
	authRouter.HandleFunc("/chat/sessions/{id}/messages", h.ChatHistory).Methods("GET")
	authRouter.HandleFunc("/chat", h.Chat).Methods("POST")

	// Daily reminder job
	sched := scheduler.NewScheduler(repo, sender, logger)
	if err := sched.Start(cfg.ReminderCron); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
