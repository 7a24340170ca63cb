package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pcosguard-backend/handlers"
	"pcosguard-backend/logger"
	"pcosguard-backend/repository"
	"pcosguard-backend/service"
	"pcosguard-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	envErr := godotenv.Load()
	if envErr != nil {
		envErr = godotenv.Load("../../.env")
	}

	appEnv := os.Getenv("APP_ENV")
	log, err := logger.New(appEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if envErr != nil {
		log.Warn("no .env file found, using environment variables")
	}

	ctx := context.Background()

	// Initialize storage
	store, err := storage.NewStorageFromEnv(ctx)
	if err != nil {
		log.Fatal("failed to initialize storage", "error", err)
	}
	defer store.Close()
	log.Info("storage initialized", "type", storageType())

	records := repository.NewRecordRepository(store, log)

	// Initialize oracle
	oracle, err := service.NewOracleFromEnv(ctx)
	if err != nil {
		log.Fatal("failed to initialize oracle", "error", err)
	}
	if closer, ok := oracle.(io.Closer); ok {
		defer closer.Close()
	}
	log.Info("oracle initialized", "mode", oracleMode())

	// Initialize services
	assessmentService := service.NewAssessmentService(
		service.WithOracle(oracle),
		service.WithAssessmentLogger(log),
	)

	controller := service.NewController(
		service.ControllerWithRecordRepository(records),
		service.ControllerWithAssessmentService(assessmentService),
		service.ControllerWithLogger(log),
	)
	controller.Restore(ctx)

	// Initialize handlers
	form := handlers.NewSharedForm()
	sessionHandler := handlers.NewSessionHandler(controller)
	formHandler := handlers.NewFormHandler(form)
	assessmentHandler := handlers.NewAssessmentHandler(controller, form)

	if strings.EqualFold(appEnv, "prod") || strings.EqualFold(appEnv, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	}))

	handlers.RegisterRoutes(r, sessionHandler, formHandler, assessmentHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("server stopped")
}

func storageType() string {
	if t := os.Getenv("STORAGE_TYPE"); t != "" {
		return t
	}
	return string(storage.StorageTypeLocal)
}

func oracleMode() string {
	if m := os.Getenv("ORACLE_MODE"); m != "" {
		return m
	}
	return string(service.OracleModeSDK)
}

func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:3000", "http://localhost:5173"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
