package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pulseid/platform/pkg/common/config"
	"github.com/pulseid/platform/pkg/common/database"
	"github.com/pulseid/platform/pkg/common/kafka"
	"github.com/pulseid/platform/pkg/common/logger"
	"github.com/pulseid/platform/pkg/gateway/middleware"
	"github.com/pulseid/platform/pkg/medication"
	"github.com/pulseid/platform/pkg/observability/metrics"
	"github.com/pulseid/platform/pkg/risk"
	"github.com/pulseid/platform/pkg/share"
)

func main() {
	logger.Init()
	cfg := config.Load()

	vocab, err := risk.LoadVocabulary(cfg.RiskVocabularyPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.RiskVocabularyPath).Fatal("Failed to load risk vocabulary")
	}

	ecc, err := share.ParseErrorCorrection(cfg.QRErrorCorrection)
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid QR_ERROR_CORRECTION")
	}

	producer := kafka.NewProducer(cfg.ShareEventsTopic)
	defer producer.Close()

	links := share.NewRedisLinkStore(database.GetRedis())
	defer database.CloseRedis()

	service, err := share.NewService(share.Config{
		ViewerBaseURL:    cfg.ViewerBaseURL,
		ShortLinkBaseURL: cfg.ShortLinkBaseURL,
		ErrorCorrection:  ecc,
		Compress:         cfg.PayloadCompression,
		LinkTTL:          cfg.ShareLinkTTL,
	}, risk.NewEngine(vocab), links, producer)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to configure share service")
	}

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", metrics.Handler()).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	share.NewHandler(service).Register(apiRouter)
	medication.NewHandler(time.Now).Register(apiRouter)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":      cfg.ServerHost,
			"port":      cfg.ServerPort,
			"ecc_level": string(ecc),
			"compress":  cfg.PayloadCompression,
		}).Info("PulseID Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down PulseID Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("PulseID Service stopped")
}
