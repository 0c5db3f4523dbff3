package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/winelog/internal/bot/config"
	"github.com/dmitrijs2005/winelog/internal/bot/repositories/repomanager"
	"github.com/dmitrijs2005/winelog/internal/bot/services"
	"github.com/dmitrijs2005/winelog/internal/logging"
	"github.com/dmitrijs2005/winelog/internal/web"
)

func main() {

	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Printf("db init error: %v", err)
		return
	}
	defer db.Close()

	recordService := services.NewRecordService(db, repomanager.NewPostgresRepositoryManager())

	server, err := web.NewServer(recordService, logger)
	if err != nil {
		log.Printf("web init error: %v", err)
		return
	}

	logger.Info(ctx, "starting webapp", "addr", cfg.WebAddr)
	if err := server.Run(ctx, cfg.WebAddr); err != nil {
		logger.Error(ctx, "webapp stopped", "error", err)
	}
}
