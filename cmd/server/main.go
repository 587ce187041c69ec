package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/artur/tubedrop/internal/bot"
	"github.com/artur/tubedrop/internal/config"
	"github.com/artur/tubedrop/internal/database"
	"github.com/artur/tubedrop/internal/database/repository"
	"github.com/artur/tubedrop/internal/downloader"
	"github.com/artur/tubedrop/internal/handler"
	"github.com/artur/tubedrop/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация базы данных
	db, err := database.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Запускаем миграции
	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	downloads := repository.NewDownloadRepository(db.DB)
	extractor := downloader.NewYouTubeDownloader()

	// Уведомления в Telegram опциональны
	var notifier service.Notifier
	var tg *bot.Notifier
	if cfg.TelegramEnabled() {
		tg, err = bot.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("[BOT] Failed to create bot, notifications disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	router := handler.NewRouter(handler.Handlers{
		Info:     handler.NewInfoHandler(service.NewNegotiator(extractor)),
		Download: handler.NewDownloadHandler(service.NewRelay(extractor)),
		History:  handler.NewHistoryHandler(service.NewRecorder(downloads, notifier)),
		Health:   handler.NewHealthHandler(db.DB, downloads),
	}, rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[HTTP] Listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Отправляем уведомление о запуске
	if tg != nil {
		if err := tg.SendStartupNotification(cfg.HTTPAddr); err != nil {
			log.Printf("[BOT] Failed to send startup notification: %v", err)
		}
	}

	<-ctx.Done()
	log.Printf("[HTTP] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[HTTP] Graceful shutdown failed: %v", err)
	}
}
