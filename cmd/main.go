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

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mlaconnect/backend/internal/account"
	"mlaconnect/backend/internal/activity"
	"mlaconnect/backend/internal/api"
	"mlaconnect/backend/internal/api/handler"
	"mlaconnect/backend/internal/api/middleware"
	"mlaconnect/backend/internal/calendar"
	"mlaconnect/backend/internal/complaint"
	"mlaconnect/backend/internal/config"
	"mlaconnect/backend/internal/dashboard"
	"mlaconnect/backend/internal/invitation"
	"mlaconnect/backend/internal/localization"
	"mlaconnect/backend/internal/logger"
	"mlaconnect/backend/internal/meeting"
	"mlaconnect/backend/internal/notify"
	"mlaconnect/backend/internal/storage"
	"mlaconnect/backend/internal/upload"
)

func setupDependencies(cfg *config.Config, lg *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		lg.Fatal("failed to connect Redis", zap.Error(err))
	}

	lg.Info("database and redis connections established")
	return db, rdb
}

// setupNotifier wires whichever delivery channels have credentials.
func setupNotifier(cfg *config.Config, lg *zap.Logger) *notify.Dispatcher {
	var (
		mailer  notify.Mailer
		texter  notify.Texter
		alerter notify.Alerter
	)
	if cfg.Email.Host != "" && cfg.Email.Username != "" {
		mailer = &notify.SMTPMailer{
			Host:        cfg.Email.Host,
			Port:        cfg.Email.Port,
			Username:    cfg.Email.Username,
			Password:    cfg.Email.Password,
			DisplayName: config.SenderDisplayName,
		}
	} else {
		lg.Warn("email is not configured; mail will be skipped")
	}
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" && cfg.Twilio.PhoneNumber != "" {
		texter = notify.NewTwilioTexter(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber, config.DefaultPhoneCountryCode)
	} else {
		lg.Warn("twilio is not configured; sms will be skipped")
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.OfficeChatID != 0 {
		a, err := notify.NewTelegramAlerter(cfg.Telegram.BotToken, cfg.Telegram.OfficeChatID)
		if err != nil {
			lg.Warn("telegram alerts disabled", zap.Error(err))
		} else {
			alerter = a
		}
	}
	return notify.NewDispatcher(mailer, texter, alerter, lg, config.NotifyTimeout)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	db, rdb := setupDependencies(cfg, lg)
	s := storage.NewStorageService(db, rdb)
	if err := s.AutoMigrate(); err != nil {
		lg.Fatal("failed to run migrations", zap.Error(err))
	}

	msgs, err := localization.NewLocalizer()
	if err != nil {
		lg.Fatal("failed to load message catalog", zap.Error(err))
	}
	uploads, err := upload.NewStore(cfg.UploadDir, config.MaxMediaFiles, config.MaxMediaFileBytes, lg)
	if err != nil {
		lg.Fatal("failed to prepare upload dir", zap.Error(err))
	}
	dispatcher := setupNotifier(cfg, lg)
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := activity.NewManagerService(s, lg)
	go hub.Run(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	accounts := account.NewService(s, dispatcher, msgs, lg, cfg.JWTSecret, cfg.MLASecretKey)
	h := &handler.Handler{
		Accounts:       accounts,
		Meetings:       meeting.NewService(s, dispatcher, uploads, msgs, lg, loc),
		Complaints:     complaint.NewService(s, dispatcher, uploads, msgs, lg),
		Invitations:    invitation.NewService(s, dispatcher, uploads, msgs, lg, loc),
		Calendar:       calendar.NewService(s, loc),
		Dashboard:      dashboard.NewService(s, msgs, loc),
		Hub:            hub,
		Log:            lg,
		CookieSecure:   cfg.CookieSecure,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	r, err := api.NewRouter(h, api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		UploadDir:      cfg.UploadDir,
		Limiter:        limiter,
		Auth:           accounts,
		Log:            lg,
	})
	if err != nil {
		lg.Fatal("failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		lg.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
	<-hub.Done()
	dispatcher.Wait()
	if err := rdb.Close(); err != nil {
		lg.Warn("closing redis", zap.Error(err))
	}
}
