// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"academy-bot/internal/academy"
	"academy-bot/internal/common/config"
	"academy-bot/internal/common/database"
	"academy-bot/internal/common/logger"
	"academy-bot/internal/common/sheets"
	"academy-bot/internal/discord"
	"academy-bot/internal/records"
	"academy-bot/internal/scheduler"
	"academy-bot/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting academy bot...")
	for _, warning := range cfg.Warnings() {
		zapLog.Warn(warning)
	}

	ctx := context.Background()

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init record store (optional) ---
	var recordStore *records.Store
	if cfg.Records.CredentialsFile != "" {
		var sheetsClient *sheets.Client
		err = retryWithBackoff(func() error {
			var err error
			sheetsClient, err = sheets.NewClient(ctx, cfg.Records.CredentialsFile)
			return err
		}, 5, 2*time.Second, zapLog, "Sheets client initialization")

		if err != nil {
			zapLog.Fatal("sheets client failed after retries", zap.Error(err))
		}

		recordStore = records.NewStore(sheetsClient, sheets.NewTabCache(), cfg.Records, log)
		zapLog.Info("Record store initialized")
	}

	// --- Load message templates ---
	var templates *registry.TemplateRegistry
	if reg, err := registry.LoadRegistry(cfg.Templates.RegistryPath); err != nil {
		zapLog.Warn("template registry load failed, using built-in defaults", zap.Error(err))
	} else {
		templates = reg
		zapLog.Info("Template registry loaded", zap.Int("templates", len(reg.Templates)))
	}

	// --- Build the bot ---
	stores := discord.Stores{
		Schedule:   academy.NewScheduleStore(rdb),
		Prompts:    academy.NewPromptStore(rdb),
		Points:     academy.NewPointsStore(rdb),
		Attendance: academy.NewAttendanceStore(rdb),
		Passes:     academy.NewPassStore(rdb),
		Nurse:      academy.NewNurseQueue(rdb),
	}
	if err := stores.Prompts.Seed(context.Background()); err != nil {
		zapLog.Warn("prompt seeding failed", zap.Error(err))
	}

	bot, err := discord.New(cfg, log, recordStore, templates, stores)
	if err != nil {
		zapLog.Fatal("bot construction failed", zap.Error(err))
	}

	err = retryWithBackoff(bot.Start, 5, 2*time.Second, zapLog, "Discord connection")
	if err != nil {
		zapLog.Fatal("discord failed after retries", zap.Error(err))
	}
	defer bot.Stop()
	zapLog.Info("Discord connected successfully")

	// --- Daily scheduler ---
	schedCtx, cancelSched := context.WithCancel(ctx)
	defer cancelSched()

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		zapLog.Warn("invalid scheduler timezone, falling back to UTC", zap.Error(err))
		loc = time.UTC
	}

	sched := scheduler.New(rdb, log, time.Duration(cfg.Scheduler.TickSeconds)*time.Second)
	if cfg.Discord.Channels.Calendar != "" {
		sched.Add(bot.BulletinJob(), scheduler.DailySchedule{Hour: cfg.Scheduler.BulletinHour, Location: loc})
	}
	if cfg.Discord.Channels.StudentLounge != "" {
		sched.Add(bot.PromptJob(), scheduler.DailySchedule{Hour: cfg.Scheduler.PromptHour, Location: loc})
	}
	go sched.Run(schedCtx)

	// --- Keep-alive HTTP server: health, metrics, pprof ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "ok")
		})

		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := rdb.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		http.Handle("/metrics", promhttp.Handler())

		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping bot...")
	cancelSched()
}
