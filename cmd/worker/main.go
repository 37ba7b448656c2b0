package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"

	"sareeapi/config"
	"sareeapi/dbhelper"
	"sareeapi/pkg/logger"
	"sareeapi/tasks"
	"sareeapi/telegram"
)

// digestSchedule fires the catalog digest every morning.
const digestSchedule = "0 9 * * *"

func runScheduler(redis asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redis, &asynq.SchedulerOpts{
		LogLevel: asynq.InfoLevel,
	})

	entryID, err := scheduler.Register(digestSchedule, tasks.NewCatalogDigestTask())
	if err != nil {
		logger.Fatal("Failed to register catalog digest", err)
	}
	logger.Info("Registered task", logger.Fields{"task": tasks.TypeCatalogDigest, "entry_id": entryID, "cron": digestSchedule})

	if err := scheduler.Run(); err != nil {
		logger.Fatal("Scheduler failed", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	logger.Initialize(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if cfg.Queue.BrokerAddress == "" {
		logger.Fatal("ASYNC_BROKER_ADDRESS environment variable is not set!", nil)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Server.Environment,
		Release:     cfg.Sentry.Release,
	}); err != nil {
		logger.Fatal("sentry.Init failed", err)
	}
	defer sentry.Flush(2 * time.Second)

	db, err := dbhelper.SetupDB(cfg.Database)
	if err != nil {
		logger.Fatal("[Queue] Failed to connect database", err)
	}

	var notifier telegram.Notifier = telegram.NoopNotifier{}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		bot, err := telegram.NewBotNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("[Queue] Failed to initialize telegram bot", err)
		}
		notifier = bot
	} else {
		logger.Warn("Telegram is not configured, export notifications are disabled")
	}

	redis := asynq.RedisClientOpt{Addr: cfg.Queue.BrokerAddress}
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			tasks.QueueCatalog: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCatalogRecord, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleCatalogRecordTask(ctx, t, db, notifier)
	})
	mux.HandleFunc(tasks.TypeCatalogDigest, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleCatalogDigestTask(ctx, t, db, notifier, time.Now)
	})

	go runScheduler(redis)
	if err := srv.Run(mux); err != nil {
		logger.Fatal("Worker failed", err)
	}
}
