package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jobs-srv/config"
	configMinio "jobs-srv/config/minio"
	configPostgre "jobs-srv/config/postgre"
	configRedis "jobs-srv/config/redis"
	analyticsUC "jobs-srv/internal/analytics/usecase"
	"jobs-srv/internal/httpserver"
	mediaUC "jobs-srv/internal/media/usecase"
	"jobs-srv/internal/notification"
	"jobs-srv/internal/notification/channel"
	notificationUC "jobs-srv/internal/notification/usecase"
	publishUC "jobs-srv/internal/publish/usecase"
	queueUC "jobs-srv/internal/queue/usecase"
	"jobs-srv/internal/realtime"
	schedulerUC "jobs-srv/internal/scheduler/usecase"
	"jobs-srv/internal/sentiment"
	sentimentInmem "jobs-srv/internal/sentiment/repository/inmem"
	sentimentPostgre "jobs-srv/internal/sentiment/repository/postgre"
	sentimentUC "jobs-srv/internal/sentiment/usecase"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"
	pkgMinio "jobs-srv/pkg/minio"
	pkgRedis "jobs-srv/pkg/redis"
	"jobs-srv/pkg/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}

	l := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Infof(ctx, "cmd.worker: starting jobs-srv (%s)", cfg.Environment.Name)
	clk := clock.NewRealClock()

	// Postgres backs the sentiment repository; a failed connection falls back
	// to the in-memory repository so the rest of the worker still runs.
	var sentimentRepo sentiment.Repository
	db, err := configPostgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		l.Warnf(ctx, "cmd.worker: postgres unavailable, using in-memory sentiment store: %v", err)
		sentimentRepo = sentimentInmem.New()
	} else {
		defer configPostgre.Disconnect(db)
		sentimentRepo = sentimentPostgre.New(l, db)
		l.Info(ctx, "cmd.worker: postgres connected")
	}

	var rdb *pkgRedis.Client
	if rdb, err = configRedis.Connect(cfg.Redis); err != nil {
		l.Warnf(ctx, "cmd.worker: redis unavailable, realtime delivery disabled: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
		l.Info(ctx, "cmd.worker: redis connected")
	}

	var storage pkgMinio.ObjectStorage
	if storage, err = configMinio.Connect(ctx, cfg.MinIO); err != nil {
		l.Warnf(ctx, "cmd.worker: minio unavailable, media jobs will fail: %v", err)
		storage = unavailableStorage{}
	} else {
		l.Info(ctx, "cmd.worker: minio connected")
	}

	webhookSender := webhook.New(l, webhook.Config{
		Timeout:         cfg.Webhook.Timeout,
		RetryCount:      cfg.Webhook.RetryCount,
		RetryDelay:      cfg.Webhook.RetryDelay,
		DefaultUsername: cfg.Webhook.Username,
	})
	defer webhookSender.Close()

	// Notification channels. In-app first so it is the always-on fallback.
	var inAppPub channel.Publisher = noopPublisher{}
	if rdb != nil {
		inAppPub = &redisPublisher{rdb: rdb}
	}
	senders := []notification.Sender{
		channel.NewInApp(l, &logStore{l: l}, inAppPub),
		channel.NewEmail(l, &devEmail{l: l}),
		channel.NewPush(l, &devPush{l: l}),
		channel.NewSMS(l, &devSMS{l: l}),
		channel.NewWebhook(l, webhookSender),
	}
	notifUC := notificationUC.New(l, clk, defaultPrefs{}, senders)

	// Processors notify through the relay; the scheduler binds to it below.
	relay := &notifyRelay{}
	pubUC := publishUC.New(l, &devPublisher{l: l}, relay)
	anaUC := analyticsUC.New(l, clk, &devSource{l: l}, relay)
	sentUC := sentimentUC.New(l, clk, sentimentRepo, devScorer{}, &crisisNotifier{
		relay:  relay,
		sender: webhookSender,
		url:    cfg.Monitor.CrisisWebhookURL,
		l:      l,
	})
	medUC := mediaUC.New(l, storage, identityTransformer{})

	manager := queueUC.New(l, clk)
	sched := schedulerUC.New(l, clk, cfg.Scheduler, manager, schedulerUC.Processors{
		Publish:      pubUC,
		Analytics:    anaUC,
		Notification: notifUC,
		Media:        medUC,
		Sentiment:    sentUC,
	}, emptyDirectory{})
	relay.Bind(sched)

	if cfg.Scheduler.AutoStart {
		if err := sched.Start(ctx); err != nil {
			l.Errorf(ctx, "cmd.worker: scheduler start: %v", err)
			os.Exit(1)
		}
	}

	// Realtime hub bridges in-app notifications to dashboard sockets.
	hub := realtime.NewHub(l)
	go hub.Run()

	var subscriber *realtime.Subscriber
	if rdb != nil {
		subscriber = realtime.NewSubscriber(l, rdb, hub)
		if err := subscriber.Start(ctx); err != nil {
			l.Errorf(ctx, "cmd.worker: realtime subscriber start: %v", err)
			subscriber = nil
		}
	}

	srv, err := httpserver.New(l, httpserver.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Mode:        cfg.Server.Mode,
		Environment: cfg.Environment.Name,
		Scheduler:   sched,
		Hub:         hub,
		Redis:       rdb,
	})
	if err != nil {
		l.Errorf(ctx, "cmd.worker: http server init: %v", err)
		os.Exit(1)
	}
	go func() {
		if err := srv.Run(); err != nil {
			l.Errorf(ctx, "cmd.worker: http server: %v", err)
		}
	}()

	<-ctx.Done()
	l.Info(context.Background(), "cmd.worker: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Errorf(shutdownCtx, "cmd.worker: http shutdown: %v", err)
	}
	if subscriber != nil {
		if err := subscriber.Shutdown(shutdownCtx); err != nil {
			l.Errorf(shutdownCtx, "cmd.worker: subscriber shutdown: %v", err)
		}
	}
	hub.Shutdown()
	if err := sched.Shutdown(shutdownCtx); err != nil {
		l.Errorf(shutdownCtx, "cmd.worker: scheduler shutdown: %v", err)
	}

	l.Info(context.Background(), "cmd.worker: stopped")
}
