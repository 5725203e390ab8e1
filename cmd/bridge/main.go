package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/deskbridge/deskbridge/attachment"
	"github.com/deskbridge/deskbridge/bridge"
	"github.com/deskbridge/deskbridge/chat/discord"
	"github.com/deskbridge/deskbridge/config"
	"github.com/deskbridge/deskbridge/consumer"
	consredis "github.com/deskbridge/deskbridge/consumer/redis"
	"github.com/deskbridge/deskbridge/event"
	chihandlers "github.com/deskbridge/deskbridge/internal/http/chi"
	mapredis "github.com/deskbridge/deskbridge/mapping/redis"
	"github.com/deskbridge/deskbridge/metrics"
	"github.com/deskbridge/deskbridge/policy"
	"github.com/deskbridge/deskbridge/ticketing/dashboard"
)

const shutdownTimeout = 30 * time.Second

/* main is where all the wiring happens: configuration, connections and
 * the packages that carry the business logic. Imports only go downward:
 * the binary imports business packages, which import storage/transport.
 */

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	attCfg, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	// Two independent queue connections: a long-blocking pop must never
	// starve diagnostic queries.
	popQueue, err := consredis.NewQueue(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	auxQueue, err := consredis.NewQueue(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		popQueue.Close()
		return err
	}

	store, err := mapredis.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	metricsClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer metricsClient.Close()
	collector := metrics.NewRedisCollector(metricsClient, cfg.QueueName)

	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		return err
	}
	defer exporter.Shutdown(context.Background())

	sender, err := discord.NewSender(cfg.DiscordToken, logger)
	if err != nil {
		return err
	}
	if err := sender.Open(); err != nil {
		return err
	}
	defer sender.Close()

	uploader := dashboard.NewClient(cfg.DashboardAPIURL, cfg.DashboardAPIKey, nil)
	downloader := attachment.NewDownloader(nil, attCfg, attachment.DownloaderConfig{
		ThumbnailBaseURL: cfg.DashboardAPIURL,
		APIKey:           cfg.DashboardAPIKey,
		TeamID:           cfg.DashboardTeamID,
	}, logger)

	detector := attachment.NewDetector(attCfg, logger)
	handler := attachment.NewHandler(attCfg, detector, downloader, uploader, sender, logger)

	service := bridge.NewService(attCfg, detector, handler, store, cfg.MappingTTL(), logger)

	listener := discord.NewListener(sender.Session(), handler, detector, store, attCfg, logger)
	listener.Start()
	defer listener.Stop()

	validator := event.NewValidator(logger)
	cons := consumer.New(consumer.Options{
		QueueName:    cfg.QueueName,
		PollInterval: cfg.PollInterval(),
	}, popQueue, auxQueue, validator, service, collector, logger)

	if err := cons.Start(ctx); err != nil {
		return err
	}
	defer cons.Stop()

	r := chihandlers.Handlers(ctx, cons, collector, exporter.ServeHTTP())
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)

	logger.Info("deskbridge listening", "port", cfg.Port, "queue", cfg.QueueName)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return <-errShutdown
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		errShutdown <- nil
	default:
		errShutdown <- fmt.Errorf("forcing server close: %w", err)
	}
}
