// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package main is the transcript service API: it receives Microsoft Graph
// change notifications over webhooks, pipes them through NATS JetStream, and
// serves the stored transcript summaries over a REST API.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/peaknote/transcript-service/internal/handlers"
	"github.com/peaknote/transcript-service/internal/infrastructure/cache"
	"github.com/peaknote/transcript-service/internal/infrastructure/messaging"
	"github.com/peaknote/transcript-service/internal/infrastructure/webhook"
	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/internal/service"
	"github.com/peaknote/transcript-service/pkg/concurrent"
	"github.com/peaknote/transcript-service/pkg/constants"
)

const transcriptWorkerCount = 4

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Graceful shutdown plumbing.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating JetStream context")
		return
	}

	if _, err := messaging.SetupNotificationStream(ctx, js); err != nil {
		slog.With(logging.ErrKey, err).Error("error creating notification stream")
		return
	}

	repos, err := getKeyValueStores(ctx, js)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	graphClient := setupGraphClient(env)

	// Initialize services.
	serviceConfig := service.ServiceConfig{
		WebhookBaseURL: env.WebhookBaseURL,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn, js)
	dedupStore := webhook.NewDedupStore(constants.DedupWindow)
	defer dedupStore.Close()

	webhookService := service.NewWebhookService(dedupStore, messageBuilder)
	subscriptionService := service.NewSubscriptionService(repos.Subscription, repos.User, graphClient, serviceConfig)
	meetingEventService := service.NewMeetingEventService(repos.MeetingEvent, repos.MeetingInstance, graphClient, subscriptionService)
	storeService := service.NewTranscriptStoreService(
		repos.Transcript,
		repos.MeetingEvent,
		cache.NewMemoryCache(constants.CacheTTL),
		repos.Lock,
	)
	transcriptService := service.NewTranscriptProcessService(
		repos.MeetingEvent,
		storeService,
		graphClient,
		setupSummarizer(env),
		concurrent.NewWorkerPool(transcriptWorkerCount),
	)
	callRecordService := service.NewCallRecordService(repos.MeetingInstance, repos.MeetingEvent)
	userSyncService := service.NewUserSyncService(repos.User, graphClient)

	// Start the notification consumers, one per topic.
	messageHandlers := service.NewMessageHandlers(meetingEventService, transcriptService, callRecordService)
	for _, subject := range []string{
		constants.EventNotificationSubject,
		constants.TranscriptNotificationSubject,
		constants.CallRecordNotificationSubject,
	} {
		consumer := messaging.NewConsumer(subject, messageHandlers)
		gracefulCloseWG.Add(1)
		go func() {
			defer gracefulCloseWG.Done()
			if err := consumer.Start(ctx, js); err != nil {
				slog.With(logging.ErrKey, err).Error("notification consumer stopped")
			}
		}()
	}

	// Start the periodic sweeps.
	sweepService := service.NewSweepService(subscriptionService, meetingEventService, transcriptService)
	if err := sweepService.Start(ctx); err != nil {
		slog.With(logging.ErrKey, err).Error("error starting sweep scheduler")
		return
	}

	// HTTP surface.
	ready := newReadiness()
	ready.add("nats", natsConn.IsConnected)
	ready.add("webhook", webhookService.ServiceReady)
	ready.add("pipeline", messageHandlers.HandlerReady)

	router := newRouter(
		handlers.NewWebhookHandler(webhookService),
		handlers.NewTranscriptHandler(storeService),
		handlers.NewAdminHandler(subscriptionService, userSyncService),
		ready,
		flags.Debug,
	)
	httpServer := setupHTTPServer(flags, router, &gracefulCloseWG)

	slog.Info("transcript service started", "port", flags.Port)

	// Block until SIGINT or SIGTERM.
	<-done

	gracefulShutdown(httpServer, sweepService, natsConn, &gracefulCloseWG, cancel)
}

// gracefulShutdown stops the HTTP server, the sweeps, and drains the NATS
// connection, waiting for the consumers to finish their in-flight message.
func gracefulShutdown(
	httpServer *http.Server,
	sweepService *service.SweepService,
	natsConn *nats.Conn,
	gracefulCloseWG *sync.WaitGroup,
	cancel context.CancelFunc,
) {
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}

	sweepService.Stop()

	// Cancel the consumer contexts, then drain the connection.
	cancel()
	if err := natsConn.Drain(); err != nil {
		slog.With(logging.ErrKey, err).Error("error draining NATS connection")
	}

	waitDone := make(chan struct{})
	go func() {
		gracefulCloseWG.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
		slog.Info("shutdown complete")
	case <-shutdownCtx.Done():
		slog.Warn("shutdown timed out, exiting")
	}
}
