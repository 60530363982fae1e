// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/peaknote/transcript-service/internal/domain"
	graphapi "github.com/peaknote/transcript-service/internal/infrastructure/graph/api"
	"github.com/peaknote/transcript-service/internal/infrastructure/lock"
	"github.com/peaknote/transcript-service/internal/infrastructure/store"
	"github.com/peaknote/transcript-service/internal/infrastructure/summarizer"
	"github.com/peaknote/transcript-service/internal/logging"
)

const gracefulShutdownSeconds = 25

// setupNATS creates the NATS connection with reconnect and shutdown handling.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// Graceful shutdown: the parent context is already canceled.
				gracefulCloseWG.Done()
				return
			}
			// Max reconnect attempts exhausted.
			slog.Error("NATS max-reconnects exhausted; connection closed")
			done <- os.Interrupt
			time.Sleep(5 * time.Second)
			os.Exit(1)
		}),
	)
	if err != nil {
		return nil, err
	}
	return natsConn, nil
}

// repositories bundles the KV-backed stores for dependency wiring.
type repositories struct {
	MeetingEvent    *store.NatsMeetingEventRepository
	MeetingInstance *store.NatsMeetingInstanceRepository
	Transcript      *store.NatsTranscriptRepository
	Subscription    *store.NatsSubscriptionRepository
	User            *store.NatsUserRepository
	Lock            *lock.NatsLockService
}

// getKeyValueStores creates or binds the KV buckets and wraps them in the
// repositories.
func getKeyValueStores(ctx context.Context, js jetstream.JetStream) (*repositories, error) {
	buckets := map[string]jetstream.KeyValue{}
	for _, name := range []string{
		store.KVStoreNameMeetingEvents,
		store.KVStoreNameMeetingInstances,
		store.KVStoreNameTranscripts,
		store.KVStoreNameSubscriptions,
		store.KVStoreNameUsers,
		lock.KVStoreNameLocks,
	} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket: name,
		})
		if err != nil {
			slog.With(logging.ErrKey, err, "bucket", name).ErrorContext(ctx, "error creating KV bucket")
			return nil, err
		}
		buckets[name] = kv
	}

	return &repositories{
		MeetingEvent:    store.NewNatsMeetingEventRepository(buckets[store.KVStoreNameMeetingEvents]),
		MeetingInstance: store.NewNatsMeetingInstanceRepository(buckets[store.KVStoreNameMeetingInstances]),
		Transcript:      store.NewNatsTranscriptRepository(buckets[store.KVStoreNameTranscripts]),
		Subscription:    store.NewNatsSubscriptionRepository(buckets[store.KVStoreNameSubscriptions]),
		User:            store.NewNatsUserRepository(buckets[store.KVStoreNameUsers]),
		Lock:            lock.NewNatsLockService(buckets[lock.KVStoreNameLocks]),
	}, nil
}

// setupGraphClient builds the external calendar API client from the
// environment credentials.
func setupGraphClient(env environment) *graphapi.Client {
	return graphapi.NewClient(graphapi.Config{
		TenantID:     env.Graph.TenantID,
		ClientID:     env.Graph.ClientID,
		ClientSecret: env.Graph.ClientSecret,
	})
}

// setupSummarizer builds the transcript summarizer, falling back to the
// pass-through when no API key is configured.
func setupSummarizer(env environment) domain.Summarizer {
	if env.OpenAI.APIKey == "" {
		slog.Warn("no summarizer API key configured, transcripts will be stored unsummarized")
		return &summarizer.NoopSummarizer{}
	}
	return summarizer.NewOpenAISummarizer(env.OpenAI.APIKey, env.OpenAI.Model)
}
