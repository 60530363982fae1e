// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peaknote/transcript-service/internal/handlers"
	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/internal/middleware"
	"github.com/peaknote/transcript-service/pkg/constants"
)

// readiness is the set of checks behind /readyz.
type readiness struct {
	checks map[string]func() bool
	mu     sync.RWMutex
}

func newReadiness() *readiness {
	return &readiness{checks: map[string]func() bool{}}
}

func (r *readiness) add(name string, check func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = check
}

func (r *readiness) ready() (map[string]bool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	statuses := make(map[string]bool, len(r.checks))
	ok := true
	for name, check := range r.checks {
		up := check()
		statuses[name] = up
		ok = ok && up
	}
	return statuses, ok
}

// newRouter builds the gin engine with every route of the service: webhook
// ingress, transcript API, admin endpoints, metrics and health probes.
func newRouter(
	webhookHandler *handlers.WebhookHandler,
	transcriptHandler *handlers.TranscriptHandler,
	adminHandler *handlers.AdminHandler,
	ready *readiness,
	debug bool,
) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())

	// Webhook ingress. Graph sends the handshake with both GET and POST.
	for _, route := range []struct {
		path    string
		handler gin.HandlerFunc
	}{
		{constants.NotificationWebhookPath, webhookHandler.HandleEventNotification},
		{constants.TranscriptWebhookPath, webhookHandler.HandleTranscriptNotification},
		{constants.CallRecordWebhookPath, webhookHandler.HandleCallRecordNotification},
		{constants.LifecycleWebhookPath, webhookHandler.HandleLifecycleNotification},
	} {
		r.GET(route.path, route.handler)
		r.POST(route.path, route.handler)
	}

	api := r.Group("/api/v1")
	{
		api.GET("/transcript", transcriptHandler.HandleGetByURL)
		api.GET("/transcript/:eventId", transcriptHandler.HandleGetByEventID)
		api.POST("/transcript", transcriptHandler.HandleUpdate)

		admin := api.Group("/admin")
		admin.POST("/users/sync", adminHandler.HandleSyncUsers)
		admin.POST("/subscriptions", adminHandler.HandleSubscribeAllUsers)
		admin.GET("/subscriptions", adminHandler.HandleListSubscriptions)
		admin.DELETE("/subscriptions", adminHandler.HandleDeleteSubscriptions)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		statuses, ok := ready.ready()
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": ok, "checks": statuses})
	})

	return r
}

// setupHTTPServer starts the HTTP server on the configured address.
func setupHTTPServer(flags flags, router *gin.Engine, gracefulCloseWG *sync.WaitGroup) *http.Server {
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Info("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http server closed unexpectedly")
		}
		gracefulCloseWG.Done()
	}()

	return httpServer
}
