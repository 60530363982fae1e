// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package middleware contains the HTTP middleware for the ingress surface.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peaknote/transcript-service/internal/logging"
)

// RequestIDHeader carries the per-request correlation id back to the caller.
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns every request an id, threads it through the request
// context for downstream log lines, and writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Writer.Header().Set(RequestIDHeader, requestID)

		ctx := logging.AppendCtx(c.Request.Context(), slog.String("request_id", requestID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		slog.InfoContext(ctx, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// Recovery converts panics into 500 responses with a logged stack context
// instead of killing the connection.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
