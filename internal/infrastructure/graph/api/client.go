// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package api implements the Microsoft Graph REST client used for calendar,
// online meeting, subscription, and transcript operations.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/logging"
)

// Ensure that Client implements the calendar client contract.
var _ domain.CalendarClient = (*Client)(nil)

const (
	// BaseURL is the base URL for the Microsoft Graph API.
	BaseURL = "https://graph.microsoft.com/v1.0"
	// AuthURLTemplate is the tenant-scoped OAuth token endpoint.
	AuthURLTemplate = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	// DefaultScope is the application-permission scope for client credentials.
	DefaultScope = "https://graph.microsoft.com/.default"
	// DefaultClientTimeout is the default HTTP client timeout for Graph requests.
	DefaultClientTimeout = 30 * time.Second

	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Client is a Microsoft Graph API client authenticated with application
// credentials.
type Client struct {
	httpClient  *http.Client
	config      Config
	oauthConfig *clientcredentials.Config
}

// Config holds the configuration for the Graph client.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override auth URL for testing
	AuthURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// NewClient creates a new Graph API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = fmt.Sprintf(AuthURLTemplate, config.TenantID)
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	oauthConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.AuthURL,
		Scopes:       []string{DefaultScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		oauthConfig: oauthConfig,
	}
}

// getAuthenticatedClient returns an HTTP client that injects bearer tokens.
func (c *Client) getAuthenticatedClient(ctx context.Context) *http.Client {
	ts := c.oauthConfig.TokenSource(ctx)
	return &http.Client{
		Timeout: c.config.Timeout,
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: ts,
		},
	}
}

// shouldRetry determines if an error or HTTP status code should be retried.
func shouldRetry(statusCode int, err error) bool {
	if err != nil {
		if ctx, ok := err.(interface{ Err() error }); ok {
			if ctx.Err() == context.Canceled || ctx.Err() == context.DeadlineExceeded {
				return false
			}
		}
		// Network and connection errors are retryable.
		return true
	}
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	return false
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// Jitter of up to ±25% to avoid synchronized retries.
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)
	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}
	return backoffWithJitter
}

// doRequest performs an authenticated JSON request against the Graph API with
// retry on transient failures. The url may be a path relative to the base URL
// or an absolute URL (pagination links come back absolute).
func (c *Client) doRequest(ctx context.Context, method, url string, body any, headers map[string]string) (*http.Response, error) {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = c.config.BaseURL + url
	}

	var lastErr error
	var lastResp *http.Response

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := c.getAuthenticatedClient(ctx).Do(req)
		duration := time.Since(start)

		if err == nil && resp != nil && resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			slog.DebugContext(ctx, "Graph API request completed",
				"method", method,
				"url", url,
				"status", resp.StatusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
			)
			return resp, nil
		}

		if lastResp != nil {
			_ = lastResp.Body.Close()
		}
		lastErr, lastResp = err, resp

		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		if !shouldRetry(statusCode, err) {
			break
		}

		if attempt < c.config.MaxRetries {
			backoff := c.calculateBackoff(attempt)
			slog.WarnContext(ctx, "Graph API request failed, retrying",
				"method", method,
				"url", url,
				"status", statusCode,
				"attempt", attempt+1,
				"backoff", backoff.String(),
				logging.ErrKey, err)
			select {
			case <-ctx.Done():
				if lastResp != nil {
					_ = lastResp.Body.Close()
				}
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		} else {
			slog.ErrorContext(ctx, "Graph API request failed after all retries",
				"method", method,
				"url", url,
				"status", statusCode,
				"attempts", attempt+1,
				logging.ErrKey, err,
				logging.PriorityCritical())
		}
	}

	if lastErr != nil {
		if lastResp != nil {
			_ = lastResp.Body.Close()
		}
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
	}
	return lastResp, nil
}

// parseErrorResponse attempts to parse a Graph API error response.
func parseErrorResponse(body []byte) error {
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return fmt.Errorf("graph API error (%s): %s", errResp.Error.Code, errResp.Error.Message)
	}
	return fmt.Errorf("graph API error: %s", string(body))
}
