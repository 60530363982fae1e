// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// subscriptionRequest is the Graph payload for creating or renewing a watch.
type subscriptionRequest struct {
	ChangeType               string `json:"changeType,omitempty"`
	NotificationURL          string `json:"notificationUrl,omitempty"`
	LifecycleNotificationURL string `json:"lifecycleNotificationUrl,omitempty"`
	Resource                 string `json:"resource,omitempty"`
	ExpirationDateTime       string `json:"expirationDateTime"`
	ClientState              string `json:"clientState,omitempty"`
}

// subscriptionResponse is the Graph representation of a subscription.
type subscriptionResponse struct {
	ID                 string `json:"id"`
	Resource           string `json:"resource"`
	ExpirationDateTime string `json:"expirationDateTime"`
}

// subscriptionsPage is one page of a /subscriptions listing.
type subscriptionsPage struct {
	Value    []subscriptionResponse `json:"value"`
	NextLink string                 `json:"@odata.nextLink"`
}

// CreateEventSubscription registers a watch on a user's calendar events.
func (c *Client) CreateEventSubscription(ctx context.Context, userID, notificationURL, clientState string, expires time.Time) (*models.Subscription, error) {
	req := subscriptionRequest{
		ChangeType:         "created",
		NotificationURL:    notificationURL,
		Resource:           fmt.Sprintf("Users/%s/Events", userID),
		ExpirationDateTime: expires.UTC().Format(time.RFC3339),
		ClientState:        clientState,
	}
	return c.createSubscription(ctx, req)
}

// CreateTranscriptSubscription registers a watch on a meeting's transcripts.
// Transcript subscriptions require a lifecycle notification callback because
// their maximum lifetime is short.
func (c *Client) CreateTranscriptSubscription(ctx context.Context, meetingID, notificationURL, lifecycleURL, clientState string, expires time.Time) (*models.Subscription, error) {
	req := subscriptionRequest{
		ChangeType:               "created",
		NotificationURL:          notificationURL,
		LifecycleNotificationURL: lifecycleURL,
		Resource:                 fmt.Sprintf("communications/onlineMeetings/%s/transcripts", meetingID),
		ExpirationDateTime:       expires.UTC().Format(time.RFC3339),
		ClientState:              clientState,
	}
	return c.createSubscription(ctx, req)
}

// CreateCallRecordSubscription registers a watch on call records.
func (c *Client) CreateCallRecordSubscription(ctx context.Context, notificationURL, clientState string, expires time.Time) (*models.Subscription, error) {
	req := subscriptionRequest{
		ChangeType:         "created,updated",
		NotificationURL:    notificationURL,
		Resource:           "communications/onlineMeetings",
		ExpirationDateTime: expires.UTC().Format(time.RFC3339),
		ClientState:        clientState,
	}
	return c.createSubscription(ctx, req)
}

func (c *Client) createSubscription(ctx context.Context, req subscriptionRequest) (*models.Subscription, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/subscriptions", req, nil)
	if err != nil {
		return nil, err
	}
	return decodeSubscription(resp, http.StatusCreated)
}

// RenewSubscription extends an existing watch to the given expiration.
func (c *Client) RenewSubscription(ctx context.Context, subscriptionID string, expires time.Time) (*models.Subscription, error) {
	req := subscriptionRequest{
		ExpirationDateTime: expires.UTC().Format(time.RFC3339),
	}
	path := fmt.Sprintf("/subscriptions/%s", url.PathEscape(subscriptionID))
	resp, err := c.doRequest(ctx, http.MethodPatch, path, req, nil)
	if err != nil {
		return nil, err
	}
	return decodeSubscription(resp, http.StatusOK)
}

// DeleteSubscription removes a watch registration.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	path := fmt.Sprintf("/subscriptions/%s", url.PathEscape(subscriptionID))
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(body)
	}
	return nil
}

// ListSubscriptions enumerates all watch registrations held by this
// application, following pagination.
func (c *Client) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	var subs []models.Subscription

	reqURL := "/subscriptions"
	for reqURL != "" {
		resp, err := c.doRequest(ctx, http.MethodGet, reqURL, nil, nil)
		if err != nil {
			return nil, err
		}

		page, err := decodeSubscriptionsPage(resp)
		if err != nil {
			return nil, err
		}

		for i := range page.Value {
			sub, err := toSubscription(&page.Value[i])
			if err != nil {
				return nil, err
			}
			subs = append(subs, *sub)
		}

		reqURL = page.NextLink
	}

	return subs, nil
}

func decodeSubscription(resp *http.Response, wantStatus int) (*models.Subscription, error) {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(body)
	}

	var subResp subscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&subResp); err != nil {
		return nil, fmt.Errorf("failed to decode subscription response: %w", err)
	}
	return toSubscription(&subResp)
}

func decodeSubscriptionsPage(resp *http.Response) (*subscriptionsPage, error) {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(body)
	}

	var page subscriptionsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions page: %w", err)
	}
	return &page, nil
}

func toSubscription(subResp *subscriptionResponse) (*models.Subscription, error) {
	expiration, err := time.Parse(time.RFC3339, subResp.ExpirationDateTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subscription expiration %q: %w", subResp.ExpirationDateTime, err)
	}
	return &models.Subscription{
		ID:                 subResp.ID,
		Resource:           subResp.Resource,
		ExpirationDateTime: expiration,
	}, nil
}
