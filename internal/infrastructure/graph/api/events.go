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
	"strings"
	"time"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// GetEvent fetches one calendar event of a user.
func (c *Client) GetEvent(ctx context.Context, userID, eventID string) (*models.CalendarEvent, error) {
	path := fmt.Sprintf("/users/%s/events/%s", url.PathEscape(userID), url.PathEscape(eventID))
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(body)
	}

	var event models.CalendarEvent
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to decode event response: %w", err)
	}
	return &event, nil
}

// eventsPage is one page of an event instances listing.
type eventsPage struct {
	Value    []models.CalendarEvent `json:"value"`
	NextLink string                 `json:"@odata.nextLink"`
}

// GetEventOccurrences expands a recurring series into its occurrences within
// the window, following pagination.
func (c *Client) GetEventOccurrences(ctx context.Context, userID, seriesMasterID string, start, end time.Time) ([]models.CalendarEvent, error) {
	var occurrences []models.CalendarEvent

	reqURL := fmt.Sprintf("/users/%s/events/%s/instances?startDateTime=%s&endDateTime=%s",
		url.PathEscape(userID),
		url.PathEscape(seriesMasterID),
		url.QueryEscape(start.UTC().Format(time.RFC3339)),
		url.QueryEscape(end.UTC().Format(time.RFC3339)),
	)
	for reqURL != "" {
		resp, err := c.doRequest(ctx, http.MethodGet, reqURL, nil, nil)
		if err != nil {
			return nil, err
		}

		page, err := decodeEventsPage(resp)
		if err != nil {
			return nil, err
		}

		occurrences = append(occurrences, page.Value...)
		reqURL = page.NextLink
	}

	return occurrences, nil
}

func decodeEventsPage(resp *http.Response) (*eventsPage, error) {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(body)
	}

	var page eventsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode events page: %w", err)
	}
	return &page, nil
}

// GetOnlineMeetingsByJoinURL looks up a user's online meetings whose join web
// URL matches exactly.
func (c *Client) GetOnlineMeetingsByJoinURL(ctx context.Context, userID, joinURL string) ([]models.OnlineMeeting, error) {
	filter := fmt.Sprintf("JoinWebUrl eq '%s'", strings.ReplaceAll(joinURL, "'", "''"))
	path := fmt.Sprintf("/users/%s/onlineMeetings?$filter=%s",
		url.PathEscape(userID), url.QueryEscape(filter))

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(body)
	}

	var page struct {
		Value []models.OnlineMeeting `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode online meetings response: %w", err)
	}
	return page.Value, nil
}
