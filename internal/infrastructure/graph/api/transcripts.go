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

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// ListTranscripts enumerates the transcript resources of an online meeting.
func (c *Client) ListTranscripts(ctx context.Context, userID, meetingID string) ([]models.MeetingTranscript, error) {
	path := fmt.Sprintf("/users/%s/onlineMeetings/%s/transcripts",
		url.PathEscape(userID), url.PathEscape(meetingID))

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
		Value []models.MeetingTranscript `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode transcripts response: %w", err)
	}
	return page.Value, nil
}

// DownloadTranscript fetches the raw transcript content of a meeting in the
// WebVTT format.
func (c *Client) DownloadTranscript(ctx context.Context, userID, meetingID, transcriptID string) (string, error) {
	path := fmt.Sprintf("/users/%s/onlineMeetings/%s/transcripts/%s/content",
		url.PathEscape(userID), url.PathEscape(meetingID), url.PathEscape(transcriptID))

	headers := map[string]string{"Accept": "text/vtt"}
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, headers)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript content: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", parseErrorResponse(body)
	}

	return string(body), nil
}
