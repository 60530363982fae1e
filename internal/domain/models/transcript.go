// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// Transcript is a summarized meeting transcript owned by a MeetingEvent.
// Multiple transcripts may accumulate for an event over time; only the most
// recent one is authoritative for reads.
type Transcript struct {
	UID         string    `json:"uid"`
	EventID     string    `json:"event_id"`
	ContentText string    `json:"content_text"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
