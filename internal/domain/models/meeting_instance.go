// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// MeetingInstance is a materialized occurrence of a recurring series. It is
// keyed independently of MeetingEvent so that series-occurrence bookkeeping
// (call record correlation in particular) does not mutate the primary event
// record. At most one instance exists per event ID.
type MeetingInstance struct {
	EventID          string           `json:"event_id"`
	SeriesMasterID   string           `json:"series_master_id,omitempty"`
	JoinURL          string           `json:"join_url,omitempty"`
	CallRecordID     string           `json:"call_record_id,omitempty"`
	StartTime        *time.Time       `json:"start_time,omitempty"`
	EndTime          *time.Time       `json:"end_time,omitempty"`
	TranscriptStatus TranscriptStatus `json:"transcript_status"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
}
