// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package models

// CalendarEvent is an event as returned by the external calendar API.
// Start and end timestamps are kept raw; the external API emits fractional
// seconds without a zone designator, so parsing is the lifecycle's concern.
type CalendarEvent struct {
	ID             string            `json:"id"`
	Subject        string            `json:"subject"`
	Type           string            `json:"type,omitempty"`
	SeriesMasterID string            `json:"seriesMasterId,omitempty"`
	Start          *CalendarDateTime `json:"start,omitempty"`
	End            *CalendarDateTime `json:"end,omitempty"`
	OnlineMeeting  *OnlineMeetingRef `json:"onlineMeeting,omitempty"`
}

// IsSeriesMaster reports whether the event is the master of a recurring series.
func (e *CalendarEvent) IsSeriesMaster() bool {
	return e.Type == "seriesMaster"
}

// CalendarDateTime is the external API's zone-less timestamp wrapper.
type CalendarDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// OnlineMeetingRef is the online-meeting block embedded in a calendar event.
type OnlineMeetingRef struct {
	JoinURL string `json:"joinUrl"`
}

// OnlineMeeting is an online meeting record looked up by join URL.
type OnlineMeeting struct {
	ID         string `json:"id"`
	JoinWebURL string `json:"joinWebUrl,omitempty"`
}

// MeetingTranscript is a transcript resource listed for an online meeting.
type MeetingTranscript struct {
	ID              string `json:"id"`
	CreatedDateTime string `json:"createdDateTime,omitempty"`
}
