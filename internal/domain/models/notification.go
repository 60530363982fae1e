// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package models

// NotificationEnvelope is the JSON body of a change notification delivered to
// a webhook endpoint. The external API batches one or more entries under
// "value"; in practice only the first entry is consulted.
type NotificationEnvelope struct {
	Value []Notification `json:"value"`
}

// Notification is a single change notification entry.
type Notification struct {
	SubscriptionID string                    `json:"subscriptionId"`
	ChangeType     string                    `json:"changeType"`
	Resource       string                    `json:"resource"`
	ResourceData   *NotificationResourceData `json:"resourceData,omitempty"`
	ClientState    string                    `json:"clientState,omitempty"`
}

// NotificationResourceData carries the typed resource payload, when present.
type NotificationResourceData struct {
	ID        string `json:"id"`
	ODataType string `json:"@odata.type,omitempty"`
}

// Signature is the deduplication key of a notification: two notifications
// with the same subscription, resource and change type within the dedup
// window are the same notification.
func (n *Notification) Signature() string {
	return n.SubscriptionID + "-" + n.Resource + "-" + n.ChangeType
}

// TranscriptInfo holds the identifiers extracted from a transcript
// notification's resource path.
type TranscriptInfo struct {
	UserID       string
	MeetingID    string
	TranscriptID string
}
