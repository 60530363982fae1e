// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the transcript pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsReceivedTotal counts webhook notifications by topic and
	// outcome (accepted, duplicate, rejected).
	NotificationsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peaknote_notifications_received_total",
			Help: "Total number of webhook notifications received by topic and outcome",
		},
		[]string{"topic", "outcome"},
	)

	// MessagesProcessedTotal counts queue messages by topic and status
	// (success, error).
	MessagesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peaknote_messages_processed_total",
			Help: "Total number of queue messages processed by topic and status",
		},
		[]string{"topic", "status"},
	)

	// MessageProcessingDuration tracks queue message handling latency.
	MessageProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "peaknote_message_processing_duration_seconds",
			Help:    "Queue message processing duration in seconds by topic",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"topic"},
	)

	// SubscriptionsRenewedTotal counts subscription renewals by status.
	SubscriptionsRenewedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peaknote_subscriptions_renewed_total",
			Help: "Total number of subscription renewals by status",
		},
		[]string{"status"},
	)

	// SweepRunsTotal counts scheduled sweep executions by sweep name and status.
	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peaknote_sweep_runs_total",
			Help: "Total number of scheduled sweep executions by sweep and status",
		},
		[]string{"sweep", "status"},
	)

	// TranscriptsSavedTotal counts transcripts persisted to the store.
	TranscriptsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "peaknote_transcripts_saved_total",
			Help: "Total number of transcripts saved",
		},
	)
)

// RecordNotification records a webhook notification outcome.
func RecordNotification(topic, outcome string) {
	NotificationsReceivedTotal.WithLabelValues(topic, outcome).Inc()
}

// RecordMessageProcessed records a queue message handling result.
func RecordMessageProcessed(topic string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	MessagesProcessedTotal.WithLabelValues(topic, status).Inc()
}

// RecordSweepRun records a sweep execution result.
func RecordSweepRun(sweep string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	SweepRunsTotal.WithLabelValues(sweep, status).Inc()
}
