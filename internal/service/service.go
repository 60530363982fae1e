// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

// Service is the readiness contract every business service implements.
type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration shared by the services.
type ServiceConfig struct {
	// WebhookBaseURL is the externally reachable base URL that webhook
	// callback paths are appended to when registering subscriptions.
	WebhookBaseURL string
}
