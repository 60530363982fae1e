// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// Subscription is a live watch registration with the external API. While a
// subscription is tracked its expiration must stay in the future; the renewal
// sweep exists to uphold that.
type Subscription struct {
	ID                 string    `json:"id"`
	Resource           string    `json:"resource,omitempty"`
	ExpirationDateTime time.Time `json:"expiration_date_time"`
}

// NeedsRenewal reports whether the subscription's remaining lifetime has
// fallen below the given threshold.
func (s *Subscription) NeedsRenewal(now time.Time, threshold time.Duration) bool {
	return s.ExpirationDateTime.Sub(now) < threshold
}
