// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package models

// User is reference data synchronized from the external directory. Users are
// the targets of calendar event watch subscriptions.
type User struct {
	OID   string `json:"oid"`
	Email string `json:"email"`
}
