package models

import "time"

// Token is a subscription entitlement record. Expires is nil for tokens
// that never expire; stored values are UTC.
type Token struct {
	ID      int64
	Token   string
	Active  bool
	Expires *time.Time
}
