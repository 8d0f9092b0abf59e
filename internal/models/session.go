package models

import "time"

// Session is a server-side session record. LoginTimestamp is the moment the
// session was first observed by a successful auth check; the 24h soft expiry
// is measured from it, not from token issuance.
type Session struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Token          string     `json:"token" gorm:"uniqueIndex;size:64"`
	UserID         uint       `json:"user_id" gorm:"index"`
	LoginTimestamp *time.Time `json:"login_timestamp"`
	CreatedAt      time.Time  `json:"created_at"`
}
