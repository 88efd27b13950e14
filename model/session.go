package model

import "time"

// Session is the persistent record behind a session cookie. The token
// is the bearer credential itself, so it is never serialized in API
// responses (session listings included).
type Session struct {
	Token      string    `bson:"token" json:"-"`
	UserID     string    `bson:"user_id" json:"user_id"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt  time.Time `bson:"expires_at" json:"expires_at"`
	IPAddress  string    `bson:"ip_address" json:"ip_address"`
	UserAgent  string    `bson:"user_agent" json:"-"`
	DeviceInfo string    `bson:"device_info" json:"device_info"`
}

// Expired reports whether the session is past its expiry at the given
// instant. Expiry slides forward on every successful validation, so
// this is always measured against the last renewal.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
