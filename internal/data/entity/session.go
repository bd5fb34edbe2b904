package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a sign-in owned by the accounts service. Bookings only need to
// know whose it is and whether it still counts.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// Usable reports whether the session may attribute a booking at now.
func (s *Session) Usable(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
