package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	bookingIDPrefix    = "BK"
	bookingSuffixLen   = 5
	bookingIDAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	bookingIDDateStamp = "060102"
)

// GenerateBookingID builds a display id: BK + YYMMDD (in createdAt's zone) + 5 random [A-Z0-9].
// Uniqueness is enforced by the bookings table, not here.
func GenerateBookingID(createdAt time.Time) (string, error) {
	suffix := make([]byte, bookingSuffixLen)
	max := big.NewInt(int64(len(bookingIDAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate booking id: %w", err)
		}
		suffix[i] = bookingIDAlphabet[n.Int64()]
	}

	return bookingIDPrefix + createdAt.Format(bookingIDDateStamp) + string(suffix), nil
}
