package utils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBookingID(t *testing.T) {
	createdAt := time.Date(2025, 10, 20, 23, 59, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := GenerateBookingID(createdAt)
		require.NoError(t, err)
		assert.Regexp(t, `^BK251020[A-Z0-9]{5}$`, id)
		seen[id] = true
	}
	// 36^5 suffixes; 200 draws colliding more than once would be suspicious
	assert.Greater(t, len(seen), 198)
}

func TestParseOptionalDecimal(t *testing.T) {
	got, err := ParseOptionalDecimal("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDecimal("1499.50")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1499.5", got.String())

	_, err = ParseOptionalDecimal("cheap")
	assert.Error(t, err)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", NormalizeEmail("  Asha@Example.COM "))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"http://a", "https://b"}, SplitCSV(" http://a, ,https://b ,"))
	assert.Nil(t, SplitCSV(""))
}

func TestUserContextRoundTrip(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	userID := uuid.New()
	got, ok := GetUserIDFromContext(SetUserContext(context.Background(), userID))
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestValidateStructKeysByFieldPath(t *testing.T) {
	type guest struct {
		Email string `validate:"required,email"`
	}
	type booking struct {
		Guest  guest
		Method string `validate:"omitempty,oneof=card upi"`
	}

	errs := ValidateStruct(booking{Guest: guest{Email: "nope"}, Method: "cheque"})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "Guest.Email")
	assert.Contains(t, errs, "Method")

	assert.Empty(t, ValidateStruct(booking{Guest: guest{Email: "a@b.co"}}))
}
