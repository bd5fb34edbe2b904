package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"experience-booking/internal/data/entity"
	"experience-booking/internal/dto/request"
	"experience-booking/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookingRequest(experienceID string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		GuestInfo: request.GuestInfoRequest{
			Name:  "Asha Rao",
			Email: "  Asha.Rao@Example.com ",
		},
		ExperienceID:   experienceID,
		Slot:           request.SlotRequest{Date: "2025-10-20", Time: "09:00 AM"},
		NumberOfGuests: 2,
	}
}

func assertMessage(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var ue *Error
	require.True(t, errors.As(err, &ue), "expected *usecase.Error, got %T", err)
	assert.Equal(t, msg, ue.Message())
}

func TestCreateBookingWithPercentagePromo(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	store.addPromo(save10())
	publisher := &fakePublisher{}
	svc := newTestBookingService(store, publisher)

	req := validBookingRequest("EXP2510A1B2C3")
	req.PromoCode = "save10"

	resp, err := svc.CreateBooking(context.Background(), nil, req)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, resp.Pricing.Subtotal)
	assert.Equal(t, 500.0, resp.Pricing.PromoDiscount)
	assert.Equal(t, 0.0, resp.Pricing.Discount)
	assert.Equal(t, 810.0, resp.Pricing.Tax)
	assert.Equal(t, 5310.0, resp.Pricing.TotalAmount)
	assert.Equal(t, "SAVE10", resp.Pricing.PromoCode)
	assert.Equal(t, pricing.Currency, resp.Pricing.Currency)

	assert.Equal(t, "asha.rao@example.com", resp.GuestInfo.Email)
	assert.Equal(t, string(entity.BookingStatusPending), resp.BookingStatus)
	assert.Equal(t, string(entity.PaymentStatusPending), resp.PaymentStatus)
	assert.Regexp(t, `^BK251015[A-Z0-9]{5}$`, resp.BookingID)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "2025-10-20", resp.Slots[0].Date)
	assert.Equal(t, "09:00 AM", resp.Slots[0].Time)

	require.NotNil(t, resp.Experience)
	assert.Equal(t, "EXP2510A1B2C3", resp.Experience.ExperienceID)
	assert.Equal(t, 2500.0, resp.Experience.Price)

	assert.Equal(t, 1, store.promoUsed("SAVE10"))
	assert.Equal(t, 1, store.bookingCount())

	require.Len(t, publisher.keys, 1)
	assert.Equal(t, BookingCreatedKey, publisher.keys[0])
	event, ok := publisher.events[0].(BookingCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, resp.BookingID, event.BookingID)
	assert.Equal(t, 5310.0, event.TotalAmount)
}

func TestCreateBookingWithoutPromo(t *testing.T) {
	store := newFakeStore()
	exp := store.addExperience(sampleExperience("EXP2510A1B2C3", "1999.99"))
	svc := newTestBookingService(store, &fakePublisher{})

	userID := uuid.New()
	req := validBookingRequest(exp.ID.String())
	req.NumberOfGuests = 1
	req.GuestInfo.Phone = "+91 98765 43210"
	req.PaymentMethod = "upi"
	req.SpecialRequests = "  vegetarian lunch "

	resp, err := svc.CreateBooking(context.Background(), &userID, req)
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.Pricing.PromoDiscount)
	assert.Equal(t, 360.0, resp.Pricing.Tax)
	assert.Equal(t, 2359.99, resp.Pricing.TotalAmount)
	assert.Empty(t, resp.Pricing.PromoCode)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, userID.String(), *resp.UserID)
	require.NotNil(t, resp.PaymentMethod)
	assert.Equal(t, "upi", *resp.PaymentMethod)
	require.NotNil(t, resp.GuestInfo.Phone)
	assert.Equal(t, "vegetarian lunch", resp.SpecialRequests)
}

func TestCreateBookingValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *request.CreateBookingRequest)
		msg    string
	}{
		{
			name: "everything missing reports guest first",
			mutate: func(r *request.CreateBookingRequest) {
				*r = request.CreateBookingRequest{}
			},
			msg: MsgGuestInfoRequired,
		},
		{
			name:   "missing email",
			mutate: func(r *request.CreateBookingRequest) { r.GuestInfo.Email = " " },
			msg:    MsgGuestInfoRequired,
		},
		{
			name: "missing experience before slot",
			mutate: func(r *request.CreateBookingRequest) {
				r.ExperienceID = ""
				r.Slot = request.SlotRequest{}
			},
			msg: MsgExperienceIDRequired,
		},
		{
			name: "missing slot time before guest count",
			mutate: func(r *request.CreateBookingRequest) {
				r.Slot.Time = ""
				r.NumberOfGuests = 0
			},
			msg: MsgSlotRequired,
		},
		{
			name:   "zero guests",
			mutate: func(r *request.CreateBookingRequest) { r.NumberOfGuests = 0 },
			msg:    MsgInvalidGuestCount,
		},
		{
			name:   "unparseable date",
			mutate: func(r *request.CreateBookingRequest) { r.Slot.Date = "next friday" },
			msg:    MsgInvalidSlotDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
			svc := newTestBookingService(store, &fakePublisher{})

			req := validBookingRequest("EXP2510A1B2C3")
			tt.mutate(req)

			_, err := svc.CreateBooking(context.Background(), nil, req)
			assertMessage(t, err, ErrValidation, tt.msg)
			assert.Zero(t, store.bookingCount())
		})
	}
}

func TestCreateBookingFieldRules(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	svc := newTestBookingService(store, &fakePublisher{})

	req := validBookingRequest("EXP2510A1B2C3")
	req.GuestInfo.Email = "not-an-email"
	req.PaymentMethod = "cheque"

	_, err := svc.CreateBooking(context.Background(), nil, req)
	require.ErrorIs(t, err, ErrValidation)

	var ue *Error
	require.True(t, errors.As(err, &ue))
	assert.Contains(t, ue.Fields(), "GuestInfo.Email")
	assert.Contains(t, ue.Fields(), "PaymentMethod")
}

func TestCreateBookingNormalizesGuestEmailBeforeValidation(t *testing.T) {
	store := newFakeStore()
	exp := store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	svc := newTestBookingService(store, &fakePublisher{})

	req := validBookingRequest("  EXP2510A1B2C3 ")
	req.GuestInfo.Email = "  Asha.Rao@Example.com "
	req.GuestInfo.Name = " Asha Rao "
	req.Slot.Time = " 09:00 AM "

	resp, err := svc.CreateBooking(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, "asha.rao@example.com", resp.GuestInfo.Email)
	assert.Equal(t, "Asha Rao", resp.GuestInfo.Name)

	store.mu.Lock()
	require.Len(t, store.bookings, 1)
	stored := store.bookings[0]
	store.mu.Unlock()
	assert.Equal(t, "asha.rao@example.com", stored.GuestInfo.Email)
	assert.Equal(t, exp.ID, stored.ExperienceID)
	assert.Equal(t, "09:00 AM", stored.PrimarySlot().Time)

	assert.Equal(t, "  Asha.Rao@Example.com ", req.GuestInfo.Email, "caller's request is left as sent")
}

func TestCreateBookingLargeGroup(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "100"))
	svc := newTestBookingService(store, &fakePublisher{})

	req := validBookingRequest("EXP2510A1B2C3")
	req.NumberOfGuests = 60

	resp, err := svc.CreateBooking(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, 60, resp.NumberOfGuests)
	assert.Equal(t, 6000.0, resp.Pricing.Subtotal)
}

func TestCreateBookingExperienceNotFound(t *testing.T) {
	store := newFakeStore()
	inactive := sampleExperience("EXP2510INACT1", "2500")
	inactive.IsActive = false
	store.addExperience(inactive)
	svc := newTestBookingService(store, &fakePublisher{})

	for _, id := range []string{"EXP2510NOPE00", "EXP2510INACT1"} {
		_, err := svc.CreateBooking(context.Background(), nil, validBookingRequest(id))
		assertMessage(t, err, ErrNotFound, MsgExperienceNotFound)
	}
}

func TestCreateBookingMinimumOrderNotMet(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "800"))
	store.addPromo(flat100())
	publisher := &fakePublisher{}
	svc := newTestBookingService(store, publisher)

	req := validBookingRequest("EXP2510A1B2C3")
	req.NumberOfGuests = 1
	req.PromoCode = "FLAT100"

	_, err := svc.CreateBooking(context.Background(), nil, req)
	assertMessage(t, err, ErrValidation, "Minimum order value of ₹2000 required for this promo code")

	assert.Zero(t, store.promoUsed("FLAT100"))
	assert.Zero(t, store.bookingCount())
	assert.Empty(t, publisher.keys)
}

func TestCreateBookingPromoRejections(t *testing.T) {
	tests := []struct {
		name   string
		promo  func() *entity.PromoCode
		code   string
		reason string
	}{
		{
			name:   "unknown code is a bad request on the booking path",
			promo:  save10,
			code:   "NOPE",
			reason: MsgInvalidPromoCode,
		},
		{
			name: "inactive code looks unknown",
			promo: func() *entity.PromoCode {
				p := save10()
				p.IsActive = false
				return p
			},
			code:   "SAVE10",
			reason: MsgInvalidPromoCode,
		},
		{
			name: "not yet active",
			promo: func() *entity.PromoCode {
				p := save10()
				p.ValidFrom = testNow.Add(time.Hour)
				return p
			},
			code:   "SAVE10",
			reason: entity.PromoReasonNotYetActive,
		},
		{
			name: "expired",
			promo: func() *entity.PromoCode {
				p := save10()
				p.ValidUntil = testNow.Add(-time.Second)
				return p
			},
			code:   "SAVE10",
			reason: entity.PromoReasonExpired,
		},
		{
			name: "usage limit reached",
			promo: func() *entity.PromoCode {
				p := save10()
				p.UsageLimit = intPtr(5)
				p.UsedCount = 5
				return p
			},
			code:   "SAVE10",
			reason: entity.PromoReasonUsageLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
			store.addPromo(tt.promo())
			svc := newTestBookingService(store, &fakePublisher{})

			req := validBookingRequest("EXP2510A1B2C3")
			req.PromoCode = tt.code

			_, err := svc.CreateBooking(context.Background(), nil, req)
			assertMessage(t, err, ErrValidation, tt.reason)
			assert.Zero(t, store.bookingCount())
			assert.Zero(t, store.increments)
		})
	}
}

func TestCreateBookingDuplicateSlot(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	svc := newTestBookingService(store, &fakePublisher{})

	first, err := svc.CreateBooking(context.Background(), nil, validBookingRequest("EXP2510A1B2C3"))
	require.NoError(t, err)

	// same guest with different casing, same day given as a timestamp
	second := validBookingRequest("EXP2510A1B2C3")
	second.GuestInfo.Email = "ASHA.RAO@example.com"
	second.Slot.Date = time.Date(2025, 10, 20, 15, 30, 0, 0, time.Local).Format(time.RFC3339)

	_, err = svc.CreateBooking(context.Background(), nil, second)
	require.ErrorIs(t, err, ErrConflict)

	var dup *DuplicateBookingError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, first.BookingID, dup.ExistingBookingID)
	assert.Equal(t, 1, store.bookingCount())
}

func TestCreateBookingOtherSlotsAreNotDuplicates(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	svc := newTestBookingService(store, &fakePublisher{})

	_, err := svc.CreateBooking(context.Background(), nil, validBookingRequest("EXP2510A1B2C3"))
	require.NoError(t, err)

	otherTime := validBookingRequest("EXP2510A1B2C3")
	otherTime.Slot.Time = "02:00 PM"
	_, err = svc.CreateBooking(context.Background(), nil, otherTime)
	require.NoError(t, err)

	otherDay := validBookingRequest("EXP2510A1B2C3")
	otherDay.Slot.Date = "2025-10-21"
	_, err = svc.CreateBooking(context.Background(), nil, otherDay)
	require.NoError(t, err)

	assert.Equal(t, 3, store.bookingCount())
}

func TestCreateBookingCancelledBookingFreesSlot(t *testing.T) {
	store := newFakeStore()
	exp := store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	store.addBooking(&entity.Booking{
		BookingID:     "BK251001OLD01",
		GuestInfo:     entity.GuestInfo{Name: "Asha Rao", Email: "asha.rao@example.com"},
		ExperienceID:  exp.ID,
		Slots:         []entity.Slot{{Date: time.Date(2025, 10, 20, 0, 0, 0, 0, time.Local), Time: "09:00 AM"}},
		BookingStatus: entity.BookingStatusCancelled,
	})
	svc := newTestBookingService(store, &fakePublisher{})

	_, err := svc.CreateBooking(context.Background(), nil, validBookingRequest("EXP2510A1B2C3"))
	require.NoError(t, err)
}

func TestCreateBookingLosesInsertRace(t *testing.T) {
	store := newFakeStore()
	exp := store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	store.addPromo(save10())
	svc := newTestBookingService(store, &fakePublisher{})

	// a concurrent request commits the same slot after our duplicate check
	store.beforeCreate = func() {
		store.beforeCreate = nil
		store.addBooking(&entity.Booking{
			BookingID:     "BK251015WIN01",
			GuestInfo:     entity.GuestInfo{Name: "Asha Rao", Email: "asha.rao@example.com"},
			ExperienceID:  exp.ID,
			Slots:         []entity.Slot{{Date: time.Date(2025, 10, 20, 0, 0, 0, 0, time.Local), Time: "09:00 AM"}},
			BookingStatus: entity.BookingStatusPending,
		})
	}

	req := validBookingRequest("EXP2510A1B2C3")
	req.PromoCode = "SAVE10"

	_, err := svc.CreateBooking(context.Background(), nil, req)
	var dup *DuplicateBookingError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "BK251015WIN01", dup.ExistingBookingID)
	assert.Zero(t, store.promoUsed("SAVE10"))
	assert.Equal(t, 1, store.bookingCount())
}

func TestCreateBookingPromoExhaustedAtIncrementRollsBack(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	promo := store.addPromo(save10())
	promo.UsageLimit = intPtr(3)
	promo.UsedCount = 2
	publisher := &fakePublisher{}
	svc := newTestBookingService(store, publisher)

	// another booking takes the last use between validation and increment
	store.beforeIncrement = func() {
		store.mu.Lock()
		promo.UsedCount = 3
		store.mu.Unlock()
	}

	req := validBookingRequest("EXP2510A1B2C3")
	req.PromoCode = "SAVE10"

	_, err := svc.CreateBooking(context.Background(), nil, req)
	assertMessage(t, err, ErrValidation, entity.PromoReasonUsageLimit)
	assert.Zero(t, store.bookingCount())
	assert.Empty(t, publisher.keys)
}

func TestCreateBookingLastPromoUseGoesToOneRequest(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	promo := save10()
	promo.UsageLimit = intPtr(1)
	store.addPromo(promo)
	svc := newTestBookingService(store, &fakePublisher{})

	const requests = 8
	var wg sync.WaitGroup
	errs := make([]error, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validBookingRequest("EXP2510A1B2C3")
			req.GuestInfo.Email = fmt.Sprintf("guest%d@example.com", i)
			req.PromoCode = "SAVE10"
			_, errs[i] = svc.CreateBooking(context.Background(), nil, req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assertMessage(t, err, ErrValidation, entity.PromoReasonUsageLimit)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, store.promoUsed("SAVE10"))
	assert.Equal(t, 1, store.bookingCount())
}

func TestCreateBookingUnlimitedPromo(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	welcome := save10()
	welcome.Code = "WELCOME20"
	welcome.DiscountValue = dec("20")
	welcome.MaxDiscount = decimal.NewNullDecimal(dec("1000"))
	welcome.MinOrderValue = dec("500")
	welcome.UsageLimit = nil
	welcome.UsedCount = 1_000_000
	store.addPromo(welcome)
	svc := newTestBookingService(store, &fakePublisher{})

	req := validBookingRequest("EXP2510A1B2C3")
	req.PromoCode = "WELCOME20"

	resp, err := svc.CreateBooking(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, resp.Pricing.PromoDiscount)
	assert.Equal(t, 720.0, resp.Pricing.Tax)
	assert.Equal(t, 4720.0, resp.Pricing.TotalAmount)
	assert.Equal(t, 1_000_001, store.promoUsed("WELCOME20"))
}

func TestCreateBookingRetriesBookingIDCollision(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	store.addBooking(&entity.Booking{BookingID: "BK251015TAKEN", BookingStatus: entity.BookingStatusConfirmed})
	svc := newTestBookingService(store, &fakePublisher{})

	ids := []string{"BK251015TAKEN", "BK251015FRESH"}
	calls := 0
	svc.newBookingID = func(time.Time) (string, error) {
		id := ids[calls]
		calls++
		return id, nil
	}

	resp, err := svc.CreateBooking(context.Background(), nil, validBookingRequest("EXP2510A1B2C3"))
	require.NoError(t, err)
	assert.Equal(t, "BK251015FRESH", resp.BookingID)
	assert.Equal(t, 2, calls)
}

func TestCreateBookingGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	store.addBooking(&entity.Booking{BookingID: "BK251015TAKEN", BookingStatus: entity.BookingStatusConfirmed})
	store.addPromo(save10())
	svc := newTestBookingService(store, &fakePublisher{})

	calls := 0
	svc.newBookingID = func(time.Time) (string, error) {
		calls++
		return "BK251015TAKEN", nil
	}

	req := validBookingRequest("EXP2510A1B2C3")
	req.PromoCode = "SAVE10"

	_, err := svc.CreateBooking(context.Background(), nil, req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, maxCreateAttempts, calls)
	assert.Zero(t, store.promoUsed("SAVE10"))
}

func TestCreateBookingPublishFailureDoesNotFailRequest(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	svc := newTestBookingService(store, &fakePublisher{err: errors.New("broker down")})

	_, err := svc.CreateBooking(context.Background(), nil, validBookingRequest("EXP2510A1B2C3"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.bookingCount())
}

func TestGetBooking(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	svc := newTestBookingService(store, &fakePublisher{})

	created, err := svc.CreateBooking(context.Background(), nil, validBookingRequest("EXP2510A1B2C3"))
	require.NoError(t, err)

	byDisplay, err := svc.GetBooking(context.Background(), created.BookingID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byDisplay.ID)

	byID, err := svc.GetBooking(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.BookingID, byID.BookingID)

	_, err = svc.GetBooking(context.Background(), "BK000000NOPE0")
	assertMessage(t, err, ErrNotFound, MsgBookingNotFound)
}

func TestGetUserBookings(t *testing.T) {
	store := newFakeStore()
	store.addExperience(sampleExperience("EXP2510A1B2C3", "2500"))
	svc := newTestBookingService(store, &fakePublisher{})

	userID := uuid.New()
	first := validBookingRequest("EXP2510A1B2C3")
	_, err := svc.CreateBooking(context.Background(), &userID, first)
	require.NoError(t, err)

	second := validBookingRequest("EXP2510A1B2C3")
	second.Slot.Date = "2025-10-22"
	latest, err := svc.CreateBooking(context.Background(), &userID, second)
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), nil, func() *request.CreateBookingRequest {
		r := validBookingRequest("EXP2510A1B2C3")
		r.GuestInfo.Email = "someone@example.com"
		return r
	}())
	require.NoError(t, err)

	list, err := svc.GetUserBookings(context.Background(), userID.String())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, latest.BookingID, list[0].BookingID)

	_, err = svc.GetUserBookings(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrValidation)
}
