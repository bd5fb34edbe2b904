package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"experience-booking/internal/data/entity"
	"experience-booking/internal/data/repository"
	"experience-booking/internal/dto/request"
	"experience-booking/internal/dto/response"
	"experience-booking/internal/pricing"
	"experience-booking/pkg/mq"
	"experience-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// maxCreateAttempts bounds retries after a display id collision.
	maxCreateAttempts = 3

	BookingCreatedKey = "booking.created"

	publishTimeout = 3 * time.Second
)

type BookingService interface {
	// CreateBooking books a slot for a guest. userID is set for signed-in accounts.
	CreateBooking(ctx context.Context, userID *uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	// GetBooking matches the internal id or the display id.
	GetBooking(ctx context.Context, id string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string) ([]response.BookingResponse, error)
}

// BookingCreatedEvent is published once a booking has been committed.
type BookingCreatedEvent struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"bookingId"`
	ExperienceID string    `json:"experienceId"`
	GuestEmail   string    `json:"guestEmail"`
	TotalAmount  float64   `json:"totalAmount"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"createdAt"`
}

type bookingService struct {
	repo         *repository.Repository
	publisher    mq.Publisher
	now          func() time.Time
	newBookingID func(time.Time) (string, error)
	log          *zap.Logger
}

func NewBookingService(repo *repository.Repository, publisher mq.Publisher, log *zap.Logger) BookingService {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	return &bookingService{
		repo:         repo,
		publisher:    publisher,
		now:          time.Now,
		newBookingID: utils.GenerateBookingID,
		log:          log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID *uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	req = normalizeCreateRequest(req)

	slotDay, err := s.validateCreateRequest(req)
	if err != nil {
		return nil, err
	}

	booking := newBooking(userID, req, slotDay)
	promoCode := strings.TrimSpace(req.PromoCode)

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		err = s.persistBooking(ctx, booking, strings.TrimSpace(req.ExperienceID), promoCode)
		if !errors.Is(err, repository.ErrDuplicateBookingID) {
			break
		}
		s.log.Warn("Booking id collision, regenerating",
			zap.String("booking_id", booking.BookingID),
			zap.Int("attempt", attempt),
		)
	}

	switch {
	case errors.Is(err, repository.ErrDuplicateSlot):
		// a concurrent request won the slot between our check and insert
		return nil, s.duplicateSlotError(ctx, booking)
	case err != nil:
		var usecaseErr *Error
		var duplicate *DuplicateBookingError
		if !errors.As(err, &usecaseErr) && !errors.As(err, &duplicate) {
			s.log.Error("Failed to create booking",
				zap.Error(err),
				zap.String("guest_email", booking.GuestInfo.Email),
				zap.String("experience_id", req.ExperienceID),
			)
		}
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.BookingID),
		zap.String("experience_id", booking.ExperienceID.String()),
		zap.String("total_amount", booking.Pricing.TotalAmount.String()),
		zap.String("promo_code", booking.Pricing.PromoCode),
	)

	s.publishCreated(ctx, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// normalizeCreateRequest returns a trimmed copy with the guest email
// lowercased, so format rules see the values that get stored.
func normalizeCreateRequest(req *request.CreateBookingRequest) *request.CreateBookingRequest {
	normalized := *req
	normalized.GuestInfo.Name = strings.TrimSpace(req.GuestInfo.Name)
	normalized.GuestInfo.Email = utils.NormalizeEmail(req.GuestInfo.Email)
	normalized.GuestInfo.Phone = strings.TrimSpace(req.GuestInfo.Phone)
	normalized.ExperienceID = strings.TrimSpace(req.ExperienceID)
	normalized.Slot.Date = strings.TrimSpace(req.Slot.Date)
	normalized.Slot.Time = strings.TrimSpace(req.Slot.Time)
	normalized.PromoCode = strings.TrimSpace(req.PromoCode)
	normalized.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	normalized.SpecialRequests = strings.TrimSpace(req.SpecialRequests)
	return &normalized
}

// validateCreateRequest runs the presence checks in their fixed order, then the
// format rules, and returns the slot's calendar day.
func (s *bookingService) validateCreateRequest(req *request.CreateBookingRequest) (time.Time, error) {
	switch {
	case strings.TrimSpace(req.GuestInfo.Name) == "" || strings.TrimSpace(req.GuestInfo.Email) == "":
		return time.Time{}, NewValidationError(MsgGuestInfoRequired)
	case strings.TrimSpace(req.ExperienceID) == "":
		return time.Time{}, NewValidationError(MsgExperienceIDRequired)
	case strings.TrimSpace(req.Slot.Date) == "" || strings.TrimSpace(req.Slot.Time) == "":
		return time.Time{}, NewValidationError(MsgSlotRequired)
	case req.NumberOfGuests < 1:
		return time.Time{}, NewValidationError(MsgInvalidGuestCount)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return time.Time{}, NewFieldsError(errs)
	}

	day, err := parseSlotDate(req.Slot.Date)
	if err != nil {
		return time.Time{}, NewValidationError(MsgInvalidSlotDate)
	}

	return day, nil
}

// parseSlotDate accepts YYYY-MM-DD (server local) or RFC 3339 and returns
// local midnight of that day.
func parseSlotDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(time.DateOnly, value, time.Local); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot date %q: %w", value, err)
	}
	return entity.DayOf(t), nil
}

func newBooking(userID *uuid.UUID, req *request.CreateBookingRequest, slotDay time.Time) *entity.Booking {
	booking := &entity.Booking{
		UserID: userID,
		GuestInfo: entity.GuestInfo{
			Name:  strings.TrimSpace(req.GuestInfo.Name),
			Email: utils.NormalizeEmail(req.GuestInfo.Email),
		},
		Slots: []entity.Slot{{
			Date: slotDay,
			Time: strings.TrimSpace(req.Slot.Time),
		}},
		NumberOfGuests:  req.NumberOfGuests,
		BookingStatus:   entity.BookingStatusPending,
		PaymentStatus:   entity.PaymentStatusPending,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}

	if phone := strings.TrimSpace(req.GuestInfo.Phone); phone != "" {
		booking.GuestInfo.Phone = &phone
	}
	if req.PaymentMethod != "" {
		method := entity.PaymentMethod(req.PaymentMethod)
		booking.PaymentMethod = &method
	}

	return booking
}

// persistBooking runs one attempt: every read and write below shares a
// transaction, so a failed attempt leaves neither a booking nor a used promo.
func (s *bookingService) persistBooking(ctx context.Context, booking *entity.Booking, experienceKey, promoCode string) error {
	now := s.now()

	bookingID, err := s.newBookingID(now)
	if err != nil {
		return err
	}
	booking.ID = uuid.New()
	booking.BookingID = bookingID
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return s.repo.Tx.WithinTransaction(ctx, func(repos *repository.Repository) error {
		experience, err := repos.Experience.FindBookable(ctx, experienceKey)
		if err != nil {
			return fmt.Errorf("find experience: %w", err)
		}
		if experience == nil {
			return NewNotFoundError(MsgExperienceNotFound)
		}
		booking.ExperienceID = experience.ID
		booking.Experience = experience

		slot := booking.PrimarySlot()
		existing, err := repos.Booking.FindActiveForSlot(ctx, booking.GuestInfo.Email, experience.ID, slot.Date, slot.Time)
		if err != nil {
			return fmt.Errorf("check duplicate booking: %w", err)
		}
		if existing != nil {
			s.log.Warn("Duplicate booking rejected",
				zap.String("guest_email", booking.GuestInfo.Email),
				zap.String("existing_booking_id", existing.BookingID),
			)
			return &DuplicateBookingError{ExistingBookingID: existing.BookingID}
		}

		subtotal := pricing.Subtotal(experience.Price, booking.NumberOfGuests)

		var promo *entity.PromoCode
		discount := decimal.Zero
		if promoCode != "" {
			promo, discount, err = resolvePromo(ctx, repos.PromoCode, promoCode, subtotal, now)
			if errors.Is(err, errUnknownPromo) {
				s.log.Warn("Unknown promo code on booking", zap.String("code", promoCode))
				return NewValidationError(MsgInvalidPromoCode)
			}
			if err != nil {
				return err
			}
		}

		breakdown := pricing.Calculate(experience.Price, booking.NumberOfGuests, discount)
		booking.Pricing = entity.Pricing{
			BasePrice:     breakdown.BasePrice,
			Subtotal:      breakdown.Subtotal,
			Discount:      decimal.Zero,
			PromoDiscount: breakdown.PromoDiscount,
			Tax:           breakdown.Tax,
			TotalAmount:   breakdown.Total,
			Currency:      pricing.Currency,
		}
		if promo != nil {
			booking.Pricing.PromoCode = promo.Code
		}

		if err := repos.Booking.Create(ctx, booking); err != nil {
			return err
		}

		if promo != nil {
			if _, err := repos.PromoCode.IncrementUsage(ctx, promo.ID); err != nil {
				if errors.Is(err, repository.ErrPromoExhausted) {
					return NewValidationError(entity.PromoReasonUsageLimit)
				}
				return err
			}
		}

		return nil
	})
}

func (s *bookingService) duplicateSlotError(ctx context.Context, booking *entity.Booking) error {
	slot := booking.PrimarySlot()
	existing, err := s.repo.Booking.FindActiveForSlot(ctx, booking.GuestInfo.Email, booking.ExperienceID, slot.Date, slot.Time)
	if err != nil {
		s.log.Error("Failed to load conflicting booking", zap.Error(err))
	}
	if existing == nil {
		return &DuplicateBookingError{}
	}
	return &DuplicateBookingError{ExistingBookingID: existing.BookingID}
}

func (s *bookingService) publishCreated(ctx context.Context, booking *entity.Booking) {
	event := BookingCreatedEvent{
		ID:           booking.ID.String(),
		BookingID:    booking.BookingID,
		ExperienceID: booking.ExperienceID.String(),
		GuestEmail:   booking.GuestInfo.Email,
		TotalAmount:  pricing.Round2(booking.Pricing.TotalAmount).InexactFloat64(),
		Currency:     booking.Pricing.Currency,
		CreatedAt:    booking.CreatedAt,
	}

	// the booking is committed, so a cancelled request must not drop the event
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishJSON(pubCtx, BookingCreatedKey, event); err != nil {
		s.log.Error("Failed to publish booking event",
			zap.Error(err),
			zap.String("booking_id", booking.BookingID),
		)
	}
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*response.BookingResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewNotFoundError(MsgBookingNotFound)
	}

	booking, err := s.repo.Booking.FindByIDOrBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	if booking == nil {
		return nil, NewNotFoundError(MsgBookingNotFound)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]response.BookingResponse, error) {
	userUUID, err := uuid.Parse(strings.TrimSpace(userID))
	if err != nil {
		return nil, NewValidationError("Invalid user ID")
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("get user %s bookings: %w", userID, err)
	}

	return response.BookingsToResponse(bookings), nil
}
