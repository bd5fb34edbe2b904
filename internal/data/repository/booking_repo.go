package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"experience-booking/internal/data/entity"
	"experience-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Create inserts the booking. It returns ErrDuplicateSlot when the guest
	// already holds an active booking for the primary slot and
	// ErrDuplicateBookingID when the display id is taken.
	Create(ctx context.Context, booking *entity.Booking) error
	// FindByIDOrBookingID matches the internal id or the display id.
	FindByIDOrBookingID(ctx context.Context, key string) (*entity.Booking, error)
	// FindActiveForSlot returns a pending/confirmed booking of email for the
	// experience on the same calendar day and time label.
	FindActiveForSlot(ctx context.Context, email string, experienceID uuid.UUID, day time.Time, slotTime string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	b.id, b.booking_id, b.user_id, b.guest_name, b.guest_email, b.guest_phone, b.experience_id,
	b.slots, b.number_of_guests, b.base_price, b.subtotal, b.discount, b.promo_code,
	b.promo_discount, b.tax, b.total_amount, b.currency, b.booking_status, b.payment_status,
	b.payment_method, b.transaction_id, b.payment_gateway, b.paid_at, b.special_requests,
	b.created_at, b.updated_at`

// experience summary joined onto booking reads
const bookingExperienceColumns = `
	e.experience_id, e.title, e.short_description, e.city, e.latitude, e.longitude, e.images, e.price`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	exp := entity.Experience{}
	err := row.Scan(
		&b.ID,
		&b.BookingID,
		&b.UserID,
		&b.GuestInfo.Name,
		&b.GuestInfo.Email,
		&b.GuestInfo.Phone,
		&b.ExperienceID,
		&b.Slots,
		&b.NumberOfGuests,
		&b.Pricing.BasePrice,
		&b.Pricing.Subtotal,
		&b.Pricing.Discount,
		&b.Pricing.PromoCode,
		&b.Pricing.PromoDiscount,
		&b.Pricing.Tax,
		&b.Pricing.TotalAmount,
		&b.Pricing.Currency,
		&b.BookingStatus,
		&b.PaymentStatus,
		&b.PaymentMethod,
		&b.PaymentDetails.TransactionID,
		&b.PaymentDetails.PaymentGateway,
		&b.PaymentDetails.PaidAt,
		&b.SpecialRequests,
		&b.CreatedAt,
		&b.UpdatedAt,
		&exp.ExperienceID,
		&exp.Title,
		&exp.ShortDescription,
		&exp.Location.City,
		&exp.Location.Latitude,
		&exp.Location.Longitude,
		&exp.Images,
		&exp.Price,
	)
	if err != nil {
		return nil, err
	}

	exp.ID = b.ExperienceID
	b.Experience = &exp
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, booking_id, user_id, guest_name, guest_email, guest_phone, experience_id,
		                      slot_date, slot_time, slots, number_of_guests, base_price, subtotal, discount,
		                      promo_code, promo_discount, tax, total_amount, currency, booking_status,
		                      payment_status, payment_method, special_requests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		        $20, $21, $22, $23, $24, $25)
	`

	slot := booking.PrimarySlot()

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.BookingID,
		booking.UserID,
		booking.GuestInfo.Name,
		booking.GuestInfo.Email,
		booking.GuestInfo.Phone,
		booking.ExperienceID,
		entity.DayOf(slot.Date),
		slot.Time,
		booking.Slots,
		booking.NumberOfGuests,
		booking.Pricing.BasePrice,
		booking.Pricing.Subtotal,
		booking.Pricing.Discount,
		booking.Pricing.PromoCode,
		booking.Pricing.PromoDiscount,
		booking.Pricing.Tax,
		booking.Pricing.TotalAmount,
		booking.Pricing.Currency,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.PaymentMethod,
		booking.SpecialRequests,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case constraintActiveSlot:
			r.log.Warn("Duplicate active booking for slot",
				zap.String("guest_email", booking.GuestInfo.Email),
				zap.String("experience_id", booking.ExperienceID.String()),
			)
			return ErrDuplicateSlot
		case constraintBookingID:
			r.log.Warn("Booking id collision", zap.String("booking_id", booking.BookingID))
			return ErrDuplicateBookingID
		}
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.BookingID),
			zap.String("experience_id", booking.ExperienceID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingID, err)
	}

	return nil
}

func (r *bookingRepository) FindByIDOrBookingID(ctx context.Context, key string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `,` + bookingExperienceColumns + `
		FROM bookings b
		JOIN experiences e ON e.id = b.experience_id
		WHERE b.booking_id = $1`
	args := []any{key}

	if id, err := uuid.Parse(key); err == nil {
		query = `SELECT ` + bookingColumns + `,` + bookingExperienceColumns + `
			FROM bookings b
			JOIN experiences e ON e.id = b.experience_id
			WHERE b.id = $1 OR b.booking_id = $2
			LIMIT 1`
		args = []any{id, key}
	}

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking",
			zap.Error(err),
			zap.String("booking_id", key),
		)
		return nil, fmt.Errorf("find booking %s: %w", key, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindActiveForSlot(ctx context.Context, email string, experienceID uuid.UUID, day time.Time, slotTime string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `,` + bookingExperienceColumns + `
		FROM bookings b
		JOIN experiences e ON e.id = b.experience_id
		WHERE b.guest_email = $1
		  AND b.experience_id = $2
		  AND b.slot_date = $3
		  AND b.slot_time = $4
		  AND b.booking_status IN ('pending', 'confirmed')
		LIMIT 1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query,
		email, experienceID, entity.DayOf(day), slotTime))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to look up active booking for slot",
			zap.Error(err),
			zap.String("experience_id", experienceID.String()),
		)
		return nil, fmt.Errorf("find active booking for slot: %w", err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `,` + bookingExperienceColumns + `
		FROM bookings b
		JOIN experiences e ON e.id = b.experience_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	bookings := []*entity.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}
