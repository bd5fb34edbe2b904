package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"experience-booking/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateSlot: the guest already holds an active booking for the slot.
	ErrDuplicateSlot = errors.New("active booking already exists for slot")
	// ErrDuplicateBookingID: generated display id collided, caller may regenerate.
	ErrDuplicateBookingID = errors.New("booking id already taken")
	// ErrPromoExhausted: conditional usage increment found no remaining use.
	ErrPromoExhausted = errors.New("promo code usage limit reached")
)

const (
	uniqueViolation = "23505"

	constraintActiveSlot = "bookings_active_slot_key"
	constraintBookingID  = "bookings_booking_id_key"
)

type Repository struct {
	Experience ExperienceRepository
	PromoCode  PromoCodeRepository
	Booking    BookingRepository
	Session    SessionRepository
	Tx         Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Experience: NewExperienceRepository(db, log),
		PromoCode:  NewPromoCodeRepository(db, log),
		Booking:    NewBookingRepository(db, log),
		Session:    NewSessionRepository(db, log),
		Tx:         &pgxTransactor{db: db, log: log.With(zap.String("repository", "tx"))},
	}
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos *Repository) error) error
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) WithinTransaction(ctx context.Context, fn func(repos *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
	}()

	if err := fn(NewRepository(database.NewTxConn(tx), t.log)); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			t.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// uniqueConstraint returns the violated unique constraint name, if any.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
