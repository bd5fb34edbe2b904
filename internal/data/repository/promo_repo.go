package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"experience-booking/internal/data/entity"
	"experience-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PromoCodeRepository interface {
	// FindActiveByCode looks the code up case-insensitively among active codes.
	FindActiveByCode(ctx context.Context, code string) (*entity.PromoCode, error)
	// IncrementUsage atomically takes one use, failing with ErrPromoExhausted
	// when the code is inactive or its cap is already reached.
	IncrementUsage(ctx context.Context, id uuid.UUID) (int, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, promo *entity.PromoCode) error
}

type promoCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPromoCodeRepository(db database.PgxIface, log *zap.Logger) PromoCodeRepository {
	return &promoCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "promo_code")),
	}
}

func (r *promoCodeRepository) FindActiveByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	query := `
		SELECT id, code, description, discount_type, discount_value, max_discount, min_order_value,
		       valid_from, valid_until, usage_limit, used_count, is_active, created_at, updated_at
		FROM promo_codes
		WHERE code = $1 AND is_active = TRUE
	`

	normalized := strings.ToUpper(strings.TrimSpace(code))

	var p entity.PromoCode
	err := r.db.QueryRow(ctx, query, normalized).Scan(
		&p.ID,
		&p.Code,
		&p.Description,
		&p.DiscountType,
		&p.DiscountValue,
		&p.MaxDiscount,
		&p.MinOrderValue,
		&p.ValidFrom,
		&p.ValidUntil,
		&p.UsageLimit,
		&p.UsedCount,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find promo code",
			zap.Error(err),
			zap.String("code", normalized),
		)
		return nil, fmt.Errorf("find promo code %s: %w", normalized, err)
	}

	return &p, nil
}

func (r *promoCodeRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE promo_codes
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND is_active = TRUE
		  AND (usage_limit IS NULL OR used_count < usage_limit)
		RETURNING used_count
	`

	var used int
	err := r.db.QueryRow(ctx, query, id).Scan(&used)
	if errors.Is(err, pgx.ErrNoRows) {
		r.log.Warn("Promo code has no remaining uses", zap.String("promo_id", id.String()))
		return 0, ErrPromoExhausted
	}
	if err != nil {
		r.log.Error("Failed to increment promo usage",
			zap.Error(err),
			zap.String("promo_id", id.String()),
		)
		return 0, fmt.Errorf("increment promo %s usage: %w", id.String(), err)
	}

	return used, nil
}

func (r *promoCodeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM promo_codes`).Scan(&count); err != nil {
		r.log.Error("Failed to count promo codes", zap.Error(err))
		return 0, fmt.Errorf("count promo codes: %w", err)
	}
	return count, nil
}

func (r *promoCodeRepository) Create(ctx context.Context, p *entity.PromoCode) error {
	query := `
		INSERT INTO promo_codes (id, code, description, discount_type, discount_value, max_discount,
		                         min_order_value, valid_from, valid_until, usage_limit, used_count,
		                         is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		strings.ToUpper(strings.TrimSpace(p.Code)),
		p.Description,
		p.DiscountType,
		p.DiscountValue,
		p.MaxDiscount,
		p.MinOrderValue,
		p.ValidFrom,
		p.ValidUntil,
		p.UsageLimit,
		p.UsedCount,
		p.IsActive,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create promo code",
			zap.Error(err),
			zap.String("code", p.Code),
		)
		return fmt.Errorf("create promo code %s: %w", p.Code, err)
	}

	return nil
}
