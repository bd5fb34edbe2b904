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

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// errUnknownPromo: no active code matched. The booking path reports it as a
// validation failure, the preview endpoint as not found.
var errUnknownPromo = errors.New("unknown promo code")

type PromoService interface {
	// ValidatePromoCode previews the discount for orderValue without using the code.
	ValidatePromoCode(ctx context.Context, req *request.ValidatePromoRequest) (*response.PromoValidationResponse, error)
}

type promoService struct {
	promos repository.PromoCodeRepository
	now    func() time.Time
	log    *zap.Logger
}

func NewPromoService(promos repository.PromoCodeRepository, log *zap.Logger) PromoService {
	return &promoService{
		promos: promos,
		now:    time.Now,
		log:    log.With(zap.String("service", "promo")),
	}
}

func (s *promoService) ValidatePromoCode(ctx context.Context, req *request.ValidatePromoRequest) (*response.PromoValidationResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, NewValidationError(MsgPromoCodeRequired)
	}
	if req.OrderValue == nil || *req.OrderValue <= 0 {
		return nil, NewValidationError(MsgOrderValueRequired)
	}
	orderValue := decimal.NewFromFloat(*req.OrderValue)

	promo, discount, err := resolvePromo(ctx, s.promos, code, orderValue, s.now())
	if errors.Is(err, errUnknownPromo) {
		s.log.Warn("Unknown promo code", zap.String("code", code))
		return nil, NewNotFoundError(MsgInvalidPromoCode)
	}
	if err != nil {
		return nil, err
	}

	discount = pricing.Round2(discount)

	return &response.PromoValidationResponse{
		Valid:         true,
		Code:          promo.Code,
		Description:   promo.Description,
		DiscountType:  string(promo.DiscountType),
		DiscountValue: promo.DiscountValue.InexactFloat64(),
		Discount:      discount.InexactFloat64(),
		FinalAmount:   pricing.Round2(orderValue.Sub(discount)).InexactFloat64(),
	}, nil
}

// resolvePromo looks code up, runs the window and usage checks, then the
// minimum order check, and returns the raw discount for orderValue.
// It never changes the code's usage.
func resolvePromo(ctx context.Context, promos repository.PromoCodeRepository, code string, orderValue decimal.Decimal, now time.Time) (*entity.PromoCode, decimal.Decimal, error) {
	promo, err := promos.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("find promo code: %w", err)
	}
	if promo == nil {
		return nil, decimal.Zero, errUnknownPromo
	}

	if check := promo.Check(now); !check.Valid {
		return nil, decimal.Zero, NewValidationError(check.Reason)
	}

	if !promo.MeetsMinimum(orderValue) {
		return nil, decimal.Zero, validationErrorf(msgMinimumOrderValueFmt, promo.MinOrderValue.String())
	}

	return promo, promo.ComputeDiscount(orderValue), nil
}
