package response

type PromoValidationResponse struct {
	Valid         bool    `json:"valid"`
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	Discount      float64 `json:"discount"`
	FinalAmount   float64 `json:"finalAmount"`
}
