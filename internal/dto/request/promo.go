package request

type ValidatePromoRequest struct {
	Code string `json:"code"`
	// OrderValue is a pointer so a missing value can be told apart from 0.
	OrderValue *float64 `json:"orderValue"`
}
