package models

type PromoCode struct {
	Code       string  `json:"code"`
	Type       string  `json:"type"` // "percentage", "fixed"
	Value      float64 `json:"value"`
	UsageLimit *int    `json:"usage_limit,omitempty"`
	UsedCount  int     `json:"used_count"`
	ExpiresAt  string  `json:"expires_at"`
	IsActive   bool    `json:"is_active"`
}
