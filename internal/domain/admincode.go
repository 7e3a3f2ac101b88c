package domain

import "time"

// AdminCode is a short-lived, single-use code that grants the admin
// role on redemption.
type AdminCode struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"` // 8 uppercase hex chars
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	UsedBy    string    `json:"used_by,omitempty"`
	UsedAt    time.Time `json:"used_at,omitzero"`
}

// IsExpired reports whether the code has passed its lifetime.
func (c *AdminCode) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsUsed reports whether the code has already been redeemed.
func (c *AdminCode) IsUsed() bool {
	return c.UsedBy != ""
}

// Redeemable reports whether the code can still be redeemed.
func (c *AdminCode) Redeemable() bool {
	return !c.IsUsed() && !c.IsExpired()
}
