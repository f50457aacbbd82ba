package models

import "time"

// Customer links an authenticated user to their Stripe customer.
type Customer struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Email            string    `json:"email" gorm:"not null"`
	StripeCustomerID string    `json:"stripe_customer_id" gorm:"uniqueIndex;not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Principal is the caller identified by the bearer token.
type Principal struct {
	UserID string
	Email  string
}
