package models

import "time"

// CheckoutRequest is the body of POST /api/stripeAPI/create-checkout-session.
type CheckoutRequest struct {
	PriceID    string `json:"priceId" validate:"required,stripe_price"`
	Quantity   int64  `json:"quantity" validate:"omitempty,min=1"`
	SuccessURL string `json:"successUrl" validate:"omitempty,url"`
	CancelURL  string `json:"cancelUrl" validate:"omitempty,url"`
}

// CheckoutParams is a checkout request resolved against the caller's customer.
type CheckoutParams struct {
	CustomerID string
	UserID     string
	PriceID    string
	Quantity   int64
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// Subscription is the provider-neutral view of a Stripe subscription.
type Subscription struct {
	ID                string
	CustomerID        string
	Status            string
	Plan              string
	PriceID           string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
	CanceledAt        time.Time
}

type SubscriptionStatus struct {
	Active            bool       `json:"active"`
	Status            string     `json:"status"`
	SubscriptionID    string     `json:"subscriptionId,omitempty"`
	Plan              string     `json:"plan,omitempty"`
	PriceID           string     `json:"priceId,omitempty"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
}

type PortalSession struct {
	URL string `json:"url"`
}

type CancelSubscriptionRequest struct {
	SubscriptionID string `json:"subscriptionId" validate:"required"`
}

type CancelResult struct {
	SubscriptionID string     `json:"subscriptionId"`
	Status         string     `json:"status"`
	CanceledAt     *time.Time `json:"canceledAt,omitempty"`
}

// Subscription statuses reported when no Stripe subscription exists.
const SubscriptionStatusNone = "none"
