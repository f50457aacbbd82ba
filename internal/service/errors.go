package service

import "errors"

var (
	// ErrInvalidRequest is returned when a request body fails validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoBillingAccount is returned when the user has no Stripe customer yet.
	ErrNoBillingAccount = errors.New("no billing account for this user")

	// ErrSubscriptionNotFound is returned when the subscription does not exist.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrSubscriptionNotOwned is returned when the subscription belongs to another customer.
	ErrSubscriptionNotOwned = errors.New("subscription does not belong to this user")

	// ErrPaymentProvider is returned when the payment provider call fails.
	ErrPaymentProvider = errors.New("payment provider error")

	// ErrAccountExists is returned when registering an email that is already registered.
	ErrAccountExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotLoggedIn is returned when no session token is stored.
	ErrNotLoggedIn = errors.New("not logged in")
)
