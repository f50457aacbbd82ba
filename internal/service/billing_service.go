package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/repository"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/payment"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/utils"
)

// PaymentGateway is the subset of the payment provider the billing service needs.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, userID, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, params models.CheckoutParams) (*models.CheckoutSession, error)
	ListSubscriptions(ctx context.Context, customerID string) ([]models.Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// CustomerRepository stores the user to Stripe customer mapping.
type CustomerRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
}

// Notifier sends billing emails. It is optional.
type Notifier interface {
	SendCancellationEmail(ctx context.Context, to string, result models.CancelResult) error
}

type BillingURLs struct {
	SuccessURL      string
	CancelURL       string
	PortalReturnURL string
}

type BillingService struct {
	gateway   PaymentGateway
	customers CustomerRepository
	notifier  Notifier
	validator *utils.Validator
	urls      BillingURLs
	logger    *zap.Logger

	// collapses concurrent first checkouts of one user into a single customer
	customerGroup singleflight.Group
}

func NewBillingService(
	gateway PaymentGateway,
	customers CustomerRepository,
	notifier Notifier,
	validator *utils.Validator,
	urls BillingURLs,
	logger *zap.Logger,
) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{
		gateway:   gateway,
		customers: customers,
		notifier:  notifier,
		validator: validator,
		urls:      urls,
		logger:    logger,
	}
}

func (s *BillingService) CreateCheckoutSession(ctx context.Context, principal models.Principal, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	customer, err := s.findOrCreateCustomer(ctx, principal)
	if err != nil {
		return nil, err
	}

	params := models.CheckoutParams{
		CustomerID: customer.StripeCustomerID,
		UserID:     principal.UserID,
		PriceID:    req.PriceID,
		Quantity:   req.Quantity,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	}
	if params.Quantity == 0 {
		params.Quantity = 1
	}
	if params.SuccessURL == "" {
		params.SuccessURL = s.urls.SuccessURL
	}
	if params.CancelURL == "" {
		params.CancelURL = s.urls.CancelURL
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, s.providerError("create checkout session", err)
	}

	s.logger.Info("checkout session created",
		zap.String("user_id", principal.UserID),
		zap.String("session_id", session.SessionID),
		zap.String("price_id", req.PriceID),
	)
	return session, nil
}

func (s *BillingService) GetSubscriptionStatus(ctx context.Context, principal models.Principal) (*models.SubscriptionStatus, error) {
	customer, err := s.customers.GetByUserID(ctx, principal.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.SubscriptionStatus{Status: models.SubscriptionStatusNone}, nil
	}
	if err != nil {
		return nil, err
	}

	subs, err := s.gateway.ListSubscriptions(ctx, customer.StripeCustomerID)
	if err != nil {
		return nil, s.providerError("list subscriptions", err)
	}
	if len(subs) == 0 {
		return &models.SubscriptionStatus{Status: models.SubscriptionStatusNone}, nil
	}

	sub := currentSubscription(subs)
	status := &models.SubscriptionStatus{
		Active:            isLive(sub.Status),
		Status:            sub.Status,
		SubscriptionID:    sub.ID,
		Plan:              sub.Plan,
		PriceID:           sub.PriceID,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd.UTC()
		status.CurrentPeriodEnd = &end
	}
	return status, nil
}

func (s *BillingService) CreatePortalSession(ctx context.Context, principal models.Principal) (*models.PortalSession, error) {
	customer, err := s.existingCustomer(ctx, principal)
	if err != nil {
		return nil, err
	}

	url, err := s.gateway.CreatePortalSession(ctx, customer.StripeCustomerID, s.urls.PortalReturnURL)
	if err != nil {
		return nil, s.providerError("create portal session", err)
	}
	return &models.PortalSession{URL: url}, nil
}

func (s *BillingService) CancelSubscription(ctx context.Context, principal models.Principal, req models.CancelSubscriptionRequest) (*models.CancelResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	customer, err := s.existingCustomer(ctx, principal)
	if err != nil {
		return nil, err
	}

	sub, err := s.gateway.GetSubscription(ctx, req.SubscriptionID)
	if errors.Is(err, payment.ErrResourceMissing) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, s.providerError("get subscription", err)
	}
	if sub.CustomerID != customer.StripeCustomerID {
		s.logger.Warn("cancel rejected: subscription owned by another customer",
			zap.String("user_id", principal.UserID),
			zap.String("subscription_id", req.SubscriptionID),
		)
		return nil, ErrSubscriptionNotOwned
	}

	canceled, err := s.gateway.CancelSubscription(ctx, req.SubscriptionID)
	if err != nil {
		return nil, s.providerError("cancel subscription", err)
	}

	result := &models.CancelResult{
		SubscriptionID: canceled.ID,
		Status:         canceled.Status,
	}
	if !canceled.CanceledAt.IsZero() {
		at := canceled.CanceledAt.UTC()
		result.CanceledAt = &at
	}

	s.logger.Info("subscription canceled",
		zap.String("user_id", principal.UserID),
		zap.String("subscription_id", canceled.ID),
	)

	if s.notifier != nil {
		if err := s.notifier.SendCancellationEmail(ctx, customer.Email, *result); err != nil {
			s.logger.Warn("cancellation email failed",
				zap.String("user_id", principal.UserID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

func (s *BillingService) findOrCreateCustomer(ctx context.Context, principal models.Principal) (*models.Customer, error) {
	customer, err := s.customers.GetByUserID(ctx, principal.UserID)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	v, err, _ := s.customerGroup.Do(principal.UserID, func() (interface{}, error) {
		return s.createCustomer(ctx, principal)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Customer), nil
}

func (s *BillingService) createCustomer(ctx context.Context, principal models.Principal) (*models.Customer, error) {
	// The previous flight may have stored the customer already.
	customer, err := s.customers.GetByUserID(ctx, principal.UserID)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	customerID, err := s.gateway.CreateCustomer(ctx, principal.UserID, principal.Email)
	if err != nil {
		return nil, s.providerError("create customer", err)
	}

	customer = &models.Customer{
		UserID:           principal.UserID,
		Email:            principal.Email,
		StripeCustomerID: customerID,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		// Another instance stored its customer first. Use that row so every
		// session for this user points at the recorded customer.
		s.logger.Warn("stripe customer created concurrently, using stored mapping",
			zap.String("user_id", principal.UserID),
			zap.String("orphan_customer_id", customerID),
		)
		return s.customers.GetByUserID(ctx, principal.UserID)
	}

	s.logger.Info("stripe customer created",
		zap.String("user_id", principal.UserID),
		zap.String("customer_id", customerID),
	)
	return customer, nil
}

func (s *BillingService) existingCustomer(ctx context.Context, principal models.Principal) (*models.Customer, error) {
	customer, err := s.customers.GetByUserID(ctx, principal.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoBillingAccount
	}
	return customer, err
}

func (s *BillingService) providerError(action string, err error) error {
	s.logger.Error("payment provider call failed", zap.String("action", action), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", ErrPaymentProvider, action, err)
}

// currentSubscription picks the first live subscription, else the first one.
func currentSubscription(subs []models.Subscription) models.Subscription {
	for _, sub := range subs {
		if isLive(sub.Status) {
			return sub
		}
	}
	return subs[0]
}

func isLive(status string) bool {
	switch status {
	case "active", "trialing", "past_due":
		return true
	}
	return false
}
