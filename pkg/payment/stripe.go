package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
)

// ErrResourceMissing is returned when Stripe reports that the object does not exist.
var ErrResourceMissing = errors.New("stripe resource missing")

// StripeGateway talks to Stripe through an initialized SDK handle.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(api *client.API) *StripeGateway {
	return &StripeGateway{
		api: api,
	}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, userID, email string) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	params.AddMetadata("user_id", userID)

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", mapError(err)
	}
	return customer.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p models.CheckoutParams) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(p.CustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(p.Quantity),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.AddMetadata("user_id", p.UserID)

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapError(err)
	}

	return &models.CheckoutSession{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

func (g *StripeGateway) ListSubscriptions(ctx context.Context, customerID string) ([]models.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		ListParams: stripe.ListParams{Context: ctx},
		Customer:   stripe.String(customerID),
		Status:     stripe.String("all"),
	}
	// product is needed for the plan name when the price has no nickname
	params.AddExpand("data.items.data.price.product")

	var subs []models.Subscription
	iter := g.api.Subscriptions.List(params)
	for iter.Next() {
		subs = append(subs, toSubscription(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		return nil, mapError(err)
	}
	return subs, nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExpand("items.data.price.product")

	sub, err := g.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, mapError(err)
	}
	result := toSubscription(sub)
	return &result, nil
}

func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	sub, err := g.api.Subscriptions.Cancel(subscriptionID, &stripe.SubscriptionCancelParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, mapError(err)
	}
	result := toSubscription(sub)
	return &result, nil
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	session, err := g.api.BillingPortalSessions.New(&stripe.BillingPortalSessionParams{
		Params:    stripe.Params{Context: ctx},
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		return "", mapError(err)
	}
	return session.URL, nil
}

func toSubscription(sub *stripe.Subscription) models.Subscription {
	result := models.Subscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CurrentPeriodEnd:  unixTime(sub.CurrentPeriodEnd),
		CanceledAt:        unixTime(sub.CanceledAt),
	}
	if sub.Customer != nil {
		result.CustomerID = sub.Customer.ID
	}

	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		price := sub.Items.Data[0].Price
		result.PriceID = price.ID
		result.Plan = price.Nickname
		if result.Plan == "" && price.Product != nil {
			result.Plan = price.Product.Name
		}
	}
	return result
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func mapError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrResourceMissing, stripeErr.Msg)
		}
	}
	return err
}
