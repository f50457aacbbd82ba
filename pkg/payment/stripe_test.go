package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *StripeGateway {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	api := client.New("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return NewStripeGateway(api)
}

// expandValues collects expand parameters whatever index notation the SDK uses.
func expandValues(values url.Values) []string {
	var out []string
	for key, vs := range values {
		if strings.HasPrefix(key, "expand") {
			out = append(out, vs...)
		}
	}
	return out
}

const subscriptionJSON = `{
	"id": "sub_1",
	"object": "subscription",
	"status": "active",
	"customer": "cus_1",
	"cancel_at_period_end": false,
	"current_period_end": 1700000000,
	"items": {"object": "list", "data": [{"id": "si_1", "price": {"id": "price_pro", "nickname": "Pro"}}]}
}`

func TestStripeGateway_CreateCheckoutSession(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "subscription", r.PostForm.Get("mode"))
		assert.Equal(t, "cus_1", r.PostForm.Get("customer"))
		assert.Equal(t, "price_pro", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "2", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "user-1", r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.test/cs_test_1"}`))
	})

	session, err := gateway.CreateCheckoutSession(context.Background(), models.CheckoutParams{
		CustomerID: "cus_1",
		UserID:     "user-1",
		PriceID:    "price_pro",
		Quantity:   2,
		SuccessURL: "https://planner.test/success",
		CancelURL:  "https://planner.test/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.SessionID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", session.URL)
}

func TestStripeGateway_CreateCustomer(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/customers", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice@planner.test", r.PostForm.Get("email"))
		assert.Equal(t, "user-1", r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cus_new","object":"customer","email":"alice@planner.test"}`))
	})

	id, err := gateway.CreateCustomer(context.Background(), "user-1", "alice@planner.test")
	require.NoError(t, err)
	assert.Equal(t, "cus_new", id)
}

func TestStripeGateway_CancelSubscription(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/subscriptions/sub_1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub_1","object":"subscription","status":"canceled","customer":"cus_1","canceled_at":1700000100}`))
	})

	sub, err := gateway.CancelSubscription(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "canceled", sub.Status)
	assert.Equal(t, "cus_1", sub.CustomerID)
	assert.Equal(t, time.Unix(1700000100, 0).UTC(), sub.CanceledAt)
}

func TestStripeGateway_CreatePortalSession(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/billing_portal/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "cus_1", r.PostForm.Get("customer"))
		assert.Equal(t, "https://planner.test/settings", r.PostForm.Get("return_url"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"bps_1","object":"billing_portal.session","url":"https://billing.stripe.test/p/bps_1"}`))
	})

	portalURL, err := gateway.CreatePortalSession(context.Background(), "cus_1", "https://planner.test/settings")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.test/p/bps_1", portalURL)
}

func TestStripeGateway_GetSubscription(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions/sub_1", r.URL.Path)
		assert.Contains(t, expandValues(r.URL.Query()), "items.data.price.product")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(subscriptionJSON))
	})

	sub, err := gateway.GetSubscription(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "cus_1", sub.CustomerID)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "price_pro", sub.PriceID)
	assert.Equal(t, "Pro", sub.Plan)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), sub.CurrentPeriodEnd)
	assert.True(t, sub.CanceledAt.IsZero())
}

func TestStripeGateway_GetSubscriptionMissing(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such subscription: 'sub_x'"}}`))
	})

	_, err := gateway.GetSubscription(context.Background(), "sub_x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourceMissing)
}

func TestStripeGateway_ListSubscriptions(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions", r.URL.Path)
		assert.Equal(t, "cus_1", r.URL.Query().Get("customer"))
		assert.Equal(t, "all", r.URL.Query().Get("status"))
		assert.Contains(t, expandValues(r.URL.Query()), "data.items.data.price.product")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","has_more":false,"url":"/v1/subscriptions","data":[` + subscriptionJSON + `]}`))
	})

	subs, err := gateway.ListSubscriptions(context.Background(), "cus_1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "sub_1", subs[0].ID)
}

func TestStripeGateway_ProviderErrorIsNotMissing(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	})

	_, err := gateway.CreatePortalSession(context.Background(), "cus_1", "https://planner.test/settings")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrResourceMissing)
}

func TestStripeGateway_PlanFallsBackToProductName(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","has_more":false,"url":"/v1/subscriptions","data":[{
			"id": "sub_2",
			"object": "subscription",
			"status": "active",
			"customer": "cus_1",
			"items": {"object": "list", "data": [{"id": "si_2", "price": {"id": "price_team", "product": {"id": "prod_team", "object": "product", "name": "Team Plan"}}}]}
		}]}`))
	})

	subs, err := gateway.ListSubscriptions(context.Background(), "cus_1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "price_team", subs[0].PriceID)
	assert.Equal(t, "Team Plan", subs[0].Plan)
}
