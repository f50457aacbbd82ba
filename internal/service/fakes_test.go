package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/repository"
)

type fakeGateway struct {
	mu            sync.Mutex
	customerID    string
	numbered      bool
	createDelay   time.Duration
	createErr     error
	createdFor    []string
	checkout      []models.CheckoutParams
	checkoutErr   error
	subscriptions map[string][]models.Subscription
	byID          map[string]models.Subscription
	getErr        error
	canceled      []string
	portalURL     string
	portalFor     string
	portalReturn  string
}

func (g *fakeGateway) CreateCustomer(_ context.Context, userID, _ string) (string, error) {
	time.Sleep(g.createDelay)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return "", g.createErr
	}
	g.createdFor = append(g.createdFor, userID)
	if g.numbered {
		return fmt.Sprintf("%s_%d", g.customerID, len(g.createdFor)), nil
	}
	return g.customerID, nil
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, params models.CheckoutParams) (*models.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	g.checkout = append(g.checkout, params)
	return &models.CheckoutSession{SessionID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

func (g *fakeGateway) ListSubscriptions(_ context.Context, customerID string) ([]models.Subscription, error) {
	return g.subscriptions[customerID], nil
}

func (g *fakeGateway) GetSubscription(_ context.Context, subscriptionID string) (*models.Subscription, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	sub, ok := g.byID[subscriptionID]
	if !ok {
		return nil, errMissing
	}
	return &sub, nil
}

func (g *fakeGateway) CancelSubscription(_ context.Context, subscriptionID string) (*models.Subscription, error) {
	g.canceled = append(g.canceled, subscriptionID)
	sub := g.byID[subscriptionID]
	sub.Status = "canceled"
	return &sub, nil
}

func (g *fakeGateway) CreatePortalSession(_ context.Context, customerID, returnURL string) (string, error) {
	g.portalFor = customerID
	g.portalReturn = returnURL
	return g.portalURL, nil
}

type fakeCustomers struct {
	mu        sync.Mutex
	customers map[string]models.Customer
	// stored just before Create, as if another instance won the insert
	raced *models.Customer
}

func newFakeCustomers(existing ...models.Customer) *fakeCustomers {
	r := &fakeCustomers{customers: map[string]models.Customer{}}
	for _, c := range existing {
		r.customers[c.UserID] = c
	}
	return r
}

func (r *fakeCustomers) GetByUserID(_ context.Context, userID string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCustomers) Create(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raced != nil {
		r.customers[r.raced.UserID] = *r.raced
		r.raced = nil
	}
	if _, ok := r.customers[customer.UserID]; ok {
		return repository.ErrDuplicate
	}
	r.customers[customer.UserID] = *customer
	return nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) SendCancellationEmail(_ context.Context, to string, _ models.CancelResult) error {
	n.sent = append(n.sent, to)
	return n.err
}
