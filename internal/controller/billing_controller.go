package controller

import (
	"context"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/service"
)

type BillingController struct {
	billingService *service.BillingService
}

func NewBillingController(billingService *service.BillingService) *BillingController {
	return &BillingController{
		billingService: billingService,
	}
}

func (c *BillingController) CreateCheckoutSession(ctx context.Context, principal models.Principal, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	return c.billingService.CreateCheckoutSession(ctx, principal, req)
}

func (c *BillingController) GetSubscriptionStatus(ctx context.Context, principal models.Principal) (*models.SubscriptionStatus, error) {
	return c.billingService.GetSubscriptionStatus(ctx, principal)
}

func (c *BillingController) CreatePortalSession(ctx context.Context, principal models.Principal) (*models.PortalSession, error) {
	return c.billingService.CreatePortalSession(ctx, principal)
}

func (c *BillingController) CancelSubscription(ctx context.Context, principal models.Principal, req models.CancelSubscriptionRequest) (*models.CancelResult, error) {
	return c.billingService.CancelSubscription(ctx, principal, req)
}
