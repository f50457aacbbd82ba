package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/controller"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/middleware"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
)

type BillingHandler struct {
	billingController *controller.BillingController
	logger            *zap.Logger
}

func NewBillingHandler(billingController *controller.BillingController, logger *zap.Logger) *BillingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingHandler{
		billingController: billingController,
		logger:            logger,
	}
}

// RegisterRoutes mounts the billing endpoints. The router is expected to run AuthMiddleware first.
func (h *BillingHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/create-checkout-session", h.CreateCheckoutSession)
	router.Get("/subscription", h.GetSubscriptionStatus)
	router.Post("/create-portal-session", h.CreatePortalSession)
	router.Post("/cancel-subscription", h.CancelSubscription)
}

func (h *BillingHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(models.CodeUnauthorized, "User not authenticated"))
	}

	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(models.CodeInvalidRequest, "Invalid request body"))
	}

	session, err := h.billingController.CreateCheckoutSession(c.UserContext(), principal, req)
	if err != nil {
		return h.fail(c, "create checkout session", err)
	}

	return c.JSON(session)
}

func (h *BillingHandler) GetSubscriptionStatus(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(models.CodeUnauthorized, "User not authenticated"))
	}

	status, err := h.billingController.GetSubscriptionStatus(c.UserContext(), principal)
	if err != nil {
		return h.fail(c, "get subscription status", err)
	}

	return c.JSON(status)
}

func (h *BillingHandler) CreatePortalSession(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(models.CodeUnauthorized, "User not authenticated"))
	}

	session, err := h.billingController.CreatePortalSession(c.UserContext(), principal)
	if err != nil {
		return h.fail(c, "create portal session", err)
	}

	return c.JSON(session)
}

func (h *BillingHandler) CancelSubscription(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(models.CodeUnauthorized, "User not authenticated"))
	}

	var req models.CancelSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(models.CodeInvalidRequest, "Invalid request body"))
	}

	result, err := h.billingController.CancelSubscription(c.UserContext(), principal, req)
	if err != nil {
		return h.fail(c, "cancel subscription", err)
	}

	return c.JSON(result)
}

func (h *BillingHandler) fail(c *fiber.Ctx, action string, err error) error {
	status := mapErrorToHTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		h.logger.Error("billing request failed", zap.String("action", action), zap.Error(err))
	}
	return writeError(c, err)
}
