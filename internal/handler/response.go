package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/service"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrSubscriptionNotOwned):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNoBillingAccount), errors.Is(err, service.ErrSubscriptionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrPaymentProvider):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return models.CodeInvalidRequest
	case errors.Is(err, service.ErrSubscriptionNotOwned):
		return models.CodeSubscriptionNotOwned
	case errors.Is(err, service.ErrNoBillingAccount):
		return models.CodeNoBillingAccount
	case errors.Is(err, service.ErrSubscriptionNotFound):
		return models.CodeSubscriptionNotFound
	case errors.Is(err, service.ErrPaymentProvider):
		return models.CodePaymentProvider
	default:
		return models.CodeInternal
	}
}

// errorMessage keeps internal failures out of the response body.
func errorMessage(status int, err error) string {
	switch status {
	case fiber.StatusInternalServerError:
		return "Internal server error"
	case fiber.StatusBadGateway:
		return "Payment provider request failed"
	default:
		return err.Error()
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status := mapErrorToHTTPStatus(err)
	return c.Status(status).JSON(models.ErrorResponse(errorCode(err), errorMessage(status, err)))
}
