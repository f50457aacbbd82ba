package models

// Response is the error envelope of the billing API. Successful calls return
// the bare resource so the client can read its fields at the top level.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Code is a stable machine-readable reason, e.g. "subscription_not_owned".
	Code string `json:"code,omitempty"`
}

const (
	CodeUnauthorized         = "unauthorized"
	CodeInvalidRequest       = "invalid_request"
	CodeNoBillingAccount     = "no_billing_account"
	CodeSubscriptionNotFound = "subscription_not_found"
	CodeSubscriptionNotOwned = "subscription_not_owned"
	CodePaymentProvider      = "payment_provider_error"
	CodeInternal             = "internal_error"
)

// ErrorResponse builds the envelope. The billing client reads the "error" field.
func ErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   message,
		Code:    code,
	}
}
