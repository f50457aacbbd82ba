package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Custom validations
	_ = v.RegisterValidation("stripe_price", validateStripePrice)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Stripe price ids look like "price_1Nw...".
func validateStripePrice(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return strings.HasPrefix(id, "price_") && len(id) > len("price_")
}
