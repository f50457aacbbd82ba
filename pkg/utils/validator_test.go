package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type priceRequest struct {
	PriceID string `validate:"required,stripe_price"`
}

func TestStripePriceValidation(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(priceRequest{PriceID: "price_1NwPro"}))
	assert.Error(t, v.Struct(priceRequest{PriceID: "price_"}))
	assert.Error(t, v.Struct(priceRequest{PriceID: "prod_123"}))
	assert.Error(t, v.Struct(priceRequest{}))
}
