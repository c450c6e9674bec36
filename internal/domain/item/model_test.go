package item

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemstore/internal/core/apperror"
)

func TestInputValidate_CollectsAllViolations(t *testing.T) {
	in := Input{
		SKU:      "   ",
		Name:     "",
		Price:    decimal.Zero,
		Quantity: -1,
	}

	err := in.Validate(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	msg := err.Error()
	assert.Contains(t, msg, "sku: must not be blank")
	assert.Contains(t, msg, "name: must not be blank")
	assert.Contains(t, msg, "price: must be greater than zero")
	assert.Contains(t, msg, "quantity: must not be negative")
}

func TestInputValidate_NegativePrice(t *testing.T) {
	in := validInput("K1", "Widget")
	in.Price = decimal.NewFromInt(-3)

	err := in.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price: must be greater than zero")
}

func TestInputValidate_Valid(t *testing.T) {
	in := validInput("K1", "Widget")
	in.Quantity = 0 // zero stock is allowed

	assert.NoError(t, in.Validate(context.Background()))
}
