package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCustomerPrice(t *testing.T) {
	assert.Equal(t, 0.0, ParseCustomerPrice(""))
	assert.Equal(t, 0.0, ParseCustomerPrice("  "))
	assert.Equal(t, 0.0, ParseCustomerPrice("4,500"))
	assert.Equal(t, 0.0, ParseCustomerPrice("-100"))
	assert.Equal(t, 4500.0, ParseCustomerPrice("4500"))
	assert.Equal(t, 4500.5, ParseCustomerPrice(" 4500.50 "))
}

func TestEffectivePrice(t *testing.T) {
	assert.Equal(t, 4500.0, EffectivePrice(5000, 4500))
	assert.Equal(t, 5000.0, EffectivePrice(5000, 0))
	assert.Equal(t, 6000.0, EffectivePrice(5000, 6000))
	assert.Equal(t, 0.0, EffectivePrice(0, 0))
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 10.0, DiscountPercent(5000, 4500))
	assert.Equal(t, 2.5, DiscountPercent(12000, 11700))
	assert.Equal(t, 33.33, DiscountPercent(3000, 2000))
}

func TestDiscountPercent_Guards(t *testing.T) {
	// No list total: nothing to discount against.
	assert.Equal(t, 0.0, DiscountPercent(0, 4500))
	// A customer price of 0 means no override, not a 100% discount.
	assert.Equal(t, 0.0, DiscountPercent(5000, 0))
	assert.Equal(t, 0.0, DiscountPercent(5000, -10))
	// At or above list price there is no discount.
	assert.Equal(t, 0.0, DiscountPercent(5000, 5000))
	assert.Equal(t, 0.0, DiscountPercent(5000, 6000))
}

func TestDiscountPercent_UpperBound(t *testing.T) {
	// A near-free customer price approaches but never reaches 100.
	percent := DiscountPercent(5000, 0.01)
	assert.Greater(t, percent, 99.0)
	assert.Less(t, percent, 100.0)
}

func TestInitialCustomerPrice(t *testing.T) {
	assert.Equal(t, 5000.0, InitialCustomerPrice(5000))
}
