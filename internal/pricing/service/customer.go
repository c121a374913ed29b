package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// InitialCustomerPrice is the customer price before any override: the list total.
func InitialCustomerPrice(listTotal float64) float64 {
	return listTotal
}

// ParseCustomerPrice coerces a raw override to a non-negative number.
// Unparsable input stores 0, which EffectivePrice treats as "no override".
func ParseCustomerPrice(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

// EffectivePrice returns the customer price when it is a positive override,
// otherwise the list total.
func EffectivePrice(listTotal, customerPrice float64) float64 {
	if customerPrice > 0 {
		return customerPrice
	}
	return listTotal
}

// DiscountPercent derives the discount of customerPrice against listTotal,
// reported with two-decimal precision. The result is always in [0, 100): a
// customer price of 0 means no override, never a 100% discount.
func DiscountPercent(listTotal, customerPrice float64) float64 {
	if listTotal == 0 || customerPrice <= 0 || customerPrice >= listTotal {
		return 0
	}

	list := decimal.NewFromFloat(listTotal)
	customer := decimal.NewFromFloat(customerPrice)
	percent := list.Sub(customer).Div(list).Mul(decimal.NewFromInt(100))
	value, _ := percent.Round(2).Float64()
	return value
}
