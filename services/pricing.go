package services

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// MaxPrice is the highest price a catalog item may carry.
	MaxPrice = 100000
	// MaxQuantity caps a single order line.
	MaxQuantity = 1000
)

// maxOrderTotal is the largest total the order tables can hold (NUMERIC(12,2)).
var maxOrderTotal = decimal.RequireFromString("9999999999.99")

// lineTotal multiplies in decimal so sums of prices like 8.99 stay exact.
func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderTotal is the sum of quantity × price over the given lines.
func OrderTotal(lines []LinePrice) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(lineTotal(l.Price, l.Quantity))
	}
	return total
}

// validPrice reports whether p is within range and has at most two decimals.
func validPrice(p float64) bool {
	if math.IsNaN(p) || p < 0 || p > MaxPrice {
		return false
	}
	return decimal.NewFromFloat(p).Exponent() >= -2
}

type LinePrice struct {
	Price    float64
	Quantity int
}
