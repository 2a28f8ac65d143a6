package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PricePlaces is the precision of a resolved close or FX rate.
	PricePlaces int32 = 2
	// AmountPlaces is the precision of the final reporting-currency amount.
	AmountPlaces int32 = 0
)

// RoundHalfUp rounds d to places decimals, ties away from zero (1.005 -> 1.01, 2.5 -> 3).
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Valuation is the breakdown of one position value in the reporting currency.
type Valuation struct {
	Symbol   Symbol
	Currency string
	Shares   int64
	BaseDate time.Time       // date the closes were resolved for (input date + 1 day)
	Price    decimal.Decimal // asset close, 2 places
	Rate     decimal.Decimal // currency -> JPY rate, 2 places (exactly 1 for JPY)
	Amount   int64           // round(price x rate, 0) x shares
}
