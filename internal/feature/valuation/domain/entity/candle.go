package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one OHLCV sample. Any value may be missing (null in the provider response).
type Candle struct {
	Timestamp int64 // milliseconds since the UNIX epoch
	Open      decimal.NullDecimal
	High      decimal.NullDecimal
	Low       decimal.NullDecimal
	Close     decimal.NullDecimal
	Volume    decimal.NullDecimal
}

// Time returns the candle timestamp in UTC.
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.Timestamp).UTC()
}

// Series holds the candles of one query in provider order (chronological).
type Series []Candle
