// Package entity defines the domain models for the valuation feature.
package entity

import "strings"

// FXSuffix marks a currency-pair symbol on the chart provider (e.g. "USDJPY=X").
const FXSuffix = "=X"

// AssetKind distinguishes how a symbol's closing price is resolved.
type AssetKind int

const (
	// Equity is any non-FX instrument; its close is the first daily candle.
	Equity AssetKind = iota
	// FXPair is a currency pair; its close is the 20:00 UTC hourly candle.
	FXPair
)

func (k AssetKind) String() string {
	if k == FXPair {
		return "fx"
	}
	return "equity"
}

// Symbol is an instrument identifier classified once at the boundary.
type Symbol struct {
	Kind  AssetKind
	Code  string // provider code, e.g. "AMZN", "7203.T", "USDJPY=X"
	Base  string // FX only, e.g. "USD"
	Quote string // FX only, e.g. "JPY"
}

// ParseSymbol classifies a provider code. Codes ending in FXSuffix are FX pairs;
// the base and quote currencies are split out when the pair is the usual six letters.
func ParseSymbol(code string) Symbol {
	code = strings.TrimSpace(code)
	if !strings.HasSuffix(code, FXSuffix) {
		return Symbol{Kind: Equity, Code: code}
	}
	s := Symbol{Kind: FXPair, Code: code}
	if pair := strings.TrimSuffix(code, FXSuffix); len(pair) == 6 {
		s.Base, s.Quote = pair[:3], pair[3:]
	}
	return s
}

// NewFXPair returns the FX pair symbol converting base into quote.
func NewFXPair(base, quote string) Symbol {
	base, quote = strings.ToUpper(base), strings.ToUpper(quote)
	return Symbol{Kind: FXPair, Code: base + quote + FXSuffix, Base: base, Quote: quote}
}

// IsFXPair reports whether s is a currency pair.
func (s Symbol) IsFXPair() bool { return s.Kind == FXPair }

func (s Symbol) String() string { return s.Code }
