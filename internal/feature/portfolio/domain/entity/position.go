// Package entity defines the domain models for the portfolio feature.
package entity

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultCurrency is used when a position is registered without a currency.
const DefaultCurrency = "USD"

// Position は保有銘柄1件を表します。
// Label の形式は "#<comment>-<CODE>-<shares>" です（例: "#nisa-AMZN-2"）。
type Position struct {
	ID           uint
	Label        string
	Currency     string
	EntriedAt    *time.Time // 取得日（未設定可）
	EntriedValue int64      // 取得時評価額（円）、0 は未計算
	CurrentValue int64      // 直近の評価額（円）
	UpdatedAt    time.Time
}

// Holding is the instrument and share count encoded in a label.
type Holding struct {
	Comment string
	Code    string
	Shares  int64
}

var labelPattern = regexp.MustCompile(`^#(\w+)-(\w+)-(\d+)`)

// ParseLabel extracts the holding from a label. Labels that do not match are not positions.
func ParseLabel(label string) (Holding, bool) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return Holding{}, false
	}
	shares, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return Holding{}, false
	}
	return Holding{Comment: m[1], Code: m[2], Shares: shares}, true
}

// NeedsEntryValue reports whether the entry valuation still has to be computed.
func (p Position) NeedsEntryValue() bool {
	return p.EntriedValue == 0 && p.EntriedAt != nil
}
