// Package domain defines domain-level errors for the portfolio feature.
package domain

import "errors"

var (
	// ErrLockHeld は別の一括更新が実行中であることを示します。
	ErrLockHeld = errors.New("portfolio update already running")

	// ErrInvalidLabel indicates a label that is not "#<comment>-<CODE>-<shares>".
	ErrInvalidLabel = errors.New("invalid position label")

	// ErrInvalidCurrency indicates a currency code unknown to ISO 4217.
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrPositionNotFound is returned when a write targets a missing position.
	ErrPositionNotFound = errors.New("position not found")
)
