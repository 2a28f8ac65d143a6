package yahoo

import (
	"fmt"
	"time"

	"stock_valuation/internal/feature/valuation/domain"
	"stock_valuation/internal/feature/valuation/domain/entity"
)

// MaxPeriod はクエリ期間の上限です。呼び出し元がこれより大きい値を渡しても切り詰めます。
const MaxPeriod = 59

const day = 24 * time.Hour

// periodUnits は期間種別ごとの1単位の長さです（暦ではなく固定日数の近似）。
var periodUnits = map[entity.PeriodType]time.Duration{
	entity.PeriodDay:   day,
	entity.PeriodWeek:  7 * day,
	entity.PeriodMonth: 30 * day,
	entity.PeriodYear:  365 * day,
}

// validFrequencies is the set of sampling granularities the chart API accepts.
var validFrequencies = map[entity.FrequencyType]struct{}{
	entity.FrequencyMinute: {},
	entity.FrequencyHour:   {},
	entity.FrequencyDay:    {},
	entity.FrequencyWeek:   {},
	entity.FrequencyMonth:  {},
}

// ClampPeriod limits period to [1, MaxPeriod].
func ClampPeriod(period int) int {
	if period < 1 {
		return 1
	}
	if period > MaxPeriod {
		return MaxPeriod
	}
	return period
}

// NewTimeWindow は基準日を終端とするクエリ期間をUNIX秒で計算します。
// start = base - clamp(period)*unit, end = base.
func NewTimeWindow(periodType entity.PeriodType, period int, base time.Time) (entity.TimeWindow, error) {
	unit, ok := periodUnits[periodType]
	if !ok {
		return entity.TimeWindow{}, fmt.Errorf("%w: %q", domain.ErrInvalidPeriodType, periodType)
	}
	start := base.Add(-time.Duration(ClampPeriod(period)) * unit)
	return entity.TimeWindow{Start: start.Unix(), End: base.Unix()}, nil
}

// Interval returns the chart API interval string, e.g. "1h", "1d", "1wk".
func Interval(frequencyType entity.FrequencyType, frequency int) (string, error) {
	if _, ok := validFrequencies[frequencyType]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFrequency, frequencyType)
	}
	if frequency < 1 {
		return "", fmt.Errorf("%w: frequency %d", domain.ErrInvalidFrequency, frequency)
	}
	return fmt.Sprintf("%d%s", frequency, frequencyType), nil
}
