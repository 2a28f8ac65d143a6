package entity

import (
	"fmt"
	"time"
)

// PeriodType is the unit of a query window.
type PeriodType string

const (
	PeriodDay   PeriodType = "day"
	PeriodWeek  PeriodType = "week"
	PeriodMonth PeriodType = "month"
	PeriodYear  PeriodType = "year"
)

// FrequencyType is the sampling granularity of a query.
type FrequencyType string

const (
	FrequencyMinute FrequencyType = "m"
	FrequencyHour   FrequencyType = "h"
	FrequencyDay    FrequencyType = "d"
	FrequencyWeek   FrequencyType = "wk"
	FrequencyMonth  FrequencyType = "mo"
)

// SeriesQuery describes one time-series request ending at BaseDate.
type SeriesQuery struct {
	Symbol        string
	PeriodType    PeriodType
	Period        int
	FrequencyType FrequencyType
	Frequency     int
	BaseDate      time.Time
}

// TimeWindow is a closed range in UNIX seconds.
type TimeWindow struct {
	Start int64
	End   int64
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%d, %d]", w.Start, w.End)
}
