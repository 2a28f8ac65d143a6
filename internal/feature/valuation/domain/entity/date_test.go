package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2022-04-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 4, 14, 15, 0, 0, 0, time.UTC), d.UTC())

	_, err = ParseDate("2022/04/15")
	assert.Error(t, err)
}

func TestYesterday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"utc afternoon is already the next day in JST", time.Date(2022, 4, 15, 16, 0, 0, 0, time.UTC), time.Date(2022, 4, 15, 1, 0, 0, 0, JST)},
		{"utc morning", time.Date(2022, 4, 15, 1, 0, 0, 0, time.UTC), time.Date(2022, 4, 14, 10, 0, 0, 0, JST)},
		{"month boundary", time.Date(2022, 3, 1, 3, 0, 0, 0, JST), time.Date(2022, 2, 28, 3, 0, 0, 0, JST)},
		// 08:30 JST: 前日の 20:00 UTC の足より後を基準にする
		{"morning in JST keeps the time of day", time.Date(2022, 4, 15, 23, 30, 0, 0, time.UTC), time.Date(2022, 4, 15, 8, 30, 0, 0, JST)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Yesterday(tt.now)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, JST, got.Location())
		})
	}
}
