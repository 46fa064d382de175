package models

import (
	"testing"
	"time"
)

func TestAuditPeriodContains(t *testing.T) {
	period := AuditPeriod{
		Start: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before start", time.Date(2023, 2, 28, 23, 59, 0, 0, time.UTC), false},
		{"at start", period.Start, true},
		{"inside", time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC), true},
		{"at end", period.End, false},
		{"after end", time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := period.Contains(tc.at); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}
