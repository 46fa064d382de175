package handlers

import (
	"math"
	"testing"
)

func TestSettlementRatio(t *testing.T) {
	cases := []struct {
		name       string
		budget     int64
		settlement int64
		want       float64
	}{
		{"fully executed", 100000, 100000, 1.0},
		{"half executed", 200000, 100000, 0.5},
		{"over executed", 100000, 150000, 1.5},
		{"nothing budgeted", 0, 50000, 0},
		{"nothing executed", 100000, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := settlementRatio(tc.budget, tc.settlement)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("settlementRatio(%d, %d) = %v, want %v", tc.budget, tc.settlement, got, tc.want)
			}
		})
	}
}

func TestSettlementTotal(t *testing.T) {
	rows := []SettlementRow{
		{Budget: 180000, Settlement: 180000},
		{Budget: 120000, Settlement: 60000},
		{Budget: 0, Settlement: 10000},
	}

	total := settlementTotal(rows)
	if total.Budget != 300000 {
		t.Errorf("total budget = %d, want 300000", total.Budget)
	}
	if total.Settlement != 250000 {
		t.Errorf("total settlement = %d, want 250000", total.Settlement)
	}
	if math.Abs(total.Ratio-250000.0/300000.0) > 1e-9 {
		t.Errorf("total ratio = %v", total.Ratio)
	}
}

func TestSettlementTotalEmpty(t *testing.T) {
	total := settlementTotal(nil)
	if total.Budget != 0 || total.Settlement != 0 || total.Ratio != 0 {
		t.Errorf("empty total = %+v, want zeros", total)
	}
}
