package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		percent float64
		want    RiskLabel
	}{
		{0, LowRisk},
		{1, LowRisk},
		{1.01, ModerateRisk},
		{5, ModerateRisk},
		{5.5, HighRisk},
		{10, HighRisk},
		{10.1, ExtremelyHighRisk},
		{100, ExtremelyHighRisk},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.percent), "percent=%v", tt.percent)
	}
}

func TestAssessRisk(t *testing.T) {
	now := time.Date(2026, 8, 23, 15, 0, 0, 0, time.UTC)
	day := func(offset int) Date {
		return Date{Time: now.AddDate(0, 0, offset).Truncate(24 * time.Hour)}
	}
	tx := func(cents int64, c Category, d Date) Transaction {
		return Transaction{Amount: Money{Cents: cents}, Category: c, Date: d}
	}

	t.Run("no risky spend is Low Risk", func(t *testing.T) {
		r := AssessRisk([]Transaction{
			tx(10000, CategoryGroceries, day(-1)),
			tx(5000, CategoryRent, day(-10)),
		}, now)
		assert.Equal(t, 0.0, r.Percent)
		assert.Equal(t, LowRisk, r.Label)
		assert.Equal(t, int64(15000), r.Total.Cents)
	})

	t.Run("no spend at all is Low Risk", func(t *testing.T) {
		r := AssessRisk(nil, now)
		assert.Equal(t, 0.0, r.Percent)
		assert.Equal(t, LowRisk, r.Label)
	})

	t.Run("risky share drives the label", func(t *testing.T) {
		r := AssessRisk([]Transaction{
			tx(8800, CategoryGroceries, day(-2)),
			tx(1200, CategoryGambling, day(-3)),
		}, now)
		assert.InDelta(t, 12.0, r.Percent, 0.001)
		assert.Equal(t, ExtremelyHighRisk, r.Label)
		assert.Equal(t, int64(1200), r.Risky.Cents)
	})

	t.Run("high_risk counts as risky", func(t *testing.T) {
		r := AssessRisk([]Transaction{
			tx(9400, CategoryRent, day(0)),
			tx(600, CategoryHighRisk, day(0)),
		}, now)
		assert.InDelta(t, 6.0, r.Percent, 0.001)
		assert.Equal(t, HighRisk, r.Label)
	})

	t.Run("spend outside the 30-day window is ignored", func(t *testing.T) {
		r := AssessRisk([]Transaction{
			tx(100000, CategoryGambling, day(-30)),
			tx(5000, CategoryGroceries, day(-5)),
		}, now)
		assert.Equal(t, int64(5000), r.Total.Cents)
		assert.Equal(t, LowRisk, r.Label)
	})

	t.Run("window spans exactly 30 days including today", func(t *testing.T) {
		// Day -29 is the oldest day inside the window; day -30 is the 31st
		// day back and falls out.
		r := AssessRisk([]Transaction{
			tx(1000, CategoryGambling, day(-29)),
		}, now)
		assert.Equal(t, int64(1000), r.Total.Cents)
		assert.Equal(t, ExtremelyHighRisk, r.Label)
	})
}
