package core

import "time"

// RiskLabel is the four-tier heuristic classification shown on the dashboard.
type RiskLabel string

const (
	LowRisk           RiskLabel = "Low Risk"
	ModerateRisk      RiskLabel = "Moderate Risk"
	HighRisk          RiskLabel = "High Risk"
	ExtremelyHighRisk RiskLabel = "Extremely High Risk"
)

// RiskWindowDays is the trailing window the risk score looks at.
const RiskWindowDays = 30

// RiskReport is the risk score over the trailing window: the share of spend
// that went to risky categories, and the label derived from it.
type RiskReport struct {
	WindowDays int
	Total      Money
	Risky      Money
	Percent    float64
	Label      RiskLabel
}

// ClassifyRisk maps a risky-spend percentage to its label tier.
func ClassifyRisk(percent float64) RiskLabel {
	switch {
	case percent > 10:
		return ExtremelyHighRisk
	case percent > 5:
		return HighRisk
	case percent > 1:
		return ModerateRisk
	default:
		return LowRisk
	}
}

// AssessRisk computes the risk report over the RiskWindowDays window ending
// at now. Transactions are bucketed by their calendar date; the window spans
// exactly RiskWindowDays calendar days including today. Zero total spend
// scores 0% and labels Low Risk.
func AssessRisk(txs []Transaction, now time.Time) RiskReport {
	end := now.UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(RiskWindowDays - 1))

	var total, risky int64
	for _, t := range txs {
		day := t.Date.UTC().Truncate(24 * time.Hour)
		if day.Before(start) || day.After(end) {
			continue
		}
		total += t.Amount.Cents
		if t.Category.Risky() {
			risky += t.Amount.Cents
		}
	}

	r := RiskReport{
		WindowDays: RiskWindowDays,
		Total:      Money{Cents: total},
		Risky:      Money{Cents: risky},
	}
	if total > 0 {
		r.Percent = float64(risky) * 100 / float64(total)
	}
	r.Label = ClassifyRisk(r.Percent)
	return r
}
