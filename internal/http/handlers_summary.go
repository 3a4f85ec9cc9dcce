package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"fintwin/internal/core"
	"fintwin/internal/services"
)

type categoryOption struct {
	Value string
	Label string
}

func categoryOptions() []categoryOption {
	opts := make([]categoryOption, 0, len(core.Categories))
	for _, c := range core.Categories {
		opts = append(opts, categoryOption{Value: string(c), Label: c.Display()})
	}
	return opts
}

type summaryResponse struct {
	Total      float64                 `json:"total"`
	TotalCents int64                   `json:"total_cents"`
	ByCategory []categoryAmountPayload `json:"by_category"`
	Risk       riskPayload             `json:"risk"`
}

type categoryAmountPayload struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Cents    int64   `json:"amount_cents"`
}

type riskPayload struct {
	WindowDays int     `json:"window_days"`
	Total      float64 `json:"total"`
	Risky      float64 `json:"risky"`
	Percent    float64 `json:"percent"`
	Label      string  `json:"label"`
}

func toSummaryResponse(sum services.Summary) summaryResponse {
	resp := summaryResponse{
		Total:      sum.Breakdown.Total.Dollars(),
		TotalCents: sum.Breakdown.Total.Cents,
		ByCategory: make([]categoryAmountPayload, 0, len(sum.Breakdown.ByCategory)),
		Risk: riskPayload{
			WindowDays: sum.Risk.WindowDays,
			Total:      sum.Risk.Total.Dollars(),
			Risky:      sum.Risk.Risky.Dollars(),
			Percent:    sum.Risk.Percent,
			Label:      string(sum.Risk.Label),
		},
	}
	for _, ca := range sum.Breakdown.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryAmountPayload{
			Category: string(ca.Category),
			Label:    ca.Category.Display(),
			Amount:   ca.Amount.Dollars(),
			Cents:    ca.Amount.Cents,
		})
	}
	return resp
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	user := userID(r)

	sum, err := s.summaryFor(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err, "user_id", user)
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	user := userID(r)

	sum, err := s.summaryFor(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart error", "error", err, "user_id", user)
		writeError(w, http.StatusInternalServerError, "failed to compute chart")
		return
	}

	series := sum.Breakdown.Series()
	if series.Labels == nil {
		series.Labels = []string{}
		series.Values = []float64{}
	}
	writeJSON(w, http.StatusOK, struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}{Labels: series.Labels, Values: series.Values})
}

// handleOverviewPartial renders the dashboard overview partial.
func (s *Server) handleOverviewPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	user := userID(r)

	sum, err := s.summaryFor(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview partial error", "error", err, "user_id", user)
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Could not load overview</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Total: ` + formatDollars(sum.Breakdown.Total.Cents) + `</div></section>`))
		return
	}

	// Scale bars against the largest category.
	var maxCents int64
	for _, ca := range sum.Breakdown.ByCategory {
		if ca.Amount.Cents > maxCents {
			maxCents = ca.Amount.Cents
		}
	}

	type row struct {
		Label, Amount string
		Width         int
		Risky         bool
	}
	data := struct {
		Total     string
		Rows      []row
		RiskLabel string
		RiskPct   string
		RiskClass string
	}{
		Total:     formatDollars(sum.Breakdown.Total.Cents),
		RiskLabel: string(sum.Risk.Label),
		RiskPct:   strconv.FormatFloat(sum.Risk.Percent, 'f', 1, 64),
		RiskClass: riskClass(sum.Risk.Label),
	}
	for _, ca := range sum.Breakdown.ByCategory {
		width := 0
		if maxCents > 0 && ca.Amount.Cents > 0 {
			width = int((ca.Amount.Cents*100 + maxCents/2) / maxCents) // rounded percent
			if width > 0 && width < 2 {                                // ensure visibility for very small values
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, row{
			Label:  ca.Category.Display(),
			Amount: formatDollars(ca.Amount.Cents),
			Width:  width,
			Risky:  ca.Category.Risky(),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "overview.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "overview.html")
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Could not render overview</div></section>`))
	}
}

func riskClass(label core.RiskLabel) string {
	switch label {
	case core.ExtremelyHighRisk:
		return "risk-extreme"
	case core.HighRisk:
		return "risk-high"
	case core.ModerateRisk:
		return "risk-moderate"
	default:
		return "risk-low"
	}
}

func formatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-$" + s
	}
	return "$" + s
}
