package core

import "sort"

// CategoryAmount is an amount aggregated under one category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// Breakdown is the per-category aggregate over a transaction list.
type Breakdown struct {
	Total      Money
	ByCategory []CategoryAmount
}

// ChartSeries is the label/value form consumed by the dashboard's chart
// renderer. Values are dollars.
type ChartSeries struct {
	Labels []string
	Values []float64
}

// BreakdownOf reduces a transaction list into per-category sums.
// Categories appear in descending amount order; ties keep display order.
func BreakdownOf(txs []Transaction) Breakdown {
	sums := make(map[Category]int64)
	var total int64
	for _, t := range txs {
		sums[t.Category] += t.Amount.Cents
		total += t.Amount.Cents
	}

	b := Breakdown{Total: Money{Cents: total}}
	for _, c := range Categories {
		if cents, ok := sums[c]; ok {
			b.ByCategory = append(b.ByCategory, CategoryAmount{
				Category: c,
				Amount:   Money{Cents: cents},
			})
		}
	}
	sort.SliceStable(b.ByCategory, func(i, j int) bool {
		return b.ByCategory[i].Amount.Cents > b.ByCategory[j].Amount.Cents
	})
	return b
}

// Series converts the breakdown into the chart's label/value form.
func (b Breakdown) Series() ChartSeries {
	s := ChartSeries{
		Labels: make([]string, 0, len(b.ByCategory)),
		Values: make([]float64, 0, len(b.ByCategory)),
	}
	for _, ca := range b.ByCategory {
		s.Labels = append(s.Labels, ca.Category.Display())
		s.Values = append(s.Values, ca.Amount.Dollars())
	}
	return s
}
