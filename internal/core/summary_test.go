package core

import (
	"testing"
)

func TestBreakdownOf(t *testing.T) {
	txs := []Transaction{
		{Amount: Money{Cents: 5000}, Category: CategoryGroceries, Date: NewDate(2026, 8, 1)},
		{Amount: Money{Cents: 2500}, Category: CategoryGroceries, Date: NewDate(2026, 8, 2)},
		{Amount: Money{Cents: 90000}, Category: CategoryRent, Date: NewDate(2026, 8, 1)},
		{Amount: Money{Cents: 1500}, Category: CategoryDining, Date: NewDate(2026, 8, 3)},
	}

	b := BreakdownOf(txs)

	if b.Total.Cents != 99000 {
		t.Fatalf("Total = %d, want 99000", b.Total.Cents)
	}
	if len(b.ByCategory) != 3 {
		t.Fatalf("got %d categories, want 3", len(b.ByCategory))
	}
	// Descending by amount.
	if b.ByCategory[0].Category != CategoryRent || b.ByCategory[0].Amount.Cents != 90000 {
		t.Errorf("first row = %+v, want rent/90000", b.ByCategory[0])
	}
	if b.ByCategory[1].Category != CategoryGroceries || b.ByCategory[1].Amount.Cents != 7500 {
		t.Errorf("second row = %+v, want groceries/7500", b.ByCategory[1])
	}
}

func TestBreakdownOfEmpty(t *testing.T) {
	b := BreakdownOf(nil)
	if b.Total.Cents != 0 || len(b.ByCategory) != 0 {
		t.Fatalf("empty breakdown = %+v, want zero", b)
	}
}

func TestSeries(t *testing.T) {
	b := Breakdown{
		Total: Money{Cents: 3000},
		ByCategory: []CategoryAmount{
			{Category: CategoryRent, Amount: Money{Cents: 2000}},
			{Category: CategoryHighRisk, Amount: Money{Cents: 1000}},
		},
	}

	s := b.Series()
	if len(s.Labels) != 2 || len(s.Values) != 2 {
		t.Fatalf("series lengths = %d/%d, want 2/2", len(s.Labels), len(s.Values))
	}
	if s.Labels[0] != "Rent" {
		t.Errorf("Labels[0] = %q, want Rent", s.Labels[0])
	}
	if s.Labels[1] != "High-Risk Investments" {
		t.Errorf("Labels[1] = %q, want High-Risk Investments", s.Labels[1])
	}
	if s.Values[0] != 20.0 {
		t.Errorf("Values[0] = %v, want 20.0", s.Values[0])
	}
}
