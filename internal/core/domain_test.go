package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Amount:   Money{Cents: 1250},
		Category: CategoryGroceries,
		Date:     NewDate(2026, 8, 10),
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(tx *Transaction) {}, nil},
		{"zero amount allowed", func(tx *Transaction) { tx.Amount.Cents = 0 }, nil},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -1 }, ErrInvalidAmount},
		{"unknown category", func(tx *Transaction) { tx.Category = "lottery" }, ErrUnknownCategory},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrUnknownCategory},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"groceries", CategoryGroceries, false},
		{" Gambling ", CategoryGambling, false},
		{"HIGH_RISK", CategoryHighRisk, false},
		{"crypto", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryRisky(t *testing.T) {
	risky := map[Category]bool{CategoryGambling: true, CategoryHighRisk: true}
	for _, c := range Categories {
		if c.Risky() != risky[c] {
			t.Errorf("%s.Risky() = %v, want %v", c, c.Risky(), risky[c])
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-23")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	want := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", d.Time, want)
	}

	if _, err := ParseDate("23/08/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
