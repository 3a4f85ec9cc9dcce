package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryGroceries     Category = "groceries"
	CategoryRent          Category = "rent"
	CategoryTransport     Category = "transport"
	CategoryDining        Category = "dining"
	CategoryEntertainment Category = "entertainment"
	CategoryUtilities     Category = "utilities"
	CategoryShopping      Category = "shopping"
	CategoryGambling      Category = "gambling"
	CategoryHighRisk      Category = "high_risk"
	CategoryOther         Category = "other"
)

type (
	// Category is one of a fixed enumerated label set. Transactions carrying
	// any other label are rejected at validation.
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single logged spend. The ID is opaque and assigned by
	// the store on create; edits keep the same ID.
	Transaction struct {
		ID        string
		Amount    Money
		Category  Category
		Date      Date
		CreatedAt time.Time
	}
)

// Categories lists the full fixed set, in display order.
var Categories = []Category{
	CategoryGroceries,
	CategoryRent,
	CategoryTransport,
	CategoryDining,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryShopping,
	CategoryGambling,
	CategoryHighRisk,
	CategoryOther,
}

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidDate     = errors.New("invalid date")
)

// Valid reports whether c belongs to the fixed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Risky reports whether spend in this category counts toward the risk score.
func (c Category) Risky() bool {
	return c == CategoryGambling || c == CategoryHighRisk
}

// Display returns a human-readable label for the category.
func (c Category) Display() string {
	switch c {
	case CategoryHighRisk:
		return "High-Risk Investments"
	default:
		s := strings.ReplaceAll(string(c), "_", " ")
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// ParseCategory normalizes and validates a category label.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	// Amounts are non-negative in practice; zero is allowed so users can log
	// free transactions without fighting the form.
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Category.Valid() {
		return ErrUnknownCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}
