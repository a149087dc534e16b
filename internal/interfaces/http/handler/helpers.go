package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// optionalTime drops unset timestamps from responses
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// toDecimalPtr converts an optional float64 to a *decimal.Decimal
func toDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// fromDecimalPtr converts an optional decimal for JSON output
func fromDecimalPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
