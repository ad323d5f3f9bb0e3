package models

import (
	"encoding/json"
	"math"
)

// DaysOfStock is a stock-coverage estimate: current stock divided by average
// daily demand. When a product has no demand the coverage is unbounded, which
// is carried as an explicit flag instead of a floating-point infinity.
type DaysOfStock struct {
	Unbounded bool
	Days      float64
}

// FiniteDays returns a bounded coverage value.
func FiniteDays(days float64) DaysOfStock {
	return DaysOfStock{Days: days}
}

// UnboundedDays returns the no-demand sentinel.
func UnboundedDays() DaysOfStock {
	return DaysOfStock{Unbounded: true}
}

// LessThan reports whether the coverage is bounded and below limit.
func (d DaysOfStock) LessThan(limit float64) bool {
	return !d.Unbounded && d.Days < limit
}

// GreaterThan reports whether the coverage exceeds limit. Unbounded coverage
// exceeds every limit.
func (d DaysOfStock) GreaterThan(limit float64) bool {
	return d.Unbounded || d.Days > limit
}

// MarshalJSON serializes to the string "infinite" or the value rounded to one
// decimal place.
func (d DaysOfStock) MarshalJSON() ([]byte, error) {
	if d.Unbounded {
		return json.Marshal("infinite")
	}
	return json.Marshal(math.Round(d.Days*10) / 10)
}

// UnmarshalJSON accepts either form produced by MarshalJSON.
func (d *DaysOfStock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "infinite" {
			*d = UnboundedDays()
			return nil
		}
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = FiniteDays(v)
	return nil
}
