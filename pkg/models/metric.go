package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// NotAvailable is the display marker for metrics whose value could not be
// computed or fetched. It is what upstream sources like Yahoo return as "N/A"
// and what insufficient indicator windows produce.
const NotAvailable = "N/A"

// Metric is an optional numeric value. Upstream payloads omit fields freely
// and rolling indicators are undefined until their window fills, so a float64
// alone cannot distinguish "zero" from "absent".
type Metric struct {
	Value float64
	Valid bool
}

// Num returns a valid Metric holding v. NaN and Inf are treated as absent.
func Num(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{Value: v, Valid: true}
}

// NumRound returns a valid Metric rounded to the given number of decimals.
func NumRound(v float64, decimals int) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	pow := math.Pow(10, float64(decimals))
	return Metric{Value: math.Round(v*pow) / pow, Valid: true}
}

// NA returns the not-available Metric.
func NA() Metric { return Metric{} }

// String renders the value, or the NotAvailable marker.
func (m Metric) String() string {
	if !m.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// Format renders the value with the given number of decimals.
func (m Metric) Format(decimals int) string {
	if !m.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(m.Value, 'f', decimals, 64)
}

// MarshalJSON encodes a valid Metric as a JSON number and an absent one as
// the string "N/A", matching the upstream display convention.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts either a JSON number or the "N/A" string.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*m = Num(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == NotAvailable || s == "" {
			*m = Metric{}
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*m = Num(f)
			return nil
		}
	}
	return fmt.Errorf("metric: cannot decode %q", string(data))
}
