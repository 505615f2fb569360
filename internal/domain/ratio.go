package domain

import (
	"bytes"
	"encoding/json"
	"math"
)

// Ratio is a decimal-fraction metric that may legitimately be non-finite,
// e.g. DSCR on an all-cash purchase. Non-finite values travel as JSON null.
type Ratio float64

// Inf is the sentinel for a ratio whose denominator is zero.
func Inf() Ratio { return Ratio(math.Inf(1)) }

// SafeRatio divides num by den; a zero denominator yields the +Inf sentinel
// (or 0 when num is also 0, and -Inf when num is negative).
func SafeRatio(num, den float64) Ratio {
	if den == 0 {
		switch {
		case num > 0:
			return Ratio(math.Inf(1))
		case num < 0:
			return Ratio(math.Inf(-1))
		default:
			return 0
		}
	}
	return Ratio(num / den)
}

// Float returns the raw value.
func (r Ratio) Float() float64 { return float64(r) }

// IsFinite reports whether the ratio is a real number.
func (r Ratio) IsFinite() bool {
	return !math.IsInf(float64(r), 0) && !math.IsNaN(float64(r))
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.IsFinite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON reads null as the +Inf sentinel. The encoding is lossy:
// -Inf and NaN are also written as null, so a negative unbounded ratio
// comes back as +Inf. Producers clamp the ratios that reach JSON to +Inf
// where the sign carries no meaning.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Inf()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}
