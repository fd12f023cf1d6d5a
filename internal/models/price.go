package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Price is a monetary amount in minor units (cents). The backend transports
// prices as a JSON string on some endpoints and a bare number on others, so
// every coercion happens in this type rather than at call sites.
type Price int64

// ParsePrice converts a decimal string ("450", "450.5", "450.00") into minor
// units. Fractions beyond two digits are rounded half up.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}

	var cents int64
	if frac != "" {
		round := len(frac) > 2 && frac[2] >= '5'
		if len(frac) > 2 {
			frac = frac[:2]
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q: %w", s, err)
		}
		if len(frac) == 1 {
			cents *= 10
		}
		if round {
			cents++
		}
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return Price(total), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}

	v, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalJSON emits the decimal string form, which is what the admin
// endpoints expect for product payloads.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p Price) String() string {
	v := int64(p)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float64 is the major-unit value, used where the backend expects a number
// (the payment initiation body).
func (p Price) Float64() float64 {
	return float64(p) / 100
}
