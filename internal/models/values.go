package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a numeric API field that may arrive as a number, a numeric
// string, or null. Valid is false when the value is absent or not numeric.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount returns a valid Amount.
func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// ParseAmount converts loosely typed input into an Amount.
func ParseAmount(v interface{}) Amount {
	switch x := v.(type) {
	case nil:
		return Amount{}
	case Amount:
		return x
	case int:
		return NewAmount(float64(x))
	case int64:
		return NewAmount(float64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Amount{}
		}
		return NewAmount(x)
	case json.Number:
		return ParseAmount(x.String())
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Amount{}
		}
		return NewAmount(f)
	default:
		return Amount{}
	}
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else
// decodes to an invalid Amount rather than failing the whole record.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Amount{}
			return nil
		}
		*a = ParseAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*a = Amount{}
		return nil
	}
	*a = ParseAmount(n)
	return nil
}

// MarshalJSON writes the number, or null when invalid.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// Flag is a boolean API field that may arrive as true/false, "true"/"1"/"yes",
// a number, or null.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = false
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = false
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes", "y":
			*f = true
		default:
			*f = false
		}
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")):
		*f = false
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		*f = Flag(err == nil && n != 0)
	}
	return nil
}

// Text is a display field that may arrive as a string, a number, or null.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*t = ""
			return nil
		}
		*t = Text(strings.TrimSpace(s))
	case data[0] == '{', data[0] == '[':
		*t = ""
	default:
		*t = Text(strings.TrimSpace(string(data)))
	}
	return nil
}

// String returns the text value.
func (t Text) String() string {
	return string(t)
}

// Or returns the text, or def when empty.
func (t Text) Or(def string) string {
	if t == "" {
		return def
	}
	return string(t)
}
