package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The archive metadata API is loose about types: numbers come back as JSON strings,
// some text fields come back as lists. These decoders absorb the variants and fall
// back to the zero value instead of failing the whole listing.

// looseString accepts a string, a list of strings (joined with a space) or a number.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case '[':
		var parts []looseString
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		joined := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				joined = append(joined, string(p))
			}
		}
		*s = looseString(strings.Join(joined, " "))
	default:
		*s = looseString(string(data))
	}
	return nil
}

// looseStrings accepts a list of strings or a single string.
type looseStrings []string

func (s *looseStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if data[0] == '[' {
		var parts []looseString
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, string(p))
		}
		*s = out
		return nil
	}

	var single looseString
	if err := single.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = []string{string(single)}
	return nil
}

// looseNumber accepts a JSON number, a numeric string, or a clock string
// ("HH:MM:SS" / "MM:SS", converted to seconds). Anything else decodes to 0.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var raw looseString
	if err := raw.UnmarshalJSON(data); err != nil {
		*n = 0
		return nil
	}
	*n = looseNumber(parseLooseNumber(string(raw)))
	return nil
}

func (n looseNumber) Int() int {
	return int(n)
}

func (n looseNumber) Int64() int64 {
	return int64(n)
}

func parseLooseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if strings.Contains(raw, ":") {
		var total float64
		for _, part := range strings.Split(raw, ":") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil || v < 0 {
				return 0
			}
			total = total*60 + v
		}
		return total
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
