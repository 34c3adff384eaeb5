package filename

import (
	"fmt"
	"strconv"
	"strings"
)

// NegativePrefix is the letter standing in for a minus sign inside
// filename tokens, keeping encoded values filesystem-safe.
const NegativePrefix = "m"

// ParseInt converts a token payload to an integer. A payload starting
// with the negative prefix parses as the negated remainder.
func ParseInt(s, negPrefix string) (int64, error) {
	raw := s
	neg := false
	if strings.HasPrefix(s, negPrefix) {
		neg = true
		s = s[len(negPrefix):]
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to integer", raw)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// ParseFloat converts a token payload to a float with the same
// negative-prefix convention.
func ParseFloat(s, negPrefix string) (float64, error) {
	raw := s
	neg := false
	if strings.HasPrefix(s, negPrefix) {
		neg = true
		s = s[len(negPrefix):]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to float", raw)
	}
	if neg {
		v = -v
	}
	return v, nil
}
