package bignum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrParse = errors.New("invalid numeric format")

// ParseDecimal parses the digits of an INT denotation.
func ParseDecimal(s string) (BigUint, error) {
	return parseRadix(s, 10)
}

// ParseBits parses a BITS denotation "RrDIGITS" (radix 2, 4, 8 or 16) and
// returns the value together with the radix.
func ParseBits(s string) (BigUint, uint32, error) {
	i := strings.IndexAny(s, "rR")
	if i <= 0 || i == len(s)-1 {
		return BigUint{}, 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	radix, err := strconv.ParseUint(s[:i], 10, 32)
	if err != nil {
		return BigUint{}, 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	switch radix {
	case 2, 4, 8, 16:
	default:
		return BigUint{}, 0, fmt.Errorf("%w: radix %d", ErrParse, radix)
	}
	v, err := parseRadix(s[i+1:], uint32(radix))
	return v, uint32(radix), err
}

func parseRadix(s string, base uint32) (BigUint, error) {
	if s == "" {
		return BigUint{}, ErrParse
	}
	var out BigUint
	for i := range len(s) {
		d, ok := digitValue(s[i], base)
		if !ok {
			return BigUint{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		var err error
		if out, err = MulAddSmall(out, base, d); err != nil {
			return BigUint{}, err
		}
	}
	return out, nil
}

func digitValue(ch byte, base uint32) (uint32, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		d := uint32(ch - '0')
		return d, d < base
	case base == 16 && ch >= 'a' && ch <= 'f':
		return 10 + uint32(ch-'a'), true
	case base == 16 && ch >= 'A' && ch <= 'F':
		return 10 + uint32(ch-'A'), true
	default:
		return 0, false
	}
}

// Format renders u in decimal.
func Format(u BigUint) string {
	if u.IsZero() {
		return "0"
	}
	var parts []uint32
	cur := u
	for !cur.IsZero() {
		q, r, _ := DivModSmall(cur, 1_000_000_000) //nolint:errcheck // divisor is non-zero
		parts = append(parts, r)
		cur = q
	}
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(parts[len(parts)-1]), 10))
	for i := len(parts) - 2; i >= 0; i-- {
		fmt.Fprintf(&sb, "%09d", parts[i])
	}
	return sb.String()
}
