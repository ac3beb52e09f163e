// Package bignum is the arithmetic collaborator behind LONG and LONG LONG
// modes. The front end never computes with it; it only asks how many
// digits and bytes a LONG mode has and whether a denotation fits.
package bignum

import (
	"errors"
	"math/bits"
)

// MaxLimbs bounds the size of any value parsed from a denotation.
const MaxLimbs = 4096

var (
	// ErrMaxLimbs indicates the numeric size limit was exceeded.
	ErrMaxLimbs = errors.New("numeric size limit exceeded")
	// ErrDivByZero indicates an attempt to divide by zero.
	ErrDivByZero = errors.New("division by zero")
)

// BigUint is an unsigned integer of arbitrary size.
type BigUint struct {
	// Limbs are base-2^32 little-endian (Limbs[0] is least significant).
	// Canonical zero is a nil slice.
	Limbs []uint32
}

// UintFromUint64 creates a BigUint from a uint64.
func UintFromUint64(v uint64) BigUint {
	if v == 0 {
		return BigUint{}
	}
	lo := uint32(v)       //nolint:gosec // G115: truncation is intentional (low limb).
	hi := uint32(v >> 32) //nolint:gosec // G115: truncation is intentional (high limb).
	if hi == 0 {
		return BigUint{Limbs: []uint32{lo}}
	}
	return BigUint{Limbs: []uint32{lo, hi}}
}

// IsZero reports whether the value is zero.
func (u BigUint) IsZero() bool {
	return len(trimLimbs(u.Limbs)) == 0
}

// BitLen returns the number of significant bits.
func (u BigUint) BitLen() int {
	limbs := trimLimbs(u.Limbs)
	if len(limbs) == 0 {
		return 0
	}
	ms := limbs[len(limbs)-1]
	return (len(limbs)-1)*32 + (32 - bits.LeadingZeros32(ms))
}

// Cmp compares two values.
func (u BigUint) Cmp(v BigUint) int {
	a, b := trimLimbs(u.Limbs), trimLimbs(v.Limbs)
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Uint64 converts to uint64 when the value fits.
func (u BigUint) Uint64() (uint64, bool) {
	limbs := trimLimbs(u.Limbs)
	switch len(limbs) {
	case 0:
		return 0, true
	case 1:
		return uint64(limbs[0]), true
	case 2:
		return uint64(limbs[0]) | (uint64(limbs[1]) << 32), true
	default:
		return 0, false
	}
}

// MulAddSmall returns u*m + a; it is the step of every radix conversion.
func MulAddSmall(u BigUint, m, a uint32) (BigUint, error) {
	limbs := trimLimbs(u.Limbs)
	out := make([]uint32, len(limbs)+1)
	carry := uint64(a)
	for i := range limbs {
		prod := uint64(limbs[i])*uint64(m) + carry
		out[i] = uint32(prod) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
		carry = prod >> 32
	}
	out[len(limbs)] = uint32(carry) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
	out = trimLimbs(out)
	if len(out) > MaxLimbs {
		return BigUint{}, ErrMaxLimbs
	}
	return BigUint{Limbs: out}, nil
}

// DivModSmall divides by a uint32.
func DivModSmall(u BigUint, d uint32) (q BigUint, r uint32, err error) {
	if d == 0 {
		return BigUint{}, 0, ErrDivByZero
	}
	limbs := trimLimbs(u.Limbs)
	if len(limbs) == 0 {
		return BigUint{}, 0, nil
	}
	out := make([]uint32, len(limbs))
	var rem uint64
	for i := len(limbs) - 1; i >= 0; i-- {
		cur := (rem << 32) | uint64(limbs[i])
		out[i] = uint32(cur / uint64(d)) //nolint:gosec // G115: quotient fits in uint32.
		rem = cur % uint64(d)
	}
	return BigUint{Limbs: trimLimbs(out)}, uint32(rem), nil //nolint:gosec // G115: remainder fits in uint32.
}

// Pow10 returns 10**n.
func Pow10(n int) (BigUint, error) {
	out := UintFromUint64(1)
	for range n {
		var err error
		if out, err = MulAddSmall(out, 10, 0); err != nil {
			return BigUint{}, err
		}
	}
	return out, nil
}

// DecimalDigits returns the number of decimal digits of u (1 for zero).
func (u BigUint) DecimalDigits() int {
	if u.IsZero() {
		return 1
	}
	n := 0
	cur := u
	for !cur.IsZero() {
		q, r, _ := DivModSmall(cur, 1_000_000_000) //nolint:errcheck // divisor is non-zero
		if q.IsZero() {
			for ; r > 0; r /= 10 {
				n++
			}
			break
		}
		n += 9
		cur = q
	}
	return n
}

func trimLimbs(limbs []uint32) []uint32 {
	for len(limbs) > 0 && limbs[len(limbs)-1] == 0 {
		limbs = limbs[:len(limbs)-1]
	}
	if len(limbs) == 0 {
		return nil
	}
	return limbs
}
