package bignum

import "math"

// Precision describes one numeric mode: how many decimal digits an INT of
// that length holds and how many bytes it occupies. Size is the LONG count
// (1 for LONG, 2 for LONG LONG, negative for SHORT).
type Precision struct {
	Size   int
	Digits int
	Bytes  int
	Bits   int
}

// Table answers the digit and byte queries for every length.
type Table struct {
	long, longLong int
}

// NewTable creates the table from the configured LONG and LONG LONG digit counts.
func NewTable(longDigits, longLongDigits int) *Table {
	return &Table{long: longDigits, longLong: longLongDigits}
}

// Digits returns the decimal digit count of INT with the given LONG count.
func (t *Table) Digits(size int) int {
	switch {
	case size <= 0:
		return 18 // max int = 2**63-1 has 19 digits, all 18-digit values fit
	case size == 1:
		return t.long
	default:
		return t.longLong
	}
}

// ByteSize returns the storage size of the LONG mode in bytes.
func (t *Table) ByteSize(size int) int {
	if size <= 0 {
		return 8
	}
	// bits needed for Digits decimal digits, rounded up to 32-bit limbs, plus a header limb
	bitsNeeded := int(math.Ceil(float64(t.Digits(size)) * math.Log2(10)))
	limbs := (bitsNeeded+31)/32 + 1
	return limbs * 4
}

// Precision bundles the queries for one size.
func (t *Table) Precision(size int) Precision {
	p := Precision{Size: size, Digits: t.Digits(size), Bytes: t.ByteSize(size)}
	p.Bits = p.Bytes * 8
	if size > 0 {
		p.Bits = (p.Bytes - 4) * 8
	}
	return p
}

var maxInt = UintFromUint64(math.MaxInt64)

// FitsInt reports whether an INT denotation of the given length is representable.
func (t *Table) FitsInt(v BigUint, size int) bool {
	if size <= 0 {
		return v.Cmp(maxInt) <= 0
	}
	return v.DecimalDigits() <= t.Digits(size)
}

// FitsBits reports whether a BITS denotation fits the width of the mode.
func (t *Table) FitsBits(v BigUint, size int) bool {
	if size <= 0 {
		return v.BitLen() <= 64
	}
	return v.BitLen() <= t.Precision(size).Bits
}

// FitsRealDigits reports whether the mantissa digit count of a REAL
// denotation is within what the mode can carry.
func (t *Table) FitsRealDigits(mantissaDigits, size int) bool {
	if size <= 0 {
		return true // REAL denotations are rounded, never rejected
	}
	return mantissaDigits <= t.Digits(size)+2
}
