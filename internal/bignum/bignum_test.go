package bignum

import "testing"

func TestParseDecimalAndFormat(t *testing.T) {
	const lit = "123456789012345678901234567890"
	v, err := ParseDecimal(lit)
	if err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}
	if got := Format(v); got != lit {
		t.Fatalf("Format = %q, want %q", got, lit)
	}
	if v.DecimalDigits() != len(lit) {
		t.Fatalf("DecimalDigits = %d", v.DecimalDigits())
	}
	if _, err := ParseDecimal("12a"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseBits(t *testing.T) {
	v, radix, err := ParseBits("16rff")
	if err != nil || radix != 16 {
		t.Fatalf("ParseBits: %v radix=%d", err, radix)
	}
	if u, ok := v.Uint64(); !ok || u != 255 {
		t.Fatalf("16rff = %d", u)
	}
	if _, _, err := ParseBits("3r12"); err == nil {
		t.Fatal("radix 3 must be rejected")
	}
	if _, _, err := ParseBits("2r102"); err == nil {
		t.Fatal("digit 2 is not binary")
	}
}

func TestFitsInt(t *testing.T) {
	tab := NewTable(28, 63)
	big, _ := ParseDecimal("9223372036854775808") // 2**63
	if tab.FitsInt(big, 0) {
		t.Fatal("2**63 does not fit INT")
	}
	if !tab.FitsInt(big, 1) {
		t.Fatal("2**63 fits LONG INT")
	}
	huge, _ := Pow10(40)
	if tab.FitsInt(huge, 1) || !tab.FitsInt(huge, 2) {
		t.Fatal("10**40 fits LONG LONG INT only")
	}
}

func TestByteSizeGrowsWithLength(t *testing.T) {
	tab := NewTable(28, 63)
	if !(tab.ByteSize(0) < tab.ByteSize(1) && tab.ByteSize(1) < tab.ByteSize(2)) {
		t.Fatalf("byte sizes not increasing: %d %d %d", tab.ByteSize(0), tab.ByteSize(1), tab.ByteSize(2))
	}
}
