package trit

import (
	"testing"
	"testing/quick"
)

func TestAddWithCarry(t *testing.T) {
	tests := []struct {
		a, b      Trit
		sum, carr Trit
	}{
		{Positive, Positive, Negative, Positive}, // +1+1=+2 -> (-1,+1)
		{Positive, Zero, Positive, Zero},
		{Negative, Negative, Positive, Negative}, // -1-1=-2 -> (+1,-1)
		{Negative, Positive, Zero, Zero},
	}
	for _, tc := range tests {
		s, c := AddWithCarry(tc.a, tc.b)
		if s != tc.sum || c != tc.carr {
			t.Errorf("AddWithCarry(%v,%v) = (%v,%v), want (%v,%v)", tc.a, tc.b, s, c, tc.sum, tc.carr)
		}
	}
}

func TestAddWithCarryCommutative(t *testing.T) {
	vals := []Trit{Negative, Zero, Positive}
	for _, a := range vals {
		for _, b := range vals {
			s1, c1 := AddWithCarry(a, b)
			s2, c2 := AddWithCarry(b, a)
			if s1 != s2 || c1 != c2 {
				t.Errorf("AddWithCarry not commutative for %v,%v", a, b)
			}
		}
	}
}

func TestAddWithCarryUnknownPropagates(t *testing.T) {
	s, c := AddWithCarry(Unknown, Positive)
	if s != Unknown || c != Unknown {
		t.Errorf("expected Unknown propagation, got (%v,%v)", s, c)
	}
}

func TestIntRoundTrip(t *testing.T) {
	for n := -10000; n <= 10000; n += 37 {
		arr := FromInt32(int32(n))
		back, err := arr.Int32()
		if err != nil {
			t.Fatalf("Int32(%d) error: %v", n, err)
		}
		if int(back) != n {
			t.Errorf("round-trip failed for %d: got %d", n, back)
		}
	}
}

func TestIntRoundTripQuick(t *testing.T) {
	f := func(n int16) bool {
		arr := FromInt32(int32(n))
		back, err := arr.Int32()
		return err == nil && int32(n) == back
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "+", "-", "+0-", "----0000++++"} {
		arr, err := ParseArray(s)
		if err != nil {
			t.Fatalf("ParseArray(%q): %v", s, err)
		}
		if got := arr.String(); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestBalancedTernary122(t *testing.T) {
	arr := FromInt32(122)
	// 122 -> [-1,-1,-1,-1,-1,+1] low-to-high: -1-3-9-27-81+243 = 122.
	want := Array{Negative, Negative, Negative, Negative, Negative, Positive}
	if len(arr) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", arr, want)
	}
	for i := range want {
		if arr[i] != want[i] {
			t.Errorf("digit %d: got %v want %v", i, arr[i], want[i])
		}
	}
	back, err := arr.Int32()
	if err != nil || back != 122 {
		t.Errorf("round trip 122 failed: %v %v", back, err)
	}
}

func TestArrayAdd(t *testing.T) {
	// Scenario 4: 4 + 3 = 7. Low-to-high, 4 is [+1,+1] (1*1 + 1*3) and 3
	// is [0,+1] (0*1 + 1*3); the sum 7 is [+1,-1,+1] (1 - 3 + 9). The
	// operands are built with FromInt32 and the sum checked as an integer.
	a := FromInt32(4)
	b := FromInt32(3)
	sum := Add(a, b)
	v, err := sum.Int32()
	if err != nil || v != 7 {
		t.Errorf("4+3: got %v (%v), want 7", v, err)
	}
}

func TestAddArraysAssociative(t *testing.T) {
	for _, vals := range [][3]int32{{1, 2, 3}, {-5, 7, -2}, {100, -50, 25}} {
		a, b, c := FromInt32(vals[0]), FromInt32(vals[1]), FromInt32(vals[2])
		left := Add(Add(a, b), c)
		right := Add(a, Add(b, c))
		lv, _ := left.Int32()
		rv, _ := right.Int32()
		if lv != rv {
			t.Errorf("associativity failed for %v: %d != %d", vals, lv, rv)
		}
	}
}

func TestShiftRoundTrip(t *testing.T) {
	for _, n := range []int32{0, 1, 7, 122, 9999} {
		arr := FromInt32(n)
		shifted := arr.ShiftLeft(3).ShiftRight(3)
		v, err := shifted.Int32()
		if err != nil || v != n {
			t.Errorf("shift round trip failed for %d: got %d (%v)", n, v, err)
		}
	}
}

func TestMulMatchesInt(t *testing.T) {
	for _, pair := range [][2]int32{{3, 4}, {-5, 6}, {0, 9}, {-7, -8}} {
		a, b := FromInt32(pair[0]), FromInt32(pair[1])
		got, err := Mul(a, b).Int32()
		if err != nil {
			t.Fatalf("Mul error: %v", err)
		}
		want := pair[0] * pair[1]
		if got != want {
			t.Errorf("Mul(%d,%d) = %d, want %d", pair[0], pair[1], got, want)
		}
	}
}

func TestNegateInvolution(t *testing.T) {
	for _, v := range []Trit{Negative, Zero, Positive} {
		if v.Negate().Negate() != v {
			t.Errorf("negate not involution for %v", v)
		}
	}
}

func TestWeightAt(t *testing.T) {
	if WeightAt(0) != 1 || WeightAt(1) != 3 || WeightAt(4) != 81 {
		t.Errorf("unexpected weights: %d %d %d", WeightAt(0), WeightAt(1), WeightAt(4))
	}
}
