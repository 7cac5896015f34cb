package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if p, ok := MulOverflowSafe(16, 4); !ok || p != 64 {
		t.Fatalf("MulOverflowSafe(16,4)=%d,%v want 64,true", p, ok)
	}
	if p, ok := MulOverflowSafe(0, math.MaxInt); !ok || p != 0 {
		t.Fatalf("MulOverflowSafe(0,MaxInt)=%d,%v want 0,true", p, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxInt/2+1, 2); ok {
		t.Fatalf("expected overflow for (MaxInt/2+1)*2")
	}
	if _, ok := MulOverflowSafe(-1, 8); ok {
		t.Fatalf("negative operands must be rejected")
	}
}

func TestAlignUp(t *testing.T) {
	cases := []struct{ n, align, want int }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{4095, 4096, 4096},
		{4097, 4096, 8192},
	}
	for _, c := range cases {
		got, ok := AlignUp(c.n, c.align)
		if !ok || got != c.want {
			t.Fatalf("AlignUp(%d,%d)=%d,%v want %d", c.n, c.align, got, ok, c.want)
		}
	}
	if _, ok := AlignUp(math.MaxInt, 8); ok {
		t.Fatalf("expected overflow aligning MaxInt")
	}
	for _, align := range []int{0, -8, 3, 24} {
		if got, ok := AlignUp(5, align); ok {
			t.Fatalf("AlignUp(5,%d)=%d,true want rejection of non power of two", align, got)
		}
	}
}

func TestIsPow2(t *testing.T) {
	for _, n := range []int{1, 2, 8, 4096} {
		if !IsPow2(n) {
			t.Fatalf("IsPow2(%d) = false", n)
		}
	}
	for _, n := range []int{0, -8, 3, 12} {
		if IsPow2(n) {
			t.Fatalf("IsPow2(%d) = true", n)
		}
	}
}

func TestCheckRange(t *testing.T) {
	if end, err := CheckRange(64, 8, 16); err != nil || end != 24 {
		t.Fatalf("CheckRange(64,8,16)=%d,%v want 24,nil", end, err)
	}
	if _, err := CheckRange(64, 60, 8); err == nil {
		t.Fatalf("expected bounds error")
	}
	if _, err := CheckRange(64, -1, 1); err == nil {
		t.Fatalf("expected negative offset error")
	}
	if _, err := CheckRange(64, 1, -1); err == nil {
		t.Fatalf("expected negative size error")
	}
	if _, err := CheckRange(math.MaxInt, math.MaxInt, 1); err == nil {
		t.Fatalf("expected overflow error")
	}
}
