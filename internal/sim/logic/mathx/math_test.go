package mathx

import "testing"

func TestFloorDiv(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{7, 2, 3},
		{-1, 32, -1},
		{-32, 32, -1},
		{-33, 32, -2},
		{0, 5, 0},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.want {
			t.Fatalf("FloorDiv(%d,%d)=%d want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestFloorTile(t *testing.T) {
	if got := FloorTile(-0.5, 32); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := FloorTile(63.9, 32); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := FloorTile(10, 0); got != 0 {
		t.Fatalf("expected 0 for zero tile size, got %d", got)
	}
}

func TestHash01_RangeAndPurity(t *testing.T) {
	for y := -20; y < 160; y++ {
		for x := -20; x < 90; x++ {
			v := Hash01(float64(x), float64(y))
			if v < 0 || v >= 1 {
				t.Fatalf("Hash01(%d,%d)=%v out of range", x, y, v)
			}
			if again := Hash01(float64(x), float64(y)); again != v {
				t.Fatalf("Hash01(%d,%d) not pure: %v vs %v", x, y, v, again)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	if got := ClampInt(-3, 4, 67); got != 4 {
		t.Fatalf("ClampInt low: %d", got)
	}
	if got := ClampInt(80, 4, 67); got != 67 {
		t.Fatalf("ClampInt high: %d", got)
	}
	if got := Clamp(0.7, 0, 0.5); got != 0.5 {
		t.Fatalf("Clamp high: %v", got)
	}
	if Sign(-2) != -1 || Sign(0) != 0 || Sign(3) != 1 {
		t.Fatalf("Sign mismatch")
	}
}
