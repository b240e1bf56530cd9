package mathx

import "math"

func FloorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

// FloorTile maps a pixel coordinate to the tile cell containing it.
func FloorTile(px float64, tileSize int) int {
	if tileSize <= 0 {
		return 0
	}
	return int(math.Floor(px / float64(tileSize)))
}

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Hash01 is a pure function of the coordinate pair returning a value in [0,1).
// World generation depends on it being stateless.
func Hash01(x, y float64) float64 {
	n := math.Sin(x*12.9898+y*78.233) * 43758.5453123
	f := n - math.Floor(n)
	if f < 0 || f >= 1 || math.IsNaN(f) {
		return 0
	}
	return f
}
