package gen

import (
	"testing"

	"bedrockdescent.io/internal/sim/kernel/model"
)

const (
	testW       = 72
	testH       = 140
	testBedrock = 126
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(testW, testH, testBedrock)
	b := Generate(testW, testH, testBedrock)
	if a.Digest() != b.Digest() {
		t.Fatalf("same parameters produced different worlds")
	}
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("tile mismatch at %d,%d", x, y)
			}
		}
	}
}

func TestGenerate_Bands(t *testing.T) {
	g := Generate(testW, testH, testBedrock)
	if g.Width() != testW || g.Height() != testH || g.BedrockStart() != testBedrock {
		t.Fatalf("dimension mismatch: %dx%d bedrock=%d", g.Width(), g.Height(), g.BedrockStart())
	}
	for y := testBedrock; y < testH; y++ {
		for x := 0; x < testW; x++ {
			if g.At(x, y) != model.TileBedrock {
				t.Fatalf("expected bedrock at %d,%d got %s", x, y, g.At(x, y))
			}
		}
	}
	for y := 0; y < SurfaceRow; y++ {
		for x := 0; x < testW; x++ {
			if g.At(x, y) != model.TileAir {
				t.Fatalf("expected air above surface at %d,%d", x, y)
			}
		}
	}
	// Far from the shaft the surface row stays grass.
	if g.At(testW-1, SurfaceRow) != model.TileGrass {
		t.Fatalf("expected grass on surface row, got %s", g.At(testW-1, SurfaceRow))
	}
	if n := g.Count(model.TileIronOre); n == 0 {
		t.Fatalf("expected some iron ore in the deep band")
	}
	if n := g.Count(model.TileCoalOre); n == 0 {
		t.Fatalf("expected some coal ore")
	}
}

func TestGenerate_IronOnlyDeep(t *testing.T) {
	g := Generate(testW, testH, testBedrock)
	for y := 0; y < deepBandStart; y++ {
		for x := 0; x < testW; x++ {
			if g.At(x, y) == model.TileIronOre {
				t.Fatalf("iron ore above deep band at %d,%d", x, y)
			}
		}
	}
}

func TestGenerate_SpawnPocketAndShaft(t *testing.T) {
	l := GenerateLayout(testW, testH, testBedrock)
	for y := 0; y <= spawnPocketY1; y++ {
		for x := spawnPocketX0; x <= spawnPocketX1; x++ {
			if l.Grid.At(x, y) != model.TileAir {
				t.Fatalf("spawn pocket not clear at %d,%d: %s", x, y, l.Grid.At(x, y))
			}
		}
	}
	if len(l.ShaftCenters) != testBedrock {
		t.Fatalf("expected %d shaft centers, got %d", testBedrock, len(l.ShaftCenters))
	}
	for y, cx := range l.ShaftCenters {
		if cx < EdgeMargin || cx > testW-1-EdgeMargin {
			t.Fatalf("shaft center %d on row %d violates edge margin", cx, y)
		}
		if y > 0 && y%shaftWalkEvery != 0 && cx != l.ShaftCenters[y-1] {
			t.Fatalf("shaft moved off a walk row at %d", y)
		}
		// At least one corridor column stays open on every row.
		open := false
		for x := cx - 1; x <= cx-1+ShaftWidth(y)-1; x++ {
			if !l.Grid.At(x, y).Solid() {
				open = true
			}
		}
		if !open {
			t.Fatalf("shaft fully blocked on row %d", y)
		}
	}
}

func TestGenerate_LavaPlacement(t *testing.T) {
	g := Generate(testW, testH, testBedrock)
	deep := 0
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			if g.At(x, y) != model.TileLava {
				continue
			}
			if y >= testBedrock {
				t.Fatalf("lava inside bedrock band at %d,%d", x, y)
			}
			if y > LavaMinRow {
				deep++
				continue
			}
			if y != SeedLavaRows[0] && y != SeedLavaRows[1] {
				t.Fatalf("unexpected shallow lava at %d,%d", x, y)
			}
		}
	}
	if deep == 0 {
		t.Fatalf("expected deep lava pools")
	}
}

func TestGenerate_SmallWorldsDoNotPanic(t *testing.T) {
	for _, dims := range [][3]int{{10, 20, 12}, {12, 8, 5}, {10, 60, 60}, {72, 30, 29}} {
		g := Generate(dims[0], dims[1], dims[2])
		for y := dims[2]; y < dims[1]; y++ {
			for x := 0; x < dims[0]; x++ {
				if g.At(x, y) != model.TileBedrock {
					t.Fatalf("dims %v: bedrock carved at %d,%d", dims, x, y)
				}
			}
		}
	}
}
