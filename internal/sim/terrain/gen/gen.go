package gen

import (
	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/logic/mathx"
	"bedrockdescent.io/internal/sim/terrain/store"
)

const (
	SurfaceRow = 3

	shallowBandEnd = 28 // rows < 28
	deepBandStart  = 89 // rows >= 89

	ShaftStartCol  = 6
	ShaftNarrowRow = 44
	shaftWalkEvery = 6
	cavernEvery    = 24
	ledgeEvery     = 12
	EdgeMargin     = 4

	LavaMinRow = 76

	spawnPocketX0 = 4
	spawnPocketX1 = 8
	spawnPocketY1 = 5
)

// Layout is a generated world plus the shaft path that produced it.
type Layout struct {
	Grid *store.Grid
	// ShaftCenters[y] is the shaft center column on row y, for rows above bedrock.
	ShaftCenters []int
}

// Generate builds a world grid. It is a pure function of its arguments.
func Generate(width, height, bedrockStart int) *store.Grid {
	return GenerateLayout(width, height, bedrockStart).Grid
}

func GenerateLayout(width, height, bedrockStart int) Layout {
	b := store.NewBuilder(width, height, bedrockStart)
	fillBase(b)
	centers := carveShaft(b)
	carveSpawnPocket(b)
	placeSeedLava(b, centers)
	placeDeepLava(b)
	return Layout{Grid: b.Build(), ShaftCenters: centers}
}

func fillBase(b *store.Builder) {
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			var t model.Tile
			switch {
			case y >= b.BedrockStart():
				t = model.TileBedrock
			case y < SurfaceRow:
				t = model.TileAir
			case y == SurfaceRow:
				t = model.TileGrass
			default:
				t = bandTile(x, y)
			}
			b.Put(x, y, t)
		}
	}
}

func bandTile(x, y int) model.Tile {
	r := mathx.Hash01(float64(x), float64(y))
	switch {
	case y < shallowBandEnd:
		if r > 0.8 {
			return model.TileStone
		}
		return model.TileDirt
	case y < deepBandStart:
		switch {
		case r > 0.97:
			return model.TileCoalOre
		case r > 0.52:
			return model.TileStone
		default:
			return model.TileDirt
		}
	default:
		switch {
		case r > 0.975:
			return model.TileIronOre
		case r > 0.92:
			return model.TileCoalOre
		case r > 0.2:
			return model.TileStone
		default:
			return model.TileDirt
		}
	}
}

// ShaftWidth is the corridor width carved on row y.
func ShaftWidth(y int) int {
	if y >= ShaftNarrowRow {
		return 2
	}
	return 3
}

func shaftBounds(width int) (lo, hi int) {
	lo = EdgeMargin
	hi = width - 1 - EdgeMargin
	if hi < lo {
		mid := width / 2
		return mid, mid
	}
	return lo, hi
}

// walkStep is the biased drift applied every shaftWalkEvery rows; it leans right.
func walkStep(y, cx int) int {
	r := mathx.Hash01(float64(y)*0.37+3.1, float64(cx)+17)
	switch {
	case r < 0.18:
		return -2
	case r < 0.36:
		return -1
	case r < 0.55:
		return 0
	case r < 0.8:
		return 1
	default:
		return 2
	}
}

func carveShaft(b *store.Builder) []int {
	bedrock := b.BedrockStart()
	lo, hi := shaftBounds(b.Width())
	cx := mathx.ClampInt(ShaftStartCol, lo, hi)
	centers := make([]int, bedrock)

	for y := 0; y < bedrock; y++ {
		if y > 0 && y%shaftWalkEvery == 0 {
			cx = mathx.ClampInt(cx+walkStep(y, cx), lo, hi)
		}
		centers[y] = cx

		w := ShaftWidth(y)
		left := cx - 1
		right := left + w - 1
		carveRow(b, y, left, right)
		if mathx.Hash01(float64(cx)+0.5, float64(y)*1.7) > 0.62 {
			carveRow(b, y+1, left, right)
		}

		if y > 0 && y%cavernEvery == 0 {
			for dy := 0; dy < 3; dy++ {
				carveRow(b, y+dy, cx-4, cx+4)
			}
		}

		if y > 0 && y%ledgeEvery == 0 {
			lx := ledgeColumn(y, cx, w)
			texture := model.TileDirt
			if y >= ShaftNarrowRow {
				texture = model.TileStone
			}
			b.Put(lx, y, texture)
		}
	}
	return centers
}

// ledgeColumn picks one corridor column so at least one column stays open.
func ledgeColumn(y, cx, w int) int {
	right := mathx.Hash01(float64(y), 41) >= 0.5
	if w >= 3 {
		if right {
			return cx + 1
		}
		return cx - 1
	}
	if right {
		return cx
	}
	return cx - 1
}

// carveRow sets air on row y over [x0, x1], clamped to the grid and kept above bedrock.
func carveRow(b *store.Builder, y, x0, x1 int) {
	if y < 0 || y >= b.BedrockStart() || b.Width() == 0 {
		return
	}
	x0 = mathx.ClampInt(x0, 0, b.Width()-1)
	x1 = mathx.ClampInt(x1, 0, b.Width()-1)
	for x := x0; x <= x1; x++ {
		b.Put(x, y, model.TileAir)
	}
}

func carveSpawnPocket(b *store.Builder) {
	for y := 0; y <= spawnPocketY1; y++ {
		carveRow(b, y, spawnPocketX0, spawnPocketX1)
	}
}

// SeedLavaRows are the rows of the two fixed pools beside the upper shaft.
var SeedLavaRows = [2]int{9, 15}

func placeSeedLava(b *store.Builder, centers []int) {
	for i, y := range SeedLavaRows {
		if y >= len(centers) {
			continue
		}
		dir := 1
		if i%2 == 1 {
			dir = -1
		}
		start := centers[y] + dir*2
		for k := 0; k < 2; k++ {
			x := start + dir*k
			if x < 0 || x >= b.Width() {
				continue
			}
			if b.At(x, y) == model.TileAir {
				continue
			}
			b.Put(x, y, model.TileLava)
		}
	}
}

// placeDeepLava turns the floor under some deep air cells into lava. Air is never overwritten.
func placeDeepLava(b *store.Builder) {
	for y := LavaMinRow + 1; y+1 < b.BedrockStart(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.At(x, y) != model.TileAir || !b.At(x, y+1).Breakable() {
				continue
			}
			if mathx.Hash01(float64(x)*1.3+7, float64(y)*0.7+11) >= 0.14 {
				continue
			}
			b.Put(x, y+1, model.TileLava)
			if mathx.Hash01(float64(x)+91, float64(y)+3) < 0.35 && b.At(x+1, y+1).Breakable() {
				b.Put(x+1, y+1, model.TileLava)
			}
		}
	}
}
