package store

import "bedrockdescent.io/internal/sim/kernel/model"

// At is total: outside the side walls and below the grid it returns bedrock,
// above the grid it returns air.
func (g *Grid) At(tx, ty int) model.Tile {
	if tx < 0 || tx >= g.width {
		return model.TileBedrock
	}
	if ty < 0 {
		return model.TileAir
	}
	if ty >= g.height {
		return model.TileBedrock
	}
	return g.tiles[g.index(tx, ty)]
}

// Set changes a tile if the cell is mutable. It reports whether the write happened.
// Bedrock can never be written by gameplay.
func (g *Grid) Set(tx, ty int, t model.Tile) bool {
	if !g.Mutable(tx, ty) || !t.Valid() || t == model.TileBedrock {
		return false
	}
	i := g.index(tx, ty)
	if g.tiles[i] == t {
		return true
	}
	g.tiles[i] = t
	g.dirty = true
	return true
}
