package store

import (
	"crypto/sha256"

	"bedrockdescent.io/internal/sim/kernel/model"
)

// Grid is the fixed-size tile world. Dimensions never change after Build.
// Rows at or below BedrockStart are immutable.
type Grid struct {
	width        int
	height       int
	bedrockStart int
	tiles        []model.Tile // row-major, len = width*height

	dirty bool
	hash  [32]byte
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Height() int       { return g.height }
func (g *Grid) BedrockStart() int { return g.bedrockStart }

func (g *Grid) index(tx, ty int) int {
	return tx + ty*g.width
}

func (g *Grid) InBounds(tx, ty int) bool {
	return tx >= 0 && tx < g.width && ty >= 0 && ty < g.height
}

// Mutable reports whether gameplay may change the tile at (tx, ty).
func (g *Grid) Mutable(tx, ty int) bool {
	return g.InBounds(tx, ty) && ty < g.bedrockStart
}

// Digest hashes the tile contents (dimensions included).
func (g *Grid) Digest() [32]byte {
	if g.dirty || g.hash == ([32]byte{}) {
		h := sha256.New()
		var hdr [12]byte
		putU32(hdr[0:4], uint32(g.width))
		putU32(hdr[4:8], uint32(g.height))
		putU32(hdr[8:12], uint32(g.bedrockStart))
		h.Write(hdr[:])
		buf := make([]byte, len(g.tiles))
		for i, t := range g.tiles {
			buf[i] = byte(t)
		}
		h.Write(buf)
		copy(g.hash[:], h.Sum(nil))
		g.dirty = false
	}
	return g.hash
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	tiles := make([]model.Tile, len(g.tiles))
	copy(tiles, g.tiles)
	return &Grid{
		width:        g.width,
		height:       g.height,
		bedrockStart: g.bedrockStart,
		tiles:        tiles,
		dirty:        true,
	}
}

// Count returns how many cells hold the given tile.
func (g *Grid) Count(t model.Tile) int {
	n := 0
	for _, v := range g.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Row copies one row of tiles; out-of-range rows return nil.
func (g *Grid) Row(ty int) []model.Tile {
	if ty < 0 || ty >= g.height {
		return nil
	}
	out := make([]model.Tile, g.width)
	copy(out, g.tiles[g.index(0, ty):g.index(0, ty)+g.width])
	return out
}
