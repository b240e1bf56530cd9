package store

import "bedrockdescent.io/internal/sim/kernel/model"

// Builder is the write access used during generation. Writes outside the grid are dropped.
type Builder struct {
	g *Grid
}

func NewBuilder(width, height, bedrockStart int) *Builder {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if bedrockStart > height {
		bedrockStart = height
	}
	if bedrockStart < 0 {
		bedrockStart = 0
	}
	return &Builder{g: &Grid{
		width:        width,
		height:       height,
		bedrockStart: bedrockStart,
		tiles:        make([]model.Tile, width*height),
		dirty:        true,
	}}
}

func (b *Builder) Width() int        { return b.g.width }
func (b *Builder) Height() int       { return b.g.height }
func (b *Builder) BedrockStart() int { return b.g.bedrockStart }

func (b *Builder) At(tx, ty int) model.Tile { return b.g.At(tx, ty) }

func (b *Builder) Put(tx, ty int, t model.Tile) {
	if !b.g.InBounds(tx, ty) {
		return
	}
	b.g.tiles[b.g.index(tx, ty)] = t
}

// Build hands the grid over; the builder must not be used afterwards.
func (b *Builder) Build() *Grid {
	g := b.g
	b.g = nil
	g.dirty = true
	return g
}
