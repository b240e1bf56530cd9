package movement

import (
	"math"

	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/logic/mathx"
)

// TileSource is read access to a tile grid with total bounds.
type TileSource interface {
	At(tx, ty int) model.Tile
}

type Params struct {
	TileSize         int
	Gravity          float64
	MoveSpeed        float64
	JumpSpeed        float64
	TerminalVelocity float64
}

type Result struct {
	BlockedX bool
	BlockedY bool
	// Landed is set when a downward move was resolved against a solid tile.
	Landed      bool
	ImpactSpeed float64
	// Jumped is set when a jump request was honored this step.
	Jumped bool
}

// TileSpan returns the inclusive tile range covered by a box.
func TileSpan(r model.Rect, tileSize int) (minTx, maxTx, minTy, maxTy int) {
	minTx = mathx.FloorTile(r.X, tileSize)
	maxTx = mathx.FloorTile(r.X+r.W-1, tileSize)
	minTy = mathx.FloorTile(r.Y, tileSize)
	maxTy = mathx.FloorTile(r.Y+r.H-1, tileSize)
	return
}

// Overlaps reports whether any tile under the box satisfies match.
func Overlaps(g TileSource, r model.Rect, tileSize int, match func(model.Tile) bool) bool {
	minTx, maxTx, minTy, maxTy := TileSpan(r, tileSize)
	for ty := minTy; ty <= maxTy; ty++ {
		for tx := minTx; tx <= maxTx; tx++ {
			if match(g.At(tx, ty)) {
				return true
			}
		}
	}
	return false
}

func OverlapsSolid(g TileSource, r model.Rect, tileSize int) bool {
	return Overlaps(g, r, tileSize, model.Tile.Solid)
}

func isLava(t model.Tile) bool { return t == model.TileLava }

func OverlapsLava(g TileSource, r model.Rect, tileSize int) bool {
	return Overlaps(g, r, tileSize, isLava)
}

// Step integrates one tick: horizontal move and resolve, then vertical move and resolve.
func Step(p *model.Player, g TileSource, prm Params, dt, axis float64, jump bool) Result {
	var res Result
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return res
	}
	if math.IsNaN(axis) {
		axis = 0
	}
	axis = mathx.Clamp(axis, -1, 1)

	p.VX = axis * prm.MoveSpeed
	if jump && p.OnGround {
		p.VY = -prm.JumpSpeed
		p.OnGround = false
		res.Jumped = true
	}

	p.VY += prm.Gravity * dt
	if p.VY > prm.TerminalVelocity {
		p.VY = prm.TerminalVelocity
	}

	prevX := p.X
	dx := p.VX * dt
	p.X += dx
	if OverlapsSolid(g, p.Rect(), prm.TileSize) {
		dir := mathx.Sign(p.VX)
		if dir == 0 {
			dir = 1
		}
		if !pushBack(&p.X, dir, dx, func() bool { return OverlapsSolid(g, p.Rect(), prm.TileSize) }) {
			p.X = prevX
		}
		p.VX = 0
		res.BlockedX = true
	}

	prevY := p.Y
	dy := p.VY * dt
	p.Y += dy
	if OverlapsSolid(g, p.Rect(), prm.TileSize) {
		dir := mathx.Sign(p.VY)
		if dir == 0 {
			dir = 1
		}
		if !pushBack(&p.Y, dir, dy, func() bool { return OverlapsSolid(g, p.Rect(), prm.TileSize) }) {
			p.Y = prevY
		}
		if p.VY > 0 {
			p.OnGround = true
			res.Landed = true
			res.ImpactSpeed = p.VY
		}
		p.VY = 0
		res.BlockedY = true
	} else {
		p.OnGround = false
	}
	return res
}

// pushBack steps *v one unit against dir until blocked() clears.
// The walk is bounded by the distance moved this tick; false means it never cleared.
func pushBack(v *float64, dir, moved float64, blocked func() bool) bool {
	limit := int(math.Ceil(math.Abs(moved))) + 1
	for i := 0; i < limit; i++ {
		*v -= dir
		if !blocked() {
			return true
		}
	}
	return false
}
