package mining

import (
	"math"

	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/logic/mathx"
)

type TileSource interface {
	At(tx, ty int) model.Tile
}

// TileSink is a grid that can remove mined tiles.
type TileSink interface {
	TileSource
	Set(tx, ty int, t model.Tile) bool
}

type Target struct {
	TX, TY int
	Tile   model.Tile
}

func (t Target) Same(o Target) bool {
	return t.TX == o.TX && t.TY == o.TY && t.Tile == o.Tile
}

type Params struct {
	TileSize int
	// Reach in pixels, measured tile center to player center.
	Reach    float64
	hardness map[model.Tile]float64
	power    map[model.Tool]float64
}

// NewParams resolves name-keyed tuning tables. Unknown names are ignored.
func NewParams(tileSize int, reachTiles float64, hardness, power map[string]float64) Params {
	p := Params{
		TileSize: tileSize,
		Reach:    reachTiles * float64(tileSize),
		hardness: map[model.Tile]float64{},
		power:    map[model.Tool]float64{},
	}
	for name, v := range hardness {
		if t, ok := model.ParseTile(name); ok && t.Breakable() {
			p.hardness[t] = v
		}
	}
	for name, v := range power {
		if t, ok := model.ParseTool(name); ok {
			p.power[t] = v
		}
	}
	return p
}

// Hardness is the progress needed to break t; non-breakable tiles report +Inf.
func (p Params) Hardness(t model.Tile) float64 {
	if !t.Breakable() {
		return math.Inf(1)
	}
	if h, ok := p.hardness[t]; ok && h > 0 {
		return h
	}
	return 1
}

func (p Params) Power(tool model.Tool) float64 {
	if v, ok := p.power[tool]; ok && v > 0 {
		return v
	}
	return 1
}

// FindTarget picks the breakable tile in the 3x3 block around the cursor cell that is
// within reach of the player and closest to the cursor. Ties keep scan order.
func FindTarget(g TileSource, p Params, cursorX, cursorY, playerCX, playerCY float64) (Target, bool) {
	if p.TileSize <= 0 {
		return Target{}, false
	}
	ts := float64(p.TileSize)
	cx := mathx.FloorTile(cursorX, p.TileSize)
	cy := mathx.FloorTile(cursorY, p.TileSize)

	var (
		best     Target
		bestDist = math.Inf(1)
		found    bool
	)
	for ty := cy - 1; ty <= cy+1; ty++ {
		for tx := cx - 1; tx <= cx+1; tx++ {
			tile := g.At(tx, ty)
			if !tile.Breakable() {
				continue
			}
			centerX := (float64(tx) + 0.5) * ts
			centerY := (float64(ty) + 0.5) * ts
			if math.Hypot(centerX-playerCX, centerY-playerCY) > p.Reach {
				continue
			}
			d := math.Hypot(centerX-cursorX, centerY-cursorY)
			if d < bestDist {
				best = Target{TX: tx, TY: ty, Tile: tile}
				bestDist = d
				found = true
			}
		}
	}
	return best, found
}

// Session is the in-progress break of one tile.
type Session struct {
	Active   bool
	Target   Target
	Progress float64
	Required float64
}

func (s *Session) Reset() { *s = Session{} }

// Ratio is progress/required in [0,1]; zero when idle.
func (s *Session) Ratio() float64 {
	if !s.Active || s.Required <= 0 || math.IsInf(s.Required, 0) {
		return 0
	}
	return mathx.Clamp(s.Progress/s.Required, 0, 1)
}

// Advance accumulates work on target. Releasing, losing the target or switching
// targets resets progress. It reports true when the tile should break.
func (s *Session) Advance(p Params, target Target, ok, held bool, dt float64, tool model.Tool) bool {
	if !held || !ok {
		s.Reset()
		return false
	}
	if !s.Active || !s.Target.Same(target) {
		*s = Session{Active: true, Target: target, Required: p.Hardness(target.Tile)}
	}
	if dt > 0 {
		s.Progress += dt * p.Power(tool)
	}
	return s.Progress >= s.Required
}

// Break removes the target tile and credits its resource. ok is false when the grid
// refused the write.
func Break(g TileSink, inv *model.Inventory, t Target) (res model.Resource, dropped bool, ok bool) {
	if g.At(t.TX, t.TY) != t.Tile || !t.Tile.Breakable() {
		return 0, false, false
	}
	if !g.Set(t.TX, t.TY, model.TileAir) {
		return 0, false, false
	}
	res, dropped = t.Tile.Resource()
	if dropped {
		inv.Add(res, 1)
	}
	return res, dropped, true
}
