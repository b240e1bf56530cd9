package world

import (
	"math"

	"bedrockdescent.io/internal/sim/kernel/model"
)

// Debug helpers let tests and tooling stage scenarios. They follow the same
// rules as gameplay where one exists: bedrock rows stay immutable.

func (w *World) DebugSetTile(tx, ty int, t model.Tile) bool {
	return w.grid.Set(tx, ty, t)
}

// DebugSetPlayer moves the player box and sets its velocity. Non-finite values
// are replaced with zero and the whole box is clamped inside the world.
func (w *World) DebugSetPlayer(x, y, vx, vy float64) {
	finite := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
	w.player.X, w.player.Y = w.clampBoxPos(finite(x), finite(y), w.player.W, w.player.H)
	w.player.VX, w.player.VY = finite(vx), finite(vy)
	w.player.OnGround = false
	w.updateCamera()
}

func (w *World) DebugSetHealth(hp int) {
	if hp < 0 {
		hp = 0
	}
	if hp > w.player.MaxHealth {
		hp = w.player.MaxHealth
	}
	w.player.Health = hp
}

func (w *World) DebugSetInventory(inv model.Inventory) {
	for r := model.Resource(0); r < model.NumResources; r++ {
		w.inv.Set(r, inv.Get(r))
	}
}

func (w *World) DebugSetTool(t model.Tool) {
	if t.Valid() {
		w.tool = t
	}
}

func (w *World) DebugSetMode(m model.Mode) {
	switch m {
	case model.ModeTitle, model.ModePlaying, model.ModeWon, model.ModeLost:
		w.mode = m
	}
}
