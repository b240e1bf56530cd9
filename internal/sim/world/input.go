package world

import (
	"math"

	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/logic/mathx"
)

// Input is the control state sampled once per Update.
// Craft is a one-shot request and is cleared by the tick that handles it.
type Input struct {
	Axis      int             `json:"axis"`
	Jump      bool            `json:"jump,omitempty"`
	MouseX    float64         `json:"mouse_x"`
	MouseY    float64         `json:"mouse_y"`
	MouseDown bool            `json:"mouse_down,omitempty"`
	Craft     model.CraftKind `json:"craft,omitempty"`

	CraftPanel bool `json:"craft_panel,omitempty"`
}

func (w *World) SetAxis(axis int) { w.input.Axis = mathx.ClampInt(axis, -1, 1) }

func (w *World) SetJump(held bool) { w.input.Jump = held }

// SetMouseWorld takes a world-pixel position; it is clamped to the grid extent.
func (w *World) SetMouseWorld(x, y float64) {
	w.input.MouseX, w.input.MouseY = w.clampWorldPos(x, y)
}

func (w *World) SetMouseDown(down bool) { w.input.MouseDown = down }

// RequestCraft queues kind for the next tick. CraftNone cancels a pending request.
func (w *World) RequestCraft(kind model.CraftKind) { w.input.Craft = kind }

func (w *World) SetCraftPanel(open bool) { w.input.CraftPanel = open }

func (w *World) ToggleCraftPanel() { w.input.CraftPanel = !w.input.CraftPanel }

func (w *World) Input() Input { return w.input }

// SetInput replaces the whole control state, sanitizing every field.
func (w *World) SetInput(in Input) {
	w.input = w.sanitizeInput(in)
}

func (w *World) sanitizeInput(in Input) Input {
	in.Axis = mathx.ClampInt(in.Axis, -1, 1)
	in.MouseX, in.MouseY = w.clampWorldPos(in.MouseX, in.MouseY)
	switch in.Craft {
	case model.CraftStone, model.CraftIron:
	default:
		in.Craft = model.CraftNone
	}
	return in
}

// clampBoxPos keeps a w x h box with top-left (x, y) inside the grid extent.
func (w *World) clampBoxPos(x, y, bw, bh float64) (float64, float64) {
	ts := float64(w.cfg.World.TileSize)
	maxX := math.Max(0, float64(w.cfg.World.Width)*ts-bw)
	maxY := math.Max(0, float64(w.cfg.World.Height)*ts-bh)
	return mathx.Clamp(x, 0, maxX), mathx.Clamp(y, 0, maxY)
}

func (w *World) clampWorldPos(x, y float64) (float64, float64) {
	ts := float64(w.cfg.World.TileSize)
	maxX := float64(w.cfg.World.Width) * ts
	maxY := float64(w.cfg.World.Height) * ts
	if math.IsNaN(x) {
		x = 0
	}
	if math.IsNaN(y) {
		y = 0
	}
	return mathx.Clamp(x, 0, maxX), mathx.Clamp(y, 0, maxY)
}
