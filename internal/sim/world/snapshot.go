package world

import (
	"encoding/json"
	"math"

	"bedrockdescent.io/internal/sim/feature/progress"
	"bedrockdescent.io/internal/sim/kernel/model"
)

const CoordinateSystem = "origin top-left, +x right, +y down, units in pixels"

type PlayerView struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	OnGround bool    `json:"onGround"`
	Health   int     `json:"health"`
}

type CameraView struct {
	Y float64 `json:"y"`
}

type GoalView struct {
	BedrockStartsAtTileY int `json:"bedrockStartsAtTileY"`
}

type TileView struct {
	X    int        `json:"x"`
	Y    int        `json:"y"`
	Type model.Tile `json:"type"`
}

// MiningView describes the highlighted target and the active session, if any.
type MiningView struct {
	Target   *TileView `json:"target"`
	Active   bool      `json:"active"`
	Progress float64   `json:"progress"`
	Required float64   `json:"required"`
	Ratio    float64   `json:"ratio"`
}

type MilestoneView struct {
	Meters int    `json:"meters"`
	Text   string `json:"text"`
	Active bool   `json:"active"`
}

type StatsView struct {
	Round    uint64         `json:"round"`
	Elapsed  float64        `json:"elapsed"`
	MaxDepth int            `json:"maxDepth"`
	Mined    map[string]int `json:"mined"`
	Damage   map[string]int `json:"damage"`
	Crafted  int            `json:"crafted"`
}

// Snapshot is the read-only view handed to rendering and test layers.
type Snapshot struct {
	CoordinateSystem string         `json:"coordinateSystem"`
	Tick             uint64         `json:"tick"`
	Mode             model.Mode     `json:"mode"`
	DepthMeters      int            `json:"depthMeters"`
	Biome            string         `json:"biome"`
	Tool             string         `json:"tool"`
	ToolID           model.Tool     `json:"toolId"`
	Health           int            `json:"health"`
	MaxHealth        int            `json:"maxHealth"`
	Player           PlayerView     `json:"player"`
	Camera           CameraView     `json:"camera"`
	Goal             GoalView       `json:"goal"`
	BelowPlayerTile  TileView       `json:"belowPlayerTile"`
	Inventory        map[string]int `json:"inventory"`
	Mining           MiningView     `json:"mining"`
	Milestone        MilestoneView  `json:"milestone"`
	Toast            string         `json:"toast,omitempty"`
	LavaContact      bool           `json:"lavaContact"`
	CraftPanelOpen   bool           `json:"craftPanelOpen"`
	Stats            StatsView      `json:"stats"`
}

func (w *World) Snapshot() Snapshot {
	depth := progress.DepthMeters(w.prog, w.player.Y)
	bx, by := w.footTile(0)

	s := Snapshot{
		CoordinateSystem: CoordinateSystem,
		Tick:             w.tick.Load(),
		Mode:             w.mode,
		DepthMeters:      depth,
		Biome:            progress.Biome(depth),
		Tool:             w.tool.Label(),
		ToolID:           w.tool,
		Health:           w.player.Health,
		MaxHealth:        w.player.MaxHealth,
		Player: PlayerView{
			X:        w.player.X,
			Y:        w.player.Y,
			VX:       w.player.VX,
			VY:       w.player.VY,
			OnGround: w.player.OnGround,
			Health:   w.player.Health,
		},
		Camera:          CameraView{Y: w.cameraY},
		Goal:            GoalView{BedrockStartsAtTileY: w.cfg.World.BedrockStart},
		BelowPlayerTile: TileView{X: bx, Y: by, Type: w.grid.At(bx, by)},
		Inventory:       w.inv.Counts(),
		Milestone: MilestoneView{
			Meters: w.tracker.Last,
			Text:   w.tracker.Milestone.Text,
			Active: w.tracker.Milestone.Active(),
		},
		LavaContact:    w.lavaContact,
		CraftPanelOpen: w.input.CraftPanel,
		Stats: StatsView{
			Round:    w.round,
			Elapsed:  w.stats.Elapsed,
			MaxDepth: w.stats.MaxDepth,
			Mined:    map[string]int{},
			Damage:   map[string]int{},
			Crafted:  w.stats.Crafted,
		},
	}
	if w.hasTarget {
		s.Mining.Target = &TileView{X: w.target.TX, Y: w.target.TY, Type: w.target.Tile}
	}
	if w.session.Active {
		s.Mining.Active = true
		s.Mining.Progress = w.session.Progress
		s.Mining.Required = w.session.Required
		s.Mining.Ratio = w.session.Ratio()
	}
	if w.toast.Active() {
		s.Toast = w.toast.Text
	}
	for t, n := range w.stats.Mined {
		s.Stats.Mined[t.String()] = n
	}
	for c, n := range w.stats.Damage {
		s.Stats.Damage[c] = n
	}
	return s
}

// RenderGameToText is the assertable text form of Snapshot. Positions and
// velocities are rounded to whole pixels.
func (w *World) RenderGameToText() string {
	return string(w.renderText())
}

func (w *World) renderText() []byte {
	s := w.Snapshot()
	s.Player.X = math.Round(s.Player.X)
	s.Player.Y = math.Round(s.Player.Y)
	s.Player.VX = math.Round(s.Player.VX)
	s.Player.VY = math.Round(s.Player.VY)
	s.Camera.Y = math.Round(s.Camera.Y)
	s.Stats.Elapsed = math.Round(s.Stats.Elapsed*1000) / 1000
	b, err := json.Marshal(s)
	if err != nil {
		return []byte("{}")
	}
	return b
}

// LatestText returns the text snapshot published by the last tick. Safe to call
// from any goroutine.
func (w *World) LatestText() []byte {
	b, _ := w.latest.Load().([]byte)
	return b
}

func (w *World) publish() {
	w.latest.Store(w.renderText())
}
