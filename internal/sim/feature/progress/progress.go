package progress

import (
	"fmt"
	"math"

	"bedrockdescent.io/internal/sim/logic/mathx"
)

type Params struct {
	TileSize             int
	SpawnY               float64
	MilestoneEveryMeters int
	MilestoneSeconds     float64
	ToastSeconds         float64
	ViewHeight           float64
	CameraLead           float64
}

// DepthMeters is whole tiles below the spawn height, never negative.
func DepthMeters(prm Params, playerY float64) int {
	if prm.TileSize <= 0 || math.IsNaN(playerY) {
		return 0
	}
	d := math.Floor((playerY - prm.SpawnY) / float64(prm.TileSize))
	if d <= 0 {
		return 0
	}
	if d > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(d)
}

// Biome labels the depth band.
func Biome(depth int) string {
	switch {
	case depth < 8:
		return "Surface"
	case depth < 30:
		return "Dirtline"
	case depth < 70:
		return "Stone Caves"
	case depth < 110:
		return "Deep Slate"
	default:
		return "Bedrock Frontier"
	}
}

// Notice is a text with its own countdown.
type Notice struct {
	Text      string
	Remaining float64
}

func (n Notice) Active() bool { return n.Remaining > 0 && n.Text != "" }

func (n *Notice) Show(text string, seconds float64) {
	n.Text = text
	n.Remaining = seconds
}

func (n *Notice) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	n.Remaining = math.Max(0, n.Remaining-dt)
}

// Tracker records the deepest milestone reached in a round.
type Tracker struct {
	Last      int
	Milestone Notice
}

// Observe returns the new milestone depth, or 0 when nothing was crossed.
func (t *Tracker) Observe(prm Params, depth int) int {
	step := prm.MilestoneEveryMeters
	if step <= 0 {
		return 0
	}
	m := (depth / step) * step
	if m <= 0 || m <= t.Last {
		return 0
	}
	t.Last = m
	t.Milestone.Show(fmt.Sprintf("%dm reached: %s", m, Biome(depth)), prm.MilestoneSeconds)
	return m
}

// CameraY keeps the player below the middle of the view, clamped to the world.
func CameraY(prm Params, playerY float64, worldHeightTiles int) float64 {
	maxY := float64(worldHeightTiles*prm.TileSize) - prm.ViewHeight
	if maxY < 0 {
		maxY = 0
	}
	return mathx.Clamp(playerY-prm.ViewHeight*prm.CameraLead, 0, maxY)
}
