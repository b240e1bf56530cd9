package main

import (
	"bedrockdescent.io/internal/protocol"
	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/world"
)

// digger is a greedy straight-down strategy: hold the mouse on the tile under
// the player, sidestep lava and craft the next pick as soon as it is affordable.
type digger struct {
	tileSize   float64
	controller bool

	lastMode  model.Mode
	lastInput protocol.InputMsg
	sent      bool
	startSent bool
}

func newDigger(tileSize float64, controller bool) *digger {
	return &digger{tileSize: tileSize, controller: controller, lastMode: model.ModeTitle}
}

// finished reports the transition into won or lost once per round.
func (d *digger) finished(s world.Snapshot) bool {
	prev := d.lastMode
	d.lastMode = s.Mode
	return prev == model.ModePlaying && (s.Mode == model.ModeWon || s.Mode == model.ModeLost)
}

// next returns the messages to send for this frame. Unchanged input is not resent.
func (d *digger) next(s world.Snapshot) []any {
	if !d.controller {
		return nil
	}
	if s.Mode != model.ModePlaying {
		if d.startSent {
			return nil
		}
		d.startSent = true
		d.sent = false
		return []any{protocol.StartMsg{Type: protocol.TypeStart, ProtocolVersion: protocol.Version}}
	}
	d.startSent = false

	in := d.decide(s)
	if d.sent && in == d.lastInput {
		return nil
	}
	d.sent = true
	d.lastInput = in
	return []any{in}
}

func (d *digger) decide(s world.Snapshot) protocol.InputMsg {
	in := protocol.InputMsg{Type: protocol.TypeInput, ProtocolVersion: protocol.Version}

	below := s.BelowPlayerTile
	in.MouseX = (float64(below.X) + 0.5) * d.tileSize
	in.MouseY = (float64(below.Y) + 0.5) * d.tileSize
	switch below.Type {
	case model.TileLava:
		in.Axis = 1
		in.Jump = true
	case model.TileAir:
	default:
		in.MouseDown = below.Type.Breakable()
	}

	inv := s.Inventory
	switch {
	case s.ToolID == model.ToolHand && inv["dirt"] >= 4 && inv["stone"] >= 1:
		in.Craft = model.CraftStone.String()
	case s.ToolID == model.ToolStonePick && inv["stone"] >= 6 && inv["coal"] >= 2 && inv["iron"] >= 3:
		in.Craft = model.CraftIron.String()
	}
	return in
}
