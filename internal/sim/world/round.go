package world

import (
	"bedrockdescent.io/internal/sim/feature/progress"
	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/terrain/gen"
)

const startToast = "Dig down to reach bedrock."

// StartRound regenerates the world and resets player, inventory, tool and
// timers. It is valid from any mode; an unfinished round is recorded as abandoned.
func (w *World) StartRound() {
	if w.mode == model.ModePlaying && w.round > 0 {
		w.finishRound(OutcomeAbandoned)
	}
	w.round++
	w.roundStart = w.tick.Load()

	w.grid = gen.Generate(w.cfg.World.Width, w.cfg.World.Height, w.cfg.World.BedrockStart)
	w.resetPlayer()
	w.inv = model.Inventory{}
	w.tool = model.ToolHand
	w.mode = model.ModePlaying

	w.input = Input{}
	w.jumpBuffer = 0
	w.session.Reset()
	w.target, w.hasTarget = Target{}, false
	w.tracker = progress.Tracker{}
	w.toast = progress.Notice{}
	w.toast.Show(startToast, w.prog.ToastSeconds)
	w.lavaContact = false
	w.stats = newRoundStats()
	w.cameraY = progress.CameraY(w.prog, w.player.Y, w.cfg.World.Height)
}

func (w *World) finishRound(outcome string) {
	depth := progress.DepthMeters(w.prog, w.player.Y)
	if depth > w.stats.MaxDepth {
		w.stats.MaxDepth = depth
	}
	if w.roundRecorder == nil {
		return
	}
	_ = w.roundRecorder.RecordRound(RoundSummary{
		Round:     w.round,
		Outcome:   outcome,
		StartTick: w.roundStart,
		EndTick:   w.tick.Load(),
		Depth:     depth,
		Tool:      w.tool,
		Health:    w.player.Health,
		Stats:     w.stats.clone(),
		Digest:    w.StateDigest(),
	})
}

func (w *World) showToast(text string) {
	w.toast.Show(text, w.prog.ToastSeconds)
}
