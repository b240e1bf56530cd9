package world

import (
	"math"

	"bedrockdescent.io/internal/sim/feature/economy"
	"bedrockdescent.io/internal/sim/feature/movement"
	"bedrockdescent.io/internal/sim/feature/progress"
	"bedrockdescent.io/internal/sim/feature/survival"
	"bedrockdescent.io/internal/sim/feature/work/mining"
	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/logic/mathx"
)

// Update advances the simulation by dt seconds. Non-positive or non-finite dt
// is a no-op; dt above MaxStepSeconds is clamped.
//
// Order: timers, craft request, movement (+ fall damage), lava, mining, goal,
// milestone and camera.
func (w *World) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	if max := w.cfg.MaxStepSeconds; max > 0 && dt > max {
		dt = max
	}
	defer w.tick.Add(1)

	survival.TickTimers(&w.player, dt)
	w.toast.Tick(dt)
	w.tracker.Milestone.Tick(dt)

	if w.mode != model.ModePlaying {
		w.input.Craft = model.CraftNone
		w.jumpBuffer = 0
		w.session.Reset()
		w.hasTarget = false
		w.lavaContact = false
		w.updateCamera()
		return
	}
	w.stats.Elapsed += dt

	if kind := w.input.Craft; kind != model.CraftNone {
		w.input.Craft = model.CraftNone
		w.Craft(kind)
	}

	// A resting player touches the floor only on some ticks, so a press is held
	// for JumpBuffer seconds instead of being sampled once.
	if w.input.Jump {
		w.jumpBuffer = w.cfg.Physics.JumpBuffer
	}
	res := movement.Step(&w.player, w.grid, w.move, dt, float64(w.input.Axis), w.input.Jump || w.jumpBuffer > 0)
	if res.Jumped {
		w.jumpBuffer = 0
	} else if w.jumpBuffer > 0 {
		w.jumpBuffer -= dt
	}
	if res.Landed {
		if d := survival.FallDamage(w.hazard, res.ImpactSpeed); d > 0 {
			w.applyDamage(d, survival.CauseFall)
		}
	}

	w.lavaContact = movement.OverlapsLava(w.grid, w.player.Rect(), w.move.TileSize)
	if w.lavaContact {
		w.applyDamage(w.hazard.LavaDamage, survival.CauseLava)
	}

	if w.mode == model.ModePlaying {
		w.updateMining(dt)
	} else {
		w.session.Reset()
		w.hasTarget = false
	}
	if w.mode == model.ModePlaying {
		w.CheckGoal()
	}

	w.updateProgress()
	w.updateCamera()
}

// applyDamage is a no-op outside playing mode or inside the cooldown window.
func (w *World) applyDamage(amount int, cause survival.Cause) bool {
	if w.mode != model.ModePlaying {
		return false
	}
	before := w.player.Health
	if !survival.ApplyDamage(&w.player, w.hazard, amount) {
		return false
	}
	w.stats.Damage[cause.String()] += before - w.player.Health
	w.showToast(survival.DamageToast(cause, amount))
	if !w.player.Alive() {
		w.defeat()
	}
	return true
}

func (w *World) defeat() {
	w.mode = model.ModeLost
	w.input.MouseDown = false
	w.session.Reset()
	w.hasTarget = false
	w.showToast(survival.DefeatToast)
	w.finishRound(OutcomeLost)
}

// Craft handles a craft request immediately. Rejections only produce a toast.
func (w *World) Craft(kind model.CraftKind) economy.Outcome {
	if w.mode != model.ModePlaying {
		return economy.Outcome{Code: economy.CodeUnknownRecipe, Tool: w.tool, Message: "Start a round to craft."}
	}
	out := economy.Craft(&w.inv, &w.tool, kind, w.catalogs.Recipes)
	if out.OK {
		w.stats.Crafted++
	}
	w.showToast(out.Message)
	return out
}

func (w *World) updateMining(dt float64) {
	cx, cy := w.player.Center()
	w.target, w.hasTarget = mining.FindTarget(w.grid, w.mine, w.input.MouseX, w.input.MouseY, cx, cy)
	if !w.session.Advance(w.mine, w.target, w.hasTarget, w.input.MouseDown, dt, w.tool) {
		return
	}
	t := w.session.Target
	if _, _, ok := mining.Break(w.grid, &w.inv, t); ok {
		w.stats.Mined[t.Tile]++
	}
	w.session.Reset()
}

// CheckGoal switches to won when the tile under the player's feet is in the
// bedrock band. The out-of-bounds side walls never count.
func (w *World) CheckGoal() bool {
	if w.mode != model.ModePlaying {
		return false
	}
	tx, ty := w.footTile(1)
	if !w.grid.InBounds(tx, ty) || ty < w.grid.BedrockStart() || w.grid.At(tx, ty) != model.TileBedrock {
		return false
	}
	w.mode = model.ModeWon
	w.input.MouseDown = false
	w.session.Reset()
	w.hasTarget = false
	w.showToast("You reached bedrock!")
	w.finishRound(OutcomeWon)
	return true
}

// footTile samples below the horizontal center of the player box, offset pixels
// under its bottom edge.
func (w *World) footTile(offset float64) (int, int) {
	ts := w.move.TileSize
	cx := w.player.X + w.player.W/2
	return mathx.FloorTile(cx, ts), mathx.FloorTile(w.player.Y+w.player.H+offset, ts)
}

func (w *World) updateProgress() {
	depth := progress.DepthMeters(w.prog, w.player.Y)
	if depth > w.stats.MaxDepth {
		w.stats.MaxDepth = depth
	}
	w.tracker.Observe(w.prog, depth)
}

func (w *World) updateCamera() {
	w.cameraY = progress.CameraY(w.prog, w.player.Y, w.cfg.World.Height)
}
