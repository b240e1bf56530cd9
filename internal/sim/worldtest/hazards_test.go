package worldtest

import (
	"testing"

	"bedrockdescent.io/internal/sim/feature/survival"
	"bedrockdescent.io/internal/sim/kernel/model"
	world "bedrockdescent.io/internal/sim/world"
)

// lavaPit stages a one-tile-deep lava strip at row 46 with the player standing in it.
func lavaPit(h *Harness) {
	h.T.Helper()
	h.Arena(10, 40, 20, 45)
	for x := 10; x <= 14; x++ {
		h.W.DebugSetTile(x, 47, model.TileStone)
	}
	for x := 11; x <= 13; x++ {
		h.W.DebugSetTile(x, 46, model.TileLava)
	}
	h.Place(12, 47)
}

func TestLava_DamageRespectsCooldown(t *testing.T) {
	h := NewHarness(t)
	h.Start()
	lavaPit(h)

	if steps := h.W.AdvanceTime(2000); steps != 120 {
		t.Fatalf("AdvanceTime steps: got %d want 120", steps)
	}
	p := h.W.Player()
	// Hits land at roughly 0, 0.6, 1.2 and 1.8 seconds.
	if want := h.Cfg.Survival.MaxHealth - 4*h.Cfg.Survival.LavaDamage; p.Health != want {
		t.Fatalf("health: got %d want %d", p.Health, want)
	}
	txt := h.Text()
	if txt["lavaContact"] != true {
		t.Fatalf("lavaContact: got %v", txt["lavaContact"])
	}
	stats := txt["stats"].(map[string]any)
	if dmg := stats["damage"].(map[string]any); dmg["lava"] != float64(4*h.Cfg.Survival.LavaDamage) {
		t.Fatalf("damage stats: %v", dmg)
	}
	if h.W.Mode() != model.ModePlaying {
		t.Fatalf("mode: got %s want playing", h.W.Mode())
	}
}

func TestLava_KillsAndEndsRound(t *testing.T) {
	h := NewHarness(t)
	h.Start()
	lavaPit(h)
	h.W.DebugSetHealth(10)

	h.Step(world.Input{MouseDown: true})
	if h.W.Mode() != model.ModeLost {
		t.Fatalf("mode: got %s want lost", h.W.Mode())
	}
	if h.W.Player().Health != 0 {
		t.Fatalf("health clamps at zero, got %d", h.W.Player().Health)
	}
	if h.W.Input().MouseDown {
		t.Fatalf("mouse should be released on defeat")
	}
	if txt := h.Text(); txt["toast"] != survival.DefeatToast {
		t.Fatalf("toast: got %v", txt["toast"])
	}

	rounds := h.Rounds()
	if len(rounds) != 1 || rounds[0].Outcome != world.OutcomeLost {
		t.Fatalf("rounds: %+v", rounds)
	}

	// A lost world is frozen until restarted.
	before := h.W.Player()
	h.StepFor(5, world.Input{Axis: 1, Jump: true})
	if after := h.W.Player(); after.X != before.X || after.Y != before.Y || after.Health != 0 {
		t.Fatalf("player changed after defeat: %+v -> %+v", before, after)
	}
	if len(h.Rounds()) != 1 {
		t.Fatalf("defeat recorded more than once")
	}
}

func TestFall_HardLandingHurts(t *testing.T) {
	h := NewHarness(t)
	h.Start()
	h.Arena(10, 40, 20, 60)
	h.Place(12, 41)

	h.StepFor(120, world.Input{})
	if !h.Resting() {
		t.Fatalf("expected landing, got %+v", h.W.Player())
	}
	p := h.W.Player()
	// 20 tiles is enough to reach terminal velocity.
	want := survival.FallDamage(survival.Params{
		FallSpeedThreshold: h.Cfg.Survival.FallSpeedThreshold,
		FallDamageScale:    h.Cfg.Survival.FallDamageScale,
		FallDamageMin:      h.Cfg.Survival.FallDamageMin,
	}, h.Cfg.Physics.TerminalVelocity)
	if p.Health != h.Cfg.Survival.MaxHealth-want {
		t.Fatalf("health: got %d want %d", p.Health, h.Cfg.Survival.MaxHealth-want)
	}
	if txt := h.Text(); txt["toast"] != survival.DamageToast(survival.CauseFall, want) {
		t.Fatalf("toast: got %v", txt["toast"])
	}
}

func TestFall_ShortDropIsFree(t *testing.T) {
	h := NewHarness(t)
	h.Start()
	h.Arena(10, 40, 20, 45)
	h.Place(12, 43)

	h.StepFor(60, world.Input{})
	if p := h.W.Player(); !h.Resting() || p.Health != h.Cfg.Survival.MaxHealth {
		t.Fatalf("short drop: %+v", p)
	}
}
