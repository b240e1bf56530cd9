package survival

import (
	"testing"

	"bedrockdescent.io/internal/sim/kernel/model"
)

func params() Params {
	return Params{
		MaxHealth:          100,
		DamageCooldown:     0.6,
		HurtFlash:          0.25,
		LavaDamage:         18,
		FallSpeedThreshold: 720,
		FallDamageScale:    0.09,
		FallDamageMin:      6,
	}
}

func TestApplyDamage_CooldownSuppressesSecondHit(t *testing.T) {
	prm := params()
	p := &model.Player{Health: 100, MaxHealth: 100}
	if !ApplyDamage(p, prm, 18) {
		t.Fatalf("first hit should apply")
	}
	TickTimers(p, 0.3)
	if ApplyDamage(p, prm, 18) {
		t.Fatalf("hit inside cooldown should be ignored")
	}
	if p.Health != 82 {
		t.Fatalf("health: got %d want 82", p.Health)
	}
	if p.HurtFlash != 0 {
		t.Fatalf("hurt flash should have expired, got %v", p.HurtFlash)
	}
	TickTimers(p, 0.3)
	if !ApplyDamage(p, prm, 18) || p.Health != 64 {
		t.Fatalf("hit after cooldown should apply, health=%d", p.Health)
	}
}

func TestApplyDamage_ClampsAtZero(t *testing.T) {
	p := &model.Player{Health: 5, MaxHealth: 100}
	if !ApplyDamage(p, params(), 18) {
		t.Fatalf("expected hit")
	}
	if p.Health != 0 || p.Alive() {
		t.Fatalf("health should clamp to 0, got %d", p.Health)
	}
	p.DamageCooldown = 0
	if ApplyDamage(p, params(), 18) {
		t.Fatalf("dead player takes no damage")
	}
}

func TestApplyDamage_IgnoresNonPositive(t *testing.T) {
	p := &model.Player{Health: 50, MaxHealth: 100}
	if ApplyDamage(p, params(), 0) || ApplyDamage(p, params(), -4) {
		t.Fatalf("non-positive damage must be ignored")
	}
	if p.DamageCooldown != 0 {
		t.Fatalf("ignored damage must not start cooldown")
	}
}

func TestFallDamage(t *testing.T) {
	prm := params()
	cases := []struct {
		speed float64
		want  int
	}{
		{0, 0},
		{720, 0},
		{721, 6},
		{900, 16},
		{980, 23},
	}
	for _, c := range cases {
		if got := FallDamage(prm, c.speed); got != c.want {
			t.Fatalf("FallDamage(%v)=%d want %d", c.speed, got, c.want)
		}
	}
}
