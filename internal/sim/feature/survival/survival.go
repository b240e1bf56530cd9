package survival

import (
	"fmt"
	"math"

	"bedrockdescent.io/internal/sim/kernel/model"
)

type Params struct {
	MaxHealth      int
	DamageCooldown float64
	HurtFlash      float64
	LavaDamage     int

	FallSpeedThreshold float64
	FallDamageScale    float64
	FallDamageMin      int
}

type Cause uint8

const (
	CauseLava Cause = iota
	CauseFall
)

func (c Cause) String() string {
	switch c {
	case CauseLava:
		return "lava"
	case CauseFall:
		return "fall"
	default:
		return fmt.Sprintf("cause(%d)", uint8(c))
	}
}

const DefeatToast = "You were defeated. Press restart to dig again."

// DamageToast is the advisory text shown after a hit.
func DamageToast(c Cause, amount int) string {
	switch c {
	case CauseLava:
		return fmt.Sprintf("Lava burns! -%d HP", amount)
	case CauseFall:
		return fmt.Sprintf("Hard landing! -%d HP", amount)
	default:
		return fmt.Sprintf("Ouch! -%d HP", amount)
	}
}

// TickTimers counts cooldown and flash timers down to zero.
func TickTimers(p *model.Player, dt float64) {
	if dt <= 0 {
		return
	}
	p.DamageCooldown = math.Max(0, p.DamageCooldown-dt)
	p.HurtFlash = math.Max(0, p.HurtFlash-dt)
}

// ApplyDamage removes health unless the cooldown window is still open.
// It returns false when nothing was applied.
func ApplyDamage(p *model.Player, prm Params, amount int) bool {
	if amount <= 0 || p.DamageCooldown > 0 || !p.Alive() {
		return false
	}
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	p.DamageCooldown = prm.DamageCooldown
	p.HurtFlash = prm.HurtFlash
	return true
}

// FallDamage converts a landing speed into damage; zero at or under the threshold.
func FallDamage(prm Params, impactSpeed float64) int {
	if math.IsNaN(impactSpeed) || impactSpeed <= prm.FallSpeedThreshold {
		return 0
	}
	d := int(math.Round((impactSpeed - prm.FallSpeedThreshold) * prm.FallDamageScale))
	if d < prm.FallDamageMin {
		d = prm.FallDamageMin
	}
	return d
}
