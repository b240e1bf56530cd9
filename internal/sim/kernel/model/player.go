package model

// Rect is an axis-aligned box in pixel space (origin top-left, +y down).
type Rect struct {
	X, Y, W, H float64
}

type Player struct {
	X, Y   float64
	VX, VY float64
	W, H   float64

	OnGround bool

	Health    int
	MaxHealth int

	// Seconds remaining; damage is ignored while DamageCooldown > 0.
	DamageCooldown float64
	HurtFlash      float64
}

func (p *Player) Rect() Rect { return Rect{X: p.X, Y: p.Y, W: p.W, H: p.H} }

func (p *Player) Center() (float64, float64) {
	return p.X + p.W/2, p.Y + p.H/2
}

func (p *Player) Alive() bool { return p.Health > 0 }
