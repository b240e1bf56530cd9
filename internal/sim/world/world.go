package world

import (
	"fmt"
	"sync"
	"sync/atomic"

	"bedrockdescent.io/internal/sim/catalogs"
	"bedrockdescent.io/internal/sim/feature/movement"
	"bedrockdescent.io/internal/sim/feature/progress"
	"bedrockdescent.io/internal/sim/feature/survival"
	"bedrockdescent.io/internal/sim/feature/work/mining"
	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/terrain/gen"
	"bedrockdescent.io/internal/sim/terrain/store"
	"bedrockdescent.io/internal/sim/tuning"
)

type Target = mining.Target

// World is the simulation context for one player. It is single-writer: every
// mutation goes through its methods, and while Run is active only the loop
// goroutine may call them.
type World struct {
	cfg      tuning.Tuning
	catalogs *catalogs.Catalogs

	move   movement.Params
	mine   mining.Params
	hazard survival.Params
	prog   progress.Params

	tick    atomic.Uint64
	metrics atomic.Value // Metrics
	latest  atomic.Value // []byte, last rendered text snapshot

	grid   *store.Grid
	player model.Player
	inv    model.Inventory
	tool   model.Tool
	mode   model.Mode
	round  uint64

	input Input
	// jumpBuffer is the time left on an unconsumed jump press.
	jumpBuffer float64

	session   mining.Session
	target    mining.Target
	hasTarget bool

	tracker     progress.Tracker
	toast       progress.Notice
	cameraY     float64
	lavaContact bool

	stats      RoundStats
	roundStart uint64

	// Runtime plumbing, used only by Run.
	inbox       chan Command
	subscribe   chan SubscribeRequest
	unsubscribe chan string
	stop        chan struct{}
	stopOnce    sync.Once
	subs        map[string]chan []byte

	// Optional sinks (may be nil). Implemented in internal/persistence/*.
	tickLogger    TickLogger
	roundRecorder RoundRecorder
}

// New builds a world in title mode over a freshly generated grid.
// A nil catalog falls back to the built-in recipes.
func New(cfg tuning.Tuning, cats *catalogs.Catalogs) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if cats == nil {
		cats = catalogs.Defaults()
	}
	for _, k := range []model.CraftKind{model.CraftStone, model.CraftIron} {
		if _, ok := cats.Recipes.ByKind[k]; !ok {
			return nil, fmt.Errorf("world: missing recipe %s", k)
		}
	}

	w := &World{
		cfg:         cfg,
		catalogs:    cats,
		inbox:       make(chan Command, 256),
		subscribe:   make(chan SubscribeRequest, 16),
		unsubscribe: make(chan string, 16),
		stop:        make(chan struct{}),
		subs:        map[string]chan []byte{},
	}
	ts := cfg.World.TileSize
	w.move = movement.Params{
		TileSize:         ts,
		Gravity:          cfg.Physics.Gravity,
		MoveSpeed:        cfg.Physics.MoveSpeed,
		JumpSpeed:        cfg.Physics.JumpSpeed,
		TerminalVelocity: cfg.Physics.TerminalVelocity,
	}
	w.mine = mining.NewParams(ts, cfg.Mining.ReachTiles, cfg.Mining.Hardness, cfg.Mining.ToolPower)
	w.hazard = survival.Params{
		MaxHealth:          cfg.Survival.MaxHealth,
		DamageCooldown:     cfg.Survival.DamageCooldown,
		HurtFlash:          cfg.Survival.HurtFlash,
		LavaDamage:         cfg.Survival.LavaDamage,
		FallSpeedThreshold: cfg.Survival.FallSpeedThreshold,
		FallDamageScale:    cfg.Survival.FallDamageScale,
		FallDamageMin:      cfg.Survival.FallDamageMin,
	}
	w.prog = progress.Params{
		TileSize:             ts,
		SpawnY:               cfg.Physics.SpawnY,
		MilestoneEveryMeters: cfg.Progress.MilestoneEveryMeters,
		MilestoneSeconds:     cfg.Progress.MilestoneSeconds,
		ToastSeconds:         cfg.Progress.ToastSeconds,
		ViewHeight:           cfg.Progress.ViewHeight,
		CameraLead:           cfg.Progress.CameraLead,
	}

	w.grid = gen.Generate(cfg.World.Width, cfg.World.Height, cfg.World.BedrockStart)
	w.resetPlayer()
	w.mode = model.ModeTitle
	w.stats = newRoundStats()
	w.cameraY = progress.CameraY(w.prog, w.player.Y, cfg.World.Height)
	w.publish()
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger)       { w.tickLogger = l }
func (w *World) SetRoundRecorder(r RoundRecorder) { w.roundRecorder = r }

func (w *World) Tuning() tuning.Tuning        { return w.cfg }
func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }
func (w *World) CurrentTick() uint64          { return w.tick.Load() }

func (w *World) Mode() model.Mode           { return w.mode }
func (w *World) Player() model.Player       { return w.player }
func (w *World) Tool() model.Tool           { return w.tool }
func (w *World) Inventory() model.Inventory { return w.inv }
func (w *World) Round() uint64              { return w.round }

// TileAt reads the live grid with the grid's out-of-bounds policy.
func (w *World) TileAt(tx, ty int) model.Tile { return w.grid.At(tx, ty) }

// Grid returns a copy of the live grid.
func (w *World) Grid() *store.Grid { return w.grid.Clone() }

func (w *World) resetPlayer() {
	p := w.cfg.Physics
	w.player = model.Player{
		X:         p.SpawnX,
		Y:         p.SpawnY,
		W:         p.PlayerW,
		H:         p.PlayerH,
		Health:    w.cfg.Survival.MaxHealth,
		MaxHealth: w.cfg.Survival.MaxHealth,
	}
}
