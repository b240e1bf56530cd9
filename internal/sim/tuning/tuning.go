package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz" json:"tick_rate_hz"`
	// MaxStepSeconds caps the dt of a single Update; <= 0 disables the clamp.
	MaxStepSeconds float64 `yaml:"max_step_seconds" json:"max_step_seconds"`
	// AdvanceStepMs is the fixed sub-step used by AdvanceTime.
	AdvanceStepMs float64 `yaml:"advance_step_ms" json:"advance_step_ms"`

	World    World    `yaml:"world" json:"world"`
	Physics  Physics  `yaml:"physics" json:"physics"`
	Survival Survival `yaml:"survival" json:"survival"`
	Mining   Mining   `yaml:"mining" json:"mining"`
	Progress Progress `yaml:"progress" json:"progress"`
}

type World struct {
	TileSize     int `yaml:"tile_size" json:"tile_size"`
	Width        int `yaml:"width" json:"width"`
	Height       int `yaml:"height" json:"height"`
	BedrockStart int `yaml:"bedrock_start" json:"bedrock_start"`
}

type Physics struct {
	Gravity          float64 `yaml:"gravity" json:"gravity"`
	MoveSpeed        float64 `yaml:"move_speed" json:"move_speed"`
	JumpSpeed        float64 `yaml:"jump_speed" json:"jump_speed"`
	TerminalVelocity float64 `yaml:"terminal_velocity" json:"terminal_velocity"`
	// JumpBuffer keeps a jump press alive this many seconds until a grounded tick uses it.
	JumpBuffer float64 `yaml:"jump_buffer" json:"jump_buffer"`

	PlayerW float64 `yaml:"player_w" json:"player_w"`
	PlayerH float64 `yaml:"player_h" json:"player_h"`
	SpawnX  float64 `yaml:"spawn_x" json:"spawn_x"`
	SpawnY  float64 `yaml:"spawn_y" json:"spawn_y"`
}

type Survival struct {
	MaxHealth      int     `yaml:"max_health" json:"max_health"`
	DamageCooldown float64 `yaml:"damage_cooldown" json:"damage_cooldown"`
	HurtFlash      float64 `yaml:"hurt_flash" json:"hurt_flash"`
	LavaDamage     int     `yaml:"lava_damage" json:"lava_damage"`

	FallSpeedThreshold float64 `yaml:"fall_speed_threshold" json:"fall_speed_threshold"`
	FallDamageScale    float64 `yaml:"fall_damage_scale" json:"fall_damage_scale"`
	FallDamageMin      int     `yaml:"fall_damage_min" json:"fall_damage_min"`
}

type Mining struct {
	ReachTiles float64            `yaml:"reach_tiles" json:"reach_tiles"`
	Hardness   map[string]float64 `yaml:"hardness" json:"hardness"`
	ToolPower  map[string]float64 `yaml:"tool_power" json:"tool_power"`
}

type Progress struct {
	MilestoneEveryMeters int     `yaml:"milestone_every_meters" json:"milestone_every_meters"`
	MilestoneSeconds     float64 `yaml:"milestone_seconds" json:"milestone_seconds"`
	ToastSeconds         float64 `yaml:"toast_seconds" json:"toast_seconds"`
	ViewHeight           float64 `yaml:"view_height" json:"view_height"`
	CameraLead           float64 `yaml:"camera_lead" json:"camera_lead"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickRateHz:      60,
		MaxStepSeconds:  0.05,
		AdvanceStepMs:   1000.0 / 60.0,
		World: World{
			TileSize:     32,
			Width:        72,
			Height:       140,
			BedrockStart: 126,
		},
		Physics: Physics{
			Gravity:          1700,
			MoveSpeed:        240,
			JumpSpeed:        660,
			JumpBuffer:       0.1,
			TerminalVelocity: 980,
			PlayerW:          22,
			PlayerH:          30,
			SpawnX:           32 * 6,
			SpawnY:           32 * 2,
		},
		Survival: Survival{
			MaxHealth:          100,
			DamageCooldown:     0.6,
			HurtFlash:          0.25,
			LavaDamage:         18,
			FallSpeedThreshold: 720,
			FallDamageScale:    0.09,
			FallDamageMin:      6,
		},
		Mining: Mining{
			ReachTiles: 3.4,
			Hardness: map[string]float64{
				"grass":    0.35,
				"dirt":     0.45,
				"stone":    1.0,
				"coal_ore": 1.15,
				"iron_ore": 1.7,
			},
			ToolPower: map[string]float64{
				"hand":       1.0,
				"stone_pick": 1.8,
				"iron_pick":  2.8,
			},
		},
		Progress: Progress{
			MilestoneEveryMeters: 25,
			MilestoneSeconds:     2.6,
			ToastSeconds:         2.2,
			ViewHeight:           540,
			CameraLead:           0.55,
		},
	}
}

// Load reads a YAML file on top of Defaults, so partial files are valid.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	w := t.World
	if w.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("world.tile_size must be > 0"))
	}
	if w.Width < 10 {
		errs = append(errs, fmt.Errorf("world.width must be >= 10, got %d", w.Width))
	}
	if w.BedrockStart <= 4 || w.BedrockStart > w.Height {
		errs = append(errs, fmt.Errorf("world.bedrock_start must be in (4, height], got %d", w.BedrockStart))
	}
	if t.TickRateHz <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate_hz must be > 0"))
	}
	if t.AdvanceStepMs <= 0 {
		errs = append(errs, fmt.Errorf("advance_step_ms must be > 0"))
	}
	p := t.Physics
	if p.PlayerW <= 0 || p.PlayerH <= 0 {
		errs = append(errs, fmt.Errorf("physics.player_w/player_h must be > 0"))
	}
	if p.PlayerW >= float64(w.TileSize)*3 || p.PlayerH >= float64(w.TileSize)*3 {
		errs = append(errs, fmt.Errorf("physics: player box must fit within three tiles"))
	}
	if p.JumpBuffer < 0 {
		errs = append(errs, fmt.Errorf("physics.jump_buffer must be >= 0"))
	}
	if t.Survival.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("survival.max_health must be > 0"))
	}
	if t.Survival.DamageCooldown < 0 {
		errs = append(errs, fmt.Errorf("survival.damage_cooldown must be >= 0"))
	}
	for _, name := range []string{"grass", "dirt", "stone", "coal_ore", "iron_ore"} {
		if t.Mining.Hardness[name] <= 0 {
			errs = append(errs, fmt.Errorf("mining.hardness.%s must be > 0", name))
		}
	}
	for _, name := range []string{"hand", "stone_pick", "iron_pick"} {
		if t.Mining.ToolPower[name] <= 0 {
			errs = append(errs, fmt.Errorf("mining.tool_power.%s must be > 0", name))
		}
	}
	if t.Progress.MilestoneEveryMeters <= 0 {
		errs = append(errs, fmt.Errorf("progress.milestone_every_meters must be > 0"))
	}
	return errors.Join(errs...)
}

// Digest is sha256 over the canonical JSON form; map keys are sorted by encoding/json.
func (t Tuning) Digest() string {
	b, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
