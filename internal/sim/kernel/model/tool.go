package model

import "fmt"

// Tool is the equipped mining tool. Tiers only ever go up within a round.
type Tool uint8

const (
	ToolHand Tool = iota
	ToolStonePick
	ToolIronPick

	numTools
)

func (t Tool) String() string {
	switch t {
	case ToolHand:
		return "hand"
	case ToolStonePick:
		return "stone_pick"
	case ToolIronPick:
		return "iron_pick"
	default:
		return fmt.Sprintf("tool(%d)", uint8(t))
	}
}

// Label is the HUD name.
func (t Tool) Label() string {
	switch t {
	case ToolHand:
		return "Hand"
	case ToolStonePick:
		return "Stone Pick"
	case ToolIronPick:
		return "Iron Pick"
	default:
		return "Unknown"
	}
}

func (t Tool) Valid() bool { return t < numTools }

func ParseTool(s string) (Tool, bool) {
	for t := ToolHand; t < numTools; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return ToolHand, false
}

// CraftKind names a crafting request.
type CraftKind uint8

const (
	CraftNone CraftKind = iota
	CraftStone
	CraftIron
)

func (k CraftKind) String() string {
	switch k {
	case CraftStone:
		return "stone"
	case CraftIron:
		return "iron"
	default:
		return "none"
	}
}

// Tool returns the tool produced by the recipe.
func (k CraftKind) Tool() (Tool, bool) {
	switch k {
	case CraftStone:
		return ToolStonePick, true
	case CraftIron:
		return ToolIronPick, true
	default:
		return ToolHand, false
	}
}

func ParseCraftKind(s string) CraftKind {
	switch s {
	case "stone", "stone_pick":
		return CraftStone
	case "iron", "iron_pick":
		return CraftIron
	default:
		return CraftNone
	}
}

func (t Tool) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tool) UnmarshalText(b []byte) error {
	v, ok := ParseTool(string(b))
	if !ok {
		return fmt.Errorf("unknown tool %q", string(b))
	}
	*t = v
	return nil
}

func (k CraftKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText maps unknown names to CraftNone.
func (k *CraftKind) UnmarshalText(b []byte) error {
	*k = ParseCraftKind(string(b))
	return nil
}
