package economy

import (
	"fmt"
	"strings"

	"bedrockdescent.io/internal/sim/catalogs"
	"bedrockdescent.io/internal/sim/kernel/model"
)

type Code uint8

const (
	CodeCrafted Code = iota
	CodeUnknownRecipe
	CodeAlreadyOwned
	CodeMissingTool
	CodeInsufficient
)

func (c Code) String() string {
	switch c {
	case CodeCrafted:
		return "crafted"
	case CodeUnknownRecipe:
		return "unknown_recipe"
	case CodeAlreadyOwned:
		return "already_owned"
	case CodeMissingTool:
		return "missing_tool"
	case CodeInsufficient:
		return "insufficient"
	default:
		return fmt.Sprintf("code(%d)", uint8(c))
	}
}

// Outcome is advisory: rejected crafts are normal results, not errors.
type Outcome struct {
	OK        bool
	Code      Code
	Tool      model.Tool
	Message   string
	Shortfall model.Inventory
}

// Shortfall reports how many of each resource are still missing for r.
func Shortfall(inv model.Inventory, r catalogs.Recipe) model.Inventory {
	var out model.Inventory
	for i := model.Resource(0); i < model.NumResources; i++ {
		if need := r.Cost.Get(i) - inv.Get(i); need > 0 {
			out.Set(i, need)
		}
	}
	return out
}

func CanAfford(inv model.Inventory, r catalogs.Recipe) bool {
	return Shortfall(inv, r) == model.Inventory{}
}

// Craft resolves kind against the catalog and, on success, deducts the full cost
// and upgrades tool. Nothing is mutated on rejection.
func Craft(inv *model.Inventory, tool *model.Tool, kind model.CraftKind, recipes catalogs.RecipeCatalog) Outcome {
	r, ok := recipes.ByKind[kind]
	if !ok {
		return Outcome{Code: CodeUnknownRecipe, Tool: *tool, Message: "Nothing to craft."}
	}
	if *tool >= r.Tool {
		return Outcome{Code: CodeAlreadyOwned, Tool: *tool, Message: fmt.Sprintf("You already carry a %s.", tool.Label())}
	}
	if *tool < r.Requires {
		return Outcome{Code: CodeMissingTool, Tool: *tool, Message: fmt.Sprintf("Craft a %s first.", r.Requires.Label())}
	}
	short := Shortfall(*inv, r)
	if short != (model.Inventory{}) {
		return Outcome{
			Code:      CodeInsufficient,
			Tool:      *tool,
			Message:   "Need " + describe(short) + ".",
			Shortfall: short,
		}
	}
	for i := model.Resource(0); i < model.NumResources; i++ {
		inv.Set(i, inv.Get(i)-r.Cost.Get(i))
	}
	*tool = r.Tool
	return Outcome{OK: true, Code: CodeCrafted, Tool: r.Tool, Message: fmt.Sprintf("Crafted %s!", r.Tool.Label())}
}

func describe(inv model.Inventory) string {
	parts := make([]string, 0, model.NumResources)
	for i := model.Resource(0); i < model.NumResources; i++ {
		if n := inv.Get(i); n > 0 {
			parts = append(parts, fmt.Sprintf("%d more %s", n, i))
		}
	}
	return strings.Join(parts, ", ")
}
