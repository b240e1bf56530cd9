package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bedrockdescent.io/internal/sim/kernel/model"
)

type Catalogs struct {
	Recipes RecipeCatalog
}

type RecipeCatalog struct {
	ByKind map[model.CraftKind]Recipe
	Digest string
}

// RecipeDef is the on-disk form.
type RecipeDef struct {
	RecipeID     string      `json:"recipe_id"`
	Kind         string      `json:"kind"`
	Tool         string      `json:"tool"`
	RequiresTool string      `json:"requires_tool"`
	Inputs       []ItemCount `json:"inputs"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Recipe is a resolved RecipeDef.
type Recipe struct {
	ID       string
	Kind     model.CraftKind
	Tool     model.Tool
	Requires model.Tool
	Cost     model.Inventory
}

const defaultRecipesJSON = `[
  {"recipe_id":"stone_pick","kind":"stone","tool":"stone_pick","requires_tool":"hand",
   "inputs":[{"item":"dirt","count":4},{"item":"stone","count":1}]},
  {"recipe_id":"iron_pick","kind":"iron","tool":"iron_pick","requires_tool":"stone_pick",
   "inputs":[{"item":"stone","count":6},{"item":"coal","count":2},{"item":"iron","count":3}]}
]`

// Defaults returns the built-in catalogs; they match configs/recipes.json.
func Defaults() *Catalogs {
	var c Catalogs
	if err := parseRecipes([]byte(defaultRecipesJSON), &c.Recipes); err != nil {
		panic(fmt.Sprintf("catalogs: built-in recipes invalid: %v", err))
	}
	return &c
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := parseRecipes(raw, out); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	return nil
}

func parseRecipes(raw []byte, out *RecipeCatalog) error {
	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return err
	}
	out.ByKind = map[model.CraftKind]Recipe{}
	for _, d := range defs {
		r, err := resolve(d)
		if err != nil {
			return err
		}
		if _, dup := out.ByKind[r.Kind]; dup {
			return fmt.Errorf("duplicate recipe kind %q", d.Kind)
		}
		out.ByKind[r.Kind] = r
	}
	for _, k := range []model.CraftKind{model.CraftStone, model.CraftIron} {
		if _, ok := out.ByKind[k]; !ok {
			return fmt.Errorf("missing recipe for kind %q", k)
		}
	}

	// Digest over canonical JSON so whitespace does not matter.
	canon := make([]RecipeDef, 0, len(defs))
	canon = append(canon, defs...)
	sort.Slice(canon, func(i, j int) bool { return canon[i].RecipeID < canon[j].RecipeID })
	b, _ := json.Marshal(canon)
	out.Digest = sha256Hex(b)
	return nil
}

func resolve(d RecipeDef) (Recipe, error) {
	if d.RecipeID == "" {
		return Recipe{}, fmt.Errorf("empty recipe_id")
	}
	kind := model.ParseCraftKind(d.Kind)
	if kind == model.CraftNone {
		return Recipe{}, fmt.Errorf("%s: unknown kind %q", d.RecipeID, d.Kind)
	}
	tool, ok := model.ParseTool(d.Tool)
	if !ok {
		return Recipe{}, fmt.Errorf("%s: unknown tool %q", d.RecipeID, d.Tool)
	}
	if want, _ := kind.Tool(); want != tool {
		return Recipe{}, fmt.Errorf("%s: kind %q must produce %s", d.RecipeID, d.Kind, want)
	}
	req, ok := model.ParseTool(d.RequiresTool)
	if !ok {
		return Recipe{}, fmt.Errorf("%s: unknown requires_tool %q", d.RecipeID, d.RequiresTool)
	}
	// Tiers cannot be skipped.
	if req+1 != tool {
		return Recipe{}, fmt.Errorf("%s: requires_tool must be the previous tier of %s", d.RecipeID, tool)
	}
	r := Recipe{ID: d.RecipeID, Kind: kind, Tool: tool, Requires: req}
	for _, in := range d.Inputs {
		res, ok := model.ParseResource(in.Item)
		if !ok {
			return Recipe{}, fmt.Errorf("%s: unknown item %q", d.RecipeID, in.Item)
		}
		if in.Count <= 0 {
			return Recipe{}, fmt.Errorf("%s: count for %s must be > 0", d.RecipeID, in.Item)
		}
		r.Cost.Add(res, in.Count)
	}
	return r, nil
}
