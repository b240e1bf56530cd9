package model

import "fmt"

// Tile is the type code stored in every world grid cell.
type Tile uint8

const (
	TileAir Tile = iota
	TileDirt
	TileStone
	TileBedrock
	TileGrass
	TileCoalOre
	TileIronOre
	TileLava

	numTiles
)

var tileNames = [numTiles]string{
	TileAir:     "air",
	TileDirt:    "dirt",
	TileStone:   "stone",
	TileBedrock: "bedrock",
	TileGrass:   "grass",
	TileCoalOre: "coal_ore",
	TileIronOre: "iron_ore",
	TileLava:    "lava",
}

// AllTiles lists every tile in code order.
func AllTiles() []Tile {
	out := make([]Tile, 0, numTiles)
	for t := TileAir; t < numTiles; t++ {
		out = append(out, t)
	}
	return out
}

func (t Tile) Valid() bool { return t < numTiles }

func (t Tile) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tile(%d)", uint8(t))
	}
	return tileNames[t]
}

func ParseTile(s string) (Tile, bool) {
	for i, n := range tileNames {
		if n == s {
			return Tile(i), true
		}
	}
	return TileAir, false
}

// Solid reports whether the tile blocks movement. Lava is passable.
func (t Tile) Solid() bool {
	switch t {
	case TileAir, TileLava:
		return false
	default:
		return t.Valid()
	}
}

// Breakable reports whether the tile can be mined.
func (t Tile) Breakable() bool {
	switch t {
	case TileDirt, TileStone, TileGrass, TileCoalOre, TileIronOre:
		return true
	default:
		return false
	}
}

// Resource returns the inventory resource granted when the tile is mined.
func (t Tile) Resource() (Resource, bool) {
	switch t {
	case TileDirt, TileGrass:
		return ResourceDirt, true
	case TileStone:
		return ResourceStone, true
	case TileCoalOre:
		return ResourceCoal, true
	case TileIronOre:
		return ResourceIron, true
	default:
		return 0, false
	}
}

func (t Tile) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tile) UnmarshalText(b []byte) error {
	v, ok := ParseTile(string(b))
	if !ok {
		return fmt.Errorf("unknown tile %q", string(b))
	}
	*t = v
	return nil
}
