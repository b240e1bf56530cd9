package model

import "fmt"

type Resource uint8

const (
	ResourceDirt Resource = iota
	ResourceStone
	ResourceCoal
	ResourceIron

	NumResources
)

var resourceNames = [NumResources]string{
	ResourceDirt:  "dirt",
	ResourceStone: "stone",
	ResourceCoal:  "coal",
	ResourceIron:  "iron",
}

func (r Resource) String() string {
	if r >= NumResources {
		return fmt.Sprintf("resource(%d)", uint8(r))
	}
	return resourceNames[r]
}

func ParseResource(s string) (Resource, bool) {
	for i, n := range resourceNames {
		if n == s {
			return Resource(i), true
		}
	}
	return 0, false
}

// Inventory holds a non-negative count per resource.
type Inventory [NumResources]int

func (inv Inventory) Get(r Resource) int {
	if r >= NumResources {
		return 0
	}
	return inv[r]
}

func (inv *Inventory) Add(r Resource, n int) {
	if r >= NumResources || n <= 0 {
		return
	}
	inv[r] += n
}

// Set overwrites a count; negative values clamp to zero.
func (inv *Inventory) Set(r Resource, n int) {
	if r >= NumResources {
		return
	}
	if n < 0 {
		n = 0
	}
	inv[r] = n
}

// Counts returns a name-keyed copy suitable for JSON.
func (inv Inventory) Counts() map[string]int {
	out := make(map[string]int, NumResources)
	for r := Resource(0); r < NumResources; r++ {
		out[r.String()] = inv[r]
	}
	return out
}
