package integrator

import (
	"fmt"
	"strings"
)

// The strategy used for resolving ray-scene intersections.
type Mode uint8

const (
	// Traverse the BVH and intersect the surfaces referenced by its leaves.
	BVH Mode = iota

	// Intersect every surface in the scene.
	BruteForce

	// Collect the BVH leaves hit by a ray and intersect the referenced
	// surfaces exhaustively.
	BVHCandidates

	// Treat each surface's bounding box as the surface. Used for
	// visualizing the tree.
	BoundingBoxes
)

var modeNames = map[Mode]string{
	BVH:           "bvh",
	BruteForce:    "brute-force",
	BVHCandidates: "bvh-candidates",
	BoundingBoxes: "bbox",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Returns true if this mode queries a BVH.
func (m Mode) NeedsTree() bool {
	return m != BruteForce
}

// Lookup a mode by name.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for mode, modeName := range modeNames {
		if modeName == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("integrator: unknown mode %q", name)
}
