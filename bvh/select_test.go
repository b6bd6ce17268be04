package bvh

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/raytra/types"
)

func TestSelectNth(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	less := CompareByAxis(YAxis)

	for iteration := 0; iteration < 200; iteration++ {
		count := 1 + rng.Intn(40)
		boxes := make([]BoundingBox, count)
		for i := range boxes {
			// Use a small value range so that duplicate keys are common
			y := float32(rng.Intn(5))
			boxes[i] = NewBoundingBox(types.XYZ(0, y, 0), types.XYZ(1, y+1, 1), i)
		}

		n := rng.Intn(count)
		selectNth(boxes, n, less)

		for i := 0; i < n; i++ {
			if less(&boxes[n], &boxes[i]) {
				t.Fatalf("[iteration %d] item %d is ordered after the selected item %d", iteration, i, n)
			}
		}
		for i := n + 1; i < count; i++ {
			if less(&boxes[i], &boxes[n]) {
				t.Fatalf("[iteration %d] item %d is ordered before the selected item %d", iteration, i, n)
			}
		}
	}
}
