package integrator

import (
	"errors"
	"math"
	"sync"

	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/scene"
	"github.com/achilleasa/raytra/types"
)

var (
	ErrTreeRequired    = errors.New("integrator: selected mode requires a BVH")
	ErrUnsupportedMode = errors.New("integrator: unsupported mode")
)

// An Intersector answers visibility queries against a list of surfaces.
// Surfaces are referenced by their index in that list. Implementations
// are read-only and safe for concurrent use.
type Intersector interface {
	// Find the closest surface along the ray ignoring surface exclude.
	// It returns bvh.NoSurface if nothing is hit.
	ClosestSurface(ray types.Ray, exclude int) (int, float32)

	// Check whether any surface other than exclude blocks the ray before
	// it reaches tMax.
	Occluded(ray types.Ray, tMax float32, exclude int) bool

	// Get the shading normal for a point on a surface.
	NormalAt(surface int, p types.Point) types.Vec3

	// Returns true if the surface faces the ray at point p.
	IsFrontFacedTo(surface int, ray types.Ray, p types.Point) bool

	// Get the material of a surface.
	Material(surface int) *scene.Material
}

// Create an intersector for the given mode. Modes other than BruteForce
// require a tree built over the same surface list.
func NewIntersector(mode Mode, surfaces []scene.Surface, tree *bvh.Tree) (Intersector, error) {
	if mode.NeedsTree() && tree == nil {
		return nil, ErrTreeRequired
	}

	base := surfaceList(surfaces)
	switch mode {
	case BVH:
		return &treeIntersector{surfaceList: base, tree: tree, policy: bvh.Exact}, nil
	case BruteForce:
		return &bruteForceIntersector{surfaceList: base}, nil
	case BVHCandidates:
		return &candidateIntersector{
			bruteForceIntersector: bruteForceIntersector{surfaceList: base},
			tree:                  tree,
			pool: sync.Pool{
				New: func() interface{} {
					buf := make([]int, 0, 64)
					return &buf
				},
			},
		}, nil
	case BoundingBoxes:
		return &boxIntersector{treeIntersector{surfaceList: base, tree: tree, policy: bvh.BoundsOnly}}, nil
	}

	return nil, ErrUnsupportedMode
}

type surfaceList []scene.Surface

func (l surfaceList) NormalAt(surface int, p types.Point) types.Vec3 {
	return l[surface].NormalAt(p)
}

func (l surfaceList) IsFrontFacedTo(surface int, ray types.Ray, p types.Point) bool {
	return l[surface].IsFrontFacedTo(ray, p)
}

func (l surfaceList) Material(surface int) *scene.Material {
	return l[surface].Material()
}

type bruteForceIntersector struct {
	surfaceList
}

func (in *bruteForceIntersector) ClosestSurface(ray types.Ray, exclude int) (int, float32) {
	return in.closestAmong(ray, exclude, nil)
}

// Find the closest surface among the given candidates; a nil candidate
// list selects all surfaces. Ties resolve to the lowest surface index
// regardless of candidate order.
func (in *bruteForceIntersector) closestAmong(ray types.Ray, exclude int, candidates []int) (int, float32) {
	bestSurface, bestT := bvh.NoSurface, float32(math.Inf(1))
	test := func(index int) {
		if index == exclude {
			return
		}
		t, hit := in.surfaceList[index].Intersect(ray)
		if hit && t >= 0 && (t < bestT || (t == bestT && index < bestSurface)) {
			bestSurface, bestT = index, t
		}
	}

	if candidates == nil {
		for index := range in.surfaceList {
			test(index)
		}
	} else {
		for _, index := range candidates {
			test(index)
		}
	}
	return bestSurface, bestT
}

func (in *bruteForceIntersector) Occluded(ray types.Ray, tMax float32, exclude int) bool {
	return in.occludedAmong(ray, tMax, exclude, nil)
}

func (in *bruteForceIntersector) occludedAmong(ray types.Ray, tMax float32, exclude int, candidates []int) bool {
	limit := tMax - bvh.OcclusionEpsilon
	blocks := func(index int) bool {
		if index == exclude {
			return false
		}
		t, hit := in.surfaceList[index].Intersect(ray)
		return hit && t >= 0 && t < limit
	}

	if candidates == nil {
		for index := range in.surfaceList {
			if blocks(index) {
				return true
			}
		}
		return false
	}

	for _, index := range candidates {
		if blocks(index) {
			return true
		}
	}
	return false
}

type treeIntersector struct {
	surfaceList
	tree   *bvh.Tree
	policy bvh.Policy
}

func (in *treeIntersector) ClosestSurface(ray types.Ray, exclude int) (int, float32) {
	return in.tree.ClosestSurface(ray, exclude, in.policy)
}

func (in *treeIntersector) Occluded(ray types.Ray, tMax float32, exclude int) bool {
	return in.tree.Occluded(ray, tMax, exclude, in.policy)
}

type candidateIntersector struct {
	bruteForceIntersector
	tree *bvh.Tree

	// Scratch buffers for collected leaves.
	pool sync.Pool
}

func (in *candidateIntersector) ClosestSurface(ray types.Ray, exclude int) (int, float32) {
	bufPtr := in.pool.Get().(*[]int)
	defer in.pool.Put(bufPtr)

	*bufPtr = in.tree.CollectLeaves(ray, (*bufPtr)[:0])
	if len(*bufPtr) == 0 {
		return bvh.NoSurface, float32(math.Inf(1))
	}
	return in.closestAmong(ray, exclude, *bufPtr)
}

func (in *candidateIntersector) Occluded(ray types.Ray, tMax float32, exclude int) bool {
	bufPtr := in.pool.Get().(*[]int)
	defer in.pool.Put(bufPtr)

	*bufPtr = in.tree.CollectLeaves(ray, (*bufPtr)[:0])
	if len(*bufPtr) == 0 {
		return false
	}
	return in.occludedAmong(ray, tMax, exclude, *bufPtr)
}

// Uses the leaf boxes as the scene geometry.
type boxIntersector struct {
	treeIntersector
}

func (in *boxIntersector) NormalAt(surface int, p types.Point) types.Vec3 {
	return in.surfaceList[surface].BoundingBox().SurfaceNormalAt(p)
}

func (in *boxIntersector) IsFrontFacedTo(int, types.Ray, types.Point) bool {
	return true
}
