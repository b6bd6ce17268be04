package bvh

import (
	"math"
	"time"

	"github.com/achilleasa/raytra/log"
	"github.com/achilleasa/raytra/types"
)

const (
	// The surface index reported by queries that hit nothing. It is also
	// used by group boxes and as the exclusion index for primary rays.
	NoSurface = -1

	// The child index used by leaf nodes.
	NoNode int32 = -1

	// Occlusion queries ignore hits that are closer than this to tMax so
	// that the surface at the end of a shadow ray does not shadow itself.
	OcclusionEpsilon float32 = 0.01
)

// The Surface interface is implemented by all primitives that can be
// indexed by the tree.
type Surface interface {
	// Intersect the surface with a ray. It returns the parametric distance
	// to the nearest intersection with t >= 0.
	Intersect(types.Ray) (float32, bool)

	// Get the surface bounding box.
	BoundingBox() BoundingBox
}

// The policy used for resolving intersections with leaf nodes.
type Policy uint8

const (
	// Intersect the surface referenced by the leaf.
	Exact Policy = iota

	// Treat the leaf bounding box as the surface.
	BoundsOnly
)

// A tree node. Leaf nodes have no children and a box that references a
// surface; internal nodes have two children and a group box.
type Node struct {
	Box BoundingBox

	Left  int32
	Right int32
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Left == NoNode && n.Right == NoNode
}

// A bounding volume hierarchy over a list of surfaces. Nodes are stored in
// a contiguous list and reference their children by index. Once built the
// tree is read-only and safe for concurrent queries.
type Tree struct {
	nodes    []Node
	root     int32
	surfaces []Surface
	stats    Stats
}

type builder struct {
	logger log.Logger
	nodes  []Node
	stats  Stats
}

// Build a tree over the surface list. The surface list is not modified. An
// empty surface list yields a tree without a root.
func Build(surfaces []Surface) *Tree {
	b := &builder{
		logger: log.New("bvh"),
	}

	tree := &Tree{
		root:     NoNode,
		surfaces: surfaces,
	}

	if len(surfaces) == 0 {
		b.logger.Debug("empty surface list; skipping bvh build")
		return tree
	}

	start := time.Now()
	boxes := make([]BoundingBox, len(surfaces))
	for index, surface := range surfaces {
		boxes[index] = surface.BoundingBox()
		boxes[index].Surface = index
	}

	b.nodes = make([]Node, 0, 2*len(surfaces)-1)
	tree.root = b.partition(boxes, 0, len(boxes)-1, XAxis, 0)
	tree.nodes = b.nodes

	b.stats.Nodes = len(b.nodes)
	b.stats.BuildTime = time.Since(start)
	tree.stats = b.stats

	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		b.stats.BuildTime.Nanoseconds()/1e6, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leaves,
	)

	return tree
}

// Partition boxes[start:end+1] around the median center along axis and
// return the index of the node that bounds them.
func (b *builder) partition(boxes []BoundingBox, start, end int, axis Axis, depth int) int32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	nodeIndex := int32(len(b.nodes))
	if start == end {
		b.nodes = append(b.nodes, Node{Box: boxes[start], Left: NoNode, Right: NoNode})
		b.stats.Leaves++
		return nodeIndex
	}

	b.nodes = append(b.nodes, Node{Box: GroupBounding(boxes[start : end+1])})

	mid := start + (end-start)/2
	selectNth(boxes[start:end+1], mid-start, CompareByAxis(axis))

	left := b.partition(boxes, start, mid, axis.Next(), depth+1)
	right := b.partition(boxes, mid+1, end, axis.Next(), depth+1)

	// The node list may have been reallocated while building the children
	b.nodes[nodeIndex].Left = left
	b.nodes[nodeIndex].Right = right
	return nodeIndex
}

// Get the root node index or NoNode if the tree is empty.
func (t *Tree) Root() int32 {
	return t.root
}

// Get the tree node list.
func (t *Tree) Nodes() []Node {
	return t.nodes
}

// Get the indexed surfaces.
func (t *Tree) Surfaces() []Surface {
	return t.surfaces
}

// Get tree build statistics.
func (t *Tree) Stats() Stats {
	return t.stats
}

type closestHit struct {
	surface int
	t       float32
}

// Find the closest surface along the ray, ignoring the surface with index
// exclude. Ties are resolved to the lowest surface index. It returns
// NoSurface and +Inf if no surface is hit.
func (t *Tree) ClosestSurface(ray types.Ray, exclude int, policy Policy) (int, float32) {
	best := closestHit{surface: NoSurface, t: float32(math.Inf(1))}
	if t.root != NoNode {
		t.closest(t.root, ray, exclude, policy, &best)
	}
	return best.surface, best.t
}

func (t *Tree) closest(nodeIndex int32, ray types.Ray, exclude int, policy Policy, best *closestHit) {
	node := &t.nodes[nodeIndex]
	boxT, hit := node.Box.Intersect(ray)
	if !hit || boxT > best.t {
		return
	}

	if !node.IsLeaf() {
		t.closest(node.Left, ray, exclude, policy, best)
		t.closest(node.Right, ray, exclude, policy, best)
		return
	}

	if node.Box.Surface == exclude {
		return
	}

	surfaceT := boxT
	if policy == Exact {
		if surfaceT, hit = t.surfaces[node.Box.Surface].Intersect(ray); !hit {
			return
		}
	}

	// Equal distances resolve to the lowest surface index so results do
	// not depend on the tree layout.
	if surfaceT >= 0 && (surfaceT < best.t || (surfaceT == best.t && node.Box.Surface < best.surface)) {
		best.surface = node.Box.Surface
		best.t = surfaceT
	}
}

// Check whether any surface other than exclude intersects the ray in
// [0, tMax - OcclusionEpsilon). The search stops at the first blocker.
func (t *Tree) Occluded(ray types.Ray, tMax float32, exclude int, policy Policy) bool {
	if t.root == NoNode {
		return false
	}
	return t.occluded(t.root, ray, tMax-OcclusionEpsilon, exclude, policy)
}

func (t *Tree) occluded(nodeIndex int32, ray types.Ray, limit float32, exclude int, policy Policy) bool {
	node := &t.nodes[nodeIndex]
	boxT, hit := node.Box.Intersect(ray)
	if !hit || boxT >= limit {
		return false
	}

	if !node.IsLeaf() {
		return t.occluded(node.Left, ray, limit, exclude, policy) ||
			t.occluded(node.Right, ray, limit, exclude, policy)
	}

	if node.Box.Surface == exclude {
		return false
	}

	if policy == BoundsOnly {
		return true
	}

	surfaceT, hit := t.surfaces[node.Box.Surface].Intersect(ray)
	return hit && surfaceT >= 0 && surfaceT < limit
}

// Append the surface index of every leaf whose box is hit by the ray to
// dst and return the extended slice.
func (t *Tree) CollectLeaves(ray types.Ray, dst []int) []int {
	if t.root == NoNode {
		return dst
	}
	return t.collect(t.root, ray, dst)
}

func (t *Tree) collect(nodeIndex int32, ray types.Ray, dst []int) []int {
	node := &t.nodes[nodeIndex]
	if _, hit := node.Box.Intersect(ray); !hit {
		return dst
	}

	if node.IsLeaf() {
		return append(dst, node.Box.Surface)
	}

	dst = t.collect(node.Left, ray, dst)
	return t.collect(node.Right, ray, dst)
}
