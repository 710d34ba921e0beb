package primitive

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

const (
	// DefaultMaxLeafSize is the primitive count below which a node stays a
	// leaf
	DefaultMaxLeafSize = 4

	// sahBucketCount is the number of candidate split planes per axis
	sahBucketCount = 12
)

// BVH is a bounding volume hierarchy built with bucketed surface-area
// heuristic splits. It is itself a Primitive, so meshes, instances and the
// whole scene can all be indexed the same way.
type BVH struct {
	nodes      []bvhNode
	primitives []core.Primitive
}

type bvhNode struct {
	bbox  core.AABB
	left  int // child index, -1 for leaves
	right int
	axis  int // split axis for interior nodes, orders traversal
	start int // primitive range for leaves
	end   int
}

type buildEntry struct {
	prim     core.Primitive
	bbox     core.AABB
	centroid core.Vec3
}

// NewBVH builds a hierarchy over the given primitives. An empty input
// yields a trivial aggregate that never intersects.
func NewBVH(primitives []core.Primitive, maxLeafSize int) *BVH {
	if maxLeafSize < 1 {
		maxLeafSize = DefaultMaxLeafSize
	}
	bvh := &BVH{}
	if len(primitives) == 0 {
		return bvh
	}

	entries := make([]buildEntry, len(primitives))
	for i, prim := range primitives {
		bbox := prim.BoundingBox()
		entries[i] = buildEntry{prim: prim, bbox: bbox, centroid: bbox.Center()}
	}

	bvh.primitives = make([]core.Primitive, 0, len(primitives))
	bvh.buildNode(entries, maxLeafSize)
	return bvh
}

// buildNode recursively splits the entries, returning the node index
func (b *BVH) buildNode(entries []buildEntry, maxLeafSize int) int {
	bbox := core.EmptyAABB()
	centroidBounds := core.EmptyAABB()
	for _, e := range entries {
		bbox = bbox.Union(e.bbox)
		centroidBounds = centroidBounds.UnionPoint(e.centroid)
	}

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, bvhNode{bbox: bbox, left: -1, right: -1})

	if len(entries) <= maxLeafSize {
		b.makeLeaf(nodeIndex, entries)
		return nodeIndex
	}

	axis, split, ok := findBestSplit(entries, centroidBounds)
	if !ok {
		b.makeLeaf(nodeIndex, entries)
		return nodeIndex
	}

	var left, right []buildEntry
	boundary := centroidBounds.Min.Axis(axis) +
		centroidBounds.Size().Axis(axis)*float64(split)/sahBucketCount
	for _, e := range entries {
		if e.centroid.Axis(axis) < boundary {
			left = append(left, e)
		} else {
			right = append(right, e)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		b.makeLeaf(nodeIndex, entries)
		return nodeIndex
	}

	leftIndex := b.buildNode(left, maxLeafSize)
	rightIndex := b.buildNode(right, maxLeafSize)
	b.nodes[nodeIndex].left = leftIndex
	b.nodes[nodeIndex].right = rightIndex
	b.nodes[nodeIndex].axis = axis
	return nodeIndex
}

func (b *BVH) makeLeaf(nodeIndex int, entries []buildEntry) {
	start := len(b.primitives)
	for _, e := range entries {
		b.primitives = append(b.primitives, e.prim)
	}
	b.nodes[nodeIndex].start = start
	b.nodes[nodeIndex].end = len(b.primitives)
}

// findBestSplit buckets the entry centroids along each non-degenerate axis
// and picks the plane minimizing surface-area-weighted child cost
func findBestSplit(entries []buildEntry, centroidBounds core.AABB) (int, int, bool) {
	bestCost := math.Inf(1)
	bestAxis, bestSplit := -1, 0
	size := centroidBounds.Size()

	for axis := 0; axis < 3; axis++ {
		extent := size.Axis(axis)
		if extent < 1e-8 {
			continue
		}

		var bucketBoxes [sahBucketCount]core.AABB
		var bucketCounts [sahBucketCount]int
		for i := range bucketBoxes {
			bucketBoxes[i] = core.EmptyAABB()
		}
		for _, e := range entries {
			bucket := int((e.centroid.Axis(axis) - centroidBounds.Min.Axis(axis)) / extent * sahBucketCount)
			if bucket >= sahBucketCount {
				bucket = sahBucketCount - 1
			}
			bucketBoxes[bucket] = bucketBoxes[bucket].Union(e.bbox)
			bucketCounts[bucket]++
		}

		// Prefix and suffix merges give every split's child bounds in one
		// pass each
		var leftBoxes, rightBoxes [sahBucketCount]core.AABB
		var leftCounts [sahBucketCount]int
		leftBoxes[0] = bucketBoxes[0]
		leftCounts[0] = bucketCounts[0]
		for i := 1; i < sahBucketCount; i++ {
			leftBoxes[i] = leftBoxes[i-1].Union(bucketBoxes[i])
			leftCounts[i] = leftCounts[i-1] + bucketCounts[i]
		}
		rightBoxes[sahBucketCount-1] = bucketBoxes[sahBucketCount-1]
		for i := sahBucketCount - 2; i >= 0; i-- {
			rightBoxes[i] = rightBoxes[i+1].Union(bucketBoxes[i])
		}

		total := len(entries)
		for split := 1; split < sahBucketCount; split++ {
			leftCount := leftCounts[split-1]
			rightCount := total - leftCount
			if leftCount == 0 || rightCount == 0 {
				continue
			}
			cost := leftBoxes[split-1].SurfaceArea()*float64(leftCount) +
				rightBoxes[split].SurfaceArea()*float64(rightCount)
			if cost < bestCost {
				bestCost = cost
				bestAxis = axis
				bestSplit = split
			}
		}
	}

	return bestAxis, bestSplit, bestAxis >= 0
}

func (b *BVH) Intersect(ray core.Ray, inter *core.SurfaceInteraction) bool {
	if len(b.nodes) == 0 {
		return false
	}

	result := false
	stack := []int{0}
	for len(stack) > 0 {
		node := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if !node.bbox.Hit(ray, core.TMinEps, inter.T) {
			continue
		}
		if node.left < 0 {
			for i := node.start; i < node.end; i++ {
				if b.primitives[i].Intersect(ray, inter) {
					result = true
				}
			}
		} else if ray.Direction.Axis(node.axis) < 0 {
			// The child on the ray's near side pops first, so close hits
			// shrink inter.T before the far child is tested
			stack = append(stack, node.left, node.right)
		} else {
			stack = append(stack, node.right, node.left)
		}
	}
	return result
}

func (b *BVH) IntersectP(ray core.Ray, tMax float64) bool {
	if len(b.nodes) == 0 {
		return false
	}

	stack := []int{0}
	for len(stack) > 0 {
		node := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if !node.bbox.Hit(ray, core.TMinEps, tMax) {
			continue
		}
		if node.left < 0 {
			for i := node.start; i < node.end; i++ {
				if b.primitives[i].IntersectP(ray, tMax) {
					return true
				}
			}
		} else if ray.Direction.Axis(node.axis) < 0 {
			stack = append(stack, node.left, node.right)
		} else {
			stack = append(stack, node.right, node.left)
		}
	}
	return false
}

func (b *BVH) BoundingBox() core.AABB {
	if len(b.nodes) == 0 {
		return core.EmptyAABB()
	}
	return b.nodes[0].bbox
}

// Sample picks a contained primitive uniformly, then samples it
func (b *BVH) Sample(sampler core.Sampler) (core.SurfaceInteraction, float64) {
	if len(b.primitives) == 0 {
		return core.NewSurfaceInteraction(), 0
	}
	index := int(sampler.Get1D() * float64(len(b.primitives)))
	if index >= len(b.primitives) {
		index = len(b.primitives) - 1
	}
	inter, pdf := b.primitives[index].Sample(sampler)
	return inter, pdf / float64(len(b.primitives))
}

func (b *BVH) PDF(inter *core.SurfaceInteraction) float64 {
	if len(b.primitives) == 0 || inter.Primitive == nil {
		return 0
	}
	return inter.Primitive.PDF(inter) / float64(len(b.primitives))
}
