// Package graph precomputes, for every l-long reference window, the other
// windows reachable by at most d substitutions.
//
// Candidates are found through the k-mer index instead of by comparing every
// pair of windows. Two windows within d substitutions of each other are
// guaranteed to share an aligned exact k-window only when l >= (d+1)*k; see
// Complete. Below that bound some neighbors may go unrecorded.
package graph

import (
	"sort"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/index"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

// Node is one l-window and its bounded-distance neighborhood
type Node struct {
	Locus model.Locus

	// nearReads[base*window+offset] lists neighbors that carry base at offset
	// where this node carries something else
	nearReads  [][]int
	distanceTo map[int]int
	window     int
}

// NearReads returns the neighbors reachable by substituting offset with base.
// The slice must not be modified.
func (n *Node) NearReads(base, offset int) []int {
	if base < 0 || base >= model.NumBases || offset < 0 || offset >= n.window {
		return nil
	}
	return n.nearReads[base*n.window+offset]
}

// DistanceTo returns the Hamming distance to neighbor
func (n *Node) DistanceTo(neighbor int) (int, bool) {
	d, ok := n.distanceTo[neighbor]
	return d, ok
}

// Degree returns the number of neighbors
func (n *Node) Degree() int {
	return len(n.distanceTo)
}

// Neighbors returns the neighbor creation times, ascending
func (n *Node) Neighbors() []int {
	out := make([]int, 0, len(n.distanceTo))
	for ct := range n.distanceTo {
		out = append(out, ct)
	}
	sort.Ints(out)
	return out
}

// Graph is the immutable approximate-match graph over l-windows
type Graph struct {
	segments    *model.SegmentSet
	kmerIndex   *index.SequenceIndex
	nodeIndex   *index.SequenceIndex
	nodes       []Node
	window      int
	maxDistance int
}

// Stats summarizes graph shape
type Stats struct {
	Nodes     int
	Edges     int // directed neighbor entries
	Isolated  int
	MaxDegree int
}

// Build creates the node index over l-windows and links every pair of
// windows within d substitutions that share a k-window
func Build(kmerIndex *index.SequenceIndex, l, d int) (*Graph, error) {
	if l < kmerIndex.Window() {
		return nil, errors.InvalidConfig("node window must not be shorter than the k-mer window").
			WithDetail("l", l).
			WithDetail("k", kmerIndex.Window())
	}
	nodeIndex, err := index.Build(kmerIndex.Segments(), l)
	if err != nil {
		return nil, err
	}
	return FromIndexes(kmerIndex, nodeIndex, d)
}

// FromIndexes links the nodes of an existing node index. Both indexes must
// cover the same segment set.
func FromIndexes(kmerIndex, nodeIndex *index.SequenceIndex, d int) (*Graph, error) {
	k, l := kmerIndex.Window(), nodeIndex.Window()
	if l < k {
		return nil, errors.InvalidConfig("node window must not be shorter than the k-mer window").
			WithDetail("l", l).
			WithDetail("k", k)
	}
	if d < 0 {
		return nil, errors.InvalidConfig("maximum distance must not be negative").WithDetail("d", d)
	}
	if kmerIndex.Segments() != nodeIndex.Segments() {
		return nil, errors.InvalidConfig("k-mer and node indexes cover different segment sets")
	}

	g := &Graph{
		segments:    nodeIndex.Segments(),
		kmerIndex:   kmerIndex,
		nodeIndex:   nodeIndex,
		nodes:       make([]Node, nodeIndex.Len()),
		window:      l,
		maxDistance: d,
	}

	for _, locus := range g.lociByCreationTime() {
		node, err := g.buildNode(locus)
		if err != nil {
			return nil, err
		}
		g.nodes[locus.CreationTime] = node
	}

	return g, nil
}

// lociByCreationTime flattens the node index into creation-time order
func (g *Graph) lociByCreationTime() []model.Locus {
	loci := make([]model.Locus, g.nodeIndex.Len())
	for h := 0; h < g.nodeIndex.Size(); h++ {
		for _, locus := range g.nodeIndex.Bucket(h) {
			loci[locus.CreationTime] = locus
		}
	}
	return loci
}

func (g *Graph) buildNode(locus model.Locus) (Node, error) {
	k := g.kmerIndex.Window()
	l := g.window
	node := Node{
		Locus:      locus,
		nearReads:  make([][]int, model.NumBases*l),
		distanceTo: make(map[int]int),
		window:     l,
	}

	lmer := g.segments.Window(locus.SegmentIndex, locus.Position, l)
	visited := make(map[model.Anchor]struct{})

	for offset := 0; offset+k <= l; offset++ {
		bucket, matches, ok := g.kmerIndex.Lookup(lmer[offset : offset+k])
		if !ok {
			return Node{}, errors.InternalInconsistency("k-mer window missing from index",
				locus.SegmentIndex, locus.Position+offset)
		}

		for _, m := range matches {
			hit := bucket[m]
			start := hit.Position - offset
			if !g.segments.Fits(hit.SegmentIndex, start, l) {
				continue
			}
			if hit.SegmentIndex == locus.SegmentIndex && start == locus.Position {
				continue
			}
			key := model.Anchor{SegmentIndex: hit.SegmentIndex, Offset: start}
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}

			other := g.segments.Window(hit.SegmentIndex, start, l)
			distance := HammingCapped(lmer, other, g.maxDistance)
			if distance > g.maxDistance {
				continue
			}

			neighbor, ok := g.nodeIndex.Resolve(hit.SegmentIndex, start)
			if !ok {
				return Node{}, errors.InternalInconsistency("neighbor window missing from node index",
					hit.SegmentIndex, start)
			}
			node.distanceTo[neighbor.CreationTime] = distance
			for _, diff := range Differences(lmer, other) {
				base, ok := model.BaseIndex(diff.Base)
				if !ok {
					continue
				}
				slot := base*l + diff.Position
				node.nearReads[slot] = append(node.nearReads[slot], neighbor.CreationTime)
			}
		}
	}

	return node, nil
}

// Complete reports whether window lengths l and k leave room for every
// d-substitution neighbor to share an aligned k-window with its node
func Complete(l, k, d int) bool {
	return l >= (d+1)*k
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Window returns the node window length l
func (g *Graph) Window() int {
	return g.window
}

// MaxDistance returns d
func (g *Graph) MaxDistance() int {
	return g.maxDistance
}

// Node returns the node with the given creation time
func (g *Graph) Node(creationTime int) (*Node, bool) {
	if creationTime < 0 || creationTime >= len(g.nodes) {
		return nil, false
	}
	return &g.nodes[creationTime], true
}

// WindowOf returns the text of the node with the given creation time
func (g *Graph) WindowOf(creationTime int) string {
	locus := g.nodes[creationTime].Locus
	return g.segments.Window(locus.SegmentIndex, locus.Position, g.window)
}

// KmerIndex returns the short-window index used for anchoring
func (g *Graph) KmerIndex() *index.SequenceIndex {
	return g.kmerIndex
}

// NodeIndex returns the l-window index
func (g *Graph) NodeIndex() *index.SequenceIndex {
	return g.nodeIndex
}

// Segments returns the shared segment set
func (g *Graph) Segments() *model.SegmentSet {
	return g.segments
}

// EdgeCount returns the number of directed neighbor entries
func (g *Graph) EdgeCount() int {
	edges := 0
	for i := range g.nodes {
		edges += g.nodes[i].Degree()
	}
	return edges
}

// Stats reports node and edge counts
func (g *Graph) Stats() Stats {
	stats := Stats{Nodes: len(g.nodes)}
	for i := range g.nodes {
		degree := g.nodes[i].Degree()
		stats.Edges += degree
		if degree == 0 {
			stats.Isolated++
		}
		if degree > stats.MaxDegree {
			stats.MaxDegree = degree
		}
	}
	return stats
}
