// Package graph provides the per-sentence dependency graph that lemma rules
// read from. Nodes are tokens in sentence order; edges run from a head to its
// dependent and carry the dependency relation.
//
// Every node has at most one incoming edge. AddEdge enforces this, and
// AncestorPath depends on it.
package graph

import (
	"errors"
	"fmt"
)

var (
	ErrMultipleHeads  = errors.New("node already has a head")
	ErrNodeOutOfRange = errors.New("node index out of range")
)

// Token is the read-only view rules get of a node.
type Token interface {
	Form() string
	Lemma() string
	Tag() string
}

// MutableToken is a Token whose lemma can be replaced.
type MutableToken interface {
	Token
	SetLemma(lemma string)
}

// NodeIndex identifies a node by its position in the sentence (0-based).
type NodeIndex int

// Direction selects incoming or outgoing edges of a node.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

// Edge is a labelled head → dependent arc.
type Edge struct {
	Head      NodeIndex
	Dependent NodeIndex
	Relation  string
}

// DependencyGraph holds one sentence. It is not safe for concurrent mutation.
type DependencyGraph struct {
	nodes    []MutableToken
	edges    []Edge
	outgoing [][]int
	incoming [][]int
}

// New returns an empty graph with room for capacity nodes.
func New(capacity int) *DependencyGraph {
	return &DependencyGraph{
		nodes:    make([]MutableToken, 0, capacity),
		outgoing: make([][]int, 0, capacity),
		incoming: make([][]int, 0, capacity),
	}
}

// AddNode appends a token and returns its index.
func (g *DependencyGraph) AddNode(t MutableToken) NodeIndex {
	g.nodes = append(g.nodes, t)
	g.outgoing = append(g.outgoing, nil)
	g.incoming = append(g.incoming, nil)
	return NodeIndex(len(g.nodes) - 1)
}

// AddEdge attaches dep to head with the given relation.
func (g *DependencyGraph) AddEdge(head, dep NodeIndex, rel string) error {
	if !g.valid(head) {
		return fmt.Errorf("head %d: %w", head, ErrNodeOutOfRange)
	}
	if !g.valid(dep) {
		return fmt.Errorf("dependent %d: %w", dep, ErrNodeOutOfRange)
	}
	if len(g.incoming[dep]) > 0 {
		return fmt.Errorf("dependent %d: %w", dep, ErrMultipleHeads)
	}
	g.edges = append(g.edges, Edge{Head: head, Dependent: dep, Relation: rel})
	idx := len(g.edges) - 1
	g.outgoing[head] = append(g.outgoing[head], idx)
	g.incoming[dep] = append(g.incoming[dep], idx)
	return nil
}

func (g *DependencyGraph) valid(n NodeIndex) bool {
	return n >= 0 && int(n) < len(g.nodes)
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}

// Nodes returns all node indices in insertion order.
func (g *DependencyGraph) Nodes() []NodeIndex {
	out := make([]NodeIndex, len(g.nodes))
	for i := range out {
		out[i] = NodeIndex(i)
	}
	return out
}

// Token returns the token at n.
func (g *DependencyGraph) Token(n NodeIndex) Token {
	return g.nodes[n]
}

// SetLemma replaces the lemma of the token at n.
func (g *DependencyGraph) SetLemma(n NodeIndex, lemma string) {
	g.nodes[n].SetLemma(lemma)
}

// Edges returns the edges of n in the given direction, in insertion order.
func (g *DependencyGraph) Edges(n NodeIndex, dir Direction) []Edge {
	return g.EdgesFunc(n, dir, nil)
}

// EdgesFunc returns the edges of n in the given direction for which pred
// holds. A nil pred matches every edge.
func (g *DependencyGraph) EdgesFunc(n NodeIndex, dir Direction, pred func(Edge) bool) []Edge {
	var out []Edge
	for _, idx := range g.adjacency(n, dir) {
		e := g.edges[idx]
		if pred == nil || pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// FindEdge returns the first edge of n in the given direction for which pred
// holds.
func (g *DependencyGraph) FindEdge(n NodeIndex, dir Direction, pred func(Edge) bool) (Edge, bool) {
	for _, idx := range g.adjacency(n, dir) {
		e := g.edges[idx]
		if pred == nil || pred(e) {
			return e, true
		}
	}
	return Edge{}, false
}

// Head returns the head of n, if n is not a root.
func (g *DependencyGraph) Head(n NodeIndex) (Edge, bool) {
	return g.FindEdge(n, Incoming, nil)
}

func (g *DependencyGraph) adjacency(n NodeIndex, dir Direction) []int {
	if dir == Incoming {
		return g.incoming[n]
	}
	return g.outgoing[n]
}

// Neighbor returns the node at the far end of e when e was reached walking in
// direction dir: the dependent for outgoing edges, the head for incoming ones.
func Neighbor(e Edge, dir Direction) NodeIndex {
	if dir == Incoming {
		return e.Head
	}
	return e.Dependent
}

// HasRelation returns an edge predicate matching one relation label.
func HasRelation(rel string) func(Edge) bool {
	return func(e Edge) bool {
		return e.Relation == rel
	}
}

// AncestorPath walks upwards from n, following for each relation in path the
// incoming edge with that label. It reports false as soon as a step has no
// such edge.
//
// Single-headedness is assumed: each step follows the one incoming edge.
func (g *DependencyGraph) AncestorPath(n NodeIndex, path ...string) (NodeIndex, bool) {
	for _, rel := range path {
		e, ok := g.FindEdge(n, Incoming, HasRelation(rel))
		if !ok {
			return 0, false
		}
		n = e.Head
	}
	return n, true
}
