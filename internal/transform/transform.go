// Package transform implements the lemma rules that map between plain lemmas
// and TüBa-D/Z lemmas, and the engine that applies an ordered list of them to
// a sentence graph.
package transform

import (
	"reflect"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
)

// Transform computes the new lemma of node n. Implementations read the graph
// but never modify it; every rule returns the current lemma for tokens it
// does not apply to.
type Transform interface {
	Transform(g *graph.DependencyGraph, n graph.NodeIndex) string
}

// Func adapts a plain function to Transform.
type Func func(g *graph.DependencyGraph, n graph.NodeIndex) string

func (f Func) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	return f(g, n)
}

// Observer is notified of every lemma a rule changed.
type Observer func(rule string, n graph.NodeIndex, before, after string)

// Transforms is an ordered rule pipeline.
type Transforms struct {
	Rules []Transform
	// Skip, if set, exempts tokens by tag from every rule.
	Skip     func(tag string) bool
	Observer Observer
}

// Apply runs every rule over the whole sentence before the next rule starts.
// Within a pass nodes are visited in sentence order and each new lemma is
// written back immediately.
func (ts Transforms) Apply(g *graph.DependencyGraph) {
	nodes := g.Nodes()
	for _, rule := range ts.Rules {
		var name string
		if ts.Observer != nil {
			name = Name(rule)
		}
		for _, n := range nodes {
			tok := g.Token(n)
			if ts.Skip != nil && ts.Skip(tok.Tag()) {
				continue
			}
			before := tok.Lemma()
			after := rule.Transform(g, n)
			g.SetLemma(n, after)
			if ts.Observer != nil && after != before {
				ts.Observer(name, n, before, after)
			}
		}
	}
}

// Name returns the type name of a rule, e.g. "RemoveAuxTag".
func Name(t Transform) string {
	typ := reflect.TypeOf(t)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Name()
}
