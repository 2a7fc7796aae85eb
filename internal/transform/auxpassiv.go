package transform

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
)

type verbLemmaTag int

const (
	noVerbLemmaTag verbLemmaTag = iota
	auxiliaryTag
	passiveTag
)

func (v verbLemmaTag) marker() string {
	switch v {
	case auxiliaryTag:
		return AuxiliaryMarker
	case passiveTag:
		return PassiveMarker
	}
	return ""
}

// verbLemmaTagOf decides from the AUX dependent of n whether n is a passive or
// an auxiliary. Markers already on the lemma are ignored, so an ancestor
// rewritten earlier in the same pass gets the same verdict.
func verbLemmaTagOf(g *graph.DependencyGraph, n graph.NodeIndex) verbLemmaTag {
	e, ok := g.FindEdge(n, graph.Outgoing, graph.HasRelation(AuxiliaryRelation))
	if !ok {
		return noVerbLemmaTag
	}
	if stripVerbMarkers(g.Token(n).Lemma()) == PassiveLemma && g.Token(e.Dependent).Tag() == ParticipleTag {
		return passiveTag
	}
	return auxiliaryTag
}

func stripVerbMarkers(lemma string) string {
	lemma = strings.TrimSuffix(lemma, AuxiliaryMarker)
	return strings.TrimSuffix(lemma, PassiveMarker)
}

// AddAuxPassivTag appends %aux or %passiv to auxiliaries and modals.
//
// A verb with an AUX dependent is marked directly: werden with a participle
// is passive, everything else auxiliary. A verb without dependents of its own
// that is the second conjunct of a coordination (CJ then KON upwards) takes
// the verdict of the first conjunct. Finally a verb attached as ADV to an
// infinitive or participle is an auxiliary.
type AddAuxPassivTag struct{}

func (AddAuxPassivTag) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	lemma := tok.Lemma()
	if !isAuxOrModal(tok.Tag()) {
		return lemma
	}

	if v := verbLemmaTagOf(g, n); v != noVerbLemmaTag {
		return lemma + v.marker()
	}

	if !hasContentDependents(g, n) {
		if first, ok := g.AncestorPath(n, ConjComplementRelation, CoordinationRelation); ok {
			if v := verbLemmaTagOf(g, first); v != noVerbLemmaTag {
				return lemma + v.marker()
			}
		}
	}

	for _, e := range g.Edges(n, graph.Incoming) {
		if e.Relation == AdverbialRelation && infinitiveOrParticipleTags[g.Token(e.Head).Tag()] {
			return lemma + AuxiliaryMarker
		}
	}

	return lemma
}

func hasContentDependents(g *graph.DependencyGraph, n graph.NodeIndex) bool {
	_, ok := g.FindEdge(n, graph.Outgoing, func(e graph.Edge) bool {
		return !isPunctuation(g, e)
	})
	return ok
}

func isPunctuation(g *graph.DependencyGraph, e graph.Edge) bool {
	return e.Relation == PunctuationRelation || strings.HasPrefix(g.Token(e.Dependent).Tag(), PunctuationPrefix)
}
