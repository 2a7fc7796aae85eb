package transform

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
)

// RemoveAlternatives keeps the first of several "|"-separated analyses.
// Punctuation, foreign words and non-words keep their lemma, since "|" may be
// their form.
type RemoveAlternatives struct{}

func (RemoveAlternatives) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	lemma := tok.Lemma()
	tag := tok.Tag()
	if strings.HasPrefix(tag, PunctuationPrefix) || tag == NonWordTag || tag == ForeignWordTag {
		return lemma
	}
	first, _, _ := strings.Cut(lemma, AltSeparator)
	return first
}

// RemoveAuxTag strips %aux from auxiliaries and modals (haben%aux → haben).
type RemoveAuxTag struct{}

func (RemoveAuxTag) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	if !isAuxOrModal(tok.Tag()) {
		return tok.Lemma()
	}
	return cutLast(tok.Lemma(), AuxiliaryMarker)
}

// RemovePassivTag strips %passiv from auxiliaries (werden%passiv → werden).
type RemovePassivTag struct{}

func (RemovePassivTag) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	if !strings.HasPrefix(tok.Tag(), AuxiliaryPrefix) {
		return tok.Lemma()
	}
	return cutLast(tok.Lemma(), PassiveMarker)
}

// RemoveReflexiveTag replaces the #refl placeholder with the form.
type RemoveReflexiveTag struct{}

func (RemoveReflexiveTag) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	if tok.Tag() == ReflexivePronounTag && tok.Lemma() == ReflexiveLemma {
		return strings.ToLower(tok.Form())
	}
	return tok.Lemma()
}

// RemoveSepVerbPrefix drops separable prefixes: ab#zeichnen → zeichnen.
type RemoveSepVerbPrefix struct{}

func (RemoveSepVerbPrefix) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	lemma := tok.Lemma()
	if !isVerb(tok.Tag()) {
		return lemma
	}
	if idx := strings.LastIndex(lemma, PrefixSeparator); idx >= 0 {
		return lemma[idx+len(PrefixSeparator):]
	}
	return lemma
}

// RemoveTruncMarker replaces truncation lemmas such as Bauplanung%n (for
// Bau- in "Bau- und Verkehrsplanungen") with the form. The form keeps its
// case only for nouns.
type RemoveTruncMarker struct{}

func (RemoveTruncMarker) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	lemma := tok.Lemma()
	if tok.Tag() != TruncatedTag {
		return lemma
	}
	idx := strings.LastIndex(lemma, TruncSeparator)
	if idx < 0 {
		return lemma
	}
	if lemma[idx+len(TruncSeparator):] == "n" {
		return tok.Form()
	}
	return strings.ToLower(tok.Form())
}

func cutLast(s, marker string) string {
	if idx := strings.LastIndex(s, marker); idx >= 0 {
		return s[:idx]
	}
	return s
}
