package transform

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/automaton"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
)

// SimplifyArticleLemma reduces articles and relative pronouns to d
// (definite) or e (indefinite): den → d, dessen → d, einem → e.
type SimplifyArticleLemma struct{}

func (SimplifyArticleLemma) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	switch tok.Tag() {
	case ArticleTag, SubstRelPronounTag, AttrRelPronounTag:
		form := strings.ToLower(tok.Form())
		switch {
		case strings.HasPrefix(form, "d"):
			return "d"
		case strings.HasPrefix(form, "e"):
			return "e"
		}
	}
	return tok.Lemma()
}

// SimplifyPossessivePronounLemma removes inflection from possessives:
// deinen → dein, eurem → euer.
type SimplifyPossessivePronounLemma struct {
	Tables *Tables
}

func (t SimplifyPossessivePronounLemma) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)

	var stems *automaton.PrefixSet
	switch tok.Tag() {
	case AttrPossPronounTag:
		stems = t.Tables.AttrPossessiveStems
	case SubstPossPronounTag:
		stems = t.Tables.SubstPossessiveStems
	default:
		return tok.Lemma()
	}

	stem, ok := stems.Prefixes(strings.ToLower(tok.Form())).Next()
	if !ok {
		return tok.Lemma()
	}
	if stem == "eure" {
		return "euer"
	}
	return stem
}

// SimplifyPersonalPronounLemma maps inflected personal pronouns to their
// nominative: mir → ich, uns → wir.
type SimplifyPersonalPronounLemma struct {
	Tables *Tables
}

func (t SimplifyPersonalPronounLemma) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	if tok.Tag() != PersonalPronounTag {
		return tok.Lemma()
	}
	if canonical, ok := t.Tables.PersonalPronouns[strings.ToLower(tok.Form())]; ok {
		return canonical
	}
	return tok.Lemma()
}
