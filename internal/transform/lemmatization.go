package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/automaton"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/segment"
)

// AddSeparatedVerbPrefix rejoins a separated particle with its verb, so that
// zeichnen in "Die Änderungen zeichnen sich ab" becomes ab#zeichnen.
//
// With MultiplePrefixes every particle attached to the verb yields one
// reading and the readings are joined with "|" (nimmt eher zu als ab:
// zu#nehmen|ab#nehmen). Otherwise only the first particle is used.
type AddSeparatedVerbPrefix struct {
	MultiplePrefixes bool
}

func (t AddSeparatedVerbPrefix) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	lemma := tok.Lemma()
	if !isSeparableVerb(tok.Tag()) {
		return lemma
	}

	particles := g.EdgesFunc(n, graph.Outgoing, func(e graph.Edge) bool {
		return g.Token(e.Dependent).Tag() == SeparableParticleTag
	})
	if len(particles) == 0 {
		return lemma
	}

	if !t.MultiplePrefixes {
		return strings.ToLower(g.Token(particles[0].Dependent).Form()) + PrefixSeparator + lemma
	}

	readings := make([]string, len(particles))
	for i, e := range particles {
		readings[i] = strings.ToLower(g.Token(e.Dependent).Form()) + PrefixSeparator + lemma
	}
	return strings.Join(readings, AltSeparator)
}

// FormAsLemma sets the lemma of form-as-lemma tags from the form.
type FormAsLemma struct {
	Tables *Tables
}

func (t FormAsLemma) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	if lemma, ok := t.Tables.FormLemma(tok.Form(), tok.Tag()); ok {
		return lemma
	}
	return tok.Lemma()
}

// MarkVerbPrefix marks prefixes that are still attached to the verb form:
//
//	abhing/hängen             ab#hängen
//	wiedergutgemacht/machen   wieder#gut#machen
//	hinzubewegen/bewegen      hin#bewegen
//
// PrefixVerbs is consulted first, for lemmas where the lemmatizer kept the
// prefix (abbestellen → ab#bestellen). Otherwise the prefixes are recovered
// from the form.
type MarkVerbPrefix struct {
	PrefixVerbs map[string]string
	Prefixes    *automaton.PrefixSet
}

func (t MarkVerbPrefix) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	lemma := tok.Lemma()
	if !isVerb(tok.Tag()) {
		return lemma
	}

	lemmaLower := strings.ToLower(lemma)
	if segmented, ok := t.PrefixVerbs[lemmaLower]; ok {
		return segmented
	}

	prefixes := segment.LongestPrefixes(t.Prefixes, strings.ToLower(tok.Form()), lemmaLower, tok.Tag())
	if len(prefixes) == 0 {
		return lemma
	}
	return strings.Join(prefixes, PrefixSeparator) + PrefixSeparator + lemmaLower
}

// RestoreCase capitalizes noun lemmas and copies the casing of named
// entities from their form.
type RestoreCase struct{}

func (RestoreCase) Transform(g *graph.DependencyGraph, n graph.NodeIndex) string {
	tok := g.Token(n)
	switch tok.Tag() {
	case NounTag:
		return UppercaseFirstChar(tok.Lemma())
	case NamedEntityTag:
		return restoreNamedEntityCase(tok.Form(), tok.Lemma())
	}
	return tok.Lemma()
}

// UppercaseFirstChar upper-cases the first code point of s. The result can be
// longer than s, e.g. for ß.
func UppercaseFirstChar(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return cases.Upper(language.German).String(string(r)) + s[size:]
}

// restoreNamedEntityCase copies the casing of form onto lemma for as long as
// the two agree ignoring case: Müllers/müller gives Müller, USA/usa gives USA.
// The rest of the lemma is left as is.
func restoreNamedEntityCase(form, lemma string) string {
	formRunes := []rune(form)
	lemmaRunes := []rune(lemma)
	for i := 0; i < len(lemmaRunes) && i < len(formRunes); i++ {
		if unicode.ToLower(formRunes[i]) != unicode.ToLower(lemmaRunes[i]) {
			break
		}
		lemmaRunes[i] = formRunes[i]
	}
	return string(lemmaRunes)
}
