package transform

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/automaton"
)

// Tables is the fixed lexical data the rules consult. It is built once and
// shared read-only between goroutines.
type Tables struct {
	// LemmaIsForm lists tags whose lemma is the lowercased form.
	LemmaIsForm map[string]bool
	// LemmaIsFormPreserveCase lists tags whose lemma is the form as is.
	LemmaIsFormPreserveCase map[string]bool
	// NoLemma lists tags no rule touches.
	NoLemma map[string]bool

	AttrPossessiveStems  *automaton.PrefixSet
	SubstPossessiveStems *automaton.PrefixSet

	// PersonalPronouns maps a lowercased inflected form to its canonical
	// pronoun.
	PersonalPronouns map[string]string
}

type pronounForms struct {
	canonical string
	forms     []string
}

// Inverted in order, so a form listed twice maps to the later pronoun:
// ihr resolves to sie.
var personalPronouns = []pronounForms{
	{"ich", []string{"ich", "mich", "mir", "meiner"}},
	{"du", []string{"du", "dich", "dir", "deiner"}},
	{"er", []string{"er", "ihn", "ihm", "seiner"}},
	{"es", []string{"es"}},
	{"wir", []string{"wir", "uns", "unser"}},
	{"ihr", []string{"ihr", "euch", "euer"}},
	{"sie", []string{"sie", "ihr", "ihnen", "ihrer"}},
}

// NewTables returns the TüBa-D/Z tables.
func NewTables() *Tables {
	pronouns := make(map[string]string)
	for _, p := range personalPronouns {
		for _, f := range p.forms {
			pronouns[f] = p.canonical
		}
	}

	return &Tables{
		LemmaIsForm: map[string]bool{
			"$,":   true,
			"$.":   true,
			"$(":   true,
			"CARD": true,
			"XY":   true,
		},
		LemmaIsFormPreserveCase: map[string]bool{
			ForeignWordTag: true,
		},
		NoLemma: map[string]bool{},

		AttrPossessiveStems: automaton.MustPrefixSet(
			"dein", "euer", "eure", "ihr", "mein", "sein", "unser"),
		SubstPossessiveStems: automaton.MustPrefixSet(
			"dein", "ihr", "mein", "sein", "unser", "unsrig"),

		PersonalPronouns: pronouns,
	}
}

// Exempt reports whether tokens with this tag bypass the rule pipelines.
// Case-preserving form tags are not exempt: their lemma may still carry
// alternatives.
func (t *Tables) Exempt(tag string) bool {
	return t.LemmaIsForm[tag] || t.NoLemma[tag]
}

// FormLemma returns the lemma of a form-as-lemma tag.
func (t *Tables) FormLemma(form, tag string) (string, bool) {
	switch {
	case t.LemmaIsForm[tag]:
		return strings.ToLower(form), true
	case t.LemmaIsFormPreserveCase[tag]:
		return form, true
	}
	return "", false
}
