package transform

import (
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/automaton"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
)

func TestRuleFiles(t *testing.T) {
	tables := NewTables()
	prefixes, err := automaton.NewPrefixSet(readPrefixFile(t, "testdata/separable-prefixes.txt"))
	if err != nil {
		t.Fatalf("NewPrefixSet: %v", err)
	}

	tests := []struct {
		file string
		rule Transform
	}{
		{"add-aux-passiv-tag.test", AddAuxPassivTag{}},
		{"add-separated-verb-prefix.test", AddSeparatedVerbPrefix{MultiplePrefixes: true}},
		{"form-as-lemma.test", FormAsLemma{Tables: tables}},
		{"mark-verb-prefix.test", MarkVerbPrefix{
			PrefixVerbs: map[string]string{"abbestellen": "ab#bestellen"},
			Prefixes:    prefixes,
		}},
		{"restore-case.test", RestoreCase{}},
		{"remove-alternatives.test", RemoveAlternatives{}},
		{"remove-aux-tag.test", RemoveAuxTag{}},
		{"remove-passive-tag.test", RemovePassivTag{}},
		{"remove-reflexive-tag.test", RemoveReflexiveTag{}},
		{"remove-sep-verb-prefix.test", RemoveSepVerbPrefix{}},
		{"remove-trunc-marker.test", RemoveTruncMarker{}},
		{"simplify-article-lemma.test", SimplifyArticleLemma{}},
		{"simplify-possessive-pronoun-lemma.test", SimplifyPossessivePronounLemma{Tables: tables}},
		{"simplify-personal-pronoun-lemma.test", SimplifyPersonalPronounLemma{Tables: tables}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			runTestCases(t, "testdata/"+tt.file, tt.rule)
		})
	}
}

func TestUppercaseFirstChar(t *testing.T) {
	tests := map[string]string{
		"test":  "Test",
		"Test":  "Test",
		"":      "",
		"ärger": "Ärger",
		"ßa":    "SSa",
	}
	for in, want := range tests {
		if got := UppercaseFirstChar(in); got != want {
			t.Errorf("UppercaseFirstChar(%q) = %q, want %q", in, got, want)
		}
	}
}

func single(form, lemma, tag string) (*graph.DependencyGraph, graph.NodeIndex) {
	g := graph.New(1)
	return g, g.AddNode(&testToken{form, lemma, tag})
}

func TestLiteralScenarios(t *testing.T) {
	tests := []struct {
		name             string
		rule             Transform
		form, lemma, tag string
		want             string
	}{
		{"aux marker", RemoveAuxTag{}, "hat", "haben%aux", "VAFIN", "haben"},
		{"passive marker", RemovePassivTag{}, "wurde", "werden%passiv", "VAFIN", "werden"},
		{"definite article", SimplifyArticleLemma{}, "dessen", "der", "ART", "d"},
		{"indefinite article", SimplifyArticleLemma{}, "einem", "ein", "ART", "e"},
		{"noun truncation", RemoveTruncMarker{}, "Bau-", "Bauplanung%n", "TRUNC", "Bau-"},
		{"other truncation", RemoveTruncMarker{}, "Bau-", "Bauplanung%adj", "TRUNC", "bau-"},
	}
	for _, tt := range tests {
		g, n := single(tt.form, tt.lemma, tt.tag)
		if got := tt.rule.Transform(g, n); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

// "Die Änderungen zeichnen sich ab"
func particleGraph() (*graph.DependencyGraph, graph.NodeIndex) {
	g := graph.New(5)
	die := g.AddNode(&testToken{"Die", "die", "ART"})
	aend := g.AddNode(&testToken{"Änderungen", "änderung", "NN"})
	verb := g.AddNode(&testToken{"zeichnen", "zeichnen", "VVFIN"})
	sich := g.AddNode(&testToken{"sich", "#refl", "PRF"})
	ab := g.AddNode(&testToken{"ab", "ab", "PTKVZ"})
	_ = g.AddEdge(aend, die, "DET")
	_ = g.AddEdge(verb, aend, "SUBJ")
	_ = g.AddEdge(verb, sich, "OBJA")
	_ = g.AddEdge(verb, ab, "AVZ")
	return g, verb
}

func TestSeparatedPrefixRoundTrip(t *testing.T) {
	for _, multiple := range []bool{true, false} {
		g, verb := particleGraph()
		added := AddSeparatedVerbPrefix{MultiplePrefixes: multiple}.Transform(g, verb)
		if added != "ab#zeichnen" {
			t.Fatalf("multiple=%v: added = %q, want ab#zeichnen", multiple, added)
		}
		g.SetLemma(verb, added)
		if got := (RemoveSepVerbPrefix{}).Transform(g, verb); got != "zeichnen" {
			t.Errorf("multiple=%v: removed = %q, want zeichnen", multiple, got)
		}
	}
}

func TestRemoveAlternativesIdempotent(t *testing.T) {
	for _, lemma := range []string{"a|b|c", "zu#nehmen|ab#nehmen", "plain", "", "|x"} {
		g, n := single("form", lemma, "VVFIN")
		once := RemoveAlternatives{}.Transform(g, n)
		g.SetLemma(n, once)
		if twice := (RemoveAlternatives{}).Transform(g, n); twice != once {
			t.Errorf("%q: once %q, twice %q", lemma, once, twice)
		}
	}
}

// "Das Haus wurde und wird gebaut ."
func coordinationGraph(t *testing.T, extra func(g *graph.DependencyGraph, wird graph.NodeIndex)) (*graph.DependencyGraph, graph.NodeIndex, graph.NodeIndex) {
	t.Helper()
	g := graph.New(5)
	wurde := g.AddNode(&testToken{"wurde", "werden", "VAFIN"})
	gebaut := g.AddNode(&testToken{"gebaut", "bauen", "VVPP"})
	und := g.AddNode(&testToken{"und", "und", "KON"})
	wird := g.AddNode(&testToken{"wird", "werden", "VAFIN"})
	for _, e := range []graph.Edge{
		{Head: wurde, Dependent: gebaut, Relation: "AUX"},
		{Head: wurde, Dependent: und, Relation: "KON"},
		{Head: und, Dependent: wird, Relation: "CJ"},
	} {
		if err := g.AddEdge(e.Head, e.Dependent, e.Relation); err != nil {
			t.Fatal(err)
		}
	}
	if extra != nil {
		extra(g, wird)
	}
	return g, wurde, wird
}

func TestAuxPassivThroughCoordination(t *testing.T) {
	g, wurde, wird := coordinationGraph(t, nil)
	Transforms{Rules: []Transform{AddAuxPassivTag{}}}.Apply(g)
	if got := g.Token(wurde).Lemma(); got != "werden%passiv" {
		t.Errorf("first conjunct = %q", got)
	}
	if got := g.Token(wird).Lemma(); got != "werden%passiv" {
		t.Errorf("second conjunct = %q, want werden%%passiv", got)
	}
}

func TestAuxPassivIgnoresPunctuationDependents(t *testing.T) {
	g, _, wird := coordinationGraph(t, func(g *graph.DependencyGraph, wird graph.NodeIndex) {
		p := g.AddNode(&testToken{".", ".", "$."})
		_ = g.AddEdge(wird, p, "-PUNCT-")
	})
	if got := (AddAuxPassivTag{}).Transform(g, wird); got != "werden%passiv" {
		t.Errorf("got %q, want werden%%passiv", got)
	}
}

func TestAuxPassivConjunctWithOwnDependents(t *testing.T) {
	g, _, wird := coordinationGraph(t, func(g *graph.DependencyGraph, wird graph.NodeIndex) {
		adv := g.AddNode(&testToken{"bald", "bald", "ADV"})
		_ = g.AddEdge(wird, adv, "ADV")
	})
	if got := (AddAuxPassivTag{}).Transform(g, wird); got != "werden" {
		t.Errorf("got %q, want werden", got)
	}
}

func TestTransformsFullPassPerRule(t *testing.T) {
	g := graph.New(3)
	for _, l := range []string{"a", "b", "c"} {
		g.AddNode(&testToken{l, l, "X"})
	}
	mark := Func(func(g *graph.DependencyGraph, n graph.NodeIndex) string {
		return g.Token(n).Lemma() + "1"
	})
	// Reads the next node, which the previous rule has already finished.
	readNext := Func(func(g *graph.DependencyGraph, n graph.NodeIndex) string {
		if int(n)+1 < g.Len() {
			return g.Token(n+1).Lemma()
		}
		return g.Token(n).Lemma()
	})
	Transforms{Rules: []Transform{mark, readNext}}.Apply(g)

	var got []string
	for _, n := range g.Nodes() {
		got = append(got, g.Token(n).Lemma())
	}
	if want := []string{"b1", "c1", "c1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("lemmas = %v, want %v", got, want)
	}
}

func TestTransformsWritesBackImmediately(t *testing.T) {
	g := graph.New(3)
	for _, l := range []string{"a", "b", "c"} {
		g.AddNode(&testToken{l, l, "X"})
	}
	readPrev := Func(func(g *graph.DependencyGraph, n graph.NodeIndex) string {
		if n == 0 {
			return g.Token(n).Lemma()
		}
		return g.Token(n-1).Lemma() + g.Token(n).Lemma()
	})
	Transforms{Rules: []Transform{readPrev}}.Apply(g)
	if got := g.Token(2).Lemma(); got != "abc" {
		t.Errorf("last lemma = %q, want abc", got)
	}
}

func TestTransformsSkipAndObserver(t *testing.T) {
	g := graph.New(3)
	g.AddNode(&testToken{"hat", "haben%aux", "VAFIN"})
	g.AddNode(&testToken{"kann", "können", "VMFIN"})
	g.AddNode(&testToken{"%aux", "%aux", "XY"})

	type change struct {
		rule          string
		node          graph.NodeIndex
		before, after string
	}
	var changes []change
	tables := NewTables()
	Transforms{
		Rules: []Transform{RemoveAuxTag{}},
		Skip:  tables.Exempt,
		Observer: func(rule string, n graph.NodeIndex, before, after string) {
			changes = append(changes, change{rule, n, before, after})
		},
	}.Apply(g)

	want := []change{{"RemoveAuxTag", 0, "haben%aux", "haben"}}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("changes = %v, want %v", changes, want)
	}
	if got := g.Token(2).Lemma(); got != "%aux" {
		t.Errorf("exempt token lemma = %q", got)
	}
}

func TestName(t *testing.T) {
	if got := Name(RemoveAuxTag{}); got != "RemoveAuxTag" {
		t.Errorf("Name(RemoveAuxTag{}) = %q", got)
	}
	if got := Name(&MarkVerbPrefix{}); got != "MarkVerbPrefix" {
		t.Errorf("Name(&MarkVerbPrefix{}) = %q", got)
	}
}

func TestPersonalPronounTable(t *testing.T) {
	tables := NewTables()
	for form, want := range map[string]string{"ihr": "sie", "ihnen": "sie", "euch": "ihr", "unser": "wir"} {
		if got := tables.PersonalPronouns[form]; got != want {
			t.Errorf("PersonalPronouns[%q] = %q, want %q", form, got, want)
		}
	}
}
