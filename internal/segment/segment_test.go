package segment

import (
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/automaton"
)

func prefixSet(t *testing.T, words ...string) *automaton.PrefixSet {
	t.Helper()
	s, err := automaton.NewPrefixSet(words)
	if err != nil {
		t.Fatalf("NewPrefixSet: %v", err)
	}
	return s
}

var separable = []string{
	"ab", "an", "auf", "aus", "da", "dazu", "ein", "gut", "her", "hin",
	"hinzu", "mit", "nach", "vor", "weg", "wieder", "zu", "zurück",
}

func TestStarEnumeratesAllChains(t *testing.T) {
	set := prefixSet(t, "da", "dazu", "zu")
	got := Star(set, "dazugefügt")
	want := []Candidate{
		{Stripped: "dazugefügt"},
		{Stripped: "zugefügt", Prefixes: []string{"da"}},
		{Stripped: "gefügt", Prefixes: []string{"dazu"}},
		{Stripped: "gefügt", Prefixes: []string{"da", "zu"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Star() =\n%v\nwant\n%v", got, want)
	}
}

func TestLongestPrefixes(t *testing.T) {
	set := prefixSet(t, separable...)
	tests := []struct {
		name  string
		form  string
		lemma string
		tag   string
		want  []string
	}{
		{"single prefix", "abhing", "hängen", "VVFIN", []string{"ab"}},
		{"prefix chain", "wiedergutgemacht", "machen", "VVPP", []string{"wieder", "gut"}},
		{"zu-infinitive keeps zu out", "hinzubewegen", "bewegen", "VVIZU", []string{"hin"}},
		{"participle", "abgefangen", "fangen", "VVPP", []string{"ab"}},
		{"finer segmentation on tie", "dazugefügt", "fügen", "VVPP", []string{"da", "zu"}},
		{"lemma already carries prefix", "anfangen", "anfangen", "VVINF", nil},
		{"no prefix", "machte", "machen", "VVFIN", nil},
		{"stem too short", "abtu", "tun", "VVIMP", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LongestPrefixes(set, tt.form, tt.lemma, tt.tag)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LongestPrefixes(%q, %q, %q) = %v, want %v", tt.form, tt.lemma, tt.tag, got, tt.want)
			}
		})
	}
}

func TestZuInfinitiveWithSecondZu(t *testing.T) {
	// In hinzuzufügen the infinitive zu follows hinzu, so a prefix ending
	// in zu is allowed there.
	set := prefixSet(t, separable...)
	got := LongestPrefixes(set, "hinzuzufügen", "fügen", "VVIZU")
	if !reflect.DeepEqual(got, []string{"hin", "zu"}) {
		t.Errorf("LongestPrefixes(hinzuzufügen) = %v, want [hin zu]", got)
	}
}

func TestPrefixEndingInLemmaRejected(t *testing.T) {
	set := prefixSet(t, "ab", "abfang")
	got := LongestPrefixes(set, "abfangenlassen", "fang", "VVINF")
	if !reflect.DeepEqual(got, []string{"ab"}) {
		t.Errorf("LongestPrefixes() = %v, want [ab]", got)
	}
}

func TestFullTieGoesToLastCandidate(t *testing.T) {
	set := prefixSet(t, "a", "ab", "abc", "bc", "c")
	// [a bc] and [ab c] both leave "def" with two prefixes; [ab c] is
	// enumerated later.
	got := LongestPrefixes(set, "abcdef", "xyz", "VVFIN")
	if !reflect.DeepEqual(got, []string{"ab", "c"}) {
		t.Errorf("LongestPrefixes() = %v, want [ab c]", got)
	}
}

func TestDeterministic(t *testing.T) {
	set := prefixSet(t, separable...)
	first := LongestPrefixes(set, "wiedergutgemacht", "machen", "VVPP")
	for i := 0; i < 50; i++ {
		if got := LongestPrefixes(set, "wiedergutgemacht", "machen", "VVPP"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v, first run %v", i, got, first)
		}
	}
}
