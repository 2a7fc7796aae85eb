// Package segment splits German verb forms into chains of separable prefixes.
//
// The prefix set is applied as a Kleene star: every way of repeatedly
// stripping a known prefix from the front of the form is enumerated, the
// implausible decompositions are filtered out and the remaining ones ranked.
package segment

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/automaton"
)

// ZuInfinitiveTag is the STTS tag of zu-infinitives (hinzubewegen).
const ZuInfinitiveTag = "VVIZU"

// minStemLen is the shortest remainder still accepted as a verb stem, in bytes.
const minStemLen = 3

// Candidate is one decomposition: the prefixes stripped so far and what is
// left of the form.
type Candidate struct {
	Stripped string
	Prefixes []string
}

// Star enumerates every decomposition of form into (prefix)* followed by a
// remainder, breadth first. The unstripped form is always the first
// candidate.
func Star(set *automaton.PrefixSet, form string) []Candidate {
	var result []Candidate
	queue := []Candidate{{Stripped: form}}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		result = append(result, c)

		it := set.Prefixes(c.Stripped)
		for p, ok := it.Next(); ok; p, ok = it.Next() {
			prefixes := make([]string, len(c.Prefixes), len(c.Prefixes)+1)
			copy(prefixes, c.Prefixes)
			queue = append(queue, Candidate{
				Stripped: c.Stripped[len(p):],
				Prefixes: append(prefixes, p),
			})
		}
	}
	return result
}

// LongestPrefixes returns the best prefix chain for a verb, or nil when the
// form has no acceptable decomposition. form and lemma must be lowercased.
//
// The remainder that consumes most of the form wins. Among equally long
// remainders the finer segmentation wins; a complete tie goes to the
// candidate enumerated last.
func LongestPrefixes(set *automaton.PrefixSet, form, lemma, tag string) []string {
	var best *Candidate
	candidates := Star(set, form)
	for i := range candidates {
		c := &candidates[i]
		if !acceptable(c, lemma, tag) {
			continue
		}
		if best == nil || rank(c, best) >= 0 {
			best = c
		}
	}
	if best == nil || len(best.Prefixes) == 0 {
		return nil
	}
	return best.Prefixes
}

func acceptable(c *Candidate, lemma, tag string) bool {
	if len(c.Prefixes) == 0 {
		return true
	}
	last := c.Prefixes[len(c.Prefixes)-1]

	// The infinitive particle must not be swallowed by a prefix (dazu in
	// hinzubewegen), unless another zu follows it.
	if tag == ZuInfinitiveTag && strings.HasSuffix(last, "zu") && !strings.HasPrefix(c.Stripped, "zu") {
		return false
	}

	// Stop before the stem: abgefangen/fangen is ab#fangen, not
	// ab#gefangen#fangen.
	for _, p := range c.Prefixes {
		if strings.HasPrefix(lemma, p) {
			return false
		}
	}
	if strings.HasSuffix(last, lemma) {
		return false
	}

	return len(c.Stripped) >= minStemLen
}

// rank compares a to b: positive if a is better, zero on a tie.
func rank(a, b *Candidate) int {
	if la, lb := len(a.Stripped), len(b.Stripped); la != lb {
		return lb - la
	}
	return len(a.Prefixes) - len(b.Prefixes)
}
