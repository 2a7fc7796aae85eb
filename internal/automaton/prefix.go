// Package automaton wraps a string set in a minimal finite-state acceptor and
// answers "which members of the set are prefixes of this word" queries.
//
// The acceptor is a vellum FST. Lookups walk it one byte at a time from the
// start state, so a query costs O(len(word)) regardless of set size.
package automaton

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/blevesearch/vellum"
)

var ErrInvalidPrefix = errors.New("prefix is not valid UTF-8")

// PrefixSet is an immutable set of strings. It is safe for concurrent use.
type PrefixSet struct {
	fst *vellum.FST
	n   int
}

// NewPrefixSet builds a set from words. Order and duplicates do not matter;
// empty strings are dropped.
func NewPrefixSet(words []string) (*PrefixSet, error) {
	keys := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if !utf8.ValidString(w) {
			return nil, fmt.Errorf("%q: %w", w, ErrInvalidPrefix)
		}
		keys = append(keys, w)
	}
	sort.Strings(keys)
	keys = dedupe(keys)

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, fmt.Errorf("creating fst builder: %w", err)
	}
	for _, k := range keys {
		if err := builder.Insert([]byte(k), 0); err != nil {
			return nil, fmt.Errorf("inserting %q: %w", k, err)
		}
	}
	if err := builder.Close(); err != nil {
		return nil, fmt.Errorf("finishing fst: %w", err)
	}
	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("loading fst: %w", err)
	}
	return &PrefixSet{fst: fst, n: len(keys)}, nil
}

// MustPrefixSet is NewPrefixSet for fixed tables known at compile time.
func MustPrefixSet(words ...string) *PrefixSet {
	s, err := NewPrefixSet(words)
	if err != nil {
		panic(err)
	}
	return s
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i > 0 && s == sorted[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Len returns the number of members.
func (s *PrefixSet) Len() int {
	return s.n
}

// Contains reports whether word is a member.
func (s *PrefixSet) Contains(word string) bool {
	if s.n == 0 {
		return false
	}
	ok, err := s.fst.Contains([]byte(word))
	return err == nil && ok
}

// Prefixes returns an iterator over the members that are prefixes of word,
// shortest first.
func (s *PrefixSet) Prefixes(word string) *PrefixIter {
	it := &PrefixIter{set: s, word: word}
	if s.n == 0 {
		it.done = true
		return it
	}
	it.addr = s.fst.Start()
	return it
}

// All collects Prefixes(word).
func (s *PrefixSet) All(word string) []string {
	var out []string
	it := s.Prefixes(word)
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		out = append(out, p)
	}
	return out
}

// LongestPrefix returns the longest member that is a prefix of word.
func (s *PrefixSet) LongestPrefix(word string) (string, bool) {
	var longest string
	found := false
	it := s.Prefixes(word)
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		longest, found = p, true
	}
	return longest, found
}

// PrefixIter yields prefixes of a word in strictly increasing length.
type PrefixIter struct {
	set  *PrefixSet
	word string
	addr int
	pos  int
	done bool
}

// Next returns the next prefix. Once it reports false it keeps doing so.
func (it *PrefixIter) Next() (string, bool) {
	if it.done {
		return "", false
	}
	fst := it.set.fst
	for it.pos < len(it.word) {
		it.addr = fst.Accept(it.addr, it.word[it.pos])
		it.pos++
		if !fst.CanMatch(it.addr) {
			it.done = true
			return "", false
		}
		if fst.IsMatch(it.addr) && boundary(it.word, it.pos) {
			prefix := it.word[:it.pos]
			// Members are validated on construction, so a match that does
			// not decode means the automaton itself is corrupt.
			if !utf8.ValidString(prefix) {
				panic(fmt.Sprintf("automaton: cannot decode prefix %q", prefix))
			}
			return prefix, true
		}
	}
	it.done = true
	return "", false
}

func boundary(word string, pos int) bool {
	return pos == len(word) || utf8.RuneStart(word[pos])
}
