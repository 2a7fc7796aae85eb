// Package lexicon loads the verb-prefix lexicon: the set of separable verb
// prefixes and the optional table of pre-segmented prefix verbs. Both come
// either from plain-text files or from PostgreSQL.
package lexicon

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/automaton"
	apperrors "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/errors"
)

// Lexicon is loaded once at start-up and never modified afterwards.
type Lexicon struct {
	Prefixes *automaton.PrefixSet
	// PrefixVerbs maps a lowercased lemma to its segmented form
	// (abbestellen → ab#bestellen).
	PrefixVerbs map[string]string
	// Fingerprint identifies the contents. Lexicons with the same prefixes
	// and prefix verbs share it regardless of input order.
	Fingerprint string
}

// New builds a lexicon from in-memory data.
func New(prefixes []string, prefixVerbs map[string]string) (*Lexicon, error) {
	set, err := automaton.NewPrefixSet(prefixes)
	if err != nil {
		return nil, fmt.Errorf("%w: building prefix set: %v", apperrors.ErrLexicon, err)
	}
	if prefixVerbs == nil {
		prefixVerbs = map[string]string{}
	}
	return &Lexicon{
		Prefixes:    set,
		PrefixVerbs: prefixVerbs,
		Fingerprint: fingerprint(prefixes, prefixVerbs),
	}, nil
}

func fingerprint(prefixes []string, prefixVerbs map[string]string) string {
	sorted := slices.Compact(slices.Sorted(slices.Values(prefixes)))
	h := sha256.New()
	fmt.Fprintf(h, "%d\n", len(sorted))
	for _, p := range sorted {
		fmt.Fprintf(h, "%s\n", p)
	}
	for _, lemma := range slices.Sorted(maps.Keys(prefixVerbs)) {
		fmt.Fprintf(h, "%s\t%s\n", lemma, prefixVerbs[lemma])
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// ReadPrefixes reads one prefix per line. Blank lines and lines starting with
// '#' are skipped.
func ReadPrefixes(r io.Reader) ([]string, error) {
	var prefixes []string
	err := eachLine(r, func(n int, line string) error {
		prefixes = append(prefixes, line)
		return nil
	})
	return prefixes, err
}

// ReadPrefixVerbs reads lines of the form "lemma<TAB>segmented lemma".
func ReadPrefixVerbs(r io.Reader) (map[string]string, error) {
	verbs := make(map[string]string)
	err := eachLine(r, func(n int, line string) error {
		lemma, segmented, ok := strings.Cut(line, "\t")
		lemma, segmented = strings.TrimSpace(lemma), strings.TrimSpace(segmented)
		if !ok || lemma == "" || segmented == "" {
			return fmt.Errorf("line %d: expected lemma and segmented lemma separated by a tab", n)
		}
		verbs[strings.ToLower(lemma)] = segmented
		return nil
	})
	return verbs, err
}

func eachLine(r io.Reader, fn func(n int, line string) error) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ReadFiles reads the prefix file and, if verbsPath is not empty, the prefix
// verb file.
func ReadFiles(prefixPath, verbsPath string) ([]string, map[string]string, error) {
	prefixes, err := readFile(prefixPath, ReadPrefixes)
	if err != nil {
		return nil, nil, err
	}
	if verbsPath == "" {
		return prefixes, nil, nil
	}
	verbs, err := readFile(verbsPath, ReadPrefixVerbs)
	if err != nil {
		return nil, nil, err
	}
	return prefixes, verbs, nil
}

// LoadFiles builds a lexicon from files, see ReadFiles.
func LoadFiles(prefixPath, verbsPath string) (*Lexicon, error) {
	prefixes, verbs, err := ReadFiles(prefixPath, verbsPath)
	if err != nil {
		return nil, err
	}

	lex, err := New(prefixes, verbs)
	if err != nil {
		return nil, err
	}
	slog.Info("lexicon loaded",
		"source", "file",
		"prefixes", lex.Prefixes.Len(),
		"prefix_verbs", len(lex.PrefixVerbs),
	)
	return lex, nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", apperrors.ErrLexicon, err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%w: reading %s: %v", apperrors.ErrLexicon, path, err)
	}
	return v, nil
}
