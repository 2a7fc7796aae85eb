package transform

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
)

type testToken struct {
	form, lemma, tag string
}

func (t *testToken) Form() string          { return t.form }
func (t *testToken) Lemma() string         { return t.lemma }
func (t *testToken) Tag() string           { return t.tag }
func (t *testToken) SetLemma(lemma string) { t.lemma = lemma }

type testCase struct {
	line int
	text string
	g    *graph.DependencyGraph
	node graph.NodeIndex
	gold string
}

// readTestCases parses rule test files. Each non-blank, non-comment line is
//
//	FORM LEMMA TAG GOLD [HEAD] [REL FORM LEMMA TAG]...
//
// where HEAD is either "-" (the token is a root) or a REL FORM LEMMA TAG
// group for the token's head. Any further groups are dependents.
func readTestCases(t *testing.T, path string) []testCase {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	var cases []testCase
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			t.Fatalf("%s:%d: need at least FORM LEMMA TAG GOLD", path, lineNo)
		}
		g := graph.New(len(fields) / 4)
		node := g.AddNode(&testToken{fields[0], fields[1], fields[2]})
		gold := fields[3]
		rest := fields[4:]

		if len(rest) > 0 && rest[0] == "-" {
			rest = rest[1:]
		} else if len(rest) > 0 {
			if len(rest) < 4 {
				t.Fatalf("%s:%d: incomplete head", path, lineNo)
			}
			head := g.AddNode(&testToken{rest[1], rest[2], rest[3]})
			if err := g.AddEdge(head, node, rest[0]); err != nil {
				t.Fatalf("%s:%d: %v", path, lineNo, err)
			}
			rest = rest[4:]
		}

		if len(rest)%4 != 0 {
			t.Fatalf("%s:%d: incomplete dependency", path, lineNo)
		}
		for ; len(rest) > 0; rest = rest[4:] {
			dep := g.AddNode(&testToken{rest[1], rest[2], rest[3]})
			if err := g.AddEdge(node, dep, rest[0]); err != nil {
				t.Fatalf("%s:%d: %v", path, lineNo, err)
			}
		}

		cases = append(cases, testCase{line: lineNo, text: line, g: g, node: node, gold: gold})
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if len(cases) == 0 {
		t.Fatalf("%s: no test cases", path)
	}
	return cases
}

func runTestCases(t *testing.T, path string, rule Transform) {
	t.Helper()
	for _, tc := range readTestCases(t, path) {
		if got := rule.Transform(tc.g, tc.node); got != tc.gold {
			t.Errorf("%s:%d: %q: got %q, want %q", path, tc.line, tc.text, got, tc.gold)
		}
	}
}

func readPrefixFile(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Fields(string(data))
}
