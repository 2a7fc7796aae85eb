// Package conllx reads and writes dependency-annotated sentences in the
// ten-column CoNLL-X format:
//
//	ID FORM LEMMA CPOSTAG POSTAG FEATS HEAD DEPREL PHEAD PDEPREL
//
// Columns are tab-separated, "_" marks an empty column and sentences are
// separated by a blank line.
package conllx

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/errors"
)

const (
	columns = 10
	empty   = "_"

	// NoHead is the Head of a token whose HEAD column is empty.
	NoHead = -1
)

// Token is one line of a sentence. Empty columns are "". Head is the 1-based
// index of the head token, 0 for the root.
type Token struct {
	ID       int    `json:"id"`
	Form     string `json:"form"`
	Lemma    string `json:"lemma,omitempty"`
	CPOS     string `json:"cpostag,omitempty"`
	POS      string `json:"postag"`
	Features string `json:"feats,omitempty"`
	Head     int    `json:"head"`
	HeadRel  string `json:"deprel"`
	PHead    string `json:"phead,omitempty"`
	PHeadRel string `json:"pdeprel,omitempty"`
}

// Sentence is a sequence of tokens in sentence order.
type Sentence []Token

// Clone returns a deep copy of s.
func (s Sentence) Clone() Sentence {
	out := make(Sentence, len(s))
	copy(out, s)
	return out
}

// Reader reads sentences from a CoNLL-X stream.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Reader{scanner: scanner}
}

// Read returns the next sentence, or io.EOF when the input is exhausted.
func (r *Reader) Read() (Sentence, error) {
	var sentence Sentence
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(sentence) > 0 {
				return sentence, nil
			}
			continue
		}
		tok, err := parseToken(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		sentence = append(sentence, tok)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	if len(sentence) > 0 {
		return sentence, nil
	}
	return nil, io.EOF
}

func parseToken(line string) (Token, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != columns {
		return Token{}, apperrors.Invalid("expected %d columns, got %d", columns, len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Token{}, apperrors.Invalid("invalid token id %q", fields[0])
	}

	head := NoHead
	if fields[6] != empty {
		head, err = strconv.Atoi(fields[6])
		if err != nil {
			return Token{}, apperrors.Invalid("invalid head %q", fields[6])
		}
	}

	return Token{
		ID:       id,
		Form:     fields[1],
		Lemma:    column(fields[2]),
		CPOS:     column(fields[3]),
		POS:      column(fields[4]),
		Features: column(fields[5]),
		Head:     head,
		HeadRel:  column(fields[7]),
		PHead:    column(fields[8]),
		PHeadRel: column(fields[9]),
	}, nil
}

func column(s string) string {
	if s == empty {
		return ""
	}
	return s
}

func field(s string) string {
	if s == "" {
		return empty
	}
	return s
}

// Writer writes sentences in CoNLL-X format. Call Flush when done.
type Writer struct {
	w     *bufio.Writer
	first bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), first: true}
}

// Write writes one sentence. Sentences are separated by a blank line.
func (w *Writer) Write(s Sentence) error {
	if !w.first {
		if err := w.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing sentence separator: %w", err)
		}
	}
	w.first = false

	for _, tok := range s {
		head := empty
		if tok.Head != NoHead {
			head = strconv.Itoa(tok.Head)
		}
		line := strings.Join([]string{
			strconv.Itoa(tok.ID),
			field(tok.Form),
			field(tok.Lemma),
			field(tok.CPOS),
			field(tok.POS),
			field(tok.Features),
			head,
			field(tok.HeadRel),
			field(tok.PHead),
			field(tok.PHeadRel),
		}, "\t")
		if _, err := w.w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing token %d: %w", tok.ID, err)
		}
	}
	return nil
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
