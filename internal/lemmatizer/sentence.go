package lemmatizer

import (
	"errors"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
	apperrors "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/errors"
)

const unsetLemma = "_"

// node exposes a corpus token to the rules. Lemma updates go straight into
// the sentence. An unset lemma reads as "_", as it appears in the corpus.
type node struct {
	tok *conllx.Token
}

func (n node) Form() string { return n.tok.Form }
func (n node) Tag() string  { return n.tok.POS }

func (n node) Lemma() string {
	if n.tok.Lemma == "" {
		return unsetLemma
	}
	return n.tok.Lemma
}

func (n node) SetLemma(lemma string) { n.tok.Lemma = lemma }

// TokenError reports a malformed token. Token is 1-based.
type TokenError struct {
	Token  int
	Err    error
	Detail string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token %d: %v: %s", e.Token, e.Err, e.Detail)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// SentenceGraph builds the dependency graph of s. The graph's tokens alias
// the elements of s, so rules applied to the graph rewrite s.
//
// Every token needs a head relation. Head 0 (and an empty head) attaches
// nothing; any other head must point into the sentence. Since each token has
// one head column the result is single-headed.
func SentenceGraph(s conllx.Sentence) (*graph.DependencyGraph, error) {
	g := graph.New(len(s))
	for i := range s {
		g.AddNode(node{tok: &s[i]})
	}

	for i, tok := range s {
		if tok.HeadRel == "" {
			return nil, &TokenError{Token: i + 1, Err: apperrors.ErrMissingHeadRel, Detail: fmt.Sprintf("%q", tok.Form)}
		}
		if tok.Head == 0 || tok.Head == conllx.NoHead {
			continue
		}
		if tok.Head < 0 || tok.Head > len(s) || tok.Head == i+1 {
			return nil, &TokenError{Token: i + 1, Err: apperrors.ErrInvalidHead, Detail: fmt.Sprintf("head %d", tok.Head)}
		}
		if err := g.AddEdge(graph.NodeIndex(tok.Head-1), graph.NodeIndex(i), tok.HeadRel); err != nil {
			return nil, &TokenError{Token: i + 1, Err: apperrors.ErrInvalidHead, Detail: err.Error()}
		}
	}
	return g, nil
}

// AtSentence attaches a 1-based sentence number to err. Token errors become
// structural errors carrying both positions.
func AtSentence(sentence int, err error) error {
	var te *TokenError
	if errors.As(err, &te) {
		return apperrors.Structural(te.Err, sentence, te.Token, te.Detail)
	}
	return fmt.Errorf("sentence %d: %w", sentence, err)
}
