package lemmatizer

import (
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lexicon"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/transform"
	apperrors "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/errors"
)

// Mode selects the direction of the rewrite.
type Mode string

const (
	// Lemmatize turns plain lemmas into TüBa-D/Z lemmas.
	Lemmatize Mode = "lemmatize"
	// Delemmatize turns TüBa-D/Z lemmas into plain lemmas.
	Delemmatize Mode = "delemmatize"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Lemmatize:
		return Lemmatize, nil
	case Delemmatize:
		return Delemmatize, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownMode, s)
}

// LemmatizePipeline returns the rules that produce TüBa-D/Z lemmas, in
// order.
func LemmatizePipeline(lex *lexicon.Lexicon, tables *transform.Tables, multiplePrefixes bool) []transform.Transform {
	return []transform.Transform{
		transform.AddSeparatedVerbPrefix{MultiplePrefixes: multiplePrefixes},
		transform.MarkVerbPrefix{PrefixVerbs: lex.PrefixVerbs, Prefixes: lex.Prefixes},
		transform.AddAuxPassivTag{},
		transform.SimplifyArticleLemma{},
		transform.SimplifyPossessivePronounLemma{Tables: tables},
		transform.SimplifyPersonalPronounLemma{Tables: tables},
		transform.RestoreCase{},
	}
}

// DelemmatizePipeline returns the rules that strip TüBa-D/Z markup.
// RemoveAlternatives must stay first: the marker rules expect one analysis.
func DelemmatizePipeline(tables *transform.Tables) []transform.Transform {
	return []transform.Transform{
		transform.RemoveAlternatives{},
		transform.RemoveAuxTag{},
		transform.RemovePassivTag{},
		transform.RemoveReflexiveTag{},
		transform.RemoveSepVerbPrefix{},
		transform.RemoveTruncMarker{},
		transform.SimplifyArticleLemma{},
		transform.SimplifyPossessivePronounLemma{Tables: tables},
		transform.SimplifyPersonalPronounLemma{Tables: tables},
	}
}
