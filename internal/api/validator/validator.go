// Package validator checks the size limits of lemma API requests and reports
// failures per field.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api"
)

type Limits struct {
	MaxSentences int
	MaxTokens    int
}

// ValidationError holds per-field failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// ValidateProcessRequest checks sentence and token counts. Token content is
// checked later, when the sentence graph is built.
func ValidateProcessRequest(req *api.ProcessRequest, limits Limits) error {
	errs := make(map[string]string)

	switch {
	case len(req.Sentences) == 0:
		errs["sentences"] = "at least one sentence is required"
	case limits.MaxSentences > 0 && len(req.Sentences) > limits.MaxSentences:
		errs["sentences"] = fmt.Sprintf("at most %d sentences per request", limits.MaxSentences)
	}

	for i, s := range req.Sentences {
		field := fmt.Sprintf("sentences[%d]", i)
		switch {
		case len(s) == 0:
			errs[field] = "sentence has no tokens"
		case limits.MaxTokens > 0 && len(s) > limits.MaxTokens:
			errs[field] = fmt.Sprintf("sentence must have at most %d tokens", limits.MaxTokens)
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
