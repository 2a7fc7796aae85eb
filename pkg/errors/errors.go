// Package errors defines the error kinds shared by the corpus reader, the
// rule pipeline and the HTTP API, and maps them to HTTP status codes.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingHeadRel = errors.New("token without head relation")
	ErrInvalidHead    = errors.New("head index out of range")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownMode    = errors.New("unknown mode")
	ErrLexicon        = errors.New("lexicon unavailable")
	ErrTimeout        = errors.New("operation timed out")
)

// InputError locates a problem in the corpus. Sentence and Token are 1-based
// and zero when unknown.
type InputError struct {
	Kind     error
	Sentence int
	Token    int
	Detail   string
}

func (e *InputError) Error() string {
	var b strings.Builder
	if e.Sentence > 0 {
		fmt.Fprintf(&b, "sentence %d, ", e.Sentence)
	}
	if e.Token > 0 {
		fmt.Fprintf(&b, "token %d: ", e.Token)
	} else if b.Len() > 0 {
		b.Reset()
		fmt.Fprintf(&b, "sentence %d: ", e.Sentence)
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *InputError) Unwrap() error {
	return e.Kind
}

// Invalid reports a line that cannot be parsed.
func Invalid(format string, args ...any) *InputError {
	return &InputError{Kind: ErrInvalidInput, Detail: fmt.Sprintf(format, args...)}
}

// Structural reports a token that breaks the dependency structure.
func Structural(kind error, sentence, token int, detail string) *InputError {
	return &InputError{Kind: kind, Sentence: sentence, Token: token, Detail: detail}
}

func HTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrMissingHeadRel), errors.Is(err, ErrInvalidHead),
		errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrLexicon):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
