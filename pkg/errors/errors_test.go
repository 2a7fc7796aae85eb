package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing head rel", fmt.Errorf("reading: %w", ErrMissingHeadRel), http.StatusBadRequest},
		{"invalid head", ErrInvalidHead, http.StatusBadRequest},
		{"bad line", Invalid("expected %d columns, got %d", 10, 3), http.StatusBadRequest},
		{"unknown mode", ErrUnknownMode, http.StatusBadRequest},
		{"lexicon", ErrLexicon, http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("sentence 2: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatusCode(tt.err); got != tt.want {
			t.Errorf("%s: HTTPStatusCode = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestInputErrorMessage(t *testing.T) {
	tests := []struct {
		err  *InputError
		want string
	}{
		{
			Structural(ErrMissingHeadRel, 3, 7, `"ab"`),
			`sentence 3, token 7: token without head relation: "ab"`,
		},
		{
			Structural(ErrInvalidHead, 2, 0, ""),
			"sentence 2: head index out of range",
		},
		{
			Invalid("invalid head %q", "x"),
			`invalid input: invalid head "x"`,
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}

	var target *InputError
	wrapped := fmt.Errorf("reading corpus: %w", Structural(ErrInvalidHead, 4, 1, ""))
	if !errors.As(wrapped, &target) || target.Sentence != 4 || !errors.Is(wrapped, ErrInvalidHead) {
		t.Errorf("errors.As = %+v", target)
	}
}
