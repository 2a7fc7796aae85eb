package validator

import (
	"errors"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
)

func sentence(n int) conllx.Sentence {
	s := make(conllx.Sentence, n)
	for i := range s {
		s[i] = conllx.Token{ID: i + 1, Form: "x", POS: "NN", HeadRel: "ROOT"}
	}
	return s
}

func TestValidateProcessRequest(t *testing.T) {
	limits := Limits{MaxSentences: 2, MaxTokens: 3}
	tests := []struct {
		name   string
		req    api.ProcessRequest
		fields []string
	}{
		{"valid", api.ProcessRequest{Sentences: []conllx.Sentence{sentence(3), sentence(1)}}, nil},
		{"no sentences", api.ProcessRequest{}, []string{"sentences"}},
		{"too many sentences", api.ProcessRequest{Sentences: []conllx.Sentence{sentence(1), sentence(1), sentence(1)}}, []string{"sentences"}},
		{"empty sentence", api.ProcessRequest{Sentences: []conllx.Sentence{sentence(1), {}}}, []string{"sentences[1]"}},
		{"too many tokens", api.ProcessRequest{Sentences: []conllx.Sentence{sentence(4)}}, []string{"sentences[0]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProcessRequest(&tt.req, limits)
			if tt.fields == nil {
				if err != nil {
					t.Errorf("err = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if len(ve.Fields) != len(tt.fields) {
				t.Errorf("Fields = %v, want %v", ve.Fields, tt.fields)
			}
			for _, f := range tt.fields {
				if _, ok := ve.Fields[f]; !ok {
					t.Errorf("Fields = %v, missing %s", ve.Fields, f)
				}
			}
		})
	}
}

func TestUnlimited(t *testing.T) {
	req := api.ProcessRequest{Sentences: []conllx.Sentence{sentence(1000)}}
	if err := ValidateProcessRequest(&req, Limits{}); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}
