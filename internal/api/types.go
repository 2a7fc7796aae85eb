// Package api defines the request and response bodies of the lemma HTTP API
// and the stream worker.
package api

import "github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"

// ProcessRequest is the body of POST /api/v1/lemmatize and
// /api/v1/delemmatize.
type ProcessRequest struct {
	Sentences []conllx.Sentence `json:"sentences"`
}

type ProcessResponse struct {
	Mode      string            `json:"mode"`
	Sentences []conllx.Sentence `json:"sentences"`
	CacheHits int               `json:"cache_hits"`
}

// StreamMessage is consumed by the stream worker.
type StreamMessage struct {
	ID       string          `json:"id"`
	Mode     string          `json:"mode"`
	Sentence conllx.Sentence `json:"sentence"`
}

// StreamResult is published by the stream worker. Error is set instead of
// Sentence when the sentence could not be processed.
type StreamResult struct {
	ID       string          `json:"id"`
	Sentence conllx.Sentence `json:"sentence,omitempty"`
	Error    string          `json:"error,omitempty"`
}
