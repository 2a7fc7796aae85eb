package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api/validator"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/cache"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lemmatizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/logger"
)

const maxBodyBytes = 32 << 20

// Processor rewrites one sentence in place. *lemmatizer.Lemmatizer
// satisfies it.
type Processor interface {
	Variant() string
	ProcessSentence(s conllx.Sentence) error
}

type Handler struct {
	processors map[lemmatizer.Mode]Processor
	cache      *cache.SentenceCache
	limits     validator.Limits
	logger     *slog.Logger
}

// New returns a handler serving the given modes. sentenceCache may be nil.
func New(processors map[lemmatizer.Mode]Processor, sentenceCache *cache.SentenceCache, limits validator.Limits) *Handler {
	return &Handler{
		processors: processors,
		cache:      sentenceCache,
		limits:     limits,
		logger:     slog.Default().With("component", "api-handler"),
	}
}

func (h *Handler) Lemmatize(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, lemmatizer.Lemmatize)
}

func (h *Handler) Delemmatize(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, lemmatizer.Delemmatize)
}

func (h *Handler) process(w http.ResponseWriter, r *http.Request, mode lemmatizer.Mode) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	p, ok := h.processors[mode]
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("mode %s is not enabled", mode))
		return
	}

	var req api.ProcessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validator.ValidateProcessRequest(&req, h.limits); err != nil {
		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := api.ProcessResponse{
		Mode:      string(mode),
		Sentences: make([]conllx.Sentence, len(req.Sentences)),
	}
	for i, s := range req.Sentences {
		if ctx.Err() != nil {
			h.writeError(w, apperrors.HTTPStatusCode(apperrors.ErrTimeout), "request timed out")
			return
		}
		out, hit, err := h.processOne(ctx, p, s)
		if err != nil {
			err = lemmatizer.AtSentence(i+1, err)
			status := apperrors.HTTPStatusCode(err)
			log.Warn("sentence rejected", "mode", mode, "error", err, "status_code", status)
			if status == http.StatusInternalServerError {
				h.writeError(w, status, "processing failed")
				return
			}
			h.writeError(w, status, err.Error())
			return
		}
		if hit {
			resp.CacheHits++
		}
		resp.Sentences[i] = out
	}

	log.Info("sentences processed",
		"mode", mode,
		"sentences", len(resp.Sentences),
		"cache_hits", resp.CacheHits,
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) processOne(ctx context.Context, p Processor, s conllx.Sentence) (conllx.Sentence, bool, error) {
	if h.cache != nil {
		return h.cache.GetOrCompute(ctx, p.Variant(), s, p.ProcessSentence)
	}
	if err := p.ProcessSentence(s); err != nil {
		return nil, false, err
	}
	return s, false, nil
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	stats := map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	}
	if keys, err := h.cache.Keys(r.Context()); err != nil {
		h.logger.Warn("counting cache keys failed", "error", err)
	} else {
		stats["keys"] = keys
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
