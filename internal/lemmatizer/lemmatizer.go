// Package lemmatizer runs the lemma rule pipelines over corpus sentences.
package lemmatizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/graph"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lexicon"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/transform"
	apperrors "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/metrics"
)

type Config struct {
	Mode             Mode
	MultiplePrefixes bool
	// Workers bounds the sentences processed concurrently by ProcessCorpus.
	Workers int
	// BatchSize is the number of sentences read ahead by ProcessCorpus.
	BatchSize int
}

// SentenceReader is satisfied by *conllx.Reader.
type SentenceReader interface {
	Read() (conllx.Sentence, error)
}

// SentenceWriter is satisfied by *conllx.Writer.
type SentenceWriter interface {
	Write(conllx.Sentence) error
}

// Lemmatizer rewrites sentence lemmas in one mode. It holds no mutable state
// and may be used from several goroutines.
type Lemmatizer struct {
	cfg      Config
	lexicon  string
	formStep transform.Transforms
	pipeline transform.Transforms
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New builds a Lemmatizer. lex may be nil in delemmatize mode. m may be nil.
func New(cfg Config, lex *lexicon.Lexicon, m *metrics.Metrics) (*Lemmatizer, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}

	tables := transform.NewTables()
	l := &Lemmatizer{
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "lemmatizer", "mode", string(cfg.Mode)),
	}

	var rules []transform.Transform
	switch cfg.Mode {
	case Lemmatize:
		if lex == nil {
			return nil, errors.New("lemmatize mode needs a verb prefix lexicon")
		}
		rules = LemmatizePipeline(lex, tables, cfg.MultiplePrefixes)
		l.lexicon = lex.Fingerprint
		l.formStep = transform.Transforms{
			Rules: []transform.Transform{transform.FormAsLemma{Tables: tables}},
		}
		if m != nil {
			m.LexiconPrefixes.Set(float64(lex.Prefixes.Len()))
		}
	case Delemmatize:
		rules = DelemmatizePipeline(tables)
	default:
		return nil, fmt.Errorf("creating lemmatizer: %w: %q", apperrors.ErrUnknownMode, cfg.Mode)
	}

	l.pipeline = transform.Transforms{Rules: rules, Skip: tables.Exempt}
	if m != nil {
		l.pipeline.Observer = func(rule string, _ graph.NodeIndex, _, _ string) {
			m.LemmaChangesTotal.WithLabelValues(rule).Inc()
		}
	}
	return l, nil
}

func (l *Lemmatizer) Mode() Mode {
	return l.cfg.Mode
}

// Variant names the pipeline configuration, including the lexicon in
// lemmatize mode. Lemmatizers with equal variants produce equal output.
func (l *Lemmatizer) Variant() string {
	if l.cfg.Mode != Lemmatize {
		return string(l.cfg.Mode)
	}
	v := string(l.cfg.Mode)
	if l.cfg.MultiplePrefixes {
		v += "-multi"
	}
	return v + "@" + l.lexicon
}

// ProcessSentence rewrites the lemmas of s in place. Only the lemma column
// changes.
func (l *Lemmatizer) ProcessSentence(s conllx.Sentence) error {
	start := time.Now()
	mode := string(l.cfg.Mode)

	g, err := SentenceGraph(s)
	if err != nil {
		if l.metrics != nil {
			l.metrics.SentencesTotal.WithLabelValues(mode, "error").Inc()
		}
		return err
	}

	l.formStep.Apply(g)
	l.pipeline.Apply(g)

	if l.metrics != nil {
		l.metrics.SentencesTotal.WithLabelValues(mode, "ok").Inc()
		l.metrics.TokensTotal.WithLabelValues(mode).Add(float64(len(s)))
		l.metrics.SentenceLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}
	return nil
}

// ProcessSentences processes a batch concurrently. Results stay in place and
// in order. first is the 1-based number of sentences[0], used in errors.
func (l *Lemmatizer) ProcessSentences(ctx context.Context, first int, sentences []conllx.Sentence) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Workers)
	for i := range sentences {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := l.ProcessSentence(sentences[i]); err != nil {
				return AtSentence(first+i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ProcessCorpus reads every sentence from r, processes it and writes it to w
// in input order. The first error stops the run. It returns the number of
// sentences written.
func (l *Lemmatizer) ProcessCorpus(ctx context.Context, r SentenceReader, w SentenceWriter) (int, error) {
	written := 0
	batch := make([]conllx.Sentence, 0, l.cfg.BatchSize)

	flush := func() error {
		if err := l.ProcessSentences(ctx, written+1, batch); err != nil {
			return err
		}
		for _, s := range batch {
			if err := w.Write(s); err != nil {
				return fmt.Errorf("writing sentence %d: %w", written+1, err)
			}
			written++
		}
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		s, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, fmt.Errorf("reading sentence %d: %w", written+len(batch)+1, err)
		}
		batch = append(batch, s)
		if len(batch) == l.cfg.BatchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return written, err
		}
	}

	l.logger.Info("corpus processed", "sentences", written)
	return written, nil
}
