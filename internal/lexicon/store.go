package lexicon

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apperrors "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS verb_prefixes (
	prefix TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS prefix_verbs (
	lemma     TEXT PRIMARY KEY,
	segmented TEXT NOT NULL
);`

// Store keeps the lexicon in PostgreSQL so that several servers and workers
// share one copy.
type Store struct {
	client *postgres.Client
	logger *slog.Logger
}

func NewStore(client *postgres.Client) *Store {
	return &Store{
		client: client,
		logger: slog.Default().With("component", "lexicon-store"),
	}
}

// EnsureSchema creates the lexicon tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.client.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating lexicon schema: %w", err)
	}
	return nil
}

func (s *Store) Prefixes(ctx context.Context) ([]string, error) {
	rows, err := s.client.DB.QueryContext(ctx, `SELECT prefix FROM verb_prefixes ORDER BY prefix`)
	if err != nil {
		return nil, fmt.Errorf("querying verb prefixes: %w", err)
	}
	defer rows.Close()

	var prefixes []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning verb prefix: %w", err)
		}
		prefixes = append(prefixes, p)
	}
	return prefixes, rows.Err()
}

func (s *Store) PrefixVerbs(ctx context.Context) (map[string]string, error) {
	rows, err := s.client.DB.QueryContext(ctx, `SELECT lemma, segmented FROM prefix_verbs`)
	if err != nil {
		return nil, fmt.Errorf("querying prefix verbs: %w", err)
	}
	defer rows.Close()

	verbs := make(map[string]string)
	for rows.Next() {
		var lemma, segmented string
		if err := rows.Scan(&lemma, &segmented); err != nil {
			return nil, fmt.Errorf("scanning prefix verb: %w", err)
		}
		verbs[lemma] = segmented
	}
	return verbs, rows.Err()
}

// Load reads the whole lexicon. An empty prefix table is an error, since
// verb prefix marking would silently do nothing.
func (s *Store) Load(ctx context.Context) (*Lexicon, error) {
	prefixes, err := s.Prefixes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLexicon, err)
	}
	if len(prefixes) == 0 {
		return nil, fmt.Errorf("%w: verb_prefixes table is empty", apperrors.ErrLexicon)
	}
	verbs, err := s.PrefixVerbs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLexicon, err)
	}

	lex, err := New(prefixes, verbs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("lexicon loaded",
		"source", "postgres",
		"prefixes", lex.Prefixes.Len(),
		"prefix_verbs", len(lex.PrefixVerbs),
	)
	return lex, nil
}

// Import replaces the stored lexicon in one transaction.
func (s *Store) Import(ctx context.Context, prefixes []string, verbs map[string]string) error {
	err := s.client.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM verb_prefixes`); err != nil {
			return fmt.Errorf("clearing verb prefixes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM prefix_verbs`); err != nil {
			return fmt.Errorf("clearing prefix verbs: %w", err)
		}
		for _, p := range prefixes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO verb_prefixes (prefix) VALUES ($1) ON CONFLICT DO NOTHING`, p); err != nil {
				return fmt.Errorf("inserting prefix %q: %w", p, err)
			}
		}
		for lemma, segmented := range verbs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO prefix_verbs (lemma, segmented) VALUES ($1, $2)`, lemma, segmented); err != nil {
				return fmt.Errorf("inserting prefix verb %q: %w", lemma, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("lexicon imported", "prefixes", len(prefixes), "prefix_verbs", len(verbs))
	return nil
}
