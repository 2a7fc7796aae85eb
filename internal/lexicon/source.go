package lexicon

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/postgres"
)

// Open loads the lexicon from the configured source. For the postgres source
// the open client is returned as well and the caller must close it; for
// files it is nil.
func Open(ctx context.Context, cfg *config.Config) (*Lexicon, *postgres.Client, error) {
	switch cfg.Lexicon.Source {
	case "file":
		lex, err := LoadFiles(cfg.Lexicon.PrefixFile, cfg.Lexicon.PrefixVerbsFile)
		return lex, nil, err
	case "postgres":
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrLexicon, err)
		}
		lex, err := NewStore(client).Load(ctx)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return lex, client, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown source %q", apperrors.ErrLexicon, cfg.Lexicon.Source)
}
