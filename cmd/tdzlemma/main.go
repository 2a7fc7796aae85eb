// Command tdzlemma converts the lemmas of a CoNLL-X corpus to or from the
// TüBa-D/Z lemma conventions.
//
// Usage:
//
//	tdzlemma [-config f] [-mode lemmatize|delemmatize] [-prefixes f]
//	         [-prefix-verbs f] [-workers n] [-multiple-prefixes]
//	         [INPUT] [OUTPUT]
//	tdzlemma -import-lexicon [-config f] [-prefixes f] [-prefix-verbs f]
//
// INPUT and OUTPUT default to stdin and stdout. Logs go to stderr. With
// -import-lexicon the prefix files are loaded into the PostgreSQL lexicon
// store instead of processing a corpus.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lemmatizer"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lexicon"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/postgres"
)

type options struct {
	configPath    string
	mode          string
	prefixes      string
	prefixVerbs   string
	workers       int
	multiple      bool
	importLexicon bool
	input         string
	output        string
	set           map[string]bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("tdzlemma", flag.ContinueOnError)
	opts := &options{set: make(map[string]bool)}
	fs.StringVar(&opts.configPath, "config", "", "path to config file")
	fs.StringVar(&opts.mode, "mode", "", "lemmatize or delemmatize")
	fs.StringVar(&opts.prefixes, "prefixes", "", "separable verb prefix file")
	fs.StringVar(&opts.prefixVerbs, "prefix-verbs", "", "prefix verb file (lemma<TAB>segmented)")
	fs.IntVar(&opts.workers, "workers", 0, "sentences processed concurrently")
	fs.BoolVar(&opts.multiple, "multiple-prefixes", true, "join all separated particles as alternatives")
	fs.BoolVar(&opts.importLexicon, "import-lexicon", false, "import the prefix files into PostgreSQL and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	switch fs.NArg() {
	case 0:
	case 1:
		opts.input = fs.Arg(0)
	case 2:
		opts.input, opts.output = fs.Arg(0), fs.Arg(1)
	default:
		return nil, fmt.Errorf("expected at most INPUT and OUTPUT, got %d arguments", fs.NArg())
	}
	return opts, nil
}

// apply lets explicitly set flags override the configuration.
func (o *options) apply(cfg *config.Config) {
	if o.set["mode"] {
		cfg.Pipeline.Mode = o.mode
	}
	if o.set["prefixes"] {
		cfg.Lexicon.Source = "file"
		cfg.Lexicon.PrefixFile = o.prefixes
	}
	if o.set["prefix-verbs"] {
		cfg.Lexicon.PrefixVerbsFile = o.prefixVerbs
	}
	if o.set["workers"] && o.workers > 0 {
		cfg.Pipeline.Workers = o.workers
	}
	if o.set["multiple-prefixes"] {
		cfg.Pipeline.MultiplePrefixes = o.multiple
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tdzlemma: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.importLexicon {
		err = importLexicon(ctx, cfg, opts)
	} else {
		opts.apply(cfg)
		err = run(ctx, cfg, opts)
	}
	if err != nil {
		slog.Error("tdzlemma failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts *options) error {
	mode, err := lemmatizer.ParseMode(cfg.Pipeline.Mode)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
		ms := metrics.NewServer(cfg.Metrics.Port, prometheus.DefaultGatherer)
		ms.Start()
		defer ms.Shutdown(context.Background())
	}

	var lex *lexicon.Lexicon
	if mode == lemmatizer.Lemmatize {
		var db *postgres.Client
		lex, db, err = lexicon.Open(ctx, cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}
	}

	l, err := lemmatizer.New(lemmatizer.Config{
		Mode:             mode,
		MultiplePrefixes: cfg.Pipeline.MultiplePrefixes,
		Workers:          cfg.Pipeline.Workers,
		BatchSize:        cfg.Pipeline.BatchSize,
	}, lex, m)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(opts.input)
	if err != nil {
		return err
	}
	defer closeIn()
	out, closeOut, err := openOutput(opts.output)
	if err != nil {
		return err
	}

	w := conllx.NewWriter(out)
	// Sentences written before a failure still reach the output.
	_, err = l.ProcessCorpus(ctx, conllx.NewReader(in), w)
	if ferr := w.Flush(); err == nil && ferr != nil {
		err = ferr
	}
	if cerr := closeOut(); err == nil && cerr != nil {
		err = fmt.Errorf("closing output: %w", cerr)
	}
	return err
}

func importLexicon(ctx context.Context, cfg *config.Config, opts *options) error {
	prefixFile, verbsFile := cfg.Lexicon.PrefixFile, cfg.Lexicon.PrefixVerbsFile
	if opts.set["prefixes"] {
		prefixFile = opts.prefixes
	}
	if opts.set["prefix-verbs"] {
		verbsFile = opts.prefixVerbs
	}
	prefixes, verbs, err := lexicon.ReadFiles(prefixFile, verbsFile)
	if err != nil {
		return err
	}
	// Validate before touching the database.
	if _, err := lexicon.New(prefixes, verbs); err != nil {
		return err
	}

	db, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	store := lexicon.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return store.Import(ctx, prefixes, verbs)
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, f.Close, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, f.Close, nil
}
