package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/SimonScharf/GoodWordsDictionary/internal/anki"
	"github.com/SimonScharf/GoodWordsDictionary/internal/archive"
	"github.com/SimonScharf/GoodWordsDictionary/internal/batch"
	"github.com/SimonScharf/GoodWordsDictionary/internal/daily"
	"github.com/SimonScharf/GoodWordsDictionary/internal/dictionary"
	"github.com/SimonScharf/GoodWordsDictionary/internal/logging"
	"github.com/SimonScharf/GoodWordsDictionary/internal/lookup"
	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
	"github.com/SimonScharf/GoodWordsDictionary/internal/server"
	"github.com/SimonScharf/GoodWordsDictionary/internal/store"
)

const healthCheckTimeout = 2 * time.Second

var (
	// ErrDefinitionNotFound is returned when auto-fetch found no definition
	ErrDefinitionNotFound = errors.New("could not find a definition for this word, please enter one manually")
	// ErrDefinitionRequired is returned when a word is added without a definition
	ErrDefinitionRequired = errors.New("please enter a definition")
)

// Processor runs the goodwords flows
type Processor struct {
	cfg     Config
	out     io.Writer
	logger  *slog.Logger
	store   store.Store
	words   dictionary.Source
	definer lookup.Definer
	engine  *daily.Engine

	engineOpts []daily.Option
}

// Option configures a Processor
type Option func(*Processor)

// WithOutput redirects user-facing output (default stdout)
func WithOutput(w io.Writer) Option {
	return func(p *Processor) { p.out = w }
}

// WithDefiner replaces the lookup chain built from the configured API keys
func WithDefiner(d lookup.Definer) Option {
	return func(p *Processor) { p.definer = d }
}

// WithEngineOptions passes options to the daily engine
func WithEngineOptions(opts ...daily.Option) Option {
	return func(p *Processor) { p.engineOpts = append(p.engineOpts, opts...) }
}

// NewProcessor builds all components from cfg. Close releases the store.
func NewProcessor(ctx context.Context, cfg Config, opts ...Option) (*Processor, error) {
	p := &Processor{cfg: cfg, out: os.Stdout}
	for _, opt := range opts {
		opt(p)
	}

	logCfg := cfg.Log
	p.logger = logging.New(&logCfg)

	s, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	p.store = s

	p.words = p.buildWordSource(ctx)

	if p.definer == nil {
		definer, err := lookup.New(ctx, cfg.Lookup)
		switch {
		case err == nil:
			p.definer = definer
		case errors.Is(err, lookup.ErrNotConfigured):
			p.logger.Debug("definition lookup disabled, no API key configured")
		default:
			s.Close()
			return nil, fmt.Errorf("failed to set up definition lookup: %w", err)
		}
	}

	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	engineOpts := append([]daily.Option{
		daily.WithLocation(loc),
		daily.WithLogger(p.logger),
	}, p.engineOpts...)
	p.engine = daily.New(p.words, p.store, engineOpts...)

	return p, nil
}

// buildWordSource uses the local dictionary files, fronted by the
// dictionary API when a URL is configured
func (p *Processor) buildWordSource(ctx context.Context) dictionary.Source {
	local := dictionary.NewFile(p.cfg.DictionaryBase, p.cfg.DictionaryUser)
	if p.cfg.DictionaryURL == "" {
		return local
	}
	client := dictionary.NewClient(p.cfg.DictionaryURL, 0)

	// The fallback stays in place; the API may come up later
	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := client.Health(checkCtx); err != nil {
		p.logger.Warn("dictionary API unreachable, using local files until it answers",
			"url", p.cfg.DictionaryURL, "error", err)
	}
	return dictionary.NewFallback(client, local, p.logger)
}

// Close releases the history store
func (p *Processor) Close() error {
	return p.store.Close()
}

// Today prints and returns the word of the day
func (p *Processor) Today(ctx context.Context) (models.Word, error) {
	p.engine.CheckAndResetForNewDay(ctx)

	date, word, err := p.engine.TodaysWord(ctx)
	if err != nil {
		if errors.Is(err, daily.ErrEmptyCatalogue) {
			return models.Word{}, fmt.Errorf("no words available, add some with 'goodwords add': %w", err)
		}
		return models.Word{}, err
	}

	fmt.Fprintf(p.out, "Word of the day (%s): %s\n", date, word.Term)
	fmt.Fprintf(p.out, "  %s\n", word.Definition)
	return word, nil
}

// Stats prints and returns today's progress
func (p *Processor) Stats(ctx context.Context) (daily.Stats, error) {
	stats, err := p.engine.Stats(ctx)
	if err != nil {
		return daily.Stats{}, err
	}

	fmt.Fprintf(p.out, "Date: %s\n", stats.CurrentDate)
	fmt.Fprintf(p.out, "Total words: %d\n", stats.TotalWords)
	fmt.Fprintf(p.out, "Shown today: %d\n", stats.ShownToday)
	fmt.Fprintf(p.out, "Remaining: %d\n", stats.RemainingWords)
	return stats, nil
}

// History prints and returns the history log
func (p *Processor) History(ctx context.Context) daily.History {
	history := p.engine.History(ctx)
	if len(history) == 0 {
		fmt.Fprintln(p.out, "No history yet")
		return history
	}

	for _, rec := range history {
		fmt.Fprintf(p.out, "%s  %s", rec.Date, rec.Selected())
		if len(rec.ShownTerms) > 1 {
			fmt.Fprintf(p.out, "  (shown: %s)", strings.Join(rec.ShownTerms, ", "))
		}
		fmt.Fprintln(p.out)
	}
	return history
}

// ClearHistory forgets all shown words. With archiveFirst the current log
// is saved below the state directory first; the snapshot path is returned.
func (p *Processor) ClearHistory(ctx context.Context, archiveFirst bool) (string, error) {
	var snapshot string
	if archiveFirst {
		history := p.engine.History(ctx)
		if len(history) > 0 {
			data, err := history.Encode()
			if err != nil {
				return "", fmt.Errorf("failed to encode history: %w", err)
			}
			snapshot, err = archive.SaveHistory(p.cfg.StateDir, data)
			if err != nil {
				return "", fmt.Errorf("failed to archive history: %w", err)
			}
			fmt.Fprintf(p.out, "History archived to: %s\n", snapshot)
		}
	}

	if err := p.engine.ClearHistory(ctx); err != nil {
		return snapshot, err
	}
	fmt.Fprintln(p.out, "History cleared")
	return snapshot, nil
}

// List prints and returns all words
func (p *Processor) List(ctx context.Context) ([]models.Word, error) {
	words, err := p.words.ListWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	for _, w := range words {
		fmt.Fprintf(p.out, "%s: %s\n", w.Term, w.Definition)
	}
	fmt.Fprintf(p.out, "\n%d words\n", len(words))
	return words, nil
}

// Define looks a term up online
func (p *Processor) Define(ctx context.Context, term string) (string, error) {
	if p.definer == nil {
		return "", lookup.ErrNotConfigured
	}
	def, err := p.definer.Define(ctx, term)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s: %s\n", strings.TrimSpace(term), def)
	return def, nil
}

// AddWord adds a word to the dictionary. When autoFetch is set and no
// definition is given, one is looked up.
func (p *Processor) AddWord(ctx context.Context, term, definition string, autoFetch bool) (models.Word, int, error) {
	editable, ok := p.words.(dictionary.Editable)
	if !ok {
		return models.Word{}, 0, dictionary.ErrReadOnly
	}
	if strings.TrimSpace(term) == "" {
		return models.Word{}, 0, dictionary.ErrInvalidWord
	}

	definition = strings.TrimSpace(definition)
	if definition == "" && autoFetch {
		fetched, err := p.fetchDefinition(ctx, term)
		if err != nil {
			return models.Word{}, 0, err
		}
		definition = fetched
		fmt.Fprintf(p.out, "  Found definition: %s\n", definition)
	}
	if definition == "" {
		return models.Word{}, 0, ErrDefinitionRequired
	}

	word, total, err := editable.Add(ctx, models.Word{Term: term, Definition: definition})
	if err != nil {
		return models.Word{}, 0, err
	}
	fmt.Fprintf(p.out, "Added '%s' (%d words)\n", word.Term, total)
	return word, total, nil
}

func (p *Processor) fetchDefinition(ctx context.Context, term string) (string, error) {
	if p.definer == nil {
		return "", fmt.Errorf("%w: %w", ErrDefinitionNotFound, lookup.ErrNotConfigured)
	}
	def, err := p.definer.Define(ctx, term)
	if err != nil {
		p.logger.Debug("definition lookup failed", "term", term, "provider", p.definer.Name(), "error", err)
		return "", fmt.Errorf("%w: %w", ErrDefinitionNotFound, err)
	}
	return def, nil
}

// ImportSummary counts the outcome of a batch import
type ImportSummary struct {
	Total   int
	Added   int
	Skipped int // already in the dictionary
	Failed  int
}

// ImportBatch adds every word of a batch file. Words already in the
// dictionary are skipped; other failures are reported and counted.
func (p *Processor) ImportBatch(ctx context.Context, path string) (ImportSummary, error) {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return ImportSummary{}, err
	}

	summary := ImportSummary{Total: len(entries)}
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Term)
		_, _, err := p.AddWord(ctx, entry.Term, entry.Definition, entry.NeedsDefinition)
		switch {
		case err == nil:
			summary.Added++
		case errors.Is(err, dictionary.ErrDuplicateWord):
			fmt.Fprintf(p.out, "  ✓ Skipping '%s' - already in the dictionary\n", entry.Term)
			summary.Skipped++
		default:
			fmt.Fprintf(os.Stderr, "Error adding '%s': %v\n", entry.Term, err)
			summary.Failed++
		}
	}

	fmt.Fprintf(p.out, "\n=== Import Summary ===\n")
	fmt.Fprintf(p.out, "Total words: %d\n", summary.Total)
	fmt.Fprintf(p.out, "Added: %d\n", summary.Added)
	fmt.Fprintf(p.out, "Skipped (already present): %d\n", summary.Skipped)
	if summary.Failed > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", summary.Failed)
	}
	fmt.Fprintf(p.out, "======================\n")

	return summary, nil
}

// ExportAnki writes the dictionary as an Anki import file (.csv or .apkg).
// Words that were word of the day carry the dates in their notes.
func (p *Processor) ExportAnki(ctx context.Context, path string) (int, error) {
	words, err := p.words.ListWords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list words: %w", err)
	}
	if len(words) == 0 {
		return 0, dictionary.ErrEmptyDictionary
	}

	dates := make(map[string][]string)
	for _, rec := range p.engine.History(ctx) {
		if term := rec.Selected(); term != "" {
			key := models.Word{Term: term}.Key()
			dates[key] = append(dates[key], rec.Date)
		}
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     path,
		IncludeHeaders: p.cfg.CSVHeaders,
		DeckName:       p.cfg.DeckName,
	})
	for _, w := range words {
		card := anki.Card{Term: w.Term, Definition: w.Definition}
		if d := dates[w.Key()]; len(d) > 0 {
			card.Notes = "word of the day " + strings.Join(d, ", ")
		}
		gen.AddCard(card)
	}

	if err := gen.Generate(); err != nil {
		return 0, err
	}

	total, withNotes := gen.Stats()
	fmt.Fprintf(p.out, "Exported %d cards (%d were word of the day) to %s\n", total, withNotes, path)
	return total, nil
}

// Serve runs the dictionary API until ctx is cancelled
func (p *Processor) Serve(ctx context.Context) error {
	addr := p.cfg.ServerAddr
	if addr == "" {
		addr = server.DefaultAddr
	}

	opts := []server.Option{
		server.WithAddr(addr),
		server.WithLogger(p.logger),
	}
	// A remote store would proxy the kv routes to itself
	if store.NormalizeBackend(p.cfg.Store.Backend) != store.BackendRemote {
		opts = append(opts, server.WithKV(p.store))
	}

	fmt.Fprintf(p.out, "Dictionary server running on %s\n", addr)
	return server.New(p.words, p.engine, opts...).Run(ctx)
}
