package daily

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/SimonScharf/GoodWordsDictionary/internal"
	"github.com/SimonScharf/GoodWordsDictionary/internal/logging"
	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
)

// DefaultHistoryKey is the store key holding the serialized history log
const DefaultHistoryKey = "wordHistory"

// WordSource supplies the merged, de-duplicated catalogue
type WordSource interface {
	ListWords(ctx context.Context) ([]models.Word, error)
}

// HistoryStore is the byte-oriented key-value store the history log lives in
type HistoryStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Stats summarizes today's progress through the catalogue
type Stats struct {
	TotalWords     int    `json:"totalWords"`
	ShownToday     int    `json:"shownToday"`
	RemainingWords int    `json:"remainingWords"`
	CurrentDate    string `json:"currentDate"`
}

// Engine selects the word of the day. It is safe for concurrent use; the
// history read-modify-write cycle is serialized.
type Engine struct {
	mu sync.Mutex

	source WordSource
	store  HistoryStore
	key    string
	now    func() time.Time
	loc    *time.Location
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the time source used to resolve today's date
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone whose calendar date is "today"
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithRand sets the random source used for picking words
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger storage faults and stale selections are reported to
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithKey overrides the store key of the history log
func WithKey(key string) Option {
	return func(e *Engine) { e.key = key }
}

// New creates an engine over the given word source and history store
func New(source WordSource, store HistoryStore, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		store:  store,
		key:    DefaultHistoryKey,
		now:    time.Now,
		loc:    time.Local,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the date key the engine currently files records under
func (e *Engine) Today() string {
	return internal.DateKey(e.now(), e.loc)
}

// WordOfTheDay returns today's word, picking and recording one if none was
// chosen yet. Repeated calls on the same date return the same word.
func (e *Engine) WordOfTheDay(ctx context.Context) (models.Word, error) {
	_, word, err := e.TodaysWord(ctx)
	return word, err
}

// TodaysWord is WordOfTheDay that also returns the date the word is filed
// under, which can differ from a later Today call around midnight.
func (e *Engine) TodaysWord(ctx context.Context) (string, models.Word, error) {
	words, err := e.listWords(ctx)
	if err != nil {
		return "", models.Word{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	date := e.Today()
	history := e.load(ctx)
	pos, _ := history.ensure(date)
	rec := &history[pos]

	if rec.HasSelection() {
		if w, ok := resolveSelection(rec, words); ok {
			return date, w, nil
		}
		e.logger.Warn("stale word selection, picking again",
			"date", date, "term", rec.SelectedTerm, "index", derefIndex(rec.SelectedIndex), "words", len(words))
		rec.clearSelection()
	}

	shown := rec.shownSet()
	pool := make([]int, 0, len(words))
	for i, w := range words {
		if _, ok := shown[w.Key()]; !ok {
			pool = append(pool, i)
		}
	}

	// Whole catalogue shown today: start a new cycle within the same date
	if len(pool) == 0 {
		e.logger.Info("word pool exhausted, starting new cycle", "date", date, "words", len(words))
		rec.ShownTerms = []string{}
		for i := range words {
			pool = append(pool, i)
		}
	}

	index := pool[e.intn(len(pool))]
	picked := words[index]
	rec.selectWord(picked.Term, index)

	e.save(ctx, history)
	return date, picked, nil
}

// CheckAndResetForNewDay reports whether today already has a record. Record
// creation is left to WordOfTheDay, so a new day needs no work here.
func (e *Engine) CheckAndResetForNewDay(ctx context.Context) {
	date := e.Today()
	if e.load(ctx).Find(date) < 0 {
		e.logger.Debug("new day, record will be created on first pick", "date", date)
	}
}

// Stats reports today's progress. It creates and persists today's record
// when none exists yet.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	words, err := e.source.ListWords(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list words: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	date := e.Today()
	history := e.load(ctx)
	pos, created := history.ensure(date)
	if created {
		e.save(ctx, history)
	}

	shown := len(history[pos].ShownTerms)
	return Stats{
		TotalWords:     len(words),
		ShownToday:     shown,
		RemainingWords: max(0, len(words)-shown),
		CurrentDate:    date,
	}, nil
}

// History returns a snapshot of the whole history log
func (e *Engine) History(ctx context.Context) History {
	return e.load(ctx)
}

// ClearHistory deletes the history log from the store. Storage faults are
// logged, not returned; the error only reports a cancelled context.
func (e *Engine) ClearHistory(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Remove(ctx, e.key); err != nil {
		e.logger.Warn("history store unavailable", "op", "remove", "key", e.key, "error", err)
	}
	return nil
}

func (e *Engine) listWords(ctx context.Context) ([]models.Word, error) {
	words, err := e.source.ListWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCatalogue
	}
	return words, nil
}

// load reads the history log; any fault yields an empty log
func (e *Engine) load(ctx context.Context) History {
	data, ok, err := e.store.Get(ctx, e.key)
	if err != nil {
		e.logger.Warn("history store unavailable", "op", "get", "key", e.key, "error", err)
		return History{}
	}
	if !ok {
		return History{}
	}

	history, err := DecodeHistory(data)
	if err != nil {
		e.logger.Warn("history log unreadable, starting fresh", "key", e.key, "error", err)
		return History{}
	}
	return history
}

func (e *Engine) save(ctx context.Context, history History) {
	data, err := history.Encode()
	if err != nil {
		e.logger.Error("failed to encode history", "error", err)
		return
	}
	if err := e.store.Set(ctx, e.key, data); err != nil {
		e.logger.Warn("history store unavailable", "op", "set", "key", e.key, "error", err)
	}
}

func (e *Engine) intn(n int) int {
	if e.rng != nil {
		return e.rng.IntN(n)
	}
	return rand.IntN(n)
}

// resolveSelection maps the record's memoized selection onto the current
// catalogue. It fails when the catalogue changed underneath the selection.
func resolveSelection(rec *Record, words []models.Word) (models.Word, bool) {
	if rec.SelectedTerm != "" {
		for _, w := range words {
			if strings.EqualFold(strings.TrimSpace(w.Term), strings.TrimSpace(rec.SelectedTerm)) {
				return w, true
			}
		}
		return models.Word{}, false
	}

	// Index-only records come from older history logs
	idx := *rec.SelectedIndex
	if idx < 0 || idx >= len(words) {
		return models.Word{}, false
	}
	w := words[idx]
	if last := rec.lastShown(); last != "" && internal.NormalizeTerm(last) != w.Key() {
		return models.Word{}, false
	}
	return w, true
}

func derefIndex(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}
