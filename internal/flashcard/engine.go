package flashcard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/tanvik/bugdrill/internal/diagnose"
	"github.com/tanvik/bugdrill/internal/store"
)

// ErrCardNotFound reports an answer recorded against an id that is not
// in the collection. The id space is entirely internal, so this is a
// consistency bug in the caller rather than a user-facing condition.
var ErrCardNotFound = errors.New("flashcard not found")

// Engine owns the durable flashcard collection. All mutation goes through
// its operations, each atomic under the engine's lock, and the full
// collection is written back to the card store after every mutation.
// A failing store is logged and tolerated: the in-memory collection stays
// valid for the rest of the process even if durability is lost.
type Engine struct {
	mu    sync.Mutex
	cards []*Card
	repo  store.CardStore
	log   *zap.Logger
}

// NewEngine creates an Engine, loading the collection from the store
// once. A missing or unparsable store yields an empty collection; the
// problem is logged, never fatal.
func NewEngine(repo store.CardStore, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{repo: repo, log: log}

	records, err := repo.Load()
	if err != nil {
		log.Warn("could not load flashcard collection, starting empty", zap.Error(err))
		return e
	}
	for _, rec := range records {
		c := cardFromRecord(rec)
		e.cards = append(e.cards, &c)
	}
	return e
}

// Ingest turns drafts from one diagnosis into tracked cards and appends
// them to the collection in draft order. Each card gets a fresh
// collision-free id and zeroed stats. Existing cards are untouched.
// Returns the newly created cards.
func (e *Engine) Ingest(drafts []diagnose.Draft) []Card {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	created := make([]Card, 0, len(drafts))
	for i, d := range drafts {
		c := &Card{
			ID:             e.newID(now, i),
			Concept:        d.Concept,
			FrontCode:      d.FrontCode,
			ErrorHighlight: d.ErrorHighlight,
			BackCode:       d.BackCode,
			Explanation:    d.Explanation,
			CreatedAt:      now,
			Stats:          Stats{Status: StatusNew},
		}
		e.cards = append(e.cards, c)
		created = append(created, *c)
	}

	if len(created) > 0 {
		e.persist()
	}
	return created
}

// RecordAnswer applies the mastery transition for one review answer and
// returns the updated card. This is the only way card stats change.
func (e *Engine) RecordAnswer(id string, correct bool) (Card, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range e.cards {
		if c.ID == id {
			c.Stats.applyAnswer(correct)
			e.persist()
			return *c, nil
		}
	}
	return Card{}, fmt.Errorf("%w: %s", ErrCardNotFound, id)
}

// ActiveCards returns every non-mastered card in insertion order.
func (e *Engine) ActiveCards() []Card {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Card
	for _, c := range e.cards {
		if c.Active() {
			out = append(out, *c)
		}
	}
	return out
}

// Cards returns a snapshot of the whole collection in insertion order.
func (e *Engine) Cards() []Card {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Card, len(e.cards))
	for i, c := range e.cards {
		out[i] = *c
	}
	return out
}

// PurgeMastered removes every mastered card and returns how many were
// removed. Irreversible.
func (e *Engine) PurgeMastered() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.cards[:0]
	removed := 0
	for _, c := range e.cards {
		if c.Stats.Status == StatusMastered {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	e.cards = kept

	if removed > 0 {
		e.persist()
	}
	return removed
}

// newID synthesizes a card id unique across the collection and the batch.
func (e *Engine) newID(now time.Time, pos int) string {
	if id, err := gonanoid.New(); err == nil {
		return id
	}
	// Entropy failure: fall back to coarse timestamp plus batch position.
	return fmt.Sprintf("card-%d-%d", now.UnixMilli(), pos)
}

// persist writes the full collection back to the store. Called with the
// lock held, after every mutation.
func (e *Engine) persist() {
	records := make([]store.CardRecord, len(e.cards))
	for i, c := range e.cards {
		records[i] = recordFromCard(*c)
	}
	if err := e.repo.Save(records); err != nil {
		e.log.Warn("could not persist flashcard collection", zap.Error(err))
	}
}

func cardFromRecord(rec store.CardRecord) Card {
	status := Status(rec.Stats.Status)
	switch status {
	case StatusNew, StatusLearning, StatusCritical, StatusMastered:
	default:
		status = StatusNew
	}
	return Card{
		ID:             rec.ID,
		Concept:        rec.Concept,
		FrontCode:      rec.FrontCode,
		ErrorHighlight: rec.ErrorHighlight,
		BackCode:       rec.BackCode,
		Explanation:    rec.Explanation,
		CreatedAt:      rec.CreatedAt,
		Stats: Stats{
			CorrectStreak:  rec.Stats.CorrectStreak,
			IncorrectCount: rec.Stats.IncorrectCount,
			Status:         status,
		},
	}
}

func recordFromCard(c Card) store.CardRecord {
	return store.CardRecord{
		ID:             c.ID,
		Concept:        c.Concept,
		FrontCode:      c.FrontCode,
		ErrorHighlight: c.ErrorHighlight,
		BackCode:       c.BackCode,
		Explanation:    c.Explanation,
		CreatedAt:      c.CreatedAt,
		Stats: store.CardStatsRecord{
			CorrectStreak:  c.Stats.CorrectStreak,
			IncorrectCount: c.Stats.IncorrectCount,
			Status:         string(c.Stats.Status),
		},
	}
}
