package flashcard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanvik/bugdrill/internal/diagnose"
	"github.com/tanvik/bugdrill/internal/store"
)

func testDrafts() []diagnose.Draft {
	return []diagnose.Draft{
		{
			Concept:     "Off-by-one in range bounds",
			FrontCode:   "for i in range(len(xs) + 1):",
			BackCode:    "for i in range(len(xs)):",
			Explanation: "range already stops before len(xs).",
		},
		{
			Concept:        "Mutable default argument",
			FrontCode:      "def add(x, acc=[]):",
			ErrorHighlight: "acc=[]",
			BackCode:       "def add(x, acc=None):",
			Explanation:    "Default lists are shared across calls.",
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.json")
	return NewEngine(store.NewFileCardStore(path), nil)
}

func TestIngest(t *testing.T) {
	e := newTestEngine(t)

	created := e.Ingest(testDrafts())
	require.Len(t, created, 2)

	assert.NotEmpty(t, created[0].ID)
	assert.NotEmpty(t, created[1].ID)
	assert.NotEqual(t, created[0].ID, created[1].ID, "ids must be distinct within a batch")

	for _, c := range created {
		assert.Equal(t, StatusNew, c.Stats.Status)
		assert.Zero(t, c.Stats.CorrectStreak)
		assert.Zero(t, c.Stats.IncorrectCount)
	}

	// Draft order is preserved.
	cards := e.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "Off-by-one in range bounds", cards[0].Concept)
	assert.Equal(t, "Mutable default argument", cards[1].Concept)
}

func TestIngest_DoesNotTouchExistingCards(t *testing.T) {
	e := newTestEngine(t)
	first := e.Ingest(testDrafts())

	_, err := e.RecordAnswer(first[0].ID, true)
	require.NoError(t, err)

	e.Ingest(testDrafts()[:1])

	cards := e.Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, first[0].ID, cards[0].ID)
	assert.Equal(t, 1, cards[0].Stats.CorrectStreak)
}

func TestRecordAnswer_MasteryScenario(t *testing.T) {
	e := newTestEngine(t)
	created := e.Ingest(testDrafts())
	id := created[0].ID

	for i := 0; i < 3; i++ {
		card, err := e.RecordAnswer(id, true)
		require.NoError(t, err)
		assert.Equal(t, i+1, card.Stats.CorrectStreak)
	}

	cards := e.Cards()
	assert.Equal(t, StatusMastered, cards[0].Stats.Status)

	active := e.ActiveCards()
	require.Len(t, active, 1, "mastered card must leave the active set")
	assert.Equal(t, created[1].ID, active[0].ID)

	removed := e.PurgeMastered()
	assert.Equal(t, 1, removed)
	assert.Len(t, e.Cards(), 1)

	assert.Equal(t, 0, e.PurgeMastered(), "second purge removes nothing")
}

func TestRecordAnswer_NotFound(t *testing.T) {
	e := newTestEngine(t)
	e.Ingest(testDrafts())

	_, err := e.RecordAnswer("no-such-id", true)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestActiveCards_NeverContainsMastered(t *testing.T) {
	e := newTestEngine(t)
	created := e.Ingest(testDrafts())

	for _, c := range created {
		for i := 0; i < 3; i++ {
			_, err := e.RecordAnswer(c.ID, true)
			require.NoError(t, err)
		}
	}

	assert.Empty(t, e.ActiveCards())
	assert.Len(t, e.Cards(), 2)
}

func TestEngine_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	repo := store.NewFileCardStore(path)

	e := NewEngine(repo, nil)
	created := e.Ingest(testDrafts())
	_, err := e.RecordAnswer(created[0].ID, false)
	require.NoError(t, err)

	// Fresh engine on the same store sees the same collection.
	e2 := NewEngine(repo, nil)
	cards := e2.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, created[0].ID, cards[0].ID)
	assert.Equal(t, 1, cards[0].Stats.IncorrectCount)
	assert.Equal(t, StatusNew, cards[0].Stats.Status)
}

func TestEngine_CorruptStoreStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	e := NewEngine(store.NewFileCardStore(path), nil)
	assert.Empty(t, e.Cards())

	// The engine stays usable and repairs the slot on next mutation.
	e.Ingest(testDrafts()[:1])
	e2 := NewEngine(store.NewFileCardStore(path), nil)
	assert.Len(t, e2.Cards(), 1)
}

// brokenStore fails every Save to exercise durability loss.
type brokenStore struct{}

func (brokenStore) Load() ([]store.CardRecord, error) { return nil, nil }
func (brokenStore) Save([]store.CardRecord) error     { return errors.New("disk full") }

func TestEngine_StoreFailureKeepsMemoryUsable(t *testing.T) {
	e := NewEngine(brokenStore{}, nil)

	created := e.Ingest(testDrafts())
	require.Len(t, created, 2)

	card, err := e.RecordAnswer(created[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, card.Stats.CorrectStreak)
	assert.Len(t, e.Cards(), 2)
}
