package flashcard

// Session is a transient view over the active (non-mastered) subset of
// the collection, with a current-position pointer. It holds no copy of
// the cards: every read recomputes against the live collection, so a
// card that masters mid-session disappears without stale-index bugs.
// Sessions are never persisted.
type Session struct {
	engine    *Engine
	currentID string

	// Per-visit transient state, reset on every advance.
	DraftAnswer string
	Revealed    bool
}

// NewSession starts a review session positioned at the first active card.
func NewSession(engine *Engine) *Session {
	s := &Session{engine: engine}
	if active := engine.ActiveCards(); len(active) > 0 {
		s.currentID = active[0].ID
	}
	return s
}

// Current returns the card under review, recomputed against the live
// active set. If the pointed-at card has left the set (it mastered, or
// was purged), the session repositions to the first active card. Returns
// nil once no active cards remain: the session is complete.
func (s *Session) Current() *Card {
	active := s.engine.ActiveCards()
	if len(active) == 0 {
		return nil
	}
	for i := range active {
		if active[i].ID == s.currentID {
			c := active[i]
			return &c
		}
	}
	s.currentID = active[0].ID
	c := active[0]
	return &c
}

// Done reports whether the active set is empty. Sessions never end on
// their own while active cards remain; review loops forever until closed
// externally or every card masters.
func (s *Session) Done() bool {
	return len(s.engine.ActiveCards()) == 0
}

// Answer grades the draft answer against the current card, records the
// result, and reveals the back of the card. Returns whether the answer
// was equivalent and the card's updated state.
func (s *Session) Answer(typed string) (bool, Card, error) {
	current := s.Current()
	if current == nil {
		return false, Card{}, ErrCardNotFound
	}

	correct := EquivalentAnswer(typed, current.BackCode)
	updated, err := s.engine.RecordAnswer(current.ID, correct)
	if err != nil {
		return false, Card{}, err
	}

	s.DraftAnswer = typed
	s.Revealed = true
	return correct, updated, nil
}

// Advance moves the pointer to the next active card, wrapping to the
// start, and resets the per-visit transient state. The active sequence
// is recomputed first, so a card that just mastered is skipped.
func (s *Session) Advance() {
	s.currentID = nextActive(s.engine.ActiveCards(), s.currentID)
	s.DraftAnswer = ""
	s.Revealed = false
}

// nextActive returns the id of the card after currentID in the active
// sequence, wrapping to index 0 past the end. When currentID is no
// longer in the sequence the first card takes its place. Empty string
// means no active cards remain.
func nextActive(active []Card, currentID string) string {
	if len(active) == 0 {
		return ""
	}
	for i := range active {
		if active[i].ID == currentID {
			return active[(i+1)%len(active)].ID
		}
	}
	return active[0].ID
}
