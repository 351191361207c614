package flashcard

import "time"

// Status is a card's position in the mastery lifecycle.
type Status string

const (
	StatusNew      Status = "new"      // no answer recorded yet
	StatusLearning Status = "learning" // answered, neither threshold met
	StatusCritical Status = "critical" // three cumulative misses
	StatusMastered Status = "mastered" // three consecutive hits, sticky
)

const (
	// masteryStreak is the consecutive-correct count that masters a card.
	masteryStreak = 3

	// criticalMisses is the cumulative-incorrect count that marks a card
	// critical.
	criticalMisses = 3
)

// Stats is a card's mastery state. It changes only through applyAnswer.
type Stats struct {
	CorrectStreak  int
	IncorrectCount int
	Status         Status
}

// applyAnswer is the single transition function for card stats.
//
// A correct answer extends the streak and masters the card at three.
// An incorrect answer resets the streak, counts the miss, and marks the
// card critical at three cumulative misses. Mastery is sticky: once
// reached, later misses still count but never demote the card.
func (s *Stats) applyAnswer(correct bool) {
	if correct {
		s.CorrectStreak++
		if s.Status == StatusMastered {
			return
		}
		if s.CorrectStreak >= masteryStreak {
			s.Status = StatusMastered
		} else {
			s.Status = StatusLearning
		}
		return
	}

	s.CorrectStreak = 0
	s.IncorrectCount++
	if s.Status == StatusMastered {
		return
	}
	if s.IncorrectCount >= criticalMisses {
		s.Status = StatusCritical
	}
	// Below the threshold the status keeps its prior value: misses alone
	// never demote a learning card back to new.
}

// Card is a durable flashcard owned by the engine's collection.
type Card struct {
	ID             string
	Concept        string
	FrontCode      string
	ErrorHighlight string
	BackCode       string
	Explanation    string
	CreatedAt      time.Time
	Stats          Stats
}

// Active reports whether the card still belongs in review.
func (c *Card) Active() bool {
	return c.Stats.Status != StatusMastered
}
