// Package study orders cards for a study run and applies answers to them.
// There is no scheduling: "mistake_priority" is a single sort.
package study

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// ValidMode reports whether mode is a known study mode.
func ValidMode(mode string) bool {
	return mode == models.StudyModeRandom || mode == models.StudyModeMistakePriority
}

// Order returns a copy of cards arranged for mode. Unknown modes fall back to
// random. A nil rng uses the global source.
func Order(cards []models.Card, mode string, rng *rand.Rand) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)

	if mode == models.StudyModeMistakePriority {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.MistakeCount != b.MistakeCount {
				return a.MistakeCount > b.MistakeCount
			}
			if a.Position != b.Position {
				return a.Position < b.Position
			}
			return a.ID < b.ID
		})
		return out
	}

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng != nil {
		rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out
}

// Limit truncates cards to at most n entries; n <= 0 means no limit.
func Limit(cards []models.Card, n int) []models.Card {
	if n <= 0 || len(cards) <= n {
		return cards
	}
	return cards[:n]
}

// ApplyAnswer records one answer. A wrong answer increments mistake_count;
// every answer stamps last_reviewed_at. Mastery is left untouched.
func ApplyAnswer(card models.Card, correct bool, at time.Time) models.Card {
	if !correct {
		card.MistakeCount++
	}
	reviewed := at.UTC()
	card.LastReviewedAt = &reviewed
	return card
}
