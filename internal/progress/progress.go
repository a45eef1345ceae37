// Package progress derives mastery percentages, study streaks and daily study
// totals from card and session records. Every function is pure; callers load
// the inputs (scoped to a single user) and persist the results.
package progress

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/vytor/flashdeck/internal/models"
)

// SeriesDays is the length of the trailing daily series.
const SeriesDays = 7

// Percent returns floor(mastered / total * 100), always within [0, 100].
// An empty deck, or an impossible mastered count for an empty deck, yields 0.
func Percent(mastered, total int) int {
	if total <= 0 || mastered <= 0 {
		return 0
	}
	if mastered >= total {
		return 100
	}
	return mastered * 100 / total
}

// Deck builds the counter pair persisted on a deck.
func Deck(deckID int64, liveCards, masteredCards int) models.DeckProgress {
	if liveCards < 0 {
		liveCards = 0
	}
	return models.DeckProgress{
		DeckID:     deckID,
		TotalCards: liveCards,
		Progress:   Percent(masteredCards, liveCards),
	}
}

// Streak counts consecutive calendar days, ending at today, that appear in
// dates. Duplicates and dates after today are ignored. No session today
// means a streak of 0.
func Streak(dates []civil.Date, today civil.Date) int {
	seen := make(map[civil.Date]struct{}, len(dates))
	for _, d := range dates {
		if d.After(today) {
			continue
		}
		seen[d] = struct{}{}
	}

	streak := 0
	for day := today; ; day = day.AddDays(-1) {
		if _, ok := seen[day]; !ok {
			break
		}
		streak++
	}
	return streak
}

// DailySeries returns SeriesDays entries from today-6 through today, oldest
// first. minutes maps a session date to the summed duration for that day.
func DailySeries(minutes map[civil.Date]int, today civil.Date) []models.DailyMinutes {
	series := make([]models.DailyMinutes, 0, SeriesDays)
	for offset := SeriesDays - 1; offset >= 0; offset-- {
		day := today.AddDays(-offset)
		series = append(series, models.DailyMinutes{
			Date:    day,
			Weekday: WeekdayLabel(day),
			Minutes: minutes[day],
		})
	}
	return series
}

// TodayMinutes is the summed duration of sessions dated today.
func TodayMinutes(minutes map[civil.Date]int, today civil.Date) int {
	return minutes[today]
}

// WeekdayLabel returns the three-letter English weekday, e.g. "Mon".
func WeekdayLabel(d civil.Date) string {
	return d.In(time.UTC).Weekday().String()[:3]
}

// Overall is the arithmetic mean of deck progress values rounded half up.
// Values are clamped into [0, 100] first; no decks yields 0.
func Overall(deckProgress []int) int {
	if len(deckProgress) == 0 {
		return 0
	}
	sum := 0
	for _, p := range deckProgress {
		switch {
		case p < 0:
			p = 0
		case p > 100:
			p = 100
		}
		sum += p
	}
	n := len(deckProgress)
	// floor(sum/n + 1/2) without floating point.
	return (2*sum + n) / (2 * n)
}

// Roll folds one completed session into the user's rolling summary.
func Roll(stat models.UserOverallStat, date civil.Date, durationMinutes, cardsReviewed int) models.UserOverallStat {
	switch {
	case stat.LastStudyDate == nil:
		stat.StreakDays = 1
		stat.TotalStudyDays = 1
	case *stat.LastStudyDate == date:
		if stat.StreakDays == 0 {
			stat.StreakDays = 1
		}
	case stat.LastStudyDate.AddDays(1) == date:
		stat.StreakDays++
		stat.TotalStudyDays++
	case date.After(*stat.LastStudyDate):
		stat.StreakDays = 1
		stat.TotalStudyDays++
	}
	// A date before last_study_date only happens after a timezone change; the
	// streak stays anchored to the later date.
	if stat.LastStudyDate == nil || date.After(*stat.LastStudyDate) {
		d := date
		stat.LastStudyDate = &d
	}
	if stat.StreakDays > stat.LongestStreak {
		stat.LongestStreak = stat.StreakDays
	}
	stat.TotalStudySeconds += int64(durationMinutes) * 60
	stat.TotalCardsStudied += cardsReviewed
	return stat
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now.In(loc))
}
