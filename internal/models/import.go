package models

type ImportSummary struct {
	Created int          `json:"created"`
	Skipped int          `json:"skipped"`
	Errors  []string     `json:"errors"`
	Deck    DeckProgress `json:"deck"`
}
