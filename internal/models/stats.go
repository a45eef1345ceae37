package models

import "cloud.google.com/go/civil"

// DailyMinutes is one point of the trailing study-time series.
type DailyMinutes struct {
	Date    civil.Date `json:"date"`
	Weekday string     `json:"day"`
	Minutes int        `json:"minutes"`
}

type UserStats struct {
	TodayMinutes    int            `json:"today_minutes"`
	StreakDays      int            `json:"streak_days"`
	OverallProgress int            `json:"overall_progress"`
	DailySeries     []DailyMinutes `json:"daily_data"`
	LongestStreak   int            `json:"longest_streak"`
	TotalStudyDays  int            `json:"total_study_days"`
}

// UserOverallStat is the rolling per-user summary updated with every session.
type UserOverallStat struct {
	UserID            int64       `json:"user_id"`
	StreakDays        int         `json:"streak_days"`
	LongestStreak     int         `json:"longest_streak"`
	LastStudyDate     *civil.Date `json:"last_study_date"`
	TotalStudyDays    int         `json:"total_study_days"`
	TotalStudySeconds int64       `json:"total_study_seconds"`
	TotalCardsStudied int         `json:"total_cards_studied"`
}

type DailyUserStat struct {
	UserID            int64      `json:"user_id"`
	StudyDate         civil.Date `json:"study_date"`
	StudySeconds      int        `json:"study_seconds"`
	TotalCardsStudied int        `json:"total_cards_studied"`
	TotalCardsCorrect int        `json:"total_cards_correct"`
}
