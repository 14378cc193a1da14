package entities

import "time"

// UserEconomy is a user's wallet, bank and economy xp within a guild
type UserEconomy struct {
	Balance         int64     `json:"balance"`
	Bank            int64     `json:"bank"`
	LastDailyClaim  time.Time `json:"lastDailyClaim"`
	LastWeeklyClaim time.Time `json:"lastWeeklyClaim"`
	TotalEarned     int64     `json:"totalEarned"`
	TotalSpent      int64     `json:"totalSpent"`
	Level           int       `json:"level"`
	XP              int64     `json:"xp"`

	// Seq records creation order, used to break leaderboard ties
	Seq int64 `json:"seq"`
}

// Total returns wallet plus bank
func (u *UserEconomy) Total() int64 {
	return u.Balance + u.Bank
}

// EconomyBalance is the read model returned by balance lookups
type EconomyBalance struct {
	Balance int64
	Bank    int64
	Total   int64
}

// LevelInfo describes progress towards the next economy level
type LevelInfo struct {
	Level     int
	XP        int64
	XPForNext int64
}

// LevelChange reports the outcome of an xp mutation
type LevelChange struct {
	LevelUp  bool
	NewLevel int
}

// EconomyMetric selects the value an economy leaderboard is sorted by
type EconomyMetric string

const (
	EconomyMetricBalance EconomyMetric = "balance"
	EconomyMetricLevel   EconomyMetric = "level"
	EconomyMetricTotal   EconomyMetric = "total"
)

// EconomyRanking is a single leaderboard row
type EconomyRanking struct {
	Rank   int
	UserID string
	Value  int64
}

// CoinSide is one face of a coinflip
type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// CoinflipResult is the settled outcome of a coinflip wager
type CoinflipResult struct {
	Choice     CoinSide
	Landed     CoinSide
	Won        bool
	Amount     int64
	XP         int64
	NewBalance int64
	Level      LevelChange
}
