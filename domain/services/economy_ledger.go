package services

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/events"
	"guildbot/storage"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

const (
	DailyCooldown  = 24 * time.Hour
	WeeklyCooldown = 7 * 24 * time.Hour

	dailyRewardMin   = 250
	dailyRewardSpan  = 500
	weeklyRewardMin  = 1000
	weeklyRewardSpan = 2000
)

// EconomyLedger is a guild's wallet, bank and economy xp ledger
type EconomyLedger struct {
	guildID         string
	doc             *storage.Document[entities.UserEconomy]
	clock           clockwork.Clock
	publisher       interfaces.EventPublisher
	startingBalance int64

	// randN returns a uniform value in [0,n)
	randN func(n int64) int64

	mu sync.Mutex
}

// NewEconomyLedger creates the ledger for one guild over the shared economy document
func NewEconomyLedger(
	guildID string,
	doc *storage.Document[entities.UserEconomy],
	clock clockwork.Clock,
	publisher interfaces.EventPublisher,
	startingBalance int64,
) *EconomyLedger {
	return &EconomyLedger{
		guildID:         guildID,
		doc:             doc,
		clock:           clock,
		publisher:       publisher,
		startingBalance: startingBalance,
		randN:           rand.Int63n,
	}
}

func (l *EconomyLedger) key(userID string) string {
	return storage.Key(l.guildID, userID)
}

// user returns the record for userID, creating and persisting it on first access. Caller holds mu.
func (l *EconomyLedger) user(ctx context.Context, userID string) entities.UserEconomy {
	if u, ok := l.doc.Get(l.key(userID)); ok {
		return u
	}

	u := entities.UserEconomy{
		Balance:     l.startingBalance,
		TotalEarned: l.startingBalance,
		Level:       1,
		Seq:         l.nextSeq(),
	}
	l.doc.Put(ctx, l.key(userID), u)

	log.WithFields(log.Fields{
		"guildID": l.guildID,
		"userID":  userID,
	}).Debug("Created economy record")
	return u
}

func (l *EconomyLedger) nextSeq() int64 {
	var last int64
	for _, u := range l.doc.Scan(l.guildID + "-") {
		last = max(last, u.Seq)
	}
	return last + 1
}

func (l *EconomyLedger) save(ctx context.Context, userID string, u entities.UserEconomy) {
	l.doc.Put(ctx, l.key(userID), u)
}

// GetBalance returns wallet, bank and their total
func (l *EconomyLedger) GetBalance(ctx context.Context, userID string) entities.EconomyBalance {
	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.user(ctx, userID)
	return entities.EconomyBalance{Balance: u.Balance, Bank: u.Bank, Total: u.Total()}
}

// GetStats returns a copy of the whole record
func (l *EconomyLedger) GetStats(ctx context.Context, userID string) entities.UserEconomy {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.user(ctx, userID)
}

// AddMoney credits amount to the wallet or bank. Non-positive amounts are rejected.
func (l *EconomyLedger) AddMoney(ctx context.Context, userID string, amount int64, toBank bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addMoney(ctx, userID, amount, toBank)
}

func (l *EconomyLedger) addMoney(ctx context.Context, userID string, amount int64, toBank bool) bool {
	if amount <= 0 {
		return false
	}

	u := l.user(ctx, userID)
	if toBank {
		u.Bank += amount
	} else {
		u.Balance += amount
	}
	u.TotalEarned += amount
	l.save(ctx, userID, u)
	return true
}

// RemoveMoney debits amount from the wallet or bank. It fails without mutation when the
// amount is non-positive or the targeted pool is short.
func (l *EconomyLedger) RemoveMoney(ctx context.Context, userID string, amount int64, fromBank bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeMoney(ctx, userID, amount, fromBank)
}

func (l *EconomyLedger) removeMoney(ctx context.Context, userID string, amount int64, fromBank bool) bool {
	if amount <= 0 {
		return false
	}

	u := l.user(ctx, userID)
	pool := &u.Balance
	if fromBank {
		pool = &u.Bank
	}
	if *pool < amount {
		return false
	}
	*pool -= amount
	u.TotalSpent += amount
	l.save(ctx, userID, u)
	return true
}

// Transfer moves amount from one wallet to another
func (l *EconomyLedger) Transfer(ctx context.Context, fromUserID, toUserID string, amount int64) bool {
	if amount <= 0 || fromUserID == toUserID {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.removeMoney(ctx, fromUserID, amount, false) {
		return false
	}
	return l.addMoney(ctx, toUserID, amount, false)
}

// Deposit moves amount from wallet to bank
func (l *EconomyLedger) Deposit(ctx context.Context, userID string, amount int64) bool {
	return l.move(ctx, userID, amount, true)
}

// Withdraw moves amount from bank to wallet
func (l *EconomyLedger) Withdraw(ctx context.Context, userID string, amount int64) bool {
	return l.move(ctx, userID, amount, false)
}

func (l *EconomyLedger) move(ctx context.Context, userID string, amount int64, toBank bool) bool {
	if amount <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.user(ctx, userID)
	from, to := &u.Balance, &u.Bank
	if !toBank {
		from, to = &u.Bank, &u.Balance
	}
	if *from < amount {
		return false
	}
	*from -= amount
	*to += amount
	l.save(ctx, userID, u)
	return true
}

// CanClaimDaily reports whether the daily cooldown has elapsed
func (l *EconomyLedger) CanClaimDaily(ctx context.Context, userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := l.user(ctx, userID)
	return l.clock.Since(u.LastDailyClaim) >= DailyCooldown
}

// ClaimDaily credits the daily reward and returns it, or returns 0 while on cooldown
func (l *EconomyLedger) ClaimDaily(ctx context.Context, userID string) int64 {
	return l.claim(ctx, userID, false)
}

// CanClaimWeekly reports whether the weekly cooldown has elapsed
func (l *EconomyLedger) CanClaimWeekly(ctx context.Context, userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := l.user(ctx, userID)
	return l.clock.Since(u.LastWeeklyClaim) >= WeeklyCooldown
}

// ClaimWeekly credits the weekly reward and returns it, or returns 0 while on cooldown
func (l *EconomyLedger) ClaimWeekly(ctx context.Context, userID string) int64 {
	return l.claim(ctx, userID, true)
}

// NextDailyClaim returns when the daily reward becomes claimable
func (l *EconomyLedger) NextDailyClaim(ctx context.Context, userID string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.user(ctx, userID).LastDailyClaim.Add(DailyCooldown)
}

// NextWeeklyClaim returns when the weekly reward becomes claimable
func (l *EconomyLedger) NextWeeklyClaim(ctx context.Context, userID string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.user(ctx, userID).LastWeeklyClaim.Add(WeeklyCooldown)
}

func (l *EconomyLedger) claim(ctx context.Context, userID string, weekly bool) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.user(ctx, userID)
	now := l.clock.Now()

	last, cooldown := u.LastDailyClaim, DailyCooldown
	base, span := int64(dailyRewardMin), int64(dailyRewardSpan)
	if weekly {
		last, cooldown = u.LastWeeklyClaim, WeeklyCooldown
		base, span = weeklyRewardMin, weeklyRewardSpan
	}
	if now.Sub(last) < cooldown {
		return 0
	}

	amount := base + l.randN(span)
	if weekly {
		u.LastWeeklyClaim = now
	} else {
		u.LastDailyClaim = now
	}
	u.Balance += amount
	u.TotalEarned += amount
	l.save(ctx, userID, u)

	log.WithFields(log.Fields{
		"guildID": l.guildID,
		"userID":  userID,
		"amount":  amount,
		"weekly":  weekly,
	}).Info("Reward claimed")
	return amount
}

// AddXP adds economy xp and recomputes the level
func (l *EconomyLedger) AddXP(ctx context.Context, userID string, amount int64) entities.LevelChange {
	var batch events.Batch
	defer batch.Flush(l.publisher)

	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.user(ctx, userID)
	oldLevel := u.Level
	u.XP += amount
	if u.XP < 0 {
		u.XP = 0
	}
	u.Level = entities.LevelForXP(u.XP)
	l.save(ctx, userID, u)

	change := entities.LevelChange{LevelUp: u.Level > oldLevel, NewLevel: u.Level}
	if change.LevelUp {
		batch.Add(events.LevelUpEvent{
			GuildID:  l.guildID,
			UserID:   userID,
			Source:   events.LevelSourceEconomy,
			OldLevel: oldLevel,
			NewLevel: u.Level,
		})
	}
	return change
}

// GetLevel returns the level, xp and xp still needed for the next level
func (l *EconomyLedger) GetLevel(ctx context.Context, userID string) entities.LevelInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.user(ctx, userID)
	next := int64(u.Level)*int64(u.Level)*entities.XPPerLevelUnit - u.XP
	if next < 0 {
		next = 0
	}
	return entities.LevelInfo{Level: u.Level, XP: u.XP, XPForNext: next}
}

// GetLeaderboard ranks the guild's known users by metric. Ties keep creation order.
// An unknown metric yields an empty result.
func (l *EconomyLedger) GetLeaderboard(metric entities.EconomyMetric, limit int) []entities.EconomyRanking {
	var value func(u entities.UserEconomy) int64
	switch metric {
	case entities.EconomyMetricBalance:
		value = func(u entities.UserEconomy) int64 { return u.Total() }
	case entities.EconomyMetricLevel:
		value = func(u entities.UserEconomy) int64 { return int64(u.Level) }
	case entities.EconomyMetricTotal:
		value = func(u entities.UserEconomy) int64 { return u.TotalEarned }
	default:
		return nil
	}

	type row struct {
		userID string
		rec    entities.UserEconomy
	}
	prefix := l.guildID + "-"
	rows := make([]row, 0)
	for k, u := range l.doc.Scan(prefix) {
		rows = append(rows, row{userID: strings.TrimPrefix(k, prefix), rec: u})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := value(rows[i].rec), value(rows[j].rec)
		if vi != vj {
			return vi > vj
		}
		return rows[i].rec.Seq < rows[j].rec.Seq
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]entities.EconomyRanking, len(rows))
	for i, r := range rows {
		out[i] = entities.EconomyRanking{Rank: i + 1, UserID: r.userID, Value: value(r.rec)}
	}
	return out
}
