package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/events"
	"guildbot/storage"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// StreakWindow is the inactivity span after which streaks reset
const StreakWindow = 24 * time.Hour

const (
	messageXPMin  = 5
	messageXPSpan = 15
	commandXP     = 2
)

// ActivityLedger tracks a guild's activity counters, activity xp, achievements and streaks
type ActivityLedger struct {
	guildID   string
	doc       *storage.Document[entities.UserActivity]
	clock     clockwork.Clock
	publisher interfaces.EventPublisher

	// randN returns a uniform value in [0,n)
	randN func(n int64) int64

	mu sync.Mutex
}

// NewActivityLedger creates the ledger for one guild over the shared activity document
func NewActivityLedger(
	guildID string,
	doc *storage.Document[entities.UserActivity],
	clock clockwork.Clock,
	publisher interfaces.EventPublisher,
) *ActivityLedger {
	return &ActivityLedger{
		guildID:   guildID,
		doc:       doc,
		clock:     clock,
		publisher: publisher,
		randN:     rand.Int63n,
	}
}

func (l *ActivityLedger) prefix() string {
	return l.guildID + "-"
}

// user returns the record for userID, creating it on first access. Caller holds mu.
func (l *ActivityLedger) user(ctx context.Context, userID string) entities.UserActivity {
	key := storage.Key(l.guildID, userID)
	if u, ok := l.doc.Get(key); ok {
		return u.Clone()
	}

	var last int64
	for _, u := range l.doc.Scan(l.prefix()) {
		last = max(last, u.Seq)
	}

	u := entities.UserActivity{
		UserID:       userID,
		GuildID:      l.guildID,
		Level:        1,
		Achievements: []string{},
		LastActiveAt: l.clock.Now(),
		Seq:          last + 1,
	}
	l.doc.Put(ctx, key, u)
	return u.Clone()
}

// GetUserStats returns a snapshot of a member's record
func (l *ActivityLedger) GetUserStats(ctx context.Context, userID string) entities.UserActivity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.user(ctx, userID)
}

// AddActivity records amount units of kind for a member, credits the kind's xp,
// unlocks newly satisfied achievements and recomputes the level.
// A negative amount retracts units (removed reactions) without touching xp.
func (l *ActivityLedger) AddActivity(ctx context.Context, userID string, kind entities.ActivityKind, amount int64) (entities.ActivityResult, error) {
	var batch events.Batch
	defer batch.Flush(l.publisher)

	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.user(ctx, userID)

	var counter *int64
	var xp int64
	switch kind {
	case entities.ActivityMessage:
		counter, xp = &u.Messages, messageXPMin+l.randN(messageXPSpan)
	case entities.ActivityVoice:
		counter, xp = &u.VoiceMinutes, amount*2
	case entities.ActivityMusic:
		counter, xp = &u.MusicMinutes, amount
	case entities.ActivityStudy:
		counter, xp = &u.StudyMinutes, amount*3
	case entities.ActivityReactionGiven:
		counter, xp = &u.ReactionsGiven, amount
	case entities.ActivityReactionReceived:
		counter, xp = &u.ReactionsReceived, amount*2
	case entities.ActivityCommand:
		counter, xp = &u.CommandsUsed, commandXP
	default:
		return entities.ActivityResult{}, fmt.Errorf("%w: %s", ErrUnknownActivity, kind)
	}

	if amount < 0 {
		*counter = max(0, *counter+amount)
		l.doc.Put(ctx, storage.Key(l.guildID, userID), u)
		return entities.ActivityResult{NewLevel: u.Level}, nil
	}

	*counter += amount
	result := l.applyXP(&u, xp, &batch)
	l.doc.Put(ctx, storage.Key(l.guildID, userID), u)
	return result, nil
}

// AddXP credits activity xp directly and evaluates achievements
func (l *ActivityLedger) AddXP(ctx context.Context, userID string, amount int64) entities.ActivityResult {
	var batch events.Batch
	defer batch.Flush(l.publisher)

	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.user(ctx, userID)
	result := l.applyXP(&u, amount, &batch)
	l.doc.Put(ctx, storage.Key(l.guildID, userID), u)
	return result
}

// applyXP adds xp, stamps activity and runs achievement evaluation to a fixed point,
// since reward xp can satisfy a level achievement.
func (l *ActivityLedger) applyXP(u *entities.UserActivity, amount int64, batch *events.Batch) entities.ActivityResult {
	oldLevel := u.Level
	u.XP = max(0, u.XP+amount)
	u.LastActiveAt = l.clock.Now()
	u.Level = entities.LevelForXP(u.XP)

	var unlocked []entities.Achievement
	for {
		snapshot := u.Clone()
		progressed := false
		for _, a := range achievementCatalog {
			if u.HasAchievement(a.ID) || !a.Predicate(snapshot) {
				continue
			}
			u.Achievements = append(u.Achievements, a.ID)
			u.XP += a.RewardXP
			unlocked = append(unlocked, a)
			progressed = true

			batch.Add(events.AchievementUnlockedEvent{
				GuildID:       l.guildID,
				UserID:        u.UserID,
				AchievementID: a.ID,
				Name:          a.Name,
				RewardXP:      a.RewardXP,
			})
		}
		u.Level = entities.LevelForXP(u.XP)
		if !progressed {
			break
		}
	}

	result := entities.ActivityResult{
		LevelUp:  u.Level > oldLevel,
		NewLevel: u.Level,
		Unlocked: unlocked,
	}
	if result.LevelUp {
		batch.Add(events.LevelUpEvent{
			GuildID:  l.guildID,
			UserID:   u.UserID,
			Source:   events.LevelSourceActivity,
			OldLevel: oldLevel,
			NewLevel: u.Level,
		})
		log.WithFields(log.Fields{
			"guildID":  l.guildID,
			"userID":   u.UserID,
			"newLevel": u.Level,
		}).Debug("Activity level up")
	}
	return result
}

// GetXPToNextLevel returns the xp still needed to reach the next level
func GetXPToNextLevel(stats entities.UserActivity) int64 {
	return entities.XPForLevel(stats.Level+1) - stats.XP
}

// GetAchievements returns the catalog entries a member has unlocked, in unlock order
func (l *ActivityLedger) GetAchievements(ctx context.Context, userID string) []entities.Achievement {
	stats := l.GetUserStats(ctx, userID)
	out := make([]entities.Achievement, 0, len(stats.Achievements))
	for _, id := range stats.Achievements {
		if a, ok := FindAchievement(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// GetLeaderboard ranks the guild's members by category. Ties keep creation order.
func (l *ActivityLedger) GetLeaderboard(categoryID string, limit int) ([]entities.ActivityRanking, error) {
	cat, ok := FindCategory(categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}

	rows := make([]entities.UserActivity, 0)
	for _, u := range l.doc.Scan(l.prefix()) {
		rows = append(rows, u)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := cat.Value(rows[i]), cat.Value(rows[j])
		if vi != vj {
			return vi > vj
		}
		return rows[i].Seq < rows[j].Seq
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]entities.ActivityRanking, len(rows))
	for i, u := range rows {
		out[i] = entities.ActivityRanking{Rank: i + 1, Stats: u.Clone(), Value: cat.Value(u)}
	}
	return out, nil
}

// GetUserRank returns one plus the number of members strictly ahead of userID
func (l *ActivityLedger) GetUserRank(ctx context.Context, userID, categoryID string) (int, error) {
	cat, ok := FindCategory(categoryID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}

	target := cat.Value(l.GetUserStats(ctx, userID))
	rank := 1
	for _, u := range l.doc.Scan(l.prefix()) {
		if cat.Value(u) > target {
			rank++
		}
	}
	return rank, nil
}

// Participants returns the number of tracked members
func (l *ActivityLedger) Participants() int {
	return len(l.doc.Scan(l.prefix()))
}

// FormatValue renders value the way categoryID displays it
func FormatValue(categoryID string, value int64) (string, error) {
	cat, ok := FindCategory(categoryID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}
	return cat.Format(value), nil
}

// UpdateStreaks is the periodic streak sweep. Members idle for longer than the streak
// window lose both streaks. A member whose last activity is exactly one window old gains
// a day, and a week every seventh day. Activity between sweeps does not advance streaks.
func (l *ActivityLedger) UpdateStreaks(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	changed := make(map[string]entities.UserActivity)
	for key, u := range l.doc.Scan(l.prefix()) {
		idle := now.Sub(u.LastActiveAt)
		switch {
		case idle > StreakWindow:
			if u.DailyStreak == 0 && u.WeeklyStreak == 0 {
				continue
			}
			u.DailyStreak, u.WeeklyStreak = 0, 0
		case idle/StreakWindow == 1:
			u.DailyStreak++
			if u.DailyStreak%7 == 0 {
				u.WeeklyStreak++
			}
		default:
			continue
		}
		changed[key] = u
	}

	l.doc.PutAll(ctx, changed)
	if len(changed) > 0 {
		log.WithFields(log.Fields{
			"guildID": l.guildID,
			"updated": len(changed),
		}).Debug("Streak sweep updated members")
	}
	return len(changed)
}
