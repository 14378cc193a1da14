package entities

import (
	"slices"
	"time"
)

// ActivityKind identifies a tracked activity
type ActivityKind string

const (
	ActivityMessage          ActivityKind = "message"
	ActivityVoice            ActivityKind = "voice"
	ActivityMusic            ActivityKind = "music"
	ActivityStudy            ActivityKind = "study"
	ActivityReactionGiven    ActivityKind = "reaction_given"
	ActivityReactionReceived ActivityKind = "reaction_received"
	ActivityCommand          ActivityKind = "command"
)

// UserActivity holds a member's activity counters and leaderboard progress in one guild.
// Voice, music and study are tracked in minutes.
type UserActivity struct {
	UserID            string    `json:"userId"`
	GuildID           string    `json:"guildId"`
	XP                int64     `json:"xp"`
	Level             int       `json:"level"`
	Messages          int64     `json:"messages"`
	VoiceMinutes      int64     `json:"voiceTime"`
	MusicMinutes      int64     `json:"musicListenTime"`
	StudyMinutes      int64     `json:"studyTime"`
	CommandsUsed      int64     `json:"commandsUsed"`
	ReactionsGiven    int64     `json:"totalReactions"`
	ReactionsReceived int64     `json:"reactionsReceived"`
	Achievements      []string  `json:"achievements"`
	DailyStreak       int       `json:"dailyStreak"`
	WeeklyStreak      int       `json:"weeklyStreak"`
	LastActiveAt      time.Time `json:"lastActive"`
	Seq               int64     `json:"seq"`
}

// HasAchievement reports whether id is already unlocked
func (u *UserActivity) HasAchievement(id string) bool {
	return slices.Contains(u.Achievements, id)
}

// Clone returns a copy that shares no slices with u
func (u UserActivity) Clone() UserActivity {
	u.Achievements = slices.Clone(u.Achievements)
	return u
}

// ActivityResult reports what an activity mutation changed
type ActivityResult struct {
	LevelUp  bool
	NewLevel int
	Unlocked []Achievement
}

// ActivityRanking is a single activity leaderboard row
type ActivityRanking struct {
	Rank  int
	Stats UserActivity
	Value int64
}
