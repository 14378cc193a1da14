package services

import (
	"fmt"
	"slices"

	"guildbot/domain/entities"

	"github.com/dustin/go-humanize"
)

const (
	catActivity = entities.AchievementCategoryActivity
	catSocial   = entities.AchievementCategorySocial
	catMusic    = entities.AchievementCategoryMusic
	catStudy    = entities.AchievementCategoryStudy
	catSpecial  = entities.AchievementCategorySpecial
)

func achievement(
	id, name, description, emoji string,
	reward int64,
	category entities.AchievementCategory,
	rarity entities.Rarity,
	predicate func(entities.UserActivity) bool,
) entities.Achievement {
	return entities.Achievement{
		ID:          id,
		Name:        name,
		Description: description,
		Emoji:       emoji,
		RewardXP:    reward,
		Category:    category,
		Rarity:      rarity,
		Predicate:   predicate,
	}
}

var achievementCatalog = []entities.Achievement{
	// activity
	achievement("first_message", "First Steps", "Send your first message", "👋", 10, catActivity, entities.RarityCommon,
		func(s entities.UserActivity) bool { return s.Messages >= 1 }),
	achievement("chatter", "Chatter", "Send 100 messages", "💬", 50, catActivity, entities.RarityCommon,
		func(s entities.UserActivity) bool { return s.Messages >= 100 }),
	achievement("conversationalist", "Conversationalist", "Send 1,000 messages", "🗣️", 200, catActivity, entities.RarityUncommon,
		func(s entities.UserActivity) bool { return s.Messages >= 1000 }),
	achievement("social_butterfly", "Social Butterfly", "Send 10,000 messages", "🦋", 1000, catActivity, entities.RarityRare,
		func(s entities.UserActivity) bool { return s.Messages >= 10000 }),

	// voice
	achievement("voice_newcomer", "Voice Newcomer", "Spend 1 hour in voice channels", "🎤", 25, catSocial, entities.RarityCommon,
		func(s entities.UserActivity) bool { return s.VoiceMinutes >= 60 }),
	achievement("voice_regular", "Voice Regular", "Spend 24 hours in voice channels", "🔊", 100, catSocial, entities.RarityUncommon,
		func(s entities.UserActivity) bool { return s.VoiceMinutes >= 1440 }),
	achievement("voice_addict", "Voice Addict", "Spend 168 hours in voice channels", "📢", 500, catSocial, entities.RarityRare,
		func(s entities.UserActivity) bool { return s.VoiceMinutes >= 10080 }),

	// music
	achievement("music_lover", "Music Lover", "Listen to music for 2 hours", "🎵", 50, catMusic, entities.RarityCommon,
		func(s entities.UserActivity) bool { return s.MusicMinutes >= 120 }),
	achievement("audiophile", "Audiophile", "Listen to music for 24 hours", "🎧", 200, catMusic, entities.RarityUncommon,
		func(s entities.UserActivity) bool { return s.MusicMinutes >= 1440 }),
	achievement("music_maestro", "Music Maestro", "Listen to music for 100 hours", "🎼", 750, catMusic, entities.RarityEpic,
		func(s entities.UserActivity) bool { return s.MusicMinutes >= 6000 }),

	// study
	achievement("study_starter", "Study Starter", "Study for 1 hour total", "📚", 30, catStudy, entities.RarityCommon,
		func(s entities.UserActivity) bool { return s.StudyMinutes >= 60 }),
	achievement("dedicated_learner", "Dedicated Learner", "Study for 25 hours total", "🎓", 150, catStudy, entities.RarityUncommon,
		func(s entities.UserActivity) bool { return s.StudyMinutes >= 1500 }),
	achievement("academic_excellence", "Academic Excellence", "Study for 100 hours total", "🏆", 500, catStudy, entities.RarityRare,
		func(s entities.UserActivity) bool { return s.StudyMinutes >= 6000 }),

	// streaks
	achievement("daily_dedication", "Daily Dedication", "Maintain a 7-day activity streak", "🔥", 100, catSpecial, entities.RarityUncommon,
		func(s entities.UserActivity) bool { return s.DailyStreak >= 7 }),
	achievement("consistency_king", "Consistency King", "Maintain a 30-day activity streak", "👑", 500, catSpecial, entities.RarityEpic,
		func(s entities.UserActivity) bool { return s.DailyStreak >= 30 }),
	achievement("legendary_streak", "Legendary Streak", "Maintain a 100-day activity streak", "⚡", 2000, catSpecial, entities.RarityLegendary,
		func(s entities.UserActivity) bool { return s.DailyStreak >= 100 }),

	// levels
	achievement("level_10", "Rising Star", "Reach level 10", "⭐", 100, catSpecial, entities.RarityCommon,
		func(s entities.UserActivity) bool { return s.Level >= 10 }),
	achievement("level_25", "Community Pillar", "Reach level 25", "🏛️", 300, catSpecial, entities.RarityUncommon,
		func(s entities.UserActivity) bool { return s.Level >= 25 }),
	achievement("level_50", "Server Legend", "Reach level 50", "🌟", 800, catSpecial, entities.RarityRare,
		func(s entities.UserActivity) bool { return s.Level >= 50 }),
	achievement("level_100", "Mythical Being", "Reach level 100", "🔮", 2500, catSpecial, entities.RarityLegendary,
		func(s entities.UserActivity) bool { return s.Level >= 100 }),
}

func formatMinutes(v int64) string {
	return fmt.Sprintf("%dh %dm", v/60, v%60)
}

func category(id, name, emoji string, value func(entities.UserActivity) int64, format func(int64) string) entities.LeaderboardCategory {
	return entities.LeaderboardCategory{ID: id, Name: name, Emoji: emoji, Value: value, Format: format}
}

var leaderboardCategories = []entities.LeaderboardCategory{
	category("xp", "Experience Points", "⭐",
		func(s entities.UserActivity) int64 { return s.XP },
		humanize.Comma),
	category("level", "Level", "🔥",
		func(s entities.UserActivity) int64 { return int64(s.Level) },
		func(v int64) string { return fmt.Sprintf("Level %d", v) }),
	category("messages", "Messages Sent", "💬",
		func(s entities.UserActivity) int64 { return s.Messages },
		humanize.Comma),
	category("voice", "Voice Time", "🎤",
		func(s entities.UserActivity) int64 { return s.VoiceMinutes },
		formatMinutes),
	category("music", "Music Time", "🎵",
		func(s entities.UserActivity) int64 { return s.MusicMinutes },
		formatMinutes),
	category("study", "Study Time", "📚",
		func(s entities.UserActivity) int64 { return s.StudyMinutes },
		formatMinutes),
	category("streak", "Daily Streak", "🔥",
		func(s entities.UserActivity) int64 { return int64(s.DailyStreak) },
		func(v int64) string { return fmt.Sprintf("%d days", v) }),
	category("achievements", "Achievements", "🏆",
		func(s entities.UserActivity) int64 { return int64(len(s.Achievements)) },
		func(v int64) string { return fmt.Sprintf("%d unlocked", v) }),
}

// Achievements returns the static achievement catalog in evaluation order
func Achievements() []entities.Achievement {
	return slices.Clone(achievementCatalog)
}

// FindAchievement looks up a catalog entry by id
func FindAchievement(id string) (entities.Achievement, bool) {
	for _, a := range achievementCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return entities.Achievement{}, false
}

// LeaderboardCategories returns the registered leaderboard categories
func LeaderboardCategories() []entities.LeaderboardCategory {
	return slices.Clone(leaderboardCategories)
}

// FindCategory looks up a leaderboard category by id
func FindCategory(id string) (entities.LeaderboardCategory, bool) {
	for _, c := range leaderboardCategories {
		if c.ID == id {
			return c, true
		}
	}
	return entities.LeaderboardCategory{}, false
}
