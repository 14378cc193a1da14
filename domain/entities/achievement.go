package entities

// AchievementCategory groups achievements for display
type AchievementCategory string

const (
	AchievementCategoryActivity AchievementCategory = "activity"
	AchievementCategorySocial   AchievementCategory = "social"
	AchievementCategoryMusic    AchievementCategory = "music"
	AchievementCategoryStudy    AchievementCategory = "study"
	AchievementCategorySpecial  AchievementCategory = "special"
)

// Rarity of an achievement
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is a one-time milestone unlocked when Predicate first holds for a member
type Achievement struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	RewardXP    int64
	Category    AchievementCategory
	Rarity      Rarity

	// Predicate is evaluated against a snapshot of the post-mutation record
	Predicate func(stats UserActivity) bool
}

// LeaderboardCategory ranks members by one extracted value
type LeaderboardCategory struct {
	ID     string
	Name   string
	Emoji  string
	Value  func(stats UserActivity) int64
	Format func(value int64) string
}
