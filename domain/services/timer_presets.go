package services

import (
	"slices"

	"guildbot/domain/entities"
)

var timerPresets = []entities.TimerPreset{
	// productivity
	{ID: "pomodoro_25", Name: "Classic Pomodoro", Kind: entities.TimerKindPomodoro, DurationSeconds: 25 * 60, Description: "25 minutes of focused work", Emoji: "🍅", Category: entities.PresetCategoryProductivity},
	{ID: "pomodoro_45", Name: "Extended Pomodoro", Kind: entities.TimerKindPomodoro, DurationSeconds: 45 * 60, Description: "45 minutes of deep work", Emoji: "🔥", Category: entities.PresetCategoryProductivity},
	{ID: "pomodoro_90", Name: "Ultradian Rhythm", Kind: entities.TimerKindPomodoro, DurationSeconds: 90 * 60, Description: "90 minutes following natural focus cycles", Emoji: "🧠", Category: entities.PresetCategoryProductivity},

	// study
	{ID: "study_30", Name: "Quick Study", Kind: entities.TimerKindStudy, DurationSeconds: 30 * 60, Description: "30 minutes of focused studying", Emoji: "📚", Category: entities.PresetCategoryStudy},
	{ID: "study_60", Name: "Study Hour", Kind: entities.TimerKindStudy, DurationSeconds: 60 * 60, Description: "1 hour of dedicated learning", Emoji: "📖", Category: entities.PresetCategoryStudy},
	{ID: "study_120", Name: "Deep Study", Kind: entities.TimerKindStudy, DurationSeconds: 120 * 60, Description: "2 hours of intensive studying", Emoji: "🎓", Category: entities.PresetCategoryStudy},

	// breaks
	{ID: "break_5", Name: "Quick Break", Kind: entities.TimerKindBreak, DurationSeconds: 5 * 60, Description: "5 minute refresher break", Emoji: "☕", Category: entities.PresetCategoryWellness},
	{ID: "break_15", Name: "Standard Break", Kind: entities.TimerKindBreak, DurationSeconds: 15 * 60, Description: "15 minute relaxation break", Emoji: "🧘", Category: entities.PresetCategoryWellness},
	{ID: "break_30", Name: "Long Break", Kind: entities.TimerKindBreak, DurationSeconds: 30 * 60, Description: "30 minute extended break", Emoji: "🌿", Category: entities.PresetCategoryWellness},

	// wellness
	{ID: "meditation_10", Name: "Quick Meditation", Kind: entities.TimerKindCustom, DurationSeconds: 10 * 60, Description: "10 minutes of mindfulness", Emoji: "🧘‍♂️", Category: entities.PresetCategoryWellness},
	{ID: "meditation_20", Name: "Deep Meditation", Kind: entities.TimerKindCustom, DurationSeconds: 20 * 60, Description: "20 minutes of deep meditation", Emoji: "🕯️", Category: entities.PresetCategoryWellness},
	{ID: "exercise_30", Name: "Workout Session", Kind: entities.TimerKindCustom, DurationSeconds: 30 * 60, Description: "30 minutes of exercise", Emoji: "💪", Category: entities.PresetCategoryWellness},
}

// Presets returns every built-in timer preset
func Presets() []entities.TimerPreset {
	return slices.Clone(timerPresets)
}

// PresetsByCategory returns the presets in one category
func PresetsByCategory(category entities.PresetCategory) []entities.TimerPreset {
	var out []entities.TimerPreset
	for _, p := range timerPresets {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FindPreset looks up a preset by id
func FindPreset(id string) (entities.TimerPreset, bool) {
	for _, p := range timerPresets {
		if p.ID == id {
			return p, true
		}
	}
	return entities.TimerPreset{}, false
}
