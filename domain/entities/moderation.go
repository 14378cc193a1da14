package entities

import "time"

// MuteRecord tracks a timed mute until it expires
type MuteRecord struct {
	UserID   string    `json:"userId"`
	GuildID  string    `json:"guildId"`
	UnmuteAt time.Time `json:"unmuteAt"`
}

// Expired reports whether the mute has run out at now
func (m *MuteRecord) Expired(now time.Time) bool {
	return !now.Before(m.UnmuteAt)
}

// Warning is a single moderator warning
type Warning struct {
	ID          string    `json:"id"`
	ModeratorID string    `json:"moderator"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// WarnResult is returned after recording a warning
type WarnResult struct {
	Warning          Warning
	Count            int
	ThresholdReached bool
}
