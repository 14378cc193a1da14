package services

import (
	"sync"
	"time"

	"guildbot/storage"

	"github.com/jonboulle/clockwork"
)

type voiceSession struct {
	channelID string
	joinedAt  time.Time
}

// VoiceTracker turns voice join/leave/switch transitions into whole minutes spent in voice.
// Sessions are process-local and are not persisted.
type VoiceTracker struct {
	clock clockwork.Clock

	mu       sync.Mutex
	sessions map[string]voiceSession
}

// NewVoiceTracker creates an empty tracker
func NewVoiceTracker(clock clockwork.Clock) *VoiceTracker {
	return &VoiceTracker{
		clock:    clock,
		sessions: make(map[string]voiceSession),
	}
}

// Join starts a session, replacing any open one
func (v *VoiceTracker) Join(guildID, userID, channelID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sessions[storage.Key(guildID, userID)] = voiceSession{channelID: channelID, joinedAt: v.clock.Now()}
}

// Leave closes the session and returns its whole minutes. Zero means nothing to credit.
func (v *VoiceTracker) Leave(guildID, userID string) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := storage.Key(guildID, userID)
	s, ok := v.sessions[key]
	if !ok {
		return 0
	}
	delete(v.sessions, key)
	return v.minutes(s)
}

// Switch closes the running session and opens a new one in channelID.
// A member with no open session is not tracked, matching a missed join.
func (v *VoiceTracker) Switch(guildID, userID, channelID string) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := storage.Key(guildID, userID)
	s, ok := v.sessions[key]
	if !ok {
		return 0
	}
	v.sessions[key] = voiceSession{channelID: channelID, joinedAt: v.clock.Now()}
	return v.minutes(s)
}

// Channel returns the channel of the open session
func (v *VoiceTracker) Channel(guildID, userID string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.sessions[storage.Key(guildID, userID)]
	return s.channelID, ok
}

func (v *VoiceTracker) minutes(s voiceSession) int64 {
	return int64(v.clock.Since(s.joinedAt) / time.Minute)
}
