package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVoiceTracker_JoinLeave(t *testing.T) {
	clock := newTestClock()
	tracker := NewVoiceTracker(clock)

	tracker.Join(testGuildID, "u1", "vc1")
	clock.Advance(59 * time.Second)
	assert.Equal(t, int64(0), tracker.Leave(testGuildID, "u1"))

	tracker.Join(testGuildID, "u1", "vc1")
	clock.Advance(12*time.Minute + 40*time.Second)
	assert.Equal(t, int64(12), tracker.Leave(testGuildID, "u1"))

	// leaving twice credits nothing
	assert.Equal(t, int64(0), tracker.Leave(testGuildID, "u1"))
}

func TestVoiceTracker_Switch(t *testing.T) {
	clock := newTestClock()
	tracker := NewVoiceTracker(clock)

	assert.Equal(t, int64(0), tracker.Switch(testGuildID, "u1", "vc2"))
	_, tracked := tracker.Channel(testGuildID, "u1")
	assert.False(t, tracked)

	tracker.Join(testGuildID, "u1", "vc1")
	clock.Advance(5 * time.Minute)
	assert.Equal(t, int64(5), tracker.Switch(testGuildID, "u1", "vc2"))

	ch, ok := tracker.Channel(testGuildID, "u1")
	assert.True(t, ok)
	assert.Equal(t, "vc2", ch)

	clock.Advance(3 * time.Minute)
	assert.Equal(t, int64(3), tracker.Leave(testGuildID, "u1"))
}

func TestVoiceTracker_GuildsAreSeparate(t *testing.T) {
	clock := newTestClock()
	tracker := NewVoiceTracker(clock)

	tracker.Join(testGuildID, "u1", "vc1")
	clock.Advance(2 * time.Minute)
	assert.Equal(t, int64(0), tracker.Leave(otherGuild, "u1"))
	assert.Equal(t, int64(2), tracker.Leave(testGuildID, "u1"))
}
