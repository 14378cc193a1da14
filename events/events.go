package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeAchievementUnlocked EventType = "achievement_unlocked"
	EventTypeLevelUp             EventType = "level_up"
	EventTypeAutoMuteThreshold   EventType = "auto_mute_threshold"
	EventTypeTimerCompleted      EventType = "timer_completed"
	EventTypeMemberWelcomed      EventType = "member_welcomed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LevelSource identifies which ledger produced a level-up
type LevelSource string

const (
	LevelSourceEconomy  LevelSource = "economy"
	LevelSourceActivity LevelSource = "activity"
)

// AchievementUnlockedEvent is emitted once per newly unlocked achievement
type AchievementUnlockedEvent struct {
	GuildID       string
	UserID        string
	AchievementID string
	Name          string
	RewardXP      int64
}

func (e AchievementUnlockedEvent) Type() EventType {
	return EventTypeAchievementUnlocked
}

// LevelUpEvent is emitted when a member crosses a level threshold
type LevelUpEvent struct {
	GuildID  string
	UserID   string
	Source   LevelSource
	OldLevel int
	NewLevel int
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// AutoMuteThresholdEvent is emitted when a warning brings a member to the auto-mute count
type AutoMuteThresholdEvent struct {
	GuildID  string
	UserID   string
	Warnings int
}

func (e AutoMuteThresholdEvent) Type() EventType {
	return EventTypeAutoMuteThreshold
}

// TimerCompletedEvent is emitted when a timer runs down naturally
type TimerCompletedEvent struct {
	GuildID         string
	UserID          string
	TimerID         string
	Kind            string
	DurationSeconds int
}

func (e TimerCompletedEvent) Type() EventType {
	return EventTypeTimerCompleted
}

// MemberWelcomedEvent is emitted after a join has been credited
type MemberWelcomedEvent struct {
	GuildID    string
	UserID     string
	BonusCoins int64
}

func (e MemberWelcomedEvent) Type() EventType {
	return EventTypeMemberWelcomed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so a slow subscriber never blocks a ledger
	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish emits event with a background context. It satisfies interfaces.EventPublisher.
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// Batch holds events raised while a manager lock is held and flushes them
// to the underlying bus once the lock has been released.
type Batch struct {
	pending []Event
}

// Add stashes e until Flush
func (b *Batch) Add(e Event) {
	b.pending = append(b.pending, e)
}

// Len returns the number of stashed events
func (b *Batch) Len() int {
	return len(b.pending)
}

// Flush publishes every stashed event in order and clears the batch.
// A nil publisher discards the events.
func (b *Batch) Flush(publisher interface{ Publish(Event) error }) {
	if publisher != nil {
		for _, ev := range b.pending {
			if err := publisher.Publish(ev); err != nil {
				log.WithFields(log.Fields{
					"eventType": ev.Type(),
					"error":     err,
				}).Warn("Failed to publish event")
			}
		}
	}
	b.pending = nil
}
