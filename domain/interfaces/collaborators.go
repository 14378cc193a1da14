package interfaces

import (
	"context"

	"guildbot/domain/entities"
	"guildbot/events"
)

// Notifier delivers outbound messages to chat channels
type Notifier interface {
	// ResolveChannel checks that channelID exists and is reachable
	ResolveChannel(ctx context.Context, channelID string) error

	// SendMessage posts msg to channelID
	SendMessage(ctx context.Context, channelID string, msg entities.Message) error
}

// MemberModerator applies role changes on the chat platform
type MemberModerator interface {
	// RemoveMuteRole lifts the mute role from a member
	RemoveMuteRole(ctx context.Context, guildID, userID string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}
