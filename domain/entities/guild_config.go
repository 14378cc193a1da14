package entities

// DefaultWelcomeMessage supports {user}, {server} and {memberCount} placeholders
const DefaultWelcomeMessage = "Welcome to **{server}**, {user}! 🎉\n\nWe're excited to have you here! Make sure to:\n📜 Read the rules\n🎭 Get your roles\n💬 Say hi in chat\n\nEnjoy your stay! ✨"

// WelcomeConfig is a guild's member welcome configuration
type WelcomeConfig struct {
	Enabled     bool   `json:"enabled"`
	ChannelID   string `json:"channelId,omitempty"`
	Message     string `json:"message,omitempty"`
	CardEnabled bool   `json:"cardEnabled"`
	AutoRoleID  string `json:"autoRole,omitempty"`
	DMWelcome   bool   `json:"dmWelcome"`
	EmbedColor  string `json:"embedColor"`
	BonusCoins  int64  `json:"bonusCoins"`
	MentionUser bool   `json:"mentionUser"`
}

// DefaultWelcomeConfig is applied the first time a guild is seen
func DefaultWelcomeConfig() WelcomeConfig {
	return WelcomeConfig{
		Enabled:     true,
		Message:     DefaultWelcomeMessage,
		CardEnabled: true,
		DMWelcome:   false,
		EmbedColor:  "#667eea",
		BonusCoins:  100,
		MentionUser: true,
	}
}

// WelcomePlan is what the gateway layer should do for a new member
type WelcomePlan struct {
	ChannelID  string
	Content    string
	AutoRoleID string
	DM         bool
	BonusCoins int64
	Card       bool
}

// AuditEvent is a loggable guild event
type AuditEvent string

const (
	AuditMemberJoin    AuditEvent = "memberJoin"
	AuditMemberLeave   AuditEvent = "memberLeave"
	AuditMessageDelete AuditEvent = "messageDelete"
	AuditMessageEdit   AuditEvent = "messageEdit"
	AuditChannelCreate AuditEvent = "channelCreate"
	AuditChannelDelete AuditEvent = "channelDelete"
	AuditRoleCreate    AuditEvent = "roleCreate"
	AuditRoleDelete    AuditEvent = "roleDelete"
	AuditMemberBan     AuditEvent = "memberBan"
	AuditMemberUnban   AuditEvent = "memberUnban"
	AuditMemberKick    AuditEvent = "memberKick"
	AuditMemberMute    AuditEvent = "memberMute"
	AuditMemberUnmute  AuditEvent = "memberUnmute"
	AuditMemberWarn    AuditEvent = "memberWarn"
)

// AuditEvents lists every known audit event
var AuditEvents = []AuditEvent{
	AuditMemberJoin, AuditMemberLeave,
	AuditMessageDelete, AuditMessageEdit,
	AuditChannelCreate, AuditChannelDelete,
	AuditRoleCreate, AuditRoleDelete,
	AuditMemberBan, AuditMemberUnban, AuditMemberKick,
	AuditMemberMute, AuditMemberUnmute, AuditMemberWarn,
}

// AuditConfig is a guild's audit log configuration
type AuditConfig struct {
	ChannelID string              `json:"channelId,omitempty"`
	Enabled   bool                `json:"enabled"`
	Events    map[AuditEvent]bool `json:"events"`
}

// DefaultAuditConfig is disabled with every event switched on
func DefaultAuditConfig() AuditConfig {
	events := make(map[AuditEvent]bool, len(AuditEvents))
	for _, e := range AuditEvents {
		events[e] = true
	}
	return AuditConfig{Enabled: false, Events: events}
}

// Clone returns a copy sharing no map with c
func (c AuditConfig) Clone() AuditConfig {
	events := make(map[AuditEvent]bool, len(c.Events))
	for k, v := range c.Events {
		events[k] = v
	}
	c.Events = events
	return c
}

// JoiningMember describes a member who just joined, for rendering the welcome template
type JoiningMember struct {
	UserID      string
	Username    string
	DisplayName string
	ServerName  string
	MemberCount int
}
