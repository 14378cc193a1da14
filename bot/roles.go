package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// roleAPI is the part of the Discord session used to manage member roles
type roleAPI interface {
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// MuteRoles applies and lifts the guild's mute role, found by name
type MuteRoles struct {
	api      roleAPI
	roleName string
}

// NewMuteRoles creates a mute role manager for roles named roleName (case-insensitive)
func NewMuteRoles(api roleAPI, roleName string) *MuteRoles {
	return &MuteRoles{api: api, roleName: roleName}
}

func (m *MuteRoles) roleID(ctx context.Context, guildID string) (string, error) {
	roles, err := m.api.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list roles: %w", err)
	}
	for _, r := range roles {
		if strings.EqualFold(r.Name, m.roleName) {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("mute role %q not found", m.roleName)
}

// AddMuteRole gives the member the mute role
func (m *MuteRoles) AddMuteRole(ctx context.Context, guildID, userID string) error {
	roleID, err := m.roleID(ctx, guildID)
	if err != nil {
		return err
	}
	if err := m.api.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add mute role: %w", err)
	}
	return nil
}

// RemoveMuteRole lifts the mute role from the member
func (m *MuteRoles) RemoveMuteRole(ctx context.Context, guildID, userID string) error {
	roleID, err := m.roleID(ctx, guildID)
	if err != nil {
		return err
	}
	if err := m.api.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to remove mute role: %w", err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"userID":  userID,
	}).Debug("Mute role removed")
	return nil
}
