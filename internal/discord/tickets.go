// internal/discord/tickets.go
package discord

import (
	"fmt"
	"strings"

	"academy-bot/internal/common/config"
	cerrors "academy-bot/internal/common/errors"
	"academy-bot/internal/common/logger"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// TicketSnapshot is the read-only context posted into a new ticket. It is
// captured at creation time; later record changes do not update it.
type TicketSnapshot struct {
	Handle        string
	ApplicantType string
	Status        string
	NextSteps     string
}

// TicketGateway opens private applicant-staff channels. Every request
// creates a fresh channel; there is no dedup against an existing open
// ticket for the same requester.
type TicketGateway struct {
	session *discordgo.Session
	guildID string
	cfg     config.TicketConfig
	logger  logger.Logger
}

func NewTicketGateway(session *discordgo.Session, guildID string, cfg config.TicketConfig, log logger.Logger) *TicketGateway {
	return &TicketGateway{
		session: session,
		guildID: guildID,
		cfg:     cfg,
		logger:  log,
	}
}

// Enabled reports whether ticket creation is configured.
func (g *TicketGateway) Enabled() bool {
	return g.cfg.CategoryID != ""
}

func ticketChannelName(requesterID string) string {
	return fmt.Sprintf("ticket-%s-%s", requesterID, uuid.New().String()[:6])
}

// OpenTicket creates the scoped channel and posts the context snapshot.
// Visible to: the requester, configured staff roles, and the bot itself.
func (g *TicketGateway) OpenTicket(requesterID string, snapshot TicketSnapshot) (*discordgo.Channel, error) {
	if !g.Enabled() {
		return nil, cerrors.NewTicketCreateFailedError(fmt.Errorf("ticket category not configured"))
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			// @everyone shares its id with the guild
			ID:   g.guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    requesterID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		},
	}

	for _, roleID := range g.cfg.StaffRoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		})
	}

	if g.session.State != nil && g.session.State.User != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    g.session.State.User.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionManageChannels,
		})
	}

	channel, err := g.session.GuildChannelCreateComplex(g.guildID, discordgo.GuildChannelCreateData{
		Name:                 ticketChannelName(requesterID),
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             g.cfg.CategoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, cerrors.NewTicketCreateFailedError(err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Application Ticket",
		Color:       colorWarning,
		Description: fmt.Sprintf("<@%s> opened a ticket. Staff will respond here.", requesterID),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Handle", Value: orDash(snapshot.Handle), Inline: true},
			{Name: "Type", Value: orDash(snapshot.ApplicantType), Inline: true},
			{Name: "Status", Value: orDash(snapshot.Status), Inline: true},
			{Name: "Next Steps", Value: orDash(snapshot.NextSteps)},
		},
	}

	if _, err := g.session.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		g.logger.Warn("ticket snapshot post failed", map[string]interface{}{
			"channelId": channel.ID,
			"error":     err.Error(),
		})
	}

	g.logger.Info("ticket opened", map[string]interface{}{
		"channelId": channel.ID,
		"requester": requesterID,
	})

	return channel, nil
}

// CloseTicket posts a closing notice and deletes the channel. Staff-only;
// the router enforces the gate.
func (g *TicketGateway) CloseTicket(channelID, closedBy string) error {
	notice := fmt.Sprintf("Ticket closed by <@%s>. This channel will be removed.", closedBy)
	if _, err := g.session.ChannelMessageSend(channelID, notice); err != nil {
		g.logger.Warn("ticket closing notice failed", map[string]interface{}{
			"channelId": channelID,
			"error":     err.Error(),
		})
	}

	if _, err := g.session.ChannelDelete(channelID); err != nil {
		return cerrors.NewTicketCreateFailedError(err)
	}

	g.logger.Info("ticket closed", map[string]interface{}{
		"channelId": channelID,
		"closedBy":  closedBy,
	})
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
