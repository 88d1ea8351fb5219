// internal/discord/audit.go
package discord

import (
	"fmt"

	"academy-bot/internal/common/logger"

	"github.com/bwmarrin/discordgo"
)

// channelSender is the slice of the Discord session channel posting needs.
type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// AuditLog posts a line per staff action to the configured log channel.
// Posting is best effort: an unset channel disables the trail, a failed
// send is logged and dropped. The action itself never depends on it.
type AuditLog struct {
	session   channelSender
	channelID string
	logger    logger.Logger
}

func NewAuditLog(session channelSender, channelID string, log logger.Logger) *AuditLog {
	return &AuditLog{session: session, channelID: channelID, logger: log}
}

// Enabled reports whether a log channel is configured.
func (a *AuditLog) Enabled() bool {
	return a.channelID != ""
}

// Post writes one formatted line to the log channel.
func (a *AuditLog) Post(format string, args ...interface{}) {
	if !a.Enabled() {
		return
	}
	if _, err := a.session.ChannelMessageSend(a.channelID, fmt.Sprintf(format, args...)); err != nil {
		a.logger.Warn("audit log post failed", map[string]interface{}{
			"channel_id": a.channelID,
			"error":      err.Error(),
		})
	}
}
