// internal/discord/notifier.go
package discord

import (
	"context"

	"academy-bot/internal/common/logger"

	"github.com/bwmarrin/discordgo"
)

// dmSender is the slice of the Discord session direct messaging needs.
type dmSender interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DMNotifier delivers status messages over direct message. Delivery is
// best effort: users with DMs disabled, or stale account ids, report false
// and the caller moves on.
type DMNotifier struct {
	session dmSender
	logger  logger.Logger
}

func NewDMNotifier(session dmSender, log logger.Logger) *DMNotifier {
	return &DMNotifier{session: session, logger: log}
}

func (n *DMNotifier) Notify(_ context.Context, accountID, message string) bool {
	channel, err := n.session.UserChannelCreate(accountID)
	if err != nil {
		n.logger.Warn("could not open DM channel", map[string]interface{}{
			"accountId": accountID,
			"error":     err.Error(),
		})
		return false
	}

	if _, err := n.session.ChannelMessageSend(channel.ID, message); err != nil {
		n.logger.Warn("DM send failed", map[string]interface{}{
			"accountId": accountID,
			"error":     err.Error(),
		})
		return false
	}

	return true
}
