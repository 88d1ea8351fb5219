package discord

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"academy-bot/internal/common/logger"
)

type fakeChannelSender struct {
	channelIDs []string
	messages   []string
	fail       bool
}

func (f *fakeChannelSender) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.fail {
		return nil, fmt.Errorf("missing permissions")
	}
	f.channelIDs = append(f.channelIDs, channelID)
	f.messages = append(f.messages, content)
	return &discordgo.Message{}, nil
}

func TestAuditLogPost(t *testing.T) {
	sender := &fakeChannelSender{}
	audit := NewAuditLog(sender, "log-channel", logger.NewNoOpLogger())

	assert.True(t, audit.Enabled())
	audit.Post("%s approved the application for %s.", "cheng", "ByteWolf")

	assert.Equal(t, []string{"log-channel"}, sender.channelIDs)
	assert.Equal(t, []string{"cheng approved the application for ByteWolf."}, sender.messages)
}

func TestAuditLogDisabledWithoutChannel(t *testing.T) {
	sender := &fakeChannelSender{}
	audit := NewAuditLog(sender, "", logger.NewNoOpLogger())

	assert.False(t, audit.Enabled())
	audit.Post("never sent")
	assert.Empty(t, sender.messages)
}

func TestAuditLogSendFailureIsSwallowed(t *testing.T) {
	sender := &fakeChannelSender{fail: true}
	audit := NewAuditLog(sender, "log-channel", logger.NewNoOpLogger())

	// The staff action must not depend on the audit trail.
	audit.Post("dropped line")
	assert.Empty(t, sender.messages)
}
