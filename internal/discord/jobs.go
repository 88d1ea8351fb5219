// internal/discord/jobs.go
package discord

import (
	"context"
	"fmt"
	"time"

	"academy-bot/internal/academy"
)

// postBulletin posts today's schedule to the calendar channel. Shared by
// the daily job and the manual /oscar bulletin command.
func (b *Bot) postBulletin(ctx context.Context) error {
	channelID := b.cfg.Discord.Channels.Calendar
	if channelID == "" {
		return fmt.Errorf("calendar channel not configured")
	}

	day := b.today()
	blocks, err := b.schedule.Day(ctx, day)
	if err != nil {
		return err
	}

	entries := map[string][]academy.ScheduleBlock{day: blocks}
	title := fmt.Sprintf("Daily Bulletin - %s", titleCase(day))
	if _, err := b.session.ChannelMessageSendEmbed(channelID, scheduleEmbed(title, []string{day}, entries)); err != nil {
		return err
	}
	return nil
}

// postPrompt posts the next role-play prompt to the student lounge. An
// empty rotation skips the day quietly.
func (b *Bot) postPrompt(ctx context.Context) error {
	channelID := b.cfg.Discord.Channels.StudentLounge
	if channelID == "" {
		return fmt.Errorf("student lounge channel not configured")
	}

	prompt, err := b.prompts.Next(ctx)
	if err != nil {
		return err
	}
	if prompt == "" {
		b.logger.Info("prompt rotation empty, skipping daily prompt", nil)
		return nil
	}

	_, err = b.session.ChannelMessageSend(channelID, fmt.Sprintf("📝 **Daily Prompt:** %s", prompt))
	return err
}

// BulletinJob returns the daily bulletin as a scheduler job.
func (b *Bot) BulletinJob() *botJob {
	return &botJob{name: "bulletin", run: b.postBulletin}
}

// PromptJob returns the daily prompt as a scheduler job.
func (b *Bot) PromptJob() *botJob {
	return &botJob{name: "prompt", run: b.postPrompt}
}

type botJob struct {
	name string
	run  func(ctx context.Context) error
}

func (j *botJob) Name() string { return j.name }

func (j *botJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return j.run(ctx)
}
