// internal/discord/handlers_oscar.go
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"academy-bot/internal/academy"
	cerrors "academy-bot/internal/common/errors"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleOscarPing(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	return respondText(s, i, "Pong! Oscar is awake.", true)
}

func (b *Bot) handleOscarHelp(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	embed := &discordgo.MessageEmbed{
		Title: "Oscar - Academy Assistant",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/app", Value: "Application status lookups, tickets, and staff decisions."},
			{Name: "/oscar", Value: "Announcements, schedule, daily prompts, portal links."},
			{Name: "/class", Value: "Attendance, house points, and shoutouts (teachers)."},
			{Name: "/student", Value: "Check in to class and request hall passes."},
			{Name: "/nurse", Value: "The nurse queue."},
			{Name: "/staff", Value: "Pass decisions and attendance export (staff)."},
		},
	}
	return respondEmbed(s, i, embed, true)
}

func (b *Bot) handleOscarAnnounce(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	channelID := b.cfg.Discord.Channels.Announce
	if channelID == "" {
		channelID = i.ChannelID
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       "Academy Announcement",
		Description: opts.str("message"),
		Color:       colorWarning,
	}); err != nil {
		return cerrors.NewNotificationSendFailedError(channelID, err)
	}

	return respondText(s, i, "Announcement posted.", true)
}

func (b *Bot) handleOscarBulletin(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	if err := deferReply(s, i, true); err != nil {
		return err
	}

	if err := b.postBulletin(context.Background()); err != nil {
		return err
	}
	return followupText(s, i, "Bulletin posted.", true)
}

func (b *Bot) today() string {
	loc, err := time.LoadLocation(b.cfg.Scheduler.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return strings.ToLower(time.Now().In(loc).Weekday().String())
}

func (b *Bot) handleScheduleToday(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	day := b.today()
	blocks, err := b.schedule.Day(context.Background(), day)
	if err != nil {
		return err
	}

	entries := map[string][]academy.ScheduleBlock{day: blocks}
	return respondEmbed(s, i, scheduleEmbed("Today's Schedule", []string{day}, entries), false)
}

func (b *Bot) handleScheduleWeek(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	week, err := b.schedule.Week(context.Background())
	if err != nil {
		return err
	}
	return respondEmbed(s, i, scheduleEmbed("This Week at the Academy", academy.WeekDays, week), false)
}

func (b *Bot) handleScheduleSet(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	day := opts.str("day")
	err := b.schedule.AddBlock(context.Background(), day,
		opts.str("label"), opts.str("details"), opts.integer("position"), b.router.actor(i).ID)
	if err != nil {
		return err
	}
	return respondText(s, i, fmt.Sprintf("Schedule for %s updated.", day), true)
}

func (b *Bot) handleScheduleClear(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	day := opts.str("day")
	if err := b.schedule.ClearDay(context.Background(), day); err != nil {
		return err
	}
	return respondText(s, i, fmt.Sprintf("Schedule for %s cleared.", day), true)
}

func (b *Bot) handleOscarPrompt(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	if err := b.prompts.Add(context.Background(), opts.str("text")); err != nil {
		return err
	}
	return respondText(s, i, "Prompt added to the rotation.", true)
}

func (b *Bot) handleOscarConfig(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	channels := b.cfg.Discord.Channels
	roles := b.cfg.Discord.Roles

	channel := func(id string) string {
		if id == "" {
			return "not set"
		}
		return fmt.Sprintf("<#%s>", id)
	}
	role := func(id string) string {
		if id == "" {
			return "not set"
		}
		return fmt.Sprintf("<@&%s>", id)
	}

	recordsState := "disabled (no spreadsheet credentials)"
	if b.workflow != nil {
		recordsState = "enabled"
	}
	ticketsState := "disabled (no ticket category)"
	if b.tickets.Enabled() {
		ticketsState = "enabled"
	}

	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "Oscar Configuration",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Announcements", Value: channel(channels.Announce), Inline: true},
			{Name: "Calendar", Value: channel(channels.Calendar), Inline: true},
			{Name: "Student Lounge", Value: channel(channels.StudentLounge), Inline: true},
			{Name: "Admin Role", Value: role(roles.Admin), Inline: true},
			{Name: "Teacher Role", Value: role(roles.Teacher), Inline: true},
			{Name: "Nurse Role", Value: role(roles.Nurse), Inline: true},
			{Name: "Application Records", Value: recordsState, Inline: true},
			{Name: "Tickets", Value: ticketsState, Inline: true},
		},
	}, true)
}

func (b *Bot) handleOscarPortal(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	links := b.cfg.Discord.Links
	fields := make([]*discordgo.MessageEmbedField, 0, 5)

	add := func(name, url string) {
		if url != "" {
			fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: url})
		}
	}
	add("Student Portal", links.StudentPortal)
	add("Teacher Portal", links.TeacherPortal)
	add("Parent Portal", links.ParentPortal)
	add("Admin Portal", links.AdminPortal)
	add("Handbook", links.Handbook)

	if len(fields) == 0 {
		return respondText(s, i, "No portal links are configured yet.", true)
	}

	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:  "Academy Portals",
		Color:  colorInfo,
		Fields: fields,
	}, true)
}

// templateChannels maps each static post to its configured destination.
func (b *Bot) templateChannel(templateID string) string {
	channels := b.cfg.Discord.Channels
	switch templateID {
	case "welcome_post":
		return channels.Welcome
	case "rules_post":
		return channels.Rules
	case "handbook_post":
		return channels.Handbook
	case "enrollment_post":
		return channels.Enrollment
	default:
		return ""
	}
}

func (b *Bot) handleOscarPost(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	templateID := opts.str("template")

	if b.templates == nil {
		return respondText(s, i, "No template registry is loaded.", true)
	}
	tmpl, ok := b.templates.Get(templateID)
	if !ok {
		return respondText(s, i, fmt.Sprintf("No template named %q is loaded.", templateID), true)
	}

	channelID := b.templateChannel(templateID)
	if channelID == "" {
		return respondText(s, i, "No channel is configured for that template.", true)
	}

	links := b.cfg.Discord.Links
	body := tmpl.Render(map[string]string{
		"handbook":       links.Handbook,
		"enrollment":     links.Enrollment,
		"student_portal": links.StudentPortal,
	})

	embed := &discordgo.MessageEmbed{
		Title:       tmpl.Title,
		Description: body,
		Color:       colorInfo,
	}
	if tmpl.Color != 0 {
		embed.Color = tmpl.Color
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return cerrors.NewNotificationSendFailedError(channelID, err)
	}

	return respondText(s, i, fmt.Sprintf("Posted %s to <#%s>.", templateID, channelID), true)
}
