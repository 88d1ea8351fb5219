// internal/discord/handlers_academy.go
package discord

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"time"

	"academy-bot/internal/academy"

	"github.com/bwmarrin/discordgo"
)

// /class handlers, teacher-gated by the router.

func (b *Bot) handleAttendanceStart(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	sess, err := b.attendance.Start(context.Background(), opts.str("class"), b.router.actor(i).ID)
	if err != nil {
		return err
	}

	return respondText(s, i, fmt.Sprintf(
		"Attendance is open for **%s** (session `%s`). Students, check in with `/student here`!",
		sess.Class, sess.ID), false)
}

func (b *Bot) handleAttendanceClose(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	ctx := context.Background()

	open, err := b.attendance.Open(ctx)
	if err != nil {
		return err
	}

	closed, err := b.attendance.Close(ctx, open.ID)
	if err != nil {
		return err
	}

	marks, err := b.attendance.Marks(ctx, closed.ID)
	if err != nil {
		return err
	}

	totals := map[academy.MarkStatus]int{}
	for _, mark := range marks {
		totals[mark.Status]++
	}

	return respondText(s, i, fmt.Sprintf(
		"Attendance closed for **%s**: %d present, %d late, %d excused.",
		closed.Class, totals[academy.MarkPresent], totals[academy.MarkLate], totals[academy.MarkExcused]), false)
}

func (b *Bot) handleClassPoints(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	studentID := opts.userID("student")
	amount := opts.integer("amount")

	if amount == 0 || amount < -academy.MaxPointsDelta || amount > academy.MaxPointsDelta {
		return respondText(s, i, fmt.Sprintf(
			"Point awards must be between -%d and %d and nonzero.",
			academy.MaxPointsDelta, academy.MaxPointsDelta), true)
	}

	reason := opts.str("reason")
	total, err := b.points.Add(context.Background(), studentID, amount, reason, b.router.actor(i).ID)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("<@%s> now has %d house points", studentID, total)
	if reason != "" {
		msg += " (" + reason + ")"
	}
	return respondText(s, i, msg+".", false)
}

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	entries, err := b.points.Leaderboard(context.Background(), 10)
	if err != nil {
		return err
	}
	return respondEmbed(s, i, leaderboardEmbed(entries), false)
}

func (b *Bot) handleShoutout(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	return respondText(s, i, fmt.Sprintf("🎉 Shoutout to <@%s>: %s", opts.userID("student"), opts.str("message")), false)
}

const maxTimerMinutes = 120

func (b *Bot) handleClassTimer(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	minutes := opts.integer("minutes")
	if minutes < 1 || minutes > maxTimerMinutes {
		return respondText(s, i, fmt.Sprintf("Timers run between 1 and %d minutes.", maxTimerMinutes), true)
	}

	label := opts.str("label")
	if label == "" {
		label = "Timer"
	}

	channelID := i.ChannelID
	time.AfterFunc(time.Duration(minutes)*time.Minute, func() {
		if _, err := s.ChannelMessageSend(channelID, fmt.Sprintf("⏰ **%s** is up!", label)); err != nil {
			b.logger.Warn("timer expiry message failed", map[string]interface{}{
				"channel_id": channelID,
				"error":      err.Error(),
			})
		}
	})

	return respondText(s, i, fmt.Sprintf("**%s** started: %d minutes.", label, minutes), false)
}

func (b *Bot) handleClassGroups(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	size := opts.integer("size")
	if size < 2 {
		size = 2
	}

	ctx := context.Background()
	open, err := b.attendance.Open(ctx)
	if err != nil {
		return err
	}

	students, err := b.attendance.Present(ctx, open.ID)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		return respondText(s, i, "Nobody has checked in to the open session yet.", true)
	}

	rand.Shuffle(len(students), func(x, y int) {
		students[x], students[y] = students[y], students[x]
	})

	fields := make([]*discordgo.MessageEmbedField, 0, (len(students)+size-1)/size)
	for start := 0; start < len(students); start += size {
		end := start + size
		if end > len(students) {
			end = len(students)
		}
		var value bytes.Buffer
		for _, id := range students[start:end] {
			fmt.Fprintf(&value, "<@%s>\n", id)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Group %d", len(fields)+1),
			Value:  value.String(),
			Inline: true,
		})
	}

	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Groups for %s", open.Class),
		Color:  colorInfo,
		Fields: fields,
	}, false)
}

func (b *Bot) handleLessonPost(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📚 Lesson: %s", opts.str("title")),
		Description: opts.str("content"),
		Color:       colorInfo,
	}
	return respondEmbed(s, i, embed, false)
}

func (b *Bot) handleWorksheetPost(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📝 Worksheet: %s", opts.str("title")),
		Description: opts.str("instructions"),
		Color:       colorInfo,
	}
	if link := opts.str("link"); link != "" {
		embed.Fields = []*discordgo.MessageEmbedField{{Name: "Link", Value: link}}
	}
	return respondEmbed(s, i, embed, false)
}

// /student handlers.

func (b *Bot) handleStudentHere(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	status := academy.MarkPresent
	if raw := opts.str("status"); raw != "" {
		parsed, ok := academy.ParseMarkStatus(raw)
		if !ok {
			return respondText(s, i, "Status must be present, late, or excused.", true)
		}
		status = parsed
	}

	sess, err := b.attendance.MarkStudent(context.Background(), b.router.actor(i).ID, status)
	if err != nil {
		return err
	}
	return respondText(s, i, fmt.Sprintf("You're checked in to **%s** (%s).", sess.Class, status), true)
}

func (b *Bot) handlePassRequest(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	pass, err := b.passes.Request(context.Background(), b.router.actor(i).ID, opts.str("reason"), opts.str("details"))
	if err != nil {
		return err
	}
	return respondText(s, i, fmt.Sprintf(
		"Hall pass requested (id `%s`). Staff will review it shortly.", pass.ID), true)
}

// /nurse handlers.

func (b *Bot) handleNurseCheckin(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	pos, err := b.nurse.CheckIn(context.Background(), b.router.actor(i).ID, opts.str("reason"))
	if err != nil {
		return err
	}
	return respondText(s, i, fmt.Sprintf("You're in the nurse queue at position %d.", pos), true)
}

func (b *Bot) handleNurseNext(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	visit, err := b.nurse.Next(context.Background())
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("<@%s>, the nurse will see you now.", visit.StudentID)
	if visit.Reason != "" {
		msg += fmt.Sprintf(" (%s)", visit.Reason)
	}
	return respondText(s, i, msg, false)
}

// /staff handlers.

func (b *Bot) handlePassDecide(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	actor := b.router.actor(i)
	notes := opts.str("notes")
	pass, err := b.passes.Decide(context.Background(), opts.str("pass_id"), opts.boolean("approve"), actor.ID, notes)
	if err != nil {
		return err
	}

	verdict := "denied"
	if opts.boolean("approve") {
		verdict = "approved"
	}

	dm := fmt.Sprintf("Your hall pass request (%s) was **%s**.", pass.Reason, verdict)
	if notes != "" {
		dm += " Note from staff: " + notes
	}

	// Best-effort DM; the decision stands either way.
	b.notifier.Notify(context.Background(), pass.StudentID, dm)

	b.audit.Post("🚪 %s %s hall pass %s for <@%s> (%s).", actor.Name, verdict, pass.ID, pass.StudentID, pass.Reason)
	return respondText(s, i, fmt.Sprintf("Pass `%s` %s.", pass.ID, verdict), true)
}

func (b *Bot) handlePassList(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	pending, err := b.passes.Pending(context.Background())
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		return respondText(s, i, "No pending hall passes.", true)
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(pending))
	for _, p := range pending {
		value := fmt.Sprintf("<@%s>: %s", p.StudentID, p.Reason)
		if p.Details != "" {
			value += "\n" + p.Details
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("`%s`", p.ID),
			Value: value,
		})
	}
	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:  "Pending Hall Passes",
		Color:  colorWarning,
		Fields: fields,
	}, true)
}

func (b *Bot) handleExportAttendance(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	if err := deferReply(s, i, true); err != nil {
		return err
	}

	data, err := b.attendance.ExportCSV(context.Background())
	if err != nil {
		return err
	}

	b.audit.Post("📋 %s exported the attendance history.", b.router.actor(i).Name)

	_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: "Attendance export:",
		Flags:   discordgo.MessageFlagsEphemeral,
		Files: []*discordgo.File{
			{
				Name:        "attendance.csv",
				ContentType: "text/csv",
				Reader:      bytes.NewReader(data),
			},
		},
	})
	return err
}
