// internal/discord/embeds.go
package discord

import (
	"fmt"
	"strings"

	"academy-bot/internal/academy"
	"academy-bot/internal/records"

	"github.com/bwmarrin/discordgo"
)

const (
	colorInfo    = 0x5865F2
	colorSuccess = 0x57F287
	colorWarning = 0xFEE75C
	colorDanger  = 0xED4245
)

// statusEmbed renders a projected application view. StaffNotes is populated
// only when the projector allowed it.
func statusEmbed(storeID records.StoreID, view records.PublicView) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Status", Value: view.Status, Inline: true},
	}

	if storeID == records.StoreStudent {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Payment", Value: view.PaymentStatus, Inline: true,
		})
	}

	fields = append(fields, &discordgo.MessageEmbedField{
		Name: "Next Steps", Value: view.NextSteps,
	})

	if view.StaffNotes != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Staff Notes", Value: view.StaffNotes,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Application: %s", view.Handle),
		Color:  colorInfo,
		Fields: fields,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// scheduleEmbed renders one or more days of the weekly schedule.
func scheduleEmbed(title string, days []string, entries map[string][]academy.ScheduleBlock) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(days))
	for _, day := range days {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  titleCase(day),
			Value: renderScheduleBlocks(entries[day]),
		})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  colorInfo,
		Fields: fields,
	}
}

func renderScheduleBlocks(blocks []academy.ScheduleBlock) string {
	if len(blocks) == 0 {
		return "No classes scheduled."
	}
	var sb strings.Builder
	for n, block := range blocks {
		fmt.Fprintf(&sb, "%d. **%s**", n+1, block.Label)
		if block.Details != "" {
			sb.WriteString(": " + block.Details)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// leaderboardEmbed renders the house points standings.
func leaderboardEmbed(entries []academy.LeaderboardEntry) *discordgo.MessageEmbed {
	if len(entries) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "House Points",
			Description: "No points awarded yet.",
			Color:       colorInfo,
		}
	}

	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. <@%s> - %d points\n", i+1, e.UserID, e.Points)
	}

	return &discordgo.MessageEmbed{
		Title:       "House Points",
		Description: b.String(),
		Color:       colorSuccess,
	}
}
