// internal/discord/commands.go
package discord

import "github.com/bwmarrin/discordgo"

// applicantTypeChoices is shared by every command that targets one of the
// two application stores.
var applicantTypeChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Student", Value: "student"},
	{Name: "Teacher", Value: "teacher"},
}

// Commands returns the full slash command surface registered on startup.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "app",
			Description: "Application status and decisions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "status",
					Description: "Look up an application's status",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "type", Description: "Applicant type", Type: discordgo.ApplicationCommandOptionString, Required: true, Choices: applicantTypeChoices},
						{Name: "handle", Description: "Applicant handle", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{
					Name:        "link",
					Description: "Bind a Discord account to an application (staff)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "type", Description: "Applicant type", Type: discordgo.ApplicationCommandOptionString, Required: true, Choices: applicantTypeChoices},
						{Name: "handle", Description: "Applicant handle", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "user", Description: "Account to bind", Type: discordgo.ApplicationCommandOptionUser, Required: true},
					},
				},
				{
					Name:        "approve",
					Description: "Approve an application (staff)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "type", Description: "Applicant type", Type: discordgo.ApplicationCommandOptionString, Required: true, Choices: applicantTypeChoices},
						{Name: "handle", Description: "Applicant handle", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "next_steps", Description: "Next steps to send the applicant", Type: discordgo.ApplicationCommandOptionString},
					},
				},
				{
					Name:        "deny",
					Description: "Deny an application (staff)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "type", Description: "Applicant type", Type: discordgo.ApplicationCommandOptionString, Required: true, Choices: applicantTypeChoices},
						{Name: "handle", Description: "Applicant handle", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "reason", Description: "Reason shown to the applicant", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{
					Name:        "confirm_payment",
					Description: "Confirm a student's payment (staff)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "handle", Description: "Student handle", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "notes", Description: "Payment notes", Type: discordgo.ApplicationCommandOptionString},
					},
				},
				{
					Name:        "scan",
					Description: "Scan student applications for missing signatures (staff)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "ticket",
					Description: "Open a private ticket with academy staff",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "type", Description: "Applicant type", Type: discordgo.ApplicationCommandOptionString, Choices: applicantTypeChoices},
						{Name: "handle", Description: "Applicant handle", Type: discordgo.ApplicationCommandOptionString},
					},
				},
				{
					Name:        "ticket_close",
					Description: "Close this ticket channel (staff)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
			},
		},
		{
			Name:        "oscar",
			Description: "Academy announcements and utilities",
			Options: []*discordgo.ApplicationCommandOption{
				{Name: "ping", Description: "Check the bot is alive", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "help", Description: "Show what Oscar can do", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "config", Description: "Show the configured channels and roles (admin)", Type: discordgo.ApplicationCommandOptionSubCommand},
				{
					Name:        "announce",
					Description: "Post an announcement (admin)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "message", Description: "Announcement text", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{Name: "bulletin", Description: "Post today's bulletin now (admin)", Type: discordgo.ApplicationCommandOptionSubCommand},
				{
					Name:        "schedule",
					Description: "Weekly class schedule",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "today", Description: "Show today's schedule", Type: discordgo.ApplicationCommandOptionSubCommand},
						{Name: "week", Description: "Show the full week", Type: discordgo.ApplicationCommandOptionSubCommand},
						{
							Name:        "set",
							Description: "Set a day's schedule (admin)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{Name: "day", Description: "Day of week", Type: discordgo.ApplicationCommandOptionString, Required: true},
								{Name: "label", Description: "Class or event name", Type: discordgo.ApplicationCommandOptionString, Required: true},
								{Name: "details", Description: "Time, room, notes", Type: discordgo.ApplicationCommandOptionString},
								{Name: "position", Description: "Insert position (1 = first)", Type: discordgo.ApplicationCommandOptionInteger},
							},
						},
						{
							Name:        "clear",
							Description: "Clear a day's schedule (admin)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{Name: "day", Description: "Day of week", Type: discordgo.ApplicationCommandOptionString, Required: true},
							},
						},
					},
				},
				{
					Name:        "prompt",
					Description: "Add a daily role-play prompt (admin)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "text", Description: "Prompt text", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{Name: "portal", Description: "Show the academy portal links", Type: discordgo.ApplicationCommandOptionSubCommand},
				{
					Name:        "post",
					Description: "Post a static template to its channel (admin)",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name: "template", Description: "Which template", Type: discordgo.ApplicationCommandOptionString, Required: true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Welcome", Value: "welcome_post"},
								{Name: "Rules", Value: "rules_post"},
								{Name: "Handbook", Value: "handbook_post"},
								{Name: "Enrollment", Value: "enrollment_post"},
							},
						},
					},
				},
			},
		},
		{
			Name:        "class",
			Description: "Classroom tools (teachers)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "attendance_start",
					Description: "Open an attendance session",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "class", Description: "Class name", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{Name: "attendance_close", Description: "Close the open attendance session", Type: discordgo.ApplicationCommandOptionSubCommand},
				{
					Name:        "points",
					Description: "Award or deduct house points",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "student", Description: "Student", Type: discordgo.ApplicationCommandOptionUser, Required: true},
						{Name: "amount", Description: "Points (negative to deduct)", Type: discordgo.ApplicationCommandOptionInteger, Required: true},
						{Name: "reason", Description: "Why", Type: discordgo.ApplicationCommandOptionString},
					},
				},
				{Name: "leaderboard", Description: "Show the house points standings", Type: discordgo.ApplicationCommandOptionSubCommand},
				{
					Name:        "shoutout",
					Description: "Give a student a public shoutout",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "student", Description: "Student", Type: discordgo.ApplicationCommandOptionUser, Required: true},
						{Name: "message", Description: "Shoutout text", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{
					Name:        "timer",
					Description: "Start a classroom timer",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "minutes", Description: "Duration in minutes", Type: discordgo.ApplicationCommandOptionInteger, Required: true},
						{Name: "label", Description: "What the timer is for", Type: discordgo.ApplicationCommandOptionString},
					},
				},
				{
					Name:        "groups",
					Description: "Split checked-in students into groups",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "size", Description: "Students per group", Type: discordgo.ApplicationCommandOptionInteger, Required: true},
					},
				},
				{
					Name:        "lesson_post",
					Description: "Post a lesson to this channel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "title", Description: "Lesson title", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "content", Description: "Lesson content", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{
					Name:        "worksheet_post",
					Description: "Post a worksheet to this channel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "title", Description: "Worksheet title", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "instructions", Description: "Instructions", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "link", Description: "Worksheet link", Type: discordgo.ApplicationCommandOptionString},
					},
				},
			},
		},
		{
			Name:        "student",
			Description: "Student self-service",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "here",
					Description: "Check in to the open attendance session",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name: "status", Description: "How to mark yourself", Type: discordgo.ApplicationCommandOptionString,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Present", Value: "present"},
								{Name: "Late", Value: "late"},
								{Name: "Excused", Value: "excused"},
							},
						},
					},
				},
				{
					Name:        "pass_request",
					Description: "Request a hall pass",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "reason", Description: "Why you need the pass", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "details", Description: "Anything else staff should know", Type: discordgo.ApplicationCommandOptionString},
					},
				},
			},
		},
		{
			Name:        "nurse",
			Description: "School nurse queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "checkin",
					Description: "Join the nurse queue",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "reason", Description: "What's wrong", Type: discordgo.ApplicationCommandOptionString},
					},
				},
				{Name: "next", Description: "Call the next student (nurse)", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
		},
		{
			Name:        "staff",
			Description: "Staff operations",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "pass_decide",
					Description: "Approve or deny a hall pass",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "pass_id", Description: "Pass id", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "approve", Description: "Approve?", Type: discordgo.ApplicationCommandOptionBoolean, Required: true},
						{Name: "notes", Description: "Note sent to the student", Type: discordgo.ApplicationCommandOptionString},
					},
				},
				{Name: "pass_list", Description: "List pending hall passes", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "export_attendance", Description: "Export attendance history as CSV", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
		},
	}
}
