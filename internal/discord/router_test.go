package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"academy-bot/internal/common/config"
	"academy-bot/internal/common/logger"
	"academy-bot/internal/records"
)

func testRouter() *Router {
	cfg := &config.Config{}
	cfg.Discord.Roles = config.RoleConfig{
		Admin:   "role-admin",
		Teacher: "role-teacher",
		Nurse:   "role-nurse",
	}
	return NewRouter(cfg, logger.NewNoOpLogger())
}

func memberWith(roles ...string) *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: "user-1", Username: "bytewolf"},
		Roles: roles,
	}
}

func adminMember() *discordgo.Member {
	m := memberWith()
	m.Permissions = discordgo.PermissionAdministrator
	return m
}

func TestCommandPath(t *testing.T) {
	tests := []struct {
		name     string
		data     discordgo.ApplicationCommandInteractionData
		expected string
	}{
		{
			name:     "bare command",
			data:     discordgo.ApplicationCommandInteractionData{Name: "oscar"},
			expected: "oscar",
		},
		{
			name: "subcommand",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "app",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "status", Type: discordgo.ApplicationCommandOptionSubCommand},
				},
			},
			expected: "app.status",
		},
		{
			name: "subcommand group",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "oscar",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: "schedule",
						Type: discordgo.ApplicationCommandOptionSubCommandGroup,
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							{Name: "week", Type: discordgo.ApplicationCommandOptionSubCommand},
						},
					},
				},
			},
			expected: "oscar.schedule.week",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, _ := commandPath(tt.data)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestCommandPathReturnsLeafOptions(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "app",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "status",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "type", Type: discordgo.ApplicationCommandOptionString, Value: "student"},
					{Name: "handle", Type: discordgo.ApplicationCommandOptionString, Value: "bytewolf"},
				},
			},
		},
	}

	path, leaf := commandPath(data)
	assert.Equal(t, "app.status", path)

	opts := collectOptions(leaf)
	assert.Equal(t, "student", opts.str("type"))
	assert.Equal(t, "bytewolf", opts.str("handle"))
	assert.Empty(t, opts.str("missing"))
}

func TestPassesGate(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name     string
		member   *discordgo.Member
		gate     gate
		expected bool
	}{
		{"no gate, no roles", memberWith(), gateNone, true},
		{"admin gate requires admin role", memberWith(), gateAdmin, false},
		{"admin gate with admin role", memberWith("role-admin"), gateAdmin, true},
		{"administrator permission passes any gate", adminMember(), gateAdmin, true},
		{"teacher gate with teacher role", memberWith("role-teacher"), gateTeacher, true},
		{"teacher gate with admin role", memberWith("role-admin"), gateTeacher, true},
		{"teacher gate without role", memberWith("role-nurse"), gateTeacher, false},
		{"nurse gate with nurse role", memberWith("role-nurse"), gateNurse, true},
		{"nurse gate with teacher role", memberWith("role-teacher"), gateNurse, false},
		{"staff gate with teacher role", memberWith("role-teacher"), gateStaff, true},
		{"staff gate with nurse role", memberWith("role-nurse"), gateStaff, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.passesGate(tt.member, tt.gate))
		})
	}
}

func TestActor(t *testing.T) {
	r := testRouter()

	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: memberWith("role-teacher"),
	}}
	actor := r.actor(i)
	assert.Equal(t, "user-1", actor.ID)
	assert.Equal(t, "bytewolf", actor.Name)
	assert.True(t, actor.Staff)

	i = &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: memberWith(),
	}}
	assert.False(t, r.actor(i).Staff)
}

func TestDecisionSummary(t *testing.T) {
	rec := &records.Record{Handle: "bytewolf"}

	delivered := decisionSummary("**Approved**", &records.Outcome{Record: rec, Notified: true})
	assert.Contains(t, delivered, "notified by DM")

	fallback := decisionSummary("**Approved**", &records.Outcome{Record: rec, Notified: true, StaffFallback: true})
	assert.Contains(t, fallback, "sent to you instead")

	failed := decisionSummary("**Denied**", &records.Outcome{Record: rec})
	assert.Contains(t, failed, "could not be reached")
}

func TestOptionMapAccessors(t *testing.T) {
	opts := collectOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "amount", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(12)},
		{Name: "approve", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
		{Name: "student", Type: discordgo.ApplicationCommandOptionUser, Value: "user-42"},
	})

	assert.Equal(t, 12, opts.integer("amount"))
	assert.True(t, opts.boolean("approve"))
	assert.Equal(t, "user-42", opts.userID("student"))
	assert.Zero(t, opts.integer("missing"))
	assert.False(t, opts.boolean("missing"))
}
