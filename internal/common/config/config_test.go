package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: academy-bot
  environment: test
discord:
  token: test-token
  guild_id: "123456789"
  channels:
    calendar: "111"
    student_lounge: "222"
records:
  student_spreadsheet_id: sheet-students
  teacher_spreadsheet_id: sheet-teachers
scheduler:
  bulletin_hour: 7
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Discord.Token)
	assert.Equal(t, "123456789", cfg.Discord.GuildID)
	assert.Equal(t, "sheet-students", cfg.Records.StudentSpreadsheetID)
	assert.Equal(t, 7, cfg.Scheduler.BulletinHour)
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: test-token
  guild_id: "123456789"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "A1:Z1000", cfg.Records.ReadRange)
	assert.Equal(t, 15000, cfg.Records.TimeoutMillis)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "America/Los_Angeles", cfg.Scheduler.Timezone)
	assert.Equal(t, 20, cfg.Scheduler.TickSeconds)
	assert.Equal(t, 8, cfg.Scheduler.BulletinHour)
	assert.Equal(t, 9, cfg.Scheduler.PromptHour)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFileMissingToken(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  guild_id: "123456789"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token is required")
}

func TestLoadFromFileMissingGuild(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: test-token
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.guild_id is required")
}

func TestWarnings(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: test-token
  guild_id: "123456789"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	warnings := cfg.Warnings()
	assert.NotEmpty(t, warnings)

	joined := ""
	for _, w := range warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, "record sync disabled")
	assert.Contains(t, joined, "ticket channels disabled")
	assert.Contains(t, joined, "daily bulletin disabled")
}

func TestWarningsFullyConfigured(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: test-token
  guild_id: "123456789"
  log_channel_id: "999"
  channels:
    calendar: "111"
    student_lounge: "222"
  roles:
    teacher: "333"
records:
  credentials_file: creds.json
  student_spreadsheet_id: sheet-students
  teacher_spreadsheet_id: sheet-teachers
tickets:
  category_id: "444"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")

	path := writeConfigFile(t, `
discord:
  guild_id: "123456789"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
}
