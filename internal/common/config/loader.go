// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DISCORD_TOKEN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if not present
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from multiple locations so the loader works from
// the repo root, cmd/bot, and package test directories alike.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} references in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig applies direct env fallbacks for values still empty
// after expansion. Keeps plain env-only deployments working without a yaml
// file at all.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Discord.Token == "" {
		if val := os.Getenv("DISCORD_TOKEN"); val != "" {
			cfg.Discord.Token = val
		}
	}
	if cfg.Discord.GuildID == "" {
		if val := os.Getenv("GUILD_ID"); val != "" {
			cfg.Discord.GuildID = val
		}
	}
	if cfg.Records.CredentialsFile == "" {
		if val := os.Getenv("SHEETS_CREDENTIALS_FILE"); val != "" {
			cfg.Records.CredentialsFile = val
		}
	}
	if cfg.Records.StudentSpreadsheetID == "" {
		if val := os.Getenv("STUDENT_SPREADSHEET_ID"); val != "" {
			cfg.Records.StudentSpreadsheetID = val
		}
	}
	if cfg.Records.TeacherSpreadsheetID == "" {
		if val := os.Getenv("TEACHER_SPREADSHEET_ID"); val != "" {
			cfg.Records.TeacherSpreadsheetID = val
		}
	}
	if cfg.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Redis.Address = val
		}
	}
	if cfg.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "academy-bot"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Records.ReadRange == "" {
		cfg.Records.ReadRange = "A1:Z1000"
	}
	if cfg.Records.TimeoutMillis == 0 {
		cfg.Records.TimeoutMillis = 15000
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}

	if cfg.Scheduler.Timezone == "" {
		cfg.Scheduler.Timezone = "America/Los_Angeles"
	}
	if cfg.Scheduler.BulletinHour == 0 {
		cfg.Scheduler.BulletinHour = 8
	}
	if cfg.Scheduler.PromptHour == 0 {
		cfg.Scheduler.PromptHour = 9
	}
	if cfg.Scheduler.TickSeconds == 0 {
		cfg.Scheduler.TickSeconds = 20
	}

	if cfg.Templates.RegistryPath == "" {
		cfg.Templates.RegistryPath = "configs/templates.json"
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields. Only the Discord
// connection itself is mandatory; everything else degrades per feature.
func validateConfig(cfg *Config) error {
	if cfg.Discord.Token == "" {
		return fmt.Errorf("discord.token is required")
	}
	if cfg.Discord.GuildID == "" {
		return fmt.Errorf("discord.guild_id is required")
	}
	return nil
}

// Warnings reports optional features left disabled by missing configuration.
// Callers log these at startup; absence of optional config never fails Load.
func (cfg *Config) Warnings() []string {
	var warnings []string

	if cfg.Records.CredentialsFile == "" {
		warnings = append(warnings, "records.credentials_file not set: application record sync disabled")
	}
	if cfg.Records.StudentSpreadsheetID == "" {
		warnings = append(warnings, "records.student_spreadsheet_id not set: student application store disabled")
	}
	if cfg.Records.TeacherSpreadsheetID == "" {
		warnings = append(warnings, "records.teacher_spreadsheet_id not set: teacher application store disabled")
	}
	if cfg.Tickets.CategoryID == "" {
		warnings = append(warnings, "tickets.category_id not set: ticket channels disabled")
	}
	if cfg.Discord.LogChannelID == "" {
		warnings = append(warnings, "discord.log_channel_id not set: guild audit log disabled")
	}
	if cfg.Discord.Channels.Calendar == "" {
		warnings = append(warnings, "discord.channels.calendar not set: daily bulletin disabled")
	}
	if cfg.Discord.Channels.StudentLounge == "" {
		warnings = append(warnings, "discord.channels.student_lounge not set: daily prompt disabled")
	}
	if cfg.Discord.Roles.Teacher == "" {
		warnings = append(warnings, "discord.roles.teacher not set: staff checks fall back to the Administrator permission")
	}

	return warnings
}
