// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Records   RecordsConfig   `mapstructure:"records"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Tickets   TicketConfig    `mapstructure:"tickets"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Templates TemplateConfig  `mapstructure:"templates"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// DiscordConfig maps the bot to one guild and its academy channels. Every
// channel/role field is optional: a missing ID disables the feature that
// needs it (with a startup warning) instead of failing startup.
type DiscordConfig struct {
	Token              string   `mapstructure:"token"`
	GuildID            string   `mapstructure:"guild_id"`
	AllowedCategoryIDs []string `mapstructure:"allowed_category_ids"`
	LogChannelID       string   `mapstructure:"log_channel_id"`

	Channels ChannelConfig `mapstructure:"channels"`
	Roles    RoleConfig    `mapstructure:"roles"`
	Links    LinkConfig    `mapstructure:"links"`
}

type ChannelConfig struct {
	Welcome       string `mapstructure:"welcome"`
	Rules         string `mapstructure:"rules"`
	Announce      string `mapstructure:"announce"`
	Calendar      string `mapstructure:"calendar"`
	Handbook      string `mapstructure:"handbook"`
	Enrollment    string `mapstructure:"enrollment"`
	StudentLounge string `mapstructure:"student_lounge"`
}

type RoleConfig struct {
	Admin   string `mapstructure:"admin"`
	Teacher string `mapstructure:"teacher"`
	Nurse   string `mapstructure:"nurse"`
}

type LinkConfig struct {
	Handbook      string `mapstructure:"handbook"`
	Enrollment    string `mapstructure:"enrollment"`
	StudentPortal string `mapstructure:"student_portal"`
	TeacherPortal string `mapstructure:"teacher_portal"`
	ParentPortal  string `mapstructure:"parent_portal"`
	AdminPortal   string `mapstructure:"admin_portal"`
}

// RecordsConfig points at the two external application spreadsheets.
type RecordsConfig struct {
	CredentialsFile      string `mapstructure:"credentials_file"`
	StudentSpreadsheetID string `mapstructure:"student_spreadsheet_id"`
	TeacherSpreadsheetID string `mapstructure:"teacher_spreadsheet_id"`
	ReadRange            string `mapstructure:"read_range"` // bounded full-table fetch, e.g. "A1:Z1000"
	TimeoutMillis        int    `mapstructure:"timeout"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TicketConfig scopes ticket channels under one category, visible to the
// listed staff roles.
type TicketConfig struct {
	CategoryID   string   `mapstructure:"category_id"`
	StaffRoleIDs []string `mapstructure:"staff_role_ids"`
}

// SchedulerConfig drives the daily bulletin and prompt posts.
type SchedulerConfig struct {
	Timezone     string `mapstructure:"timezone"`
	BulletinHour int    `mapstructure:"bulletin_hour"`
	PromptHour   int    `mapstructure:"prompt_hour"`
	TickSeconds  int    `mapstructure:"tick_seconds"`
}

// TemplateConfig holds the message template registry location.
type TemplateConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
}

type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
