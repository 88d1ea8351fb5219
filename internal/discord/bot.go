// internal/discord/bot.go
package discord

import (
	"fmt"

	"academy-bot/internal/academy"
	"academy-bot/internal/common/config"
	"academy-bot/internal/common/logger"
	"academy-bot/internal/records"
	"academy-bot/pkg/registry"

	"github.com/bwmarrin/discordgo"
)

// Stores bundles the academy tables the bot serves.
type Stores struct {
	Schedule   *academy.ScheduleStore
	Prompts    *academy.PromptStore
	Points     *academy.PointsStore
	Attendance *academy.AttendanceStore
	Passes     *academy.PassStore
	Nurse      *academy.NurseQueue
}

// Bot owns the Discord session and wires commands to the records workflow
// and the academy tables.
type Bot struct {
	session *discordgo.Session
	cfg     *config.Config
	logger  logger.Logger
	router  *Router

	resolver *records.Resolver
	workflow *records.Workflow
	notifier *DMNotifier
	tickets  *TicketGateway
	audit    *AuditLog

	templates *registry.TemplateRegistry

	schedule   *academy.ScheduleStore
	prompts    *academy.PromptStore
	points     *academy.PointsStore
	attendance *academy.AttendanceStore
	passes     *academy.PassStore
	nurse      *academy.NurseQueue

	registeredCommands []*discordgo.ApplicationCommand
}

// New builds the bot. recordStore may be nil when the spreadsheet side is
// not configured; application commands then answer with a disabled notice
// while the academy features keep working.
func New(cfg *config.Config, log logger.Logger, recordStore *records.Store, templates *registry.TemplateRegistry, stores Stores) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	b := &Bot{
		session:    session,
		cfg:        cfg,
		logger:     log,
		router:     NewRouter(cfg, log),
		templates:  templates,
		schedule:   stores.Schedule,
		prompts:    stores.Prompts,
		points:     stores.Points,
		attendance: stores.Attendance,
		passes:     stores.Passes,
		nurse:      stores.Nurse,
	}

	b.notifier = NewDMNotifier(session, log)
	b.tickets = NewTicketGateway(session, cfg.Discord.GuildID, cfg.Tickets, log)
	b.audit = NewAuditLog(session, cfg.Discord.LogChannelID, log)

	if recordStore != nil {
		b.resolver = records.NewResolver(recordStore)
		b.workflow = records.NewWorkflow(recordStore, b.notifier, b.workflowTemplates(), log)
	}

	b.registerRoutes()
	session.AddHandler(b.router.Handle)
	session.AddHandler(b.onReady)

	return b, nil
}

// workflowTemplates pulls decision boilerplate from the template registry,
// falling back to the built-in defaults.
func (b *Bot) workflowTemplates() records.Templates {
	templates := records.DefaultTemplates()
	if b.templates == nil {
		return templates
	}

	if tmpl, ok := b.templates.Get("approval_next_steps"); ok {
		templates.ApprovalNextSteps = tmpl.Body
	}
	if tmpl, ok := b.templates.Get("completion_next_steps"); ok {
		templates.CompletionNextSteps = tmpl.Body
	}
	return templates
}

func (b *Bot) registerRoutes() {
	r := b.router

	// Application workflow
	r.register("app.status", gateNone, false, b.handleAppStatus)
	r.register("app.link", gateStaff, false, b.handleAppLink)
	r.register("app.approve", gateStaff, false, b.handleAppApprove)
	r.register("app.deny", gateStaff, false, b.handleAppDeny)
	r.register("app.confirm_payment", gateStaff, false, b.handleAppConfirmPayment)
	r.register("app.scan", gateStaff, false, b.handleAppScan)
	r.register("app.ticket", gateNone, true, b.handleAppTicket)
	r.register("app.ticket_close", gateStaff, true, b.handleAppTicketClose)

	// Oscar utilities. Ping, help and portal are safe anywhere.
	r.register("oscar.ping", gateNone, true, b.handleOscarPing)
	r.register("oscar.help", gateNone, true, b.handleOscarHelp)
	r.register("oscar.config", gateAdmin, true, b.handleOscarConfig)
	r.register("oscar.portal", gateNone, true, b.handleOscarPortal)
	r.register("oscar.announce", gateAdmin, false, b.handleOscarAnnounce)
	r.register("oscar.bulletin", gateAdmin, false, b.handleOscarBulletin)
	r.register("oscar.schedule.today", gateNone, false, b.handleScheduleToday)
	r.register("oscar.schedule.week", gateNone, false, b.handleScheduleWeek)
	r.register("oscar.schedule.set", gateAdmin, false, b.handleScheduleSet)
	r.register("oscar.schedule.clear", gateAdmin, false, b.handleScheduleClear)
	r.register("oscar.prompt", gateAdmin, false, b.handleOscarPrompt)
	r.register("oscar.post", gateAdmin, false, b.handleOscarPost)

	// Classroom
	r.register("class.attendance_start", gateTeacher, false, b.handleAttendanceStart)
	r.register("class.attendance_close", gateTeacher, false, b.handleAttendanceClose)
	r.register("class.points", gateTeacher, false, b.handleClassPoints)
	r.register("class.leaderboard", gateNone, false, b.handleLeaderboard)
	r.register("class.shoutout", gateTeacher, false, b.handleShoutout)
	r.register("class.timer", gateTeacher, false, b.handleClassTimer)
	r.register("class.groups", gateTeacher, false, b.handleClassGroups)
	r.register("class.lesson_post", gateTeacher, false, b.handleLessonPost)
	r.register("class.worksheet_post", gateTeacher, false, b.handleWorksheetPost)

	// Students
	r.register("student.here", gateNone, false, b.handleStudentHere)
	r.register("student.pass_request", gateNone, false, b.handlePassRequest)

	// Nurse
	r.register("nurse.checkin", gateNone, false, b.handleNurseCheckin)
	r.register("nurse.next", gateNurse, false, b.handleNurseNext)

	// Staff
	r.register("staff.pass_decide", gateStaff, false, b.handlePassDecide)
	r.register("staff.pass_list", gateStaff, false, b.handlePassList)
	r.register("staff.export_attendance", gateStaff, false, b.handleExportAttendance)
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord session ready", map[string]interface{}{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	})
}

// Start opens the gateway connection and registers the guild commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID, b.cfg.Discord.GuildID, Commands())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	b.registeredCommands = registered

	b.logger.Info("slash commands registered", map[string]interface{}{
		"count":   len(registered),
		"guildId": b.cfg.Discord.GuildID,
	})

	b.audit.Post("Oscar is online. %d commands registered.", len(registered))
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

// Notifier exposes the DM notifier for wiring outside the command surface.
func (b *Bot) Notifier() *DMNotifier {
	return b.notifier
}
