// internal/discord/router.go
package discord

import (
	"fmt"
	"time"

	"academy-bot/internal/common/config"
	cerrors "academy-bot/internal/common/errors"
	"academy-bot/internal/common/logger"
	"academy-bot/internal/common/metrics"
	"academy-bot/internal/records"

	"github.com/bwmarrin/discordgo"
)

// gate names the role a route requires. Administrator permission always
// satisfies any gate.
type gate string

const (
	gateNone    gate = ""
	gateAdmin   gate = "admin"
	gateTeacher gate = "teacher"
	gateNurse   gate = "nurse"
	gateStaff   gate = "staff"
)

type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

type handlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error

type route struct {
	handler handlerFunc
	gate    gate
	// safe routes work anywhere in the guild, outside the scoped
	// categories too
	safe bool
}

// Router dispatches slash command interactions to their handlers and owns
// the outermost error boundary: a handler error or panic always turns into
// a reply, never a hung interaction.
type Router struct {
	cfg    *config.Config
	logger logger.Logger
	reply  *cerrors.ReplyHandler
	routes map[string]route
}

func NewRouter(cfg *config.Config, log logger.Logger) *Router {
	return &Router{
		cfg:    cfg,
		logger: log,
		reply:  cerrors.NewReplyHandler(log),
		routes: make(map[string]route),
	}
}

func (r *Router) register(path string, g gate, safe bool, h handlerFunc) {
	r.routes[path] = route{handler: h, gate: g, safe: safe}
}

// commandPath flattens a command invocation to "name.group.sub" and
// returns the leaf options.
func commandPath(data discordgo.ApplicationCommandInteractionData) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	path := data.Name
	options := data.Options

	for len(options) == 1 {
		opt := options[0]
		if opt.Type != discordgo.ApplicationCommandOptionSubCommand &&
			opt.Type != discordgo.ApplicationCommandOptionSubCommandGroup {
			break
		}
		path += "." + opt.Name
		options = opt.Options
	}

	return path, options
}

func collectOptions(options []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	out := make(optionMap, len(options))
	for _, opt := range options {
		out[opt.Name] = opt
	}
	return out
}

func (m optionMap) str(name string) string {
	if opt, ok := m[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (m optionMap) integer(name string) int {
	if opt, ok := m[name]; ok {
		return int(opt.IntValue())
	}
	return 0
}

func (m optionMap) boolean(name string) bool {
	if opt, ok := m[name]; ok {
		return opt.BoolValue()
	}
	return false
}

func (m optionMap) userID(name string) string {
	if opt, ok := m[name]; ok {
		if v, ok := opt.Value.(string); ok {
			return v
		}
	}
	return ""
}

func isAdministrator(member *discordgo.Member) bool {
	return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
}

func memberHasRole(member *discordgo.Member, roleID string) bool {
	if member == nil || roleID == "" {
		return false
	}
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// isStaff mirrors the access model: teachers, admins, or anyone with the
// Administrator permission count as staff.
func (r *Router) isStaff(member *discordgo.Member) bool {
	return isAdministrator(member) ||
		memberHasRole(member, r.cfg.Discord.Roles.Admin) ||
		memberHasRole(member, r.cfg.Discord.Roles.Teacher)
}

func (r *Router) passesGate(member *discordgo.Member, g gate) bool {
	if g == gateNone {
		return true
	}
	if isAdministrator(member) {
		return true
	}

	switch g {
	case gateAdmin:
		return memberHasRole(member, r.cfg.Discord.Roles.Admin)
	case gateTeacher:
		return memberHasRole(member, r.cfg.Discord.Roles.Teacher) ||
			memberHasRole(member, r.cfg.Discord.Roles.Admin)
	case gateNurse:
		return memberHasRole(member, r.cfg.Discord.Roles.Nurse) ||
			memberHasRole(member, r.cfg.Discord.Roles.Admin)
	case gateStaff:
		return r.isStaff(member)
	default:
		return false
	}
}

// actor builds the records-layer view of whoever invoked the interaction.
func (r *Router) actor(i *discordgo.InteractionCreate) records.Actor {
	member := i.Member
	if member == nil || member.User == nil {
		return records.Actor{}
	}
	return records.Actor{
		ID:    member.User.ID,
		Name:  member.User.Username,
		Staff: r.isStaff(member),
	}
}

// inScope reports whether the channel sits under one of the allowed
// categories. An empty allow-list scopes nothing.
func (r *Router) inScope(s *discordgo.Session, channelID string) bool {
	if len(r.cfg.Discord.AllowedCategoryIDs) == 0 {
		return true
	}

	channel, err := s.State.Channel(channelID)
	if err != nil {
		channel, err = s.Channel(channelID)
		if err != nil {
			r.logger.Warn("channel lookup failed for scope check", map[string]interface{}{
				"channelId": channelID,
				"error":     err.Error(),
			})
			return false
		}
	}

	for _, categoryID := range r.cfg.Discord.AllowedCategoryIDs {
		if channel.ParentID == categoryID || channel.ID == categoryID {
			return true
		}
	}
	return false
}

// Handle is the InteractionCreate entry point.
func (r *Router) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	path, leafOptions := commandPath(i.ApplicationCommandData())
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic in command handler", map[string]interface{}{
				"command": path,
				"panic":   fmt.Sprint(rec),
			})
			metrics.CommandsFailed.WithLabelValues(path, "PANIC").Inc()
			r.respondError(s, i, "Something went wrong on our end. Please try again.")
		}
	}()

	rt, ok := r.routes[path]
	if !ok {
		r.respondError(s, i, "Unknown command.")
		return
	}

	if !rt.safe && !r.inScope(s, i.ChannelID) {
		r.respondError(s, i, "That command only works in the academy channels.")
		return
	}

	if !r.passesGate(i.Member, rt.gate) {
		metrics.CommandsFailed.WithLabelValues(path, string(cerrors.ErrCodePermissionDenied)).Inc()
		r.respondError(s, i, "You do not have permission to use that command.")
		return
	}

	err := rt.handler(s, i, collectOptions(leafOptions))
	metrics.CommandDuration.WithLabelValues(path).Observe(time.Since(started).Seconds())

	if err != nil {
		code := cerrors.CodeOf(err)
		if code == "" {
			code = "INTERNAL_ERROR"
		}
		metrics.CommandsFailed.WithLabelValues(path, string(code)).Inc()
		r.respondError(s, i, r.reply.UserMessage(path, err))
		return
	}

	metrics.CommandsProcessed.WithLabelValues(path).Inc()
}

// respondError replies or follows up depending on whether the handler
// already deferred.
func (r *Router) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		}); err != nil {
			r.logger.Error("failed to deliver error reply", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// respondText sends an immediate plain reply.
func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// respondEmbed sends an immediate embed reply.
func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// deferReply acknowledges the interaction before a slow external call, so
// the spreadsheet round-trip never trips the interactive response window.
func deferReply(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

func followupText(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	params := &discordgo.WebhookParams{Content: content}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := s.FollowupMessageCreate(i.Interaction, true, params)
	return err
}

func followupEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	params := &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := s.FollowupMessageCreate(i.Interaction, true, params)
	return err
}
