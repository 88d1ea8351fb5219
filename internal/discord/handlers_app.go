// internal/discord/handlers_app.go
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	cerrors "academy-bot/internal/common/errors"
	"academy-bot/internal/records"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) recordsEnabled() error {
	if b.workflow == nil {
		return cerrors.NewStoreDisabledError("records")
	}
	return nil
}

func parseStoreOption(opts optionMap) (records.StoreID, error) {
	storeID, ok := records.ParseStoreID(opts.str("type"))
	if !ok {
		return "", cerrors.NewUnknownStoreError(opts.str("type"))
	}
	return storeID, nil
}

// recordsContext bounds a spreadsheet round-trip with the configured
// timeout.
func (b *Bot) recordsContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(b.cfg.Records.TimeoutMillis) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (b *Bot) handleAppStatus(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	if err := b.recordsEnabled(); err != nil {
		return err
	}
	storeID, err := parseStoreOption(opts)
	if err != nil {
		return err
	}

	// Acknowledge before the spreadsheet round-trip.
	if err := deferReply(s, i, true); err != nil {
		return err
	}

	actor := b.router.actor(i)
	ctx, cancel := b.recordsContext()
	defer cancel()
	rec, err := b.resolver.ResolveByHandle(ctx, storeID, opts.str("handle"), actor)
	if err != nil {
		return err
	}

	view := records.Project(rec, storeID, actor.Staff)
	return followupEmbed(s, i, statusEmbed(storeID, view), true)
}

func (b *Bot) handleAppLink(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	if err := b.recordsEnabled(); err != nil {
		return err
	}
	storeID, err := parseStoreOption(opts)
	if err != nil {
		return err
	}

	if err := deferReply(s, i, true); err != nil {
		return err
	}

	handle := opts.str("handle")
	accountID := opts.userID("user")
	actor := b.router.actor(i)
	ctx, cancel := b.recordsContext()
	defer cancel()
	rec, err := b.workflow.LinkAccount(ctx, storeID, handle, accountID, actor)
	if err != nil {
		return err
	}

	b.audit.Post("🔗 %s linked <@%s> to the %s application for %s.", actor.Name, accountID, storeID, rec.Handle)
	return followupText(s, i, fmt.Sprintf("Linked <@%s> to the %s application for **%s**.", accountID, storeID, rec.Handle), true)
}

// decisionSummary renders the staff-facing result of a decision, including
// where the notification actually went.
func decisionSummary(action string, outcome *records.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Application for **%s** %s.", outcome.Record.Handle, action)

	switch {
	case outcome.StaffFallback:
		b.WriteString(" No account is linked to this record, so the notification was sent to you instead of the applicant. Use `/app link` to bind their account.")
	case outcome.Notified:
		b.WriteString(" The applicant has been notified by DM.")
	default:
		b.WriteString(" The applicant could not be reached by DM (they may have DMs disabled).")
	}

	return b.String()
}

func (b *Bot) handleAppApprove(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	if err := b.recordsEnabled(); err != nil {
		return err
	}
	storeID, err := parseStoreOption(opts)
	if err != nil {
		return err
	}

	if err := deferReply(s, i, true); err != nil {
		return err
	}

	actor := b.router.actor(i)
	ctx, cancel := b.recordsContext()
	defer cancel()
	outcome, err := b.workflow.Approve(ctx, storeID, opts.str("handle"), opts.str("next_steps"), actor)
	if err != nil {
		return err
	}

	b.audit.Post("✅ %s approved the %s application for %s.", actor.Name, storeID, outcome.Record.Handle)
	return followupText(s, i, decisionSummary("**Approved**", outcome), true)
}

func (b *Bot) handleAppDeny(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	if err := b.recordsEnabled(); err != nil {
		return err
	}
	storeID, err := parseStoreOption(opts)
	if err != nil {
		return err
	}

	if err := deferReply(s, i, true); err != nil {
		return err
	}

	actor := b.router.actor(i)
	ctx, cancel := b.recordsContext()
	defer cancel()
	outcome, err := b.workflow.Deny(ctx, storeID, opts.str("handle"), opts.str("reason"), actor)
	if err != nil {
		return err
	}

	b.audit.Post("⛔ %s denied the %s application for %s.", actor.Name, storeID, outcome.Record.Handle)
	return followupText(s, i, decisionSummary("**Denied**", outcome), true)
}

func (b *Bot) handleAppConfirmPayment(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	if err := b.recordsEnabled(); err != nil {
		return err
	}

	if err := deferReply(s, i, true); err != nil {
		return err
	}

	actor := b.router.actor(i)
	ctx, cancel := b.recordsContext()
	defer cancel()
	outcome, err := b.workflow.ConfirmPayment(ctx, records.StoreStudent, opts.str("handle"), opts.str("notes"), actor)
	if err != nil {
		return err
	}

	b.audit.Post("💰 %s confirmed payment for %s.", actor.Name, outcome.Record.Handle)
	return followupText(s, i, decisionSummary("marked **Enrollment Complete**", outcome), true)
}

func (b *Bot) handleAppScan(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	if err := b.recordsEnabled(); err != nil {
		return err
	}

	if err := deferReply(s, i, true); err != nil {
		return err
	}

	ctx, cancel := b.recordsContext()
	defer cancel()
	summary, err := b.workflow.ScanFollowups(ctx)
	if err != nil {
		return err
	}

	b.audit.Post("🔎 %s ran a follow-up scan: %s", b.router.actor(i).Name, summary.String())
	return followupText(s, i, "Follow-up scan finished: "+summary.String(), true)
}

func (b *Bot) handleAppTicket(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) error {
	if !b.tickets.Enabled() {
		return cerrors.NewTicketCreateFailedError(fmt.Errorf("ticket category not configured"))
	}

	if err := deferReply(s, i, true); err != nil {
		return err
	}

	actor := b.router.actor(i)
	snapshot := TicketSnapshot{
		ApplicantType: opts.str("type"),
		Handle:        opts.str("handle"),
	}

	// Best-effort context capture: a failed lookup still opens the ticket.
	if b.resolver != nil && snapshot.Handle != "" {
		if storeID, ok := records.ParseStoreID(snapshot.ApplicantType); ok {
			ctx, cancel := b.recordsContext()
			defer cancel()
			if rec, err := b.resolver.ResolveByHandle(ctx, storeID, snapshot.Handle, actor); err == nil {
				view := records.Project(rec, storeID, false)
				snapshot.Status = view.Status
				snapshot.NextSteps = view.NextSteps
			}
		}
	}

	channel, err := b.tickets.OpenTicket(actor.ID, snapshot)
	if err != nil {
		return err
	}

	return followupText(s, i, fmt.Sprintf("Your ticket is open: <#%s>", channel.ID), true)
}

func (b *Bot) handleAppTicketClose(s *discordgo.Session, i *discordgo.InteractionCreate, _ optionMap) error {
	channel, err := s.State.Channel(i.ChannelID)
	if err != nil {
		channel, err = s.Channel(i.ChannelID)
		if err != nil {
			return cerrors.NewTicketCreateFailedError(err)
		}
	}

	if !strings.HasPrefix(channel.Name, "ticket-") {
		return respondText(s, i, "This is not a ticket channel.", true)
	}

	if err := respondText(s, i, "Closing this ticket.", true); err != nil {
		return err
	}

	return b.tickets.CloseTicket(i.ChannelID, b.router.actor(i).ID)
}
