// internal/records/workflow.go
package records

import (
	"context"
	"fmt"
	"time"

	cerrors "academy-bot/internal/common/errors"
	"academy-bot/internal/common/logger"
	"academy-bot/internal/common/metrics"
)

// Notifier delivers a direct message to a platform account. Delivery is
// best effort: false means the message did not arrive, and callers only
// log it.
type Notifier interface {
	Notify(ctx context.Context, accountID, message string) bool
}

// Templates holds the boilerplate text the state machine writes when staff
// do not supply their own.
type Templates struct {
	ApprovalNextSteps   string
	CompletionNextSteps string
}

func DefaultTemplates() Templates {
	return Templates{
		ApprovalNextSteps:   "Congratulations! Watch for enrollment instructions from the academy staff.",
		CompletionNextSteps: "Enrollment complete. Welcome to the academy!",
	}
}

// Outcome reports a decision's side effects. StaffFallback marks the case
// where the record had no linked account, so the notification went to the
// staff actor instead of the applicant. The applicant never sees the real
// notification until someone links their account; this fallback is kept
// deliberately so delivery failure is at least visible to staff.
type Outcome struct {
	Record        *Record
	Notified      bool
	StaffFallback bool
}

// Workflow drives application decisions. Every operation is one atomic
// store update followed by a best-effort notification; the update must
// succeed or the operation fails, while a failed notification is only
// logged.
type Workflow struct {
	store     *Store
	notifier  Notifier
	templates Templates
	logger    logger.Logger
	now       func() time.Time
}

func NewWorkflow(store *Store, notifier Notifier, templates Templates, log logger.Logger) *Workflow {
	return &Workflow{
		store:     store,
		notifier:  notifier,
		templates: templates,
		logger:    log,
		now:       time.Now,
	}
}

func (w *Workflow) timestamp() string {
	return w.now().UTC().Format(time.RFC3339)
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

// commit applies the transition fields to the record's row and mirrors
// them onto the in-memory record so the caller sees the post-decision view.
func (w *Workflow) commit(ctx context.Context, storeID StoreID, rec *Record, fields map[Field]string) error {
	if _, err := w.store.UpdateFields(ctx, storeID, rec.Ref, fields); err != nil {
		return err
	}

	for field, value := range fields {
		switch field {
		case FieldStatus:
			rec.Status = value
		case FieldPaymentStatus:
			rec.PaymentStatus = value
		case FieldNextSteps:
			rec.NextSteps = value
		case FieldStaffNotes:
			rec.StaffNotes = value
		case FieldLastUpdated:
			rec.LastUpdated = value
		case FieldLinkedAccountID:
			rec.LinkedAccountID = value
		}
	}
	return nil
}

// attemptNotify sends the applicant message, falling back to the staff
// actor when no account is linked. The returned flags feed logging only;
// the committed transition stands either way.
func (w *Workflow) attemptNotify(ctx context.Context, kind string, rec *Record, actor Actor, message string) (bool, bool) {
	target := rec.LinkedAccountID
	fallback := false
	if target == "" {
		target = actor.ID
		fallback = true
	}

	delivered := w.notifier.Notify(ctx, target, message)

	outcome := "ok"
	if !delivered {
		outcome = "failed"
	}
	metrics.NotificationsSent.WithLabelValues(kind, outcome).Inc()

	if !delivered {
		w.logger.Warn("notification not delivered", map[string]interface{}{
			"kind":     kind,
			"handle":   rec.Handle,
			"target":   target,
			"fallback": fallback,
		})
	}

	return delivered, fallback
}

// Approve moves a record to Approved and notifies the applicant.
func (w *Workflow) Approve(ctx context.Context, storeID StoreID, handle, nextSteps string, actor Actor) (*Outcome, error) {
	rec, err := w.store.FindByHandle(ctx, storeID, handle)
	if err != nil {
		return nil, err
	}

	if nextSteps == "" {
		nextSteps = w.templates.ApprovalNextSteps
	}

	now := w.timestamp()
	fields := map[Field]string{
		FieldStatus:      StudentApproved.String(),
		FieldNextSteps:   nextSteps,
		FieldStaffNotes:  appendNote(rec.StaffNotes, fmt.Sprintf("[%s] approved by %s", now, actor.Name)),
		FieldLastUpdated: now,
	}

	if err := w.commit(ctx, storeID, rec, fields); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your %s application has been **Approved**!\nNext steps: %s", storeID, nextSteps)
	notified, fallback := w.attemptNotify(ctx, "approve", rec, actor, message)

	return &Outcome{Record: rec, Notified: notified, StaffFallback: fallback}, nil
}

// Deny moves a record to Denied, carrying the staff reason verbatim in the
// next-steps text.
func (w *Workflow) Deny(ctx context.Context, storeID StoreID, handle, reason string, actor Actor) (*Outcome, error) {
	rec, err := w.store.FindByHandle(ctx, storeID, handle)
	if err != nil {
		return nil, err
	}

	now := w.timestamp()
	fields := map[Field]string{
		FieldStatus:      StudentDenied.String(),
		FieldNextSteps:   fmt.Sprintf("Application denied. Reason: %s", reason),
		FieldStaffNotes:  appendNote(rec.StaffNotes, fmt.Sprintf("[%s] denied by %s: %s", now, actor.Name, reason)),
		FieldLastUpdated: now,
	}

	if err := w.commit(ctx, storeID, rec, fields); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your %s application has been **Denied**.\nReason: %s", storeID, reason)
	notified, fallback := w.attemptNotify(ctx, "deny", rec, actor, message)

	return &Outcome{Record: rec, Notified: notified, StaffFallback: fallback}, nil
}

// ConfirmPayment marks a student record paid and enrollment-complete.
// There is no guard on the prior status: re-running it, or running it on a
// record never approved, simply overwrites. Student stores only.
func (w *Workflow) ConfirmPayment(ctx context.Context, storeID StoreID, handle, notes string, actor Actor) (*Outcome, error) {
	if storeID != StoreStudent {
		return nil, cerrors.NewUnknownStoreError(string(storeID))
	}

	rec, err := w.store.FindByHandle(ctx, storeID, handle)
	if err != nil {
		return nil, err
	}

	now := w.timestamp()
	note := fmt.Sprintf("[%s] payment confirmed by %s", now, actor.Name)
	if notes != "" {
		note += ": " + notes
	}

	fields := map[Field]string{
		FieldPaymentStatus: "Paid",
		FieldStatus:        StudentEnrollmentComplete.String(),
		FieldNextSteps:     w.templates.CompletionNextSteps,
		FieldStaffNotes:    appendNote(rec.StaffNotes, note),
		FieldLastUpdated:   now,
	}

	if err := w.commit(ctx, storeID, rec, fields); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Payment received! Your enrollment is complete.\n%s", w.templates.CompletionNextSteps)
	notified, fallback := w.attemptNotify(ctx, "payment", rec, actor, message)

	return &Outcome{Record: rec, Notified: notified, StaffFallback: fallback}, nil
}

// LinkAccount binds a platform account to a record, establishing the
// access gate and the notification target. The binding is never cleared by
// this workflow, so an empty account id is rejected.
func (w *Workflow) LinkAccount(ctx context.Context, storeID StoreID, handle, accountID string, actor Actor) (*Record, error) {
	if accountID == "" {
		return nil, cerrors.NewRecordNotFoundError(string(storeID), handle, "account id must not be empty")
	}

	rec, err := w.store.FindByHandle(ctx, storeID, handle)
	if err != nil {
		return nil, err
	}

	now := w.timestamp()
	fields := map[Field]string{
		FieldLinkedAccountID: accountID,
		FieldStaffNotes:      appendNote(rec.StaffNotes, fmt.Sprintf("[%s] account %s linked by %s", now, accountID, actor.Name)),
		FieldLastUpdated:     now,
	}

	if err := w.commit(ctx, storeID, rec, fields); err != nil {
		return nil, err
	}

	return rec, nil
}
