package errors

import (
	"errors"
	"fmt"
	"time"
)

// ReplyHandler converts any error raised in a command handler into the
// user-facing reply text, logging full detail for staff. The interactive
// caller is never left hanging: unclassified errors become a generic message.
type ReplyHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewReplyHandler(logger Logger) *ReplyHandler {
	return &ReplyHandler{logger: logger}
}

// UserMessage returns the reply text for err. AccessBlocked deliberately does
// not reveal whether the record exists.
func (h *ReplyHandler) UserMessage(command string, err error) string {
	stdErr := h.normalizeError(err)
	h.logError(command, stdErr)

	switch stdErr.Code {
	case ErrCodeRecordNotFound:
		if handle, ok := stdErr.Metadata["handle"].(string); ok && handle != "" {
			return fmt.Sprintf("Could not find an application for **%s**. Double-check the spelling, or open a ticket if you believe this is wrong.", handle)
		}
		return "Could not find that application."
	case ErrCodeSheetEmpty:
		return "No applications have been recorded yet."
	case ErrCodeAccessBlocked:
		return "That application is linked to a different account. If you think this is a mistake, use `/app ticket` to open a ticket with staff."
	case ErrCodeStoreUnavailable, ErrCodeStoreWriteFailed:
		return "The records system is unavailable right now. Please try again in a few minutes."
	case ErrCodeStoreDisabled:
		return "Application records are not set up on this server yet. Please ask staff."
	case ErrCodeUnknownStore:
		return "Unknown applicant type. Use `student` or `teacher`."
	case ErrCodeSessionNotFound:
		return "Session not found."
	case ErrCodeSessionClosed:
		return "This attendance session is already closed."
	case ErrCodePassNotFound:
		return "Pass not found."
	case ErrCodePassDecided:
		return "This pass has already been decided."
	case ErrCodeQueueEmpty:
		return "Queue is empty."
	case ErrCodeTicketCreateFailed:
		return "Could not open a ticket right now. Please try again or contact staff directly."
	case ErrCodeChannelUnavailable:
		return "The target channel is not available. Check the bot configuration."
	case ErrCodePermissionDenied:
		return "You don't have permission to use this command."
	case ErrCodeTableUnavailable:
		return "The academy records are unavailable right now. Please try again shortly."
	default:
		return "Something went wrong while processing that. Staff have been notified via the logs."
	}
}

// normalizeError ensures we always have a StandardError.
func (h *ReplyHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ReplyHandler) logError(command string, stdErr *StandardError) {
	fields := map[string]interface{}{
		"command":       command,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	// Expected outcomes (not found, permission checks) are noise at error
	// level; keep them at warn.
	switch stdErr.Code {
	case ErrCodeRecordNotFound, ErrCodeSheetEmpty, ErrCodeAccessBlocked,
		ErrCodeSessionNotFound, ErrCodeSessionClosed, ErrCodePassNotFound,
		ErrCodePassDecided, ErrCodeQueueEmpty, ErrCodePermissionDenied,
		ErrCodeUnknownStore:
		h.logger.Warn("command rejected", fields)
	default:
		h.logger.Error("command failed", fields)
	}
}
