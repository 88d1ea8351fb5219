// Package errors provides standardized error handling for the academy bot.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Record lookup / access errors
	ErrCodeRecordNotFound  ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeAccessBlocked   ErrorCode = "ACCESS_BLOCKED"
	ErrCodeSheetEmpty      ErrorCode = "SHEET_EMPTY"
	ErrCodeUnknownStore    ErrorCode = "UNKNOWN_STORE"
	ErrCodeStoreDisabled   ErrorCode = "STORE_DISABLED"

	// External record store errors
	ErrCodeStoreUnavailable ErrorCode = "EXTERNAL_STORE_UNAVAILABLE"
	ErrCodeStoreWriteFailed ErrorCode = "EXTERNAL_STORE_WRITE_FAILED"

	// Delivery / channel errors
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeTicketCreateFailed     ErrorCode = "TICKET_CREATE_FAILED"
	ErrCodeChannelUnavailable     ErrorCode = "CHANNEL_UNAVAILABLE"

	// Local academy-table errors
	ErrCodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionClosed    ErrorCode = "SESSION_CLOSED"
	ErrCodePassNotFound     ErrorCode = "PASS_NOT_FOUND"
	ErrCodePassDecided      ErrorCode = "PASS_ALREADY_DECIDED"
	ErrCodeQueueEmpty       ErrorCode = "QUEUE_EMPTY"
	ErrCodeTableUnavailable ErrorCode = "TABLE_UNAVAILABLE"

	// Permission errors
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the error code from any error, returning "" for plain errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// Constructors

// NewRecordNotFoundError creates a non-retryable lookup error. The handle is
// kept in metadata so handlers can render "could not find X" messages.
func NewRecordNotFoundError(storeID, handle, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Record not found",
		Details:   reason,
		Retryable: false,
		Metadata:  map[string]interface{}{"storeId": storeID, "handle": handle},
		Timestamp: time.Now().UTC(),
	}
}

// NewSheetEmptyError marks a store that has a header row but no data rows.
func NewSheetEmptyError(storeID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSheetEmpty,
		Message:   "Sheet is empty",
		Retryable: false,
		Metadata:  map[string]interface{}{"storeId": storeID},
		Timestamp: time.Now().UTC(),
	}
}

// NewAccessBlockedError signals that the record is bound to a different
// account. Distinct from not-found so callers can offer a ticket instead of
// claiming the record does not exist.
func NewAccessBlockedError(storeID, handle string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAccessBlocked,
		Message:   "Record is linked to a different account",
		Retryable: false,
		Metadata:  map[string]interface{}{"storeId": storeID, "handle": handle},
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError creates a retryable transport/auth error for the
// external record store.
func NewStoreUnavailableError(storeID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "External record store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"storeId": storeID},
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreWriteFailedError creates a retryable write error for the external
// record store.
func NewStoreWriteFailedError(storeID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreWriteFailed,
		Message:   "External record store write failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"storeId": storeID},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownStoreError creates a non-retryable error for an unrecognized
// applicant type.
func NewUnknownStoreError(storeID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownStore,
		Message:   "Unknown applicant type",
		Details:   fmt.Sprintf("storeId: %s", storeID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreDisabledError is returned when a store has no spreadsheet
// configured. Startup degrades gracefully rather than failing, so lookups
// against the missing store surface this instead.
func NewStoreDisabledError(storeID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreDisabled,
		Message:   "Record store not configured",
		Details:   fmt.Sprintf("storeId: %s", storeID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a notification delivery error.
// Callers treat delivery as best effort; this error is logged, never surfaced.
func NewNotificationSendFailedError(accountID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"accountId": accountID},
		Timestamp: time.Now().UTC(),
	}
}

// NewTicketCreateFailedError creates a retryable channel creation error.
func NewTicketCreateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTicketCreateFailed,
		Message:   "Ticket channel creation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable attendance lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Attendance session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionClosedError marks an attendance session already closed.
func NewSessionClosedError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionClosed,
		Message:   "Attendance session is closed",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPassNotFoundError creates a non-retryable pass lookup error.
func NewPassNotFoundError(passID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePassNotFound,
		Message:   "Pass not found",
		Details:   fmt.Sprintf("passId: %s", passID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPassDecidedError marks a pass that already left the pending state.
func NewPassDecidedError(passID, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodePassDecided,
		Message:   "Pass already decided",
		Details:   fmt.Sprintf("passId: %s, status: %s", passID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueEmptyError marks an empty nurse queue.
func NewQueueEmptyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueEmpty,
		Message:   "Queue is empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTableUnavailableError creates a retryable error for the local KV tables.
func NewTableUnavailableError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTableUnavailable,
		Message:   fmt.Sprintf("Table '%s' unavailable", table),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPermissionDeniedError creates a non-retryable permission error.
func NewPermissionDeniedError(required string) *StandardError {
	return &StandardError{
		Code:      ErrCodePermissionDenied,
		Message:   "Permission denied",
		Details:   fmt.Sprintf("requires: %s", required),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "SHEET"):
		return "RECORD_STORE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "TICKET") || strings.Contains(codeStr, "CHANNEL"):
		return "DELIVERY"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "PASS") || strings.Contains(codeStr, "QUEUE") || strings.Contains(codeStr, "TABLE"):
		return "ACADEMY"
	case strings.Contains(codeStr, "ACCESS") || strings.Contains(codeStr, "PERMISSION"):
		return "ACCESS"
	default:
		return "OTHER"
	}
}
