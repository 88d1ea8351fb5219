package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Error(string, map[string]interface{}) {}
func (nopLogger) Warn(string, map[string]interface{})  {}

func TestUserMessage(t *testing.T) {
	h := NewReplyHandler(nopLogger{})

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "record not found names the handle",
			err:      NewRecordNotFoundError("student", "ByteWolf", "no row matched"),
			contains: "ByteWolf",
		},
		{
			name:     "access blocked points at the ticket command",
			err:      NewAccessBlockedError("student", "ByteWolf"),
			contains: "/app ticket",
		},
		{
			name:     "unknown store lists valid types",
			err:      NewUnknownStoreError("parent"),
			contains: "student",
		},
		{
			name:     "plain errors get the generic reply",
			err:      errors.New("boom"),
			contains: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, h.UserMessage("app.status", tt.err), tt.contains)
		})
	}
}
