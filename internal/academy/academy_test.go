package academy

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-bot/internal/common/database"
	cerrors "academy-bot/internal/common/errors"
)

func newTestRedis(t *testing.T) *database.RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	return &database.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
}

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"monday", "monday", true},
		{"Mon", "monday", true},
		{"THURS", "thursday", true},
		{"sat", "saturday", true},
		{"someday", "", false},
		{"m", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeDay(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}
}

func TestScheduleStore(t *testing.T) {
	store := NewScheduleStore(newTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.AddBlock(ctx, "Mon", "Potions", "Room 3, 10am", 0, "teacher-1"))
	require.NoError(t, store.AddBlock(ctx, "Mon", "Charms", "Room 5, 1pm", 0, "teacher-1"))
	require.NoError(t, store.AddBlock(ctx, "friday", "Field trip", "", 0, "admin-1"))

	blocks, err := store.Day(ctx, "monday")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Potions", blocks[0].Label)
	assert.Equal(t, "Charms", blocks[1].Label)
	assert.Equal(t, "teacher-1", blocks[0].UpdatedBy)

	// Position 1 inserts at the front.
	require.NoError(t, store.AddBlock(ctx, "monday", "Assembly", "", 1, "admin-1"))
	blocks, err = store.Day(ctx, "monday")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "Assembly", blocks[0].Label)
	assert.Equal(t, "Potions", blocks[1].Label)

	week, err := store.Week(ctx)
	require.NoError(t, err)
	require.Len(t, week["friday"], 1)
	assert.Equal(t, "Field trip", week["friday"][0].Label)
	assert.Empty(t, week["tuesday"])

	require.NoError(t, store.ClearDay(ctx, "monday"))
	blocks, err = store.Day(ctx, "monday")
	require.NoError(t, err)
	assert.Empty(t, blocks)

	assert.Error(t, store.AddBlock(ctx, "someday", "x", "", 0, "admin-1"))
}

func TestPromptRotation(t *testing.T) {
	store := NewPromptStore(newTestRedis(t))
	ctx := context.Background()

	// Empty rotation yields no prompt, no error.
	prompt, err := store.Next(ctx)
	require.NoError(t, err)
	assert.Empty(t, prompt)

	last, err := store.LastPostedAt(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	require.NoError(t, store.Add(ctx, "first"))
	require.NoError(t, store.Add(ctx, "second"))

	got := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		p, err := store.Next(ctx)
		require.NoError(t, err)
		got = append(got, p)
	}
	assert.Equal(t, []string{"first", "second", "first", "second"}, got)

	last, err = store.LastPostedAt(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero())

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPromptSeed(t *testing.T) {
	store := NewPromptStore(newTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx))
	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultPrompts))

	// Seeding again does not duplicate.
	require.NoError(t, store.Seed(ctx))
	all, err = store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultPrompts))
}

func TestPointsLeaderboard(t *testing.T) {
	store := NewPointsStore(newTestRedis(t))
	ctx := context.Background()

	total, err := store.Add(ctx, "alice", 10, "quiz win", "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	_, err = store.Add(ctx, "bob", 25, "", "teacher-1")
	require.NoError(t, err)
	total, err = store.Add(ctx, "alice", -3, "late", "teacher-2")
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	board, err := store.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, LeaderboardEntry{UserID: "bob", Points: 25}, board[0])
	assert.Equal(t, LeaderboardEntry{UserID: "alice", Points: 7}, board[1])

	zero, err := store.Total(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, zero)
}

func TestPointsDeltaBounds(t *testing.T) {
	store := NewPointsStore(newTestRedis(t))
	ctx := context.Background()

	_, err := store.Add(ctx, "alice", 0, "", "teacher-1")
	assert.Error(t, err)
	_, err = store.Add(ctx, "alice", MaxPointsDelta+1, "", "teacher-1")
	assert.Error(t, err)
	_, err = store.Add(ctx, "alice", -MaxPointsDelta-1, "", "teacher-1")
	assert.Error(t, err)
	_, err = store.Add(ctx, "alice", MaxPointsDelta, "", "teacher-1")
	assert.NoError(t, err)
}

func TestPointsHistory(t *testing.T) {
	store := NewPointsStore(newTestRedis(t))
	ctx := context.Background()

	_, err := store.Add(ctx, "alice", 10, "quiz win", "teacher-1")
	require.NoError(t, err)
	_, err = store.Add(ctx, "alice", -2, "tardy", "teacher-2")
	require.NoError(t, err)

	events, err := store.History(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Newest first.
	assert.Equal(t, -2, events[0].Delta)
	assert.Equal(t, "tardy", events[0].Reason)
	assert.Equal(t, "teacher-2", events[0].By)
	assert.Equal(t, 10, events[1].Delta)
}

func TestParseMarkStatus(t *testing.T) {
	for _, valid := range []string{"present", "late", "excused"} {
		_, ok := ParseMarkStatus(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParseMarkStatus("absent")
	assert.False(t, ok)
}

func TestAttendanceLifecycle(t *testing.T) {
	store := NewAttendanceStore(newTestRedis(t))
	ctx := context.Background()

	// No session open yet.
	_, err := store.Open(ctx)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSessionNotFound))

	sess, err := store.Start(ctx, "Potions", "teacher-1")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	_, err = store.MarkStudent(ctx, "student-a", MarkPresent)
	require.NoError(t, err)
	_, err = store.MarkStudent(ctx, "student-b", MarkLate)
	require.NoError(t, err)
	// Re-marking overwrites the status.
	_, err = store.MarkStudent(ctx, "student-a", MarkExcused)
	require.NoError(t, err)

	present, err := store.Present(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"student-a", "student-b"}, present)

	marks, err := store.Marks(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, MarkExcused, marks["student-a"].Status)
	assert.Equal(t, MarkLate, marks["student-b"].Status)

	closed, err := store.Close(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, closed.Closed)

	// Closing twice is rejected.
	_, err = store.Close(ctx, sess.ID)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSessionClosed))

	// No open session after close.
	_, err = store.MarkStudent(ctx, "student-c", MarkPresent)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSessionNotFound))
}

func TestAttendanceStartClosesPrevious(t *testing.T) {
	store := NewAttendanceStore(newTestRedis(t))
	ctx := context.Background()

	first, err := store.Start(ctx, "Potions", "teacher-1")
	require.NoError(t, err)
	second, err := store.Start(ctx, "Charms", "teacher-2")
	require.NoError(t, err)

	open, err := store.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, open.ID)

	prev, err := store.Close(ctx, first.ID)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSessionClosed), "first session should already be closed, got %v %v", prev, err)
}

func TestAttendanceExportCSV(t *testing.T) {
	store := NewAttendanceStore(newTestRedis(t))
	ctx := context.Background()

	sess, err := store.Start(ctx, "Potions", "teacher-1")
	require.NoError(t, err)
	_, err = store.MarkStudent(ctx, "student-a", MarkLate)
	require.NoError(t, err)
	_, err = store.Close(ctx, sess.ID)
	require.NoError(t, err)

	out, err := store.ExportCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "session_id,class,teacher_id,opened_at,closed_at,student_id,status,marked_at", lines[0])
	assert.Contains(t, lines[1], sess.ID)
	assert.Contains(t, lines[1], "student-a")
	assert.Contains(t, lines[1], "late")
}

func TestPassLifecycle(t *testing.T) {
	store := NewPassStore(newTestRedis(t))
	ctx := context.Background()

	p, err := store.Request(ctx, "student-a", "library visit", "needs the restricted section")
	require.NoError(t, err)
	assert.Equal(t, PassPending, p.Status)
	assert.Equal(t, "needs the restricted section", p.Details)

	pending, err := store.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID, pending[0].ID)

	decided, err := store.Decide(ctx, p.ID, true, "staff-1", "back by 3pm")
	require.NoError(t, err)
	assert.Equal(t, PassApproved, decided.Status)
	assert.Equal(t, "staff-1", decided.DecidedBy)
	assert.Equal(t, "back by 3pm", decided.Notes)

	// A pass is decided once.
	_, err = store.Decide(ctx, p.ID, false, "staff-2", "")
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodePassDecided))

	pending, err = store.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = store.Get(ctx, "missing")
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodePassNotFound))
}

func TestNurseQueue(t *testing.T) {
	queue := NewNurseQueue(newTestRedis(t))
	ctx := context.Background()

	_, err := queue.Next(ctx)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeQueueEmpty))

	pos, err := queue.CheckIn(ctx, "student-a", "headache")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = queue.CheckIn(ctx, "student-b", "")
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	// Double check-in keeps the original spot.
	pos, err = queue.CheckIn(ctx, "student-a", "still a headache")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	waiting, err := queue.Waiting(ctx)
	require.NoError(t, err)
	require.Len(t, waiting, 2)
	assert.Equal(t, "student-a", waiting[0].StudentID)
	assert.Equal(t, "headache", waiting[0].Reason)
	assert.Equal(t, "student-b", waiting[1].StudentID)

	next, err := queue.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "student-a", next.StudentID)
}
