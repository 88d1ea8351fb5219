// internal/academy/attendance.go
package academy

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"academy-bot/internal/common/database"
	cerrors "academy-bot/internal/common/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	attendanceOpenKey  = "academy:attendance:open"
	attendanceIndexKey = "academy:attendance:sessions"
)

// MarkStatus is how a student was recorded in a session.
type MarkStatus string

const (
	MarkPresent MarkStatus = "present"
	MarkLate    MarkStatus = "late"
	MarkExcused MarkStatus = "excused"
)

// ParseMarkStatus validates a mark status string.
func ParseMarkStatus(s string) (MarkStatus, bool) {
	switch MarkStatus(s) {
	case MarkPresent, MarkLate, MarkExcused:
		return MarkStatus(s), true
	}
	return "", false
}

// Mark is one student's attendance record in a session.
type Mark struct {
	Status MarkStatus `json:"status"`
	At     time.Time  `json:"at"`
}

// Session is one class attendance window.
type Session struct {
	ID        string    `json:"id"`
	Class     string    `json:"class"`
	TeacherID string    `json:"teacherId"`
	OpenedAt  time.Time `json:"openedAt"`
	ClosedAt  time.Time `json:"closedAt,omitempty"`
	Closed    bool      `json:"closed"`
}

// AttendanceStore tracks class attendance sessions and who checked in.
// At most one session is open at a time.
type AttendanceStore struct {
	rdb *database.RedisClient
	now func() time.Time
}

func NewAttendanceStore(rdb *database.RedisClient) *AttendanceStore {
	return &AttendanceStore{rdb: rdb, now: time.Now}
}

func sessionKey(id string) string {
	return fmt.Sprintf("academy:attendance:session:%s", id)
}

func marksKey(id string) string {
	return fmt.Sprintf("academy:attendance:session:%s:marks", id)
}

// shortID derives a compact session/pass identifier.
func shortID() string {
	return uuid.New().String()[:8]
}

func (s *AttendanceStore) saveSession(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), string(data), 0)
}

func (s *AttendanceStore) loadSession(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id))
	if err == redis.Nil {
		return nil, cerrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}
	return &sess, nil
}

// Start opens a new attendance session. An already-open session is closed
// first so a forgotten close never wedges the classroom.
func (s *AttendanceStore) Start(ctx context.Context, class, teacherID string) (*Session, error) {
	if openID, err := s.rdb.Get(ctx, attendanceOpenKey); err == nil && openID != "" {
		if _, err := s.Close(ctx, openID); err != nil && !cerrors.IsCode(err, cerrors.ErrCodeSessionNotFound) {
			return nil, err
		}
	}

	sess := &Session{
		ID:        shortID(),
		Class:     class,
		TeacherID: teacherID,
		OpenedAt:  s.now().UTC(),
	}

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}
	if err := s.rdb.Set(ctx, attendanceOpenKey, sess.ID, 0); err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}
	if err := s.rdb.Client.RPush(ctx, attendanceIndexKey, sess.ID).Err(); err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}

	return sess, nil
}

// Open returns the currently open session, or a SessionNotFound error.
func (s *AttendanceStore) Open(ctx context.Context) (*Session, error) {
	id, err := s.rdb.Get(ctx, attendanceOpenKey)
	if err == redis.Nil || id == "" {
		return nil, cerrors.NewSessionNotFoundError("open")
	}
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}
	return s.loadSession(ctx, id)
}

// MarkStudent records a student in the open session with the given status.
// Re-marking overwrites the previous status.
func (s *AttendanceStore) MarkStudent(ctx context.Context, userID string, status MarkStatus) (*Session, error) {
	sess, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Closed {
		return nil, cerrors.NewSessionClosedError(sess.ID)
	}

	mark := Mark{Status: status, At: s.now().UTC()}
	data, err := json.Marshal(mark)
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}
	if err := s.rdb.Client.HSet(ctx, marksKey(sess.ID), userID, string(data)).Err(); err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}
	return sess, nil
}

// Close ends a session and returns it with its final roster recorded.
func (s *AttendanceStore) Close(ctx context.Context, id string) (*Session, error) {
	sess, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Closed {
		return nil, cerrors.NewSessionClosedError(id)
	}

	sess.Closed = true
	sess.ClosedAt = s.now().UTC()
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}

	if openID, err := s.rdb.Get(ctx, attendanceOpenKey); err == nil && openID == id {
		if err := s.rdb.Del(ctx, attendanceOpenKey); err != nil {
			return nil, cerrors.NewTableUnavailableError("attendance", err)
		}
	}

	return sess, nil
}

// Marks returns every mark in a session keyed by student id.
func (s *AttendanceStore) Marks(ctx context.Context, id string) (map[string]Mark, error) {
	raw, err := s.rdb.Client.HGetAll(ctx, marksKey(id)).Result()
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}
	marks := make(map[string]Mark, len(raw))
	for userID, data := range raw {
		var mark Mark
		if err := json.Unmarshal([]byte(data), &mark); err != nil {
			return nil, cerrors.NewTableUnavailableError("attendance", err)
		}
		marks[userID] = mark
	}
	return marks, nil
}

// Present lists every marked student in a session, sorted for stable
// output.
func (s *AttendanceStore) Present(ctx context.Context, id string) ([]string, error) {
	marks, err := s.Marks(ctx, id)
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(marks))
	for userID := range marks {
		members = append(members, userID)
	}
	sort.Strings(members)
	return members, nil
}

// ExportCSV renders every recorded session as CSV: one line per
// session/student pair, plus a line for empty sessions.
func (s *AttendanceStore) ExportCSV(ctx context.Context) ([]byte, error) {
	ids, err := s.rdb.Client.LRange(ctx, attendanceIndexKey, 0, -1).Result()
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("attendance", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"session_id", "class", "teacher_id", "opened_at", "closed_at", "student_id", "status", "marked_at"})

	for _, id := range ids {
		sess, err := s.loadSession(ctx, id)
		if err != nil {
			if cerrors.IsCode(err, cerrors.ErrCodeSessionNotFound) {
				continue
			}
			return nil, err
		}

		closedAt := ""
		if sess.Closed {
			closedAt = sess.ClosedAt.Format(time.RFC3339)
		}

		marks, err := s.Marks(ctx, id)
		if err != nil {
			return nil, err
		}

		if len(marks) == 0 {
			_ = w.Write([]string{sess.ID, sess.Class, sess.TeacherID, sess.OpenedAt.Format(time.RFC3339), closedAt, "", "", ""})
			continue
		}

		students := make([]string, 0, len(marks))
		for userID := range marks {
			students = append(students, userID)
		}
		sort.Strings(students)
		for _, student := range students {
			mark := marks[student]
			_ = w.Write([]string{sess.ID, sess.Class, sess.TeacherID, sess.OpenedAt.Format(time.RFC3339), closedAt, student, string(mark.Status), mark.At.Format(time.RFC3339)})
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
