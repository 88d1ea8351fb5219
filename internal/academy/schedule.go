// internal/academy/schedule.go
package academy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"academy-bot/internal/common/database"
	cerrors "academy-bot/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// Days of the academy week, in posting order.
var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// NormalizeDay accepts common day spellings ("Mon", "monday") and returns
// the canonical key.
func NormalizeDay(day string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(day))
	for _, full := range WeekDays {
		if d == full || (len(d) >= 3 && strings.HasPrefix(full, d)) {
			return full, true
		}
	}
	return "", false
}

// ScheduleBlock is one entry on a day's schedule.
type ScheduleBlock struct {
	Label     string    `json:"label"`
	Details   string    `json:"details,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by"`
}

// ScheduleStore keeps the weekly class schedule, an ordered list of blocks
// per day.
type ScheduleStore struct {
	rdb *database.RedisClient
	now func() time.Time
}

func NewScheduleStore(rdb *database.RedisClient) *ScheduleStore {
	return &ScheduleStore{rdb: rdb, now: time.Now}
}

func scheduleKey(day string) string {
	return fmt.Sprintf("academy:schedule:%s", day)
}

func (s *ScheduleStore) load(ctx context.Context, day string) ([]ScheduleBlock, error) {
	raw, err := s.rdb.Get(ctx, scheduleKey(day))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("schedule", err)
	}
	var blocks []ScheduleBlock
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		return nil, cerrors.NewTableUnavailableError("schedule", err)
	}
	return blocks, nil
}

func (s *ScheduleStore) save(ctx context.Context, day string, blocks []ScheduleBlock) error {
	data, err := json.Marshal(blocks)
	if err != nil {
		return cerrors.NewTableUnavailableError("schedule", err)
	}
	if err := s.rdb.Set(ctx, scheduleKey(day), string(data), 0); err != nil {
		return cerrors.NewTableUnavailableError("schedule", err)
	}
	return nil
}

// AddBlock inserts a block on a day. Position is 1-based; zero or anything
// past the end appends.
func (s *ScheduleStore) AddBlock(ctx context.Context, day, label, details string, position int, by string) error {
	canonical, ok := NormalizeDay(day)
	if !ok {
		return fmt.Errorf("unknown day %q", day)
	}
	blocks, err := s.load(ctx, canonical)
	if err != nil {
		return err
	}

	block := ScheduleBlock{
		Label:     label,
		Details:   details,
		UpdatedAt: s.now().UTC(),
		UpdatedBy: by,
	}
	if position < 1 || position > len(blocks) {
		blocks = append(blocks, block)
	} else {
		idx := position - 1
		blocks = append(blocks[:idx], append([]ScheduleBlock{block}, blocks[idx:]...)...)
	}
	return s.save(ctx, canonical, blocks)
}

// ClearDay removes every block on a day.
func (s *ScheduleStore) ClearDay(ctx context.Context, day string) error {
	canonical, ok := NormalizeDay(day)
	if !ok {
		return fmt.Errorf("unknown day %q", day)
	}
	if err := s.rdb.Del(ctx, scheduleKey(canonical)); err != nil {
		return cerrors.NewTableUnavailableError("schedule", err)
	}
	return nil
}

// Day returns a day's blocks in order, empty if none are set.
func (s *ScheduleStore) Day(ctx context.Context, day string) ([]ScheduleBlock, error) {
	canonical, ok := NormalizeDay(day)
	if !ok {
		return nil, fmt.Errorf("unknown day %q", day)
	}
	return s.load(ctx, canonical)
}

// Week returns all seven days in order. Days without blocks map to an
// empty slice.
func (s *ScheduleStore) Week(ctx context.Context) (map[string][]ScheduleBlock, error) {
	out := make(map[string][]ScheduleBlock, len(WeekDays))
	for _, day := range WeekDays {
		blocks, err := s.Day(ctx, day)
		if err != nil {
			return nil, err
		}
		out[day] = blocks
	}
	return out, nil
}
