// internal/academy/prompts.go
package academy

import (
	"context"
	"time"

	"academy-bot/internal/common/database"
	cerrors "academy-bot/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const (
	promptListKey   = "academy:prompts"
	promptCursorKey = "academy:prompts:cursor"
	promptLastKey   = "academy:prompts:last_posted_at"
)

// DefaultPrompts seeds an empty rotation so the daily post works on a
// fresh install.
var DefaultPrompts = []string{
	"Your character finds a note slipped under their dorm door. What does it say?",
	"A new transfer student arrives mid-semester. How does your character react?",
	"The academy library is rumored to have a hidden section. Your character goes looking.",
	"Describe your character's worst class and why they keep showing up anyway.",
	"A storm knocks out the academy's power during evening study hall.",
}

// PromptStore keeps the rotating list of daily role-play prompts.
type PromptStore struct {
	rdb *database.RedisClient
	now func() time.Time
}

func NewPromptStore(rdb *database.RedisClient) *PromptStore {
	return &PromptStore{rdb: rdb, now: time.Now}
}

// Seed installs the default prompts if the rotation is empty.
func (s *PromptStore) Seed(ctx context.Context) error {
	count, err := s.rdb.Client.LLen(ctx, promptListKey).Result()
	if err != nil {
		return cerrors.NewTableUnavailableError("prompts", err)
	}
	if count > 0 {
		return nil
	}
	for _, text := range DefaultPrompts {
		if err := s.Add(ctx, text); err != nil {
			return err
		}
	}
	return nil
}

// Add appends a prompt to the rotation.
func (s *PromptStore) Add(ctx context.Context, text string) error {
	if err := s.rdb.Client.RPush(ctx, promptListKey, text).Err(); err != nil {
		return cerrors.NewTableUnavailableError("prompts", err)
	}
	return nil
}

// All returns the full rotation in insertion order.
func (s *PromptStore) All(ctx context.Context) ([]string, error) {
	prompts, err := s.rdb.Client.LRange(ctx, promptListKey, 0, -1).Result()
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("prompts", err)
	}
	return prompts, nil
}

// Next advances the rotation, records the post time, and returns the next
// prompt. An empty rotation returns "", nil so callers can skip the daily
// post.
func (s *PromptStore) Next(ctx context.Context) (string, error) {
	count, err := s.rdb.Client.LLen(ctx, promptListKey).Result()
	if err != nil {
		return "", cerrors.NewTableUnavailableError("prompts", err)
	}
	if count == 0 {
		return "", nil
	}

	cursor, err := s.rdb.Client.Incr(ctx, promptCursorKey).Result()
	if err != nil {
		return "", cerrors.NewTableUnavailableError("prompts", err)
	}

	idx := (cursor - 1) % count
	prompt, err := s.rdb.Client.LIndex(ctx, promptListKey, idx).Result()
	if err != nil {
		return "", cerrors.NewTableUnavailableError("prompts", err)
	}
	if err := s.rdb.Set(ctx, promptLastKey, s.now().UTC().Format(time.RFC3339), 0); err != nil {
		return "", cerrors.NewTableUnavailableError("prompts", err)
	}
	return prompt, nil
}

// LastPostedAt returns when a prompt was last posted, zero time if never.
func (s *PromptStore) LastPostedAt(ctx context.Context) (time.Time, error) {
	raw, err := s.rdb.Get(ctx, promptLastKey)
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, cerrors.NewTableUnavailableError("prompts", err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, cerrors.NewTableUnavailableError("prompts", err)
	}
	return t, nil
}
