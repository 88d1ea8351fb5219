// internal/academy/points.go
package academy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"academy-bot/internal/common/database"
	cerrors "academy-bot/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const (
	pointsKey = "academy:points"

	// MaxPointsDelta caps a single award or deduction.
	MaxPointsDelta = 500

	pointsHistoryLimit = 50
)

// LeaderboardEntry is one row of the house-points standings.
type LeaderboardEntry struct {
	UserID string
	Points int
}

// PointEvent is one award or deduction in a student's history.
type PointEvent struct {
	At     time.Time `json:"at"`
	Delta  int       `json:"delta"`
	Reason string    `json:"reason,omitempty"`
	By     string    `json:"by"`
}

// PointsStore tracks house points per student, backed by a sorted set so
// the leaderboard read is a single range query. Each student also keeps a
// capped history of recent events.
type PointsStore struct {
	rdb *database.RedisClient
	now func() time.Time
}

func NewPointsStore(rdb *database.RedisClient) *PointsStore {
	return &PointsStore{rdb: rdb, now: time.Now}
}

func pointsHistoryKey(userID string) string {
	return fmt.Sprintf("academy:points:history:%s", userID)
}

// Add adjusts a student's points by delta (negative to deduct), records the
// event, and returns the new total. Delta must be within
// [-MaxPointsDelta, MaxPointsDelta] and nonzero.
func (s *PointsStore) Add(ctx context.Context, userID string, delta int, reason, by string) (int, error) {
	if delta == 0 || delta < -MaxPointsDelta || delta > MaxPointsDelta {
		return 0, fmt.Errorf("points delta %d out of range", delta)
	}

	total, err := s.rdb.Client.ZIncrBy(ctx, pointsKey, float64(delta), userID).Result()
	if err != nil {
		return 0, cerrors.NewTableUnavailableError("points", err)
	}

	event := PointEvent{At: s.now().UTC(), Delta: delta, Reason: reason, By: by}
	data, err := json.Marshal(event)
	if err != nil {
		return 0, cerrors.NewTableUnavailableError("points", err)
	}
	histKey := pointsHistoryKey(userID)
	if err := s.rdb.Client.LPush(ctx, histKey, string(data)).Err(); err != nil {
		return 0, cerrors.NewTableUnavailableError("points", err)
	}
	if err := s.rdb.Client.LTrim(ctx, histKey, 0, pointsHistoryLimit-1).Err(); err != nil {
		return 0, cerrors.NewTableUnavailableError("points", err)
	}
	return int(total), nil
}

// Total returns a student's current points, zero if they have none.
func (s *PointsStore) Total(ctx context.Context, userID string) (int, error) {
	total, err := s.rdb.Client.ZScore(ctx, pointsKey, userID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, cerrors.NewTableUnavailableError("points", err)
	}
	return int(total), nil
}

// History returns a student's most recent point events, newest first.
func (s *PointsStore) History(ctx context.Context, userID string, n int) ([]PointEvent, error) {
	raw, err := s.rdb.Client.LRange(ctx, pointsHistoryKey(userID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("points", err)
	}
	events := make([]PointEvent, 0, len(raw))
	for _, item := range raw {
		var event PointEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, cerrors.NewTableUnavailableError("points", err)
		}
		events = append(events, event)
	}
	return events, nil
}

// Leaderboard returns the top n students by points, highest first.
func (s *PointsStore) Leaderboard(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	results, err := s.rdb.Client.ZRevRangeWithScores(ctx, pointsKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("points", err)
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for _, z := range results {
		entries = append(entries, LeaderboardEntry{
			UserID: z.Member.(string),
			Points: int(z.Score),
		})
	}
	return entries, nil
}
