// internal/academy/nurse.go
package academy

import (
	"context"
	"encoding/json"
	"time"

	"academy-bot/internal/common/database"
	cerrors "academy-bot/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const nurseQueueKey = "academy:nurse:queue"

// NurseVisit is one student waiting for the school nurse.
type NurseVisit struct {
	StudentID string    `json:"studentId"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// NurseQueue is the first-come first-served line for the school nurse.
type NurseQueue struct {
	rdb *database.RedisClient
	now func() time.Time
}

func NewNurseQueue(rdb *database.RedisClient) *NurseQueue {
	return &NurseQueue{rdb: rdb, now: time.Now}
}

// CheckIn appends a student and returns their 1-based position. Checking
// in twice keeps the original spot.
func (q *NurseQueue) CheckIn(ctx context.Context, studentID, reason string) (int, error) {
	waiting, err := q.Waiting(ctx)
	if err != nil {
		return 0, err
	}
	for i, visit := range waiting {
		if visit.StudentID == studentID {
			return i + 1, nil
		}
	}

	visit := NurseVisit{StudentID: studentID, Reason: reason, At: q.now().UTC()}
	data, err := json.Marshal(visit)
	if err != nil {
		return 0, cerrors.NewTableUnavailableError("nurse", err)
	}
	length, err := q.rdb.Client.RPush(ctx, nurseQueueKey, string(data)).Result()
	if err != nil {
		return 0, cerrors.NewTableUnavailableError("nurse", err)
	}
	return int(length), nil
}

// Next pops the student at the front of the line.
func (q *NurseQueue) Next(ctx context.Context) (*NurseVisit, error) {
	data, err := q.rdb.Client.LPop(ctx, nurseQueueKey).Result()
	if err == redis.Nil {
		return nil, cerrors.NewQueueEmptyError()
	}
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("nurse", err)
	}
	var visit NurseVisit
	if err := json.Unmarshal([]byte(data), &visit); err != nil {
		return nil, cerrors.NewTableUnavailableError("nurse", err)
	}
	return &visit, nil
}

// Waiting returns the current queue in order.
func (q *NurseQueue) Waiting(ctx context.Context) ([]NurseVisit, error) {
	items, err := q.rdb.Client.LRange(ctx, nurseQueueKey, 0, -1).Result()
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("nurse", err)
	}
	visits := make([]NurseVisit, 0, len(items))
	for _, item := range items {
		var visit NurseVisit
		if err := json.Unmarshal([]byte(item), &visit); err != nil {
			return nil, cerrors.NewTableUnavailableError("nurse", err)
		}
		visits = append(visits, visit)
	}
	return visits, nil
}
