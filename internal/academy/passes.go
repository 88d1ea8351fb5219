// internal/academy/passes.go
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

const passPendingKey = "academy:passes:pending"

// PassStatus is the decision state of a hall pass request.
type PassStatus string

const (
	PassPending  PassStatus = "pending"
	PassApproved PassStatus = "approved"
	PassDenied   PassStatus = "denied"
)

// Pass is one hall pass request.
type Pass struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	Reason      string     `json:"reason"`
	Details     string     `json:"details,omitempty"`
	Status      PassStatus `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	DecidedAt   time.Time  `json:"decidedAt,omitempty"`
	DecidedBy   string     `json:"decidedBy,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// PassStore tracks hall pass requests and staff decisions.
type PassStore struct {
	rdb *database.RedisClient
	now func() time.Time
}

func NewPassStore(rdb *database.RedisClient) *PassStore {
	return &PassStore{rdb: rdb, now: time.Now}
}

func passKey(id string) string {
	return fmt.Sprintf("academy:pass:%s", id)
}

func (s *PassStore) save(ctx context.Context, p *Pass) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, passKey(p.ID), string(data), 0)
}

// Get loads a pass by id.
func (s *PassStore) Get(ctx context.Context, id string) (*Pass, error) {
	data, err := s.rdb.Get(ctx, passKey(id))
	if err == redis.Nil {
		return nil, cerrors.NewPassNotFoundError(id)
	}
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("passes", err)
	}

	var p Pass
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, cerrors.NewTableUnavailableError("passes", err)
	}
	return &p, nil
}

// Request files a new pending pass and returns it with its assigned id.
func (s *PassStore) Request(ctx context.Context, studentID, reason, details string) (*Pass, error) {
	p := &Pass{
		ID:          shortID(),
		StudentID:   studentID,
		Reason:      reason,
		Details:     details,
		Status:      PassPending,
		RequestedAt: s.now().UTC(),
	}

	if err := s.save(ctx, p); err != nil {
		return nil, cerrors.NewTableUnavailableError("passes", err)
	}
	if err := s.rdb.Client.RPush(ctx, passPendingKey, p.ID).Err(); err != nil {
		return nil, cerrors.NewTableUnavailableError("passes", err)
	}
	return p, nil
}

// Pending lists undecided passes in request order.
func (s *PassStore) Pending(ctx context.Context) ([]*Pass, error) {
	ids, err := s.rdb.Client.LRange(ctx, passPendingKey, 0, -1).Result()
	if err != nil {
		return nil, cerrors.NewTableUnavailableError("passes", err)
	}

	out := make([]*Pass, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if err != nil {
			if cerrors.IsCode(err, cerrors.ErrCodePassNotFound) {
				continue
			}
			return nil, err
		}
		if p.Status == PassPending {
			out = append(out, p)
		}
	}
	return out, nil
}

// Decide resolves a pending pass. A pass can be decided once.
func (s *PassStore) Decide(ctx context.Context, id string, approve bool, staffID, notes string) (*Pass, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != PassPending {
		return nil, cerrors.NewPassDecidedError(id, string(p.Status))
	}

	if approve {
		p.Status = PassApproved
	} else {
		p.Status = PassDenied
	}
	p.DecidedAt = s.now().UTC()
	p.DecidedBy = staffID
	p.Notes = notes

	if err := s.save(ctx, p); err != nil {
		return nil, cerrors.NewTableUnavailableError("passes", err)
	}
	if err := s.rdb.Client.LRem(ctx, passPendingKey, 0, id).Err(); err != nil {
		return nil, cerrors.NewTableUnavailableError("passes", err)
	}
	return p, nil
}
