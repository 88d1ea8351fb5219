// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"academy-bot/internal/common/database"
	"academy-bot/internal/common/logger"
	"academy-bot/internal/common/metrics"
)

// Job is one piece of autonomous daily work, like posting the bulletin.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Schedule decides when a job is due. The dedup key identifies the period
// the run covers, so a job fires at most once per period across restarts.
type Schedule interface {
	Due(t time.Time) (bool, string)
}

// DailySchedule fires once per day at or after the given hour, in the
// academy's timezone. Missing the exact hour (downtime, slow tick) still
// runs the job later the same day.
type DailySchedule struct {
	Hour     int
	Location *time.Location
}

func (s DailySchedule) Due(t time.Time) (bool, string) {
	local := t.In(s.Location)
	if local.Hour() < s.Hour {
		return false, ""
	}
	return true, local.Format("2006-01-02")
}

type entry struct {
	job      Job
	schedule Schedule
}

// Scheduler polls registered jobs on a fixed tick and runs whichever are
// due and not yet done for their period. Dedup marks live in Redis.
type Scheduler struct {
	rdb     *database.RedisClient
	logger  logger.Logger
	tick    time.Duration
	entries []entry
	now     func() time.Time
}

func New(rdb *database.RedisClient, log logger.Logger, tick time.Duration) *Scheduler {
	return &Scheduler{
		rdb:    rdb,
		logger: log,
		tick:   tick,
		now:    time.Now,
	}
}

// Add registers a job with its schedule.
func (s *Scheduler) Add(job Job, schedule Schedule) {
	s.entries = append(s.entries, entry{job: job, schedule: schedule})
}

func dedupKey(jobName, periodKey string) string {
	return fmt.Sprintf("academy:scheduler:done:%s:%s", jobName, periodKey)
}

// Tick checks every job once. A job that claims its dedup mark but then
// fails keeps the mark; a half-posted bulletin is worse than a missed one.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.now()

	for _, e := range s.entries {
		due, periodKey := e.schedule.Due(now)
		if !due {
			continue
		}

		claimed, err := s.rdb.Client.SetNX(ctx, dedupKey(e.job.Name(), periodKey), "1", 48*time.Hour).Result()
		if err != nil {
			s.logger.Error("scheduler dedup check failed", map[string]interface{}{
				"job":   e.job.Name(),
				"error": err.Error(),
			})
			continue
		}
		if !claimed {
			continue
		}

		if err := e.job.Run(ctx); err != nil {
			metrics.ScheduledPosts.WithLabelValues(e.job.Name(), "error").Inc()
			s.logger.Error("scheduled job failed", map[string]interface{}{
				"job":   e.job.Name(),
				"error": err.Error(),
			})
			continue
		}

		metrics.ScheduledPosts.WithLabelValues(e.job.Name(), "ok").Inc()
		s.logger.Info("scheduled job completed", map[string]interface{}{
			"job":    e.job.Name(),
			"period": periodKey,
		})
	}
}

// Run polls until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.logger.Info("scheduler started", map[string]interface{}{
		"tick": s.tick.String(),
		"jobs": len(s.entries),
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", nil)
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}
