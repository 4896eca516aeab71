package cronsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
)

// DigestSender mails the schedule of a day to its assignees.
type DigestSender interface {
	SendDigest(ctx context.Context, day time.Time) (int, error)
}

// Scheduler runs the periodic background jobs of the API process.
type Scheduler struct {
	cron    *cron.Cron
	digest  DigestSender
	logger  core.Logger
	timeout time.Duration
}

func NewScheduler(digest DigestSender, logger core.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(limit.KST)),
		digest:  digest,
		logger:  logger,
		timeout: 5 * time.Minute,
	}
}

// Start registers the daily digest on expr (standard 5 field cron syntax, KST) and starts the scheduler.
func (s *Scheduler) Start(expr string) error {
	if _, err := s.cron.AddFunc(expr, s.RunDigest); err != nil {
		return errors.Wrapf(err, "scheduling digest %q", expr)
	}
	s.cron.Start()
	s.logger.Info(fmt.Sprintf("cron scheduler started: schedule digest at %q KST", expr))
	return nil
}

// Stop stops scheduling and waits for running jobs up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("cron jobs still running at shutdown", ctx.Err())
	}
}

// RunDigest sends today's schedule digest.
func (s *Scheduler) RunDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	day := core.NowFunc().In(limit.KST)
	n, err := s.digest.SendDigest(ctx, day)
	if err != nil {
		s.logger.Error("sending schedule digest", err)
		return
	}
	s.logger.Info(fmt.Sprintf("schedule digest sent to %d assignees for %s", n, day.Format("2006-01-02")))
}
