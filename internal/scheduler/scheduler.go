package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	PruneCacheSpec        = "0 * * * *"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
)

// CachePruner drops expired cache entries and reports how many were removed.
type CachePruner interface {
	PruneCache() int
}

type Scheduler struct {
	ctx    context.Context
	cron   *cron.Cron
	pruner CachePruner
	log    *slog.Logger
}

func New(ctx context.Context, pruner CachePruner, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:    ctx,
		cron:   c,
		pruner: pruner,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(PruneCacheSpec, s.pruneCache); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) pruneCache() {
	select {
	case <-s.ctx.Done():
		s.log.InfoContext(s.ctx, "Scheduler context is done",
			"error", s.ctx.Err())
		return
	default:
	}

	removed := s.pruner.PruneCache()

	s.log.InfoContext(s.ctx, "Summary cache is pruned",
		"removed", removed,
		"spec", PruneCacheSpec)
}
