package scheduler

import (
	"context"
	"log/slog"
	"testing"
)

type countingPruner struct {
	calls int
}

func (p *countingPruner) PruneCache() int {
	p.calls++
	return 3
}

func TestSchedulerPruneCache(t *testing.T) {
	pruner := &countingPruner{}
	s := New(context.Background(), pruner, slog.New(slog.DiscardHandler))

	s.pruneCache()

	if pruner.calls != 1 {
		t.Fatalf("expected pruner to be called once, got %d", pruner.calls)
	}
}

func TestSchedulerPruneCacheSkipsWhenDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pruner := &countingPruner{}
	s := New(ctx, pruner, slog.New(slog.DiscardHandler))

	s.pruneCache()

	if pruner.calls != 0 {
		t.Fatalf("expected pruner not to be called, got %d", pruner.calls)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	s := New(context.Background(), &countingPruner{}, slog.New(slog.DiscardHandler))

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	if entries := s.cron.Entries(); len(entries) != 1 {
		t.Fatalf("expected one cron entry, got %d", len(entries))
	}

	s.Stop()
}
