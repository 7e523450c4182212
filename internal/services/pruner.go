package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"creditrisk/predictor/internal/repositories"
)

// HistoryPruner periodically removes stored predictions older than the
// retention window.
type HistoryPruner interface {
	Start(ctx context.Context)
	Stop()
	PruneNow(ctx context.Context) (int64, error)
}

type historyPruner struct {
	repo      repositories.PredictionRepository
	retention time.Duration
	interval  time.Duration
	log       *zap.Logger
	now       func() time.Time
	wg        sync.WaitGroup
	stopChan  chan struct{}
	stopOnce  sync.Once
}

func NewHistoryPruner(
	repo repositories.PredictionRepository,
	retention time.Duration,
	interval time.Duration,
	log *zap.Logger,
) (HistoryPruner, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("history retention must be positive, got %s", retention)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("history prune interval must be positive, got %s", interval)
	}

	return &historyPruner{
		repo:      repo,
		retention: retention,
		interval:  interval,
		log:       log,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}, nil
}

// Start implements HistoryPruner.
func (p *historyPruner) Start(ctx context.Context) {
	p.log.Info("starting history pruner",
		zap.Duration("retention", p.retention),
		zap.Duration("interval", p.interval))

	p.wg.Add(1)
	go p.run(ctx)
}

// Stop implements HistoryPruner.
func (p *historyPruner) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
	p.wg.Wait()
	p.log.Info("history pruner stopped")
}

// PruneNow implements HistoryPruner.
func (p *historyPruner) PruneNow(ctx context.Context) (int64, error) {
	cutoff := p.now().UTC().Add(-p.retention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		p.log.Info("pruned prediction history", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

func (p *historyPruner) run(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.PruneNow(ctx); err != nil {
				p.log.Warn("failed to prune prediction history", zap.Error(err))
			}
		}
	}
}
