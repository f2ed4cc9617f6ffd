package scheduler

import (
	"context"
	"fmt"

	"inmo-sync/internal/config"
	"inmo-sync/internal/features/propsync"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Scheduler runs the batch syncs on the cron expressions from config.
// An empty expression leaves that sync unscheduled.
type Scheduler struct {
	cron   *cron.Cron
	sync   propsync.SyncService
	config *config.Config
	logger *zap.Logger
}

func NewScheduler(lc fx.Lifecycle, cfg *config.Config, syncService propsync.SyncService, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		sync:   syncService,
		config: cfg,
		logger: logger,
	}

	if err := s.register(); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.cron.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := s.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})

	return s, nil
}

func (s *Scheduler) register() error {
	if spec := s.config.PropertiesSyncCron; spec != "" {
		if _, err := s.cron.AddFunc(spec, func() {
			s.run("properties", s.sync.RunProperties)
		}); err != nil {
			return fmt.Errorf("invalid properties sync cron %q: %w", spec, err)
		}
		s.logger.Info("properties sync scheduled", zap.String("cron", spec))
	}

	if spec := s.config.PhonesSyncCron; spec != "" {
		if _, err := s.cron.AddFunc(spec, func() {
			s.run("phones", s.sync.RunPhones)
		}); err != nil {
			return fmt.Errorf("invalid phones sync cron %q: %w", spec, err)
		}
		s.logger.Info("phones sync scheduled", zap.String("cron", spec))
	}

	return nil
}

func (s *Scheduler) run(name string, job func(context.Context) (propsync.Totals, error)) {
	s.logger.Info("scheduled sync starting", zap.String("job", name))

	totals, err := job(context.Background())
	if err != nil {
		s.logger.Error("scheduled sync failed",
			zap.String("job", name),
			zap.Error(err),
			zap.Int("processed", totals.Processed))
		return
	}

	s.logger.Info("scheduled sync finished",
		zap.String("job", name),
		zap.Int("processed", totals.Processed),
		zap.Int("succeeded", totals.Succeeded),
		zap.Int("failed", totals.Failed))
}
