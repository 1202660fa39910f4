package maintenance

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/common"
	"github.com/ternarybob/lectern/internal/interfaces"
)

// Service runs periodic storage maintenance on a cron schedule. Currently
// that is a Badger value-log garbage collection pass; chunk embeddings make
// the value log grow quickly on re-ingestion.
type Service struct {
	storage  interfaces.StorageManager
	schedule string
	cron     *cron.Cron
	logger   arbor.ILogger
}

// NewService creates a new maintenance service
func NewService(storage interfaces.StorageManager, config *common.MaintenanceConfig, logger arbor.ILogger) *Service {
	return &Service{
		storage:  storage,
		schedule: config.Schedule,
		logger:   logger,
	}
}

// Start registers the maintenance job and starts the scheduler
func (s *Service) Start() error {
	s.cron = cron.New(cron.WithSeconds())

	_, err := s.cron.AddFunc(s.schedule, s.runGC)
	if err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("Maintenance scheduler started")
	return nil
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.logger.Debug().Msg("Maintenance scheduler stopped")
	}
}

func (s *Service) runGC() {
	s.logger.Debug().Msg("Running storage garbage collection")
	if err := s.storage.RunGC(); err != nil {
		s.logger.Warn().Err(err).Msg("Storage garbage collection failed")
		return
	}
	s.logger.Debug().Msg("Storage garbage collection complete")
}
