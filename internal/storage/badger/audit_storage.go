package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/common"
	"github.com/ternarybob/lectern/internal/interfaces"
	"github.com/ternarybob/lectern/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// AuditStorage implements the AuditStorage interface for Badger
type AuditStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAuditStorage creates a new AuditStorage instance
func NewAuditStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AuditStorage {
	return &AuditStorage{
		db:     db,
		logger: logger,
	}
}

func (s *AuditStorage) RecordRejection(query, reason string) error {
	record := &models.RejectionRecord{
		ID:        common.NewRejectionID(),
		Query:     query,
		Reason:    reason,
		CreatedAt: time.Now(),
	}

	if err := s.db.Store().Insert(record.ID, record); err != nil {
		return fmt.Errorf("failed to record rejection: %w", err)
	}

	s.logger.Debug().Str("id", record.ID).Str("reason", reason).Msg("Recorded rejected query")
	return nil
}

// ListRejections returns rejection records newest-first
func (s *AuditStorage) ListRejections(limit int) ([]*models.RejectionRecord, error) {
	var records []models.RejectionRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("ID").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to list rejections: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result := make([]*models.RejectionRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}
