package maintenance

import (
	"errors"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/common"
	"github.com/ternarybob/lectern/internal/interfaces"
)

type stubStorageManager struct {
	gcCalls int
	gcErr   error
}

func (m *stubStorageManager) DocumentStorage() interfaces.DocumentStorage { return nil }
func (m *stubStorageManager) ChunkStorage() interfaces.ChunkStorage       { return nil }
func (m *stubStorageManager) AuditStorage() interfaces.AuditStorage       { return nil }

func (m *stubStorageManager) RunGC() error {
	m.gcCalls++
	return m.gcErr
}

func (m *stubStorageManager) Close() error { return nil }

func TestService_Start(t *testing.T) {
	t.Run("Valid schedule starts and stops", func(t *testing.T) {
		storage := &stubStorageManager{}
		config := &common.MaintenanceConfig{Enabled: true, Schedule: "0 0 */6 * * *"}
		service := NewService(storage, config, arbor.NewLogger())

		if err := service.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		service.Stop()
	})

	t.Run("Invalid schedule rejected", func(t *testing.T) {
		storage := &stubStorageManager{}
		config := &common.MaintenanceConfig{Enabled: true, Schedule: "not a schedule"}
		service := NewService(storage, config, arbor.NewLogger())

		if err := service.Start(); err == nil {
			t.Fatal("Expected error for invalid schedule")
		}
	})

	t.Run("Stop without start is safe", func(t *testing.T) {
		storage := &stubStorageManager{}
		config := &common.MaintenanceConfig{Schedule: "0 0 */6 * * *"}
		service := NewService(storage, config, arbor.NewLogger())

		service.Stop()
	})
}

func TestService_runGC(t *testing.T) {
	t.Run("Delegates to storage", func(t *testing.T) {
		storage := &stubStorageManager{}
		service := NewService(storage, &common.MaintenanceConfig{Schedule: "@every 1h"}, arbor.NewLogger())

		service.runGC()

		if storage.gcCalls != 1 {
			t.Errorf("Expected 1 GC call, got %d", storage.gcCalls)
		}
	})

	t.Run("GC failure is non-fatal", func(t *testing.T) {
		storage := &stubStorageManager{gcErr: errors.New("gc rejected")}
		service := NewService(storage, &common.MaintenanceConfig{Schedule: "@every 1h"}, arbor.NewLogger())

		service.runGC()

		if storage.gcCalls != 1 {
			t.Errorf("Expected 1 GC call, got %d", storage.gcCalls)
		}
	})
}
