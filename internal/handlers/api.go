package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/common"
	"github.com/ternarybob/lectern/internal/interfaces"
)

// APIHandler handles service-level endpoints
type APIHandler struct {
	auditStorage interfaces.AuditStorage
	startTime    time.Time
	logger       arbor.ILogger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(auditStorage interfaces.AuditStorage, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		auditStorage: auditStorage,
		startTime:    time.Now(),
		logger:       logger,
	}
}

// HealthHandler handles GET /api/health requests
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": common.GetVersion(),
		"uptime":  time.Since(h.startTime).String(),
	})
}

// VersionHandler handles GET /api/version requests
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}

// RejectionsHandler handles GET /api/audit/rejections requests
func (h *APIHandler) RejectionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rejections, err := h.auditStorage.ListRejections(defaultListLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list rejections")
		writeError(w, http.StatusInternalServerError, "Failed to list rejections")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rejections": rejections,
		"count":      len(rejections),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
