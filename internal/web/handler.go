package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/timeguardian/timeguardian/internal/config"
	"github.com/timeguardian/timeguardian/internal/database"
	"github.com/timeguardian/timeguardian/internal/models"
	"github.com/timeguardian/timeguardian/internal/reporter"
	"github.com/timeguardian/timeguardian/pkg/utils"
)

type Handler struct {
	config   *config.Config
	repo     *database.Repository
	reporter *reporter.Reporter

	// trackerRunning reports whether a tracker shares this process
	trackerRunning func() bool
}

func NewHandler(cfg *config.Config, repo *database.Repository) *Handler {
	return &Handler{
		config:   cfg,
		repo:     repo,
		reporter: reporter.New(cfg, repo),
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/visibility/latest", h.handleLatest)
	mux.HandleFunc("/api/samples", h.handleSamples)
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/status", h.handleStatus)

	mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	samples, err := h.repo.GetLatestSamples()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch latest samples: %v", err), http.StatusInternalServerError)
		return
	}

	if len(samples) == 0 {
		http.Error(w, "No samples found", http.StatusNotFound)
		return
	}

	respondJSON(w, map[string]interface{}{
		"timestamp": samples[0].Timestamp,
		"windows":   samples,
	})
}

func (h *Handler) handleSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	limitStr := query.Get("limit")
	periodType := query.Get("period") // day, week, month

	start := time.Now().Add(-24 * time.Hour)
	if periodType != "" {
		period, err := h.reporter.Period(periodType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start = period.Start
	}

	samples, err := h.repo.GetSamplesSince(start)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch samples: %v", err), http.StatusInternalServerError)
		return
	}

	if periodType == "" {
		limit := 100 // default
		if limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
				limit = l
			}
		}
		if len(samples) > limit {
			samples = samples[len(samples)-limit:]
		}
	}

	if samples == nil {
		samples = []*models.VisibilitySample{}
	}
	respondJSON(w, samples)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	if _, err := h.reporter.Period(periodType); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, report)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"poll_interval":       h.config.Tracker.PollInterval.String(),
		"database_path":       h.config.Database.Path,
		"layers":              h.config.Tracker.Layers,
		"min_visible_percent": h.config.Tracker.MinVisiblePercent,
		"capture":             h.config.Capture.Enabled,
		"visualization":       h.config.Visualization.Enabled,
	}

	if h.trackerRunning != nil {
		status["running"] = h.trackerRunning()
	}

	if count, err := h.repo.CountSamples(); err == nil {
		status["sample_count"] = count
	}

	if latest, _ := h.repo.GetLatestSamples(); len(latest) > 0 {
		top := latest[0]
		status["latest"] = map[string]interface{}{
			"timestamp":      top.Timestamp,
			"age":            utils.FormatRoundedUnit(time.Since(top.Timestamp).Seconds()),
			"window_count":   len(latest),
			"top_app":        top.AppName,
			"top_visible":    top.VisiblePercent,
			"display_server": top.DisplayServer,
		}
	}

	respondJSON(w, status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
