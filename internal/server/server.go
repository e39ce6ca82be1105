// Package server adapts HTTP requests to the analysis pipeline and result
// store. Handlers only parse requests, invoke a collaborator, and map the
// classified error taxonomy to transport statuses; they never invent new
// classifications.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"reelcoach/internal/fault"
	"reelcoach/internal/models"
	"reelcoach/shared/monitoring"
	"reelcoach/shared/storage"
)

// Analyzer runs one full analysis pipeline for a video URL.
type Analyzer interface {
	Analyze(ctx context.Context, videoURL string) (*models.AnalysisRun, error)
}

// ScriptRewriter turns a transcript into a rewritten script.
type ScriptRewriter interface {
	Rewrite(ctx context.Context, transcript, instructions string) (string, error)
}

type Server struct {
	analyzer Analyzer
	store    *storage.ResultStore
	scripts  ScriptRewriter
	monitor  *monitoring.Monitor
}

func New(analyzer Analyzer, store *storage.ResultStore, scripts ScriptRewriter, monitor *monitoring.Monitor) *Server {
	return &Server{
		analyzer: analyzer,
		store:    store,
		scripts:  scripts,
		monitor:  monitor,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyses", s.handleSave)
	mux.HandleFunc("GET /api/analyses/{id}", s.handleGet)
	mux.HandleFunc("GET /api/analyses", s.handleList)
	mux.HandleFunc("POST /api/scripts", s.handleRewriteScript)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	Success bool `json:"success"`
	*models.AnalysisRun
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	start := time.Now()
	run, err := s.analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		kind := fault.KindOf(err, fault.KindUpstream)
		log.Printf("[server] Analysis failed (%s): %v", kind, err)
		s.monitor.RecordFailure(err, time.Since(start))
		writeJSON(w, kind.HTTPStatus(), map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	s.monitor.RecordSuccess(
		fmt.Sprintf("analyzed %q (score %d)", run.Metadata.Title, run.Report.OverallScore),
		time.Since(start),
	)
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, AnalysisRun: run})
}

type saveRequest struct {
	Analysis   *models.AnalysisReport `json:"analysis"`
	Transcript *models.Transcript     `json:"transcript"`
	Metadata   *models.VideoMetadata  `json:"metadata"`
	OwnerID    string                 `json:"ownerId"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id, err := s.store.Write(storage.WriteRequest{
		Analysis:   req.Analysis,
		Transcript: req.Transcript,
		Metadata:   req.Metadata,
		OwnerID:    req.OwnerID,
	})
	if err != nil {
		kind := fault.KindOf(err, fault.KindStorage)
		if kind == fault.KindInvalidInput {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Analysis data is required"})
			return
		}
		log.Printf("[server] Failed to save analysis: %v", err)
		writeJSON(w, kind.HTTPStatus(), map[string]string{
			"error":   "Failed to save analysis",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"analysisId": id,
		"message":    "Analysis saved successfully",
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := s.store.Get(id)
	if err != nil {
		kind := fault.KindOf(err, fault.KindStorage)
		if kind == fault.KindNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Analysis not found"})
			return
		}
		log.Printf("[server] Failed to retrieve analysis %s: %v", id, err)
		writeJSON(w, kind.HTTPStatus(), map[string]string{
			"error":   "Failed to retrieve analysis",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerId")
	if ownerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Owner ID is required"})
		return
	}

	summaries, err := s.store.ListByOwner(ownerID)
	if err != nil {
		log.Printf("[server] Failed to list analyses for owner %s: %v", ownerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to retrieve analyses",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"analyses": summaries})
}

type rewriteRequest struct {
	Transcript   string `json:"transcript"`
	Instructions string `json:"instructions"`
}

func (s *Server) handleRewriteScript(w http.ResponseWriter, r *http.Request) {
	var req rewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	script, err := s.scripts.Rewrite(r.Context(), req.Transcript, req.Instructions)
	if err != nil {
		kind := fault.KindOf(err, fault.KindUpstream)
		log.Printf("[server] Script rewrite failed (%s): %v", kind, err)
		writeJSON(w, kind.HTTPStatus(), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"script": script})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", s.monitor.GetStatusSummary())
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "Service unhealthy - %s", s.monitor.GetStatusSummary())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[server] Failed to encode response: %v", err)
	}
}
