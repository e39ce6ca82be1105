// Package storage persists finished analysis results, one JSON file per
// record, keyed by a freshly generated identifier.
package storage

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"reelcoach/internal/fault"
	"reelcoach/internal/models"

	"github.com/google/uuid"
)

// ResultStore manages the flat directory of analysis result records. Each
// record lives in its own file, so concurrent writes of different identifiers
// never conflict. Records are write-once; no update or delete is exposed.
type ResultStore struct {
	dir string

	mu          sync.Mutex
	lastStamped time.Time
}

func NewResultStore(dir string) *ResultStore {
	return &ResultStore{dir: dir}
}

// WriteRequest is the caller-supplied portion of a record. The identifier and
// creation time are assigned here, never by the caller.
type WriteRequest struct {
	Analysis   *models.AnalysisReport
	Transcript *models.Transcript
	Metadata   *models.VideoMetadata
	OwnerID    string
}

// Write persists a complete record under a fresh identifier and returns it.
// The backing directory is created lazily on first write.
func (s *ResultStore) Write(req WriteRequest) (string, error) {
	if req.Analysis == nil {
		return "", fault.InvalidInput("analysis data is required")
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fault.Wrap(fault.KindStorage, err, "failed to create analysis directory")
	}

	result := &models.AnalysisResult{
		ID:         uuid.NewString(),
		Analysis:   req.Analysis,
		Transcript: req.Transcript,
		Metadata:   req.Metadata,
		OwnerID:    req.OwnerID,
		CreatedAt:  s.stampCreatedAt(),
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fault.Wrap(fault.KindStorage, err, "failed to encode analysis record")
	}

	path := filepath.Join(s.dir, result.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fault.Wrap(fault.KindStorage, err, "failed to write analysis record")
	}

	owner := result.OwnerID
	if owner == "" {
		owner = "anonymous"
	}
	log.Printf("[storage] Saved analysis %s for owner %s", result.ID, owner)

	return result.ID, nil
}

// stampCreatedAt returns the current time, nudged forward if the wall clock
// stepped backwards, so createdAt is non-decreasing across writes from this
// process.
func (s *ResultStore) stampCreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(s.lastStamped) {
		now = s.lastStamped
	}
	s.lastStamped = now
	return now
}

// Get retrieves one record by identifier.
func (s *ResultStore) Get(id string) (*models.AnalysisResult, error) {
	if !validRecordID(id) {
		return nil, fault.NotFound("analysis %q not found", id)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.NotFound("analysis %q not found", id)
		}
		return nil, fault.Wrap(fault.KindStorage, err, "failed to read analysis record %s", id)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fault.Wrap(fault.KindStorage, err, "failed to decode analysis record %s", id)
	}

	return &result, nil
}

// ListByOwner scans every record and returns summaries of those belonging to
// the given owner, most recent first. Unreadable records are skipped with a
// warning so one corrupt file cannot hide the rest. An owner with no records
// gets an empty slice, not an error.
func (s *ResultStore) ListByOwner(ownerID string) ([]models.AnalysisSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.AnalysisSummary{}, nil
		}
		return nil, fault.Wrap(fault.KindStorage, err, "failed to read analysis directory")
	}

	summaries := []models.AnalysisSummary{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			log.Printf("[storage] Warning: failed to read record %s: %v", entry.Name(), err)
			continue
		}

		var result models.AnalysisResult
		if err := json.Unmarshal(data, &result); err != nil {
			log.Printf("[storage] Warning: failed to parse record %s: %v", entry.Name(), err)
			continue
		}

		if result.OwnerID == "" || result.OwnerID != ownerID {
			continue
		}

		summaries = append(summaries, result.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, nil
}

// validRecordID rejects identifiers that could escape the store directory.
// Generated identifiers are UUIDs, so anything else is unknown by definition.
func validRecordID(id string) bool {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
