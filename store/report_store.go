// Package store keeps run reports in memory between persistence snapshots.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"

	"github.com/gcbaptista/go-tagger-eval/internal/errors"
	"github.com/gcbaptista/go-tagger-eval/model"
)

// ReportStore holds every run report by ID. It is safe for concurrent use.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]model.RunReport
}

// gobReportStoreData is the encoded form of a ReportStore, without the mutex.
type gobReportStoreData struct {
	Reports map[string]model.RunReport
}

// NewReportStore creates an empty store.
func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]model.RunReport)}
}

// Add stores reports, replacing any with the same ID.
func (s *ReportStore) Add(reports ...model.RunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reports == nil {
		s.reports = make(map[string]model.RunReport)
	}
	for _, r := range reports {
		s.reports[r.ID] = r
	}
}

// Get returns the report with the given ID.
func (s *ReportStore) Get(id string) (model.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return model.RunReport{}, errors.NewRunNotFoundError(id)
	}
	return r, nil
}

// List returns reports of the given group (all groups when empty), oldest first.
func (s *ReportStore) List(group string) []model.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunReport, 0, len(s.reports))
	for _, r := range s.reports {
		if group == "" || r.Group == group {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of stored reports.
func (s *ReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// GobEncode implements the gob.GobEncoder interface for ReportStore.
func (s *ReportStore) GobEncode() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobReportStoreData{Reports: s.reports}); err != nil {
		return nil, fmt.Errorf("failed to gob encode report store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for ReportStore.
func (s *ReportStore) GobDecode(data []byte) error {
	decoded := gobReportStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode report store data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = decoded.Reports
	if s.reports == nil {
		s.reports = make(map[string]model.RunReport)
	}
	return nil
}
