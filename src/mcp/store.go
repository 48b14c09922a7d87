package mcp

import (
	"sync"

	"cisleuth/src/ranking"
	"cisleuth/src/report"
)

// maxStoredReports bounds the in-memory store; the oldest report is evicted.
const maxStoredReports = 64

// ReportStore keeps resolved reports for drill-down calls.
type ReportStore interface {
	Store(rep *report.Report)
	Get(reportID string) (*report.Report, bool)
	Group(reportID, groupID string) (ranking.Group, bool)
}

// InMemoryStore is a bounded, thread-safe ReportStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*report.Report
	groups  map[string]map[string]ranking.Group // report ID -> group ID -> group
	order   []string
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		reports: make(map[string]*report.Report),
		groups:  make(map[string]map[string]ranking.Group),
	}
}

// Store saves rep and indexes its groups by GroupID.
func (s *InMemoryStore) Store(rep *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := rep.ID.String()
	if _, ok := s.reports[id]; !ok {
		s.order = append(s.order, id)
	}
	s.reports[id] = rep

	index := make(map[string]ranking.Group, len(rep.Groups))
	for _, g := range rep.Groups {
		index[GroupID(g)] = g
	}
	s.groups[id] = index

	for len(s.order) > maxStoredReports {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reports, oldest)
		delete(s.groups, oldest)
	}
}

// Get returns a stored report.
func (s *InMemoryStore) Get(reportID string) (*report.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[reportID]
	return r, ok
}

// Group returns one group of a stored report.
func (s *InMemoryStore) Group(reportID, groupID string) (ranking.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index, ok := s.groups[reportID]; ok {
		g, found := index[groupID]
		return g, found
	}
	return ranking.Group{}, false
}
