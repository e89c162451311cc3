// internal/store/store.go
package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"wellness-dashboard/internal/models"
)

// Snapshot is an immutable view of all employees with their latest health
// metrics. Query resolution and report synthesis read a single snapshot for
// the whole call, so answers stay consistent even while a refresh is running.
type Snapshot struct {
	version     string
	records     []models.EmployeeRecord
	byID        map[string]int
	departments []string
}

// NewSnapshot builds a snapshot over records. Record order is preserved; it
// determines first-match semantics for name lookups. When the same employee
// ID appears twice the first record wins.
func NewSnapshot(records []models.EmployeeRecord) *Snapshot {
	owned := make([]models.EmployeeRecord, len(records))
	copy(owned, records)

	byID := make(map[string]int, len(owned))
	deptSet := make(map[string]struct{})
	for i, rec := range owned {
		if _, ok := byID[rec.EmployeeID]; !ok {
			byID[rec.EmployeeID] = i
		}
		deptSet[rec.Department] = struct{}{}
	}

	departments := make([]string, 0, len(deptSet))
	for name := range deptSet {
		departments = append(departments, name)
	}
	sort.Strings(departments)

	return &Snapshot{
		version:     uuid.New().String(),
		records:     owned,
		byID:        byID,
		departments: departments,
	}
}

// Version identifies this snapshot; it changes on every swap so cache keys
// derived from it invalidate naturally.
func (s *Snapshot) Version() string {
	return s.version
}

// Len returns the number of employee records.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Departments returns the distinct department names, sorted.
func (s *Snapshot) Departments() []string {
	out := make([]string, len(s.departments))
	copy(out, s.departments)
	return out
}

// Employees returns all records in store order.
func (s *Snapshot) Employees() []models.EmployeeRecord {
	out := make([]models.EmployeeRecord, len(s.records))
	copy(out, s.records)
	return out
}

// EmployeeByID returns the record for id, if present.
func (s *Snapshot) EmployeeByID(id string) (models.EmployeeRecord, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return models.EmployeeRecord{}, false
	}
	return s.records[idx], true
}

// EmployeesInDepartment returns all records belonging to name, in store order.
func (s *Snapshot) EmployeesInDepartment(name string) []models.EmployeeRecord {
	var out []models.EmployeeRecord
	for _, rec := range s.records {
		if rec.Department == name {
			out = append(out, rec)
		}
	}
	return out
}

// DepartmentStats aggregates one department's records.
type DepartmentStats struct {
	Department      string      `json:"department"`
	EmployeeCount   int         `json:"employeeCount"`
	AvgHeartRate    float64     `json:"avgHeartRate"`
	AvgSpO2         float64     `json:"avgSpo2"`
	AvgStress       float64     `json:"avgStress"`
	TopMood         models.Mood `json:"topMood"`
	HighStressCount int         `json:"highStressCount"`
}

// DepartmentStats computes aggregates for one department. ok is false when
// the department has no records.
func (s *Snapshot) DepartmentStats(name string) (DepartmentStats, bool) {
	recs := s.EmployeesInDepartment(name)
	if len(recs) == 0 {
		return DepartmentStats{}, false
	}

	stats := DepartmentStats{
		Department:    name,
		EmployeeCount: len(recs),
	}

	moodCounts := make(map[models.Mood]int)
	moodFirstSeen := make(map[models.Mood]int)
	for i, rec := range recs {
		stats.AvgHeartRate += rec.HeartRate
		stats.AvgSpO2 += rec.SpO2
		stats.AvgStress += rec.StressScore
		if rec.StressScore > models.HighStressThreshold {
			stats.HighStressCount++
		}
		moodCounts[rec.Mood]++
		if _, seen := moodFirstSeen[rec.Mood]; !seen {
			moodFirstSeen[rec.Mood] = i
		}
	}

	n := float64(len(recs))
	stats.AvgHeartRate /= n
	stats.AvgSpO2 /= n
	stats.AvgStress /= n

	// Most frequent mood; ties break toward the mood seen first in store order.
	best := -1
	for mood, count := range moodCounts {
		if best == -1 || count > moodCounts[stats.TopMood] ||
			(count == moodCounts[stats.TopMood] && moodFirstSeen[mood] < moodFirstSeen[stats.TopMood]) {
			stats.TopMood = mood
			best = count
		}
	}

	return stats, true
}

// DepartmentRankings returns per-department stats sorted ascending by mean
// stress, department name as secondary key so ties are deterministic.
func (s *Snapshot) DepartmentRankings() []DepartmentStats {
	rankings := make([]DepartmentStats, 0, len(s.departments))
	for _, name := range s.departments {
		if stats, ok := s.DepartmentStats(name); ok {
			rankings = append(rankings, stats)
		}
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].AvgStress != rankings[j].AvgStress {
			return rankings[i].AvgStress < rankings[j].AvgStress
		}
		return rankings[i].Department < rankings[j].Department
	})

	return rankings
}

// Manager holds the current snapshot and swaps it wholesale on refresh. The
// core never mutates a snapshot; readers either see the old one or the new
// one, never a mix.
type Manager struct {
	mu  sync.RWMutex
	cur *Snapshot
}

func NewManager() *Manager {
	return &Manager{}
}

// Current returns the live snapshot, or nil before the first load.
func (m *Manager) Current() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Swap replaces the live snapshot.
func (m *Manager) Swap(s *Snapshot) {
	m.mu.Lock()
	m.cur = s
	m.mu.Unlock()
}
