// internal/dashboard/service.go
package dashboard

import (
	"math"
	"strings"

	"wellness-dashboard/internal/models"
	"wellness-dashboard/internal/store"
)

// Summary holds the headline metrics shown at the top of the dashboard.
type Summary struct {
	TotalEmployees    int     `json:"totalEmployees"`
	AvgHeartRate      float64 `json:"avgHeartRate"`
	AvgSpO2           float64 `json:"avgSpo2"`
	AvgStress         float64 `json:"avgStress"`
	HighStressCount   int     `json:"highStressCount"`
	HighStressPercent float64 `json:"highStressPercent"`
	DepartmentCount   int     `json:"departmentCount"`
}

// Correlations reports the Pearson correlation of each vital sign with the
// stress score across all employees.
type Correlations struct {
	HeartRateStress float64 `json:"heartRateStress"`
	SpO2Stress      float64 `json:"spo2Stress"`
}

// SearchRequest describes an employee list query. A zero Limit means no
// pagination; Department empty means all departments.
type SearchRequest struct {
	Term       string
	Department string
	Offset     int
	Limit      int
}

// SearchResult is one page of matching employees plus the total match count
// so the caller can render pagination.
type SearchResult struct {
	Employees []models.EmployeeRecord `json:"employees"`
	Total     int                     `json:"total"`
}

// ComputeSummary aggregates the whole snapshot. ok is false when there is no
// data to summarize.
func ComputeSummary(snap *store.Snapshot) (Summary, bool) {
	if snap == nil || snap.Len() == 0 {
		return Summary{}, false
	}

	recs := snap.Employees()
	s := Summary{
		TotalEmployees:  len(recs),
		DepartmentCount: len(snap.Departments()),
	}

	for _, rec := range recs {
		s.AvgHeartRate += rec.HeartRate
		s.AvgSpO2 += rec.SpO2
		s.AvgStress += rec.StressScore
		if rec.StressScore > models.HighStressThreshold {
			s.HighStressCount++
		}
	}

	n := float64(len(recs))
	s.AvgHeartRate /= n
	s.AvgSpO2 /= n
	s.AvgStress /= n
	s.HighStressPercent = float64(s.HighStressCount) / n * 100

	return s, true
}

// Rankings returns per-department aggregates ordered by mean stress, lowest
// first.
func Rankings(snap *store.Snapshot) []store.DepartmentStats {
	if snap == nil {
		return nil
	}
	return snap.DepartmentRankings()
}

// ComputeCorrelations calculates Pearson r for heart rate vs stress and SpO2
// vs stress. ok is false when fewer than two records exist or a series has no
// variance, in which case the coefficient is undefined.
func ComputeCorrelations(snap *store.Snapshot) (Correlations, bool) {
	if snap == nil || snap.Len() < 2 {
		return Correlations{}, false
	}

	recs := snap.Employees()
	hr := make([]float64, len(recs))
	spo2 := make([]float64, len(recs))
	stress := make([]float64, len(recs))
	for i, rec := range recs {
		hr[i] = rec.HeartRate
		spo2[i] = rec.SpO2
		stress[i] = rec.StressScore
	}

	hrStress, ok1 := pearson(hr, stress)
	spo2Stress, ok2 := pearson(spo2, stress)
	if !ok1 || !ok2 {
		return Correlations{}, false
	}

	return Correlations{HeartRateStress: hrStress, SpO2Stress: spo2Stress}, true
}

// pearson computes the sample correlation coefficient of two equal-length
// series. ok is false when either series is constant.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))

	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// SearchEmployees filters the snapshot by department and a case-insensitive
// substring match on employee ID or name, then applies offset/limit. Results
// keep store order (department, then name).
func SearchEmployees(snap *store.Snapshot, req SearchRequest) SearchResult {
	if snap == nil {
		return SearchResult{Employees: []models.EmployeeRecord{}}
	}

	term := strings.ToLower(strings.TrimSpace(req.Term))

	var matches []models.EmployeeRecord
	for _, rec := range snap.Employees() {
		if req.Department != "" && rec.Department != req.Department {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(rec.EmployeeID), term) &&
			!strings.Contains(strings.ToLower(rec.Name), term) {
			continue
		}
		matches = append(matches, rec)
	}

	result := SearchResult{Total: len(matches)}

	start := req.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matches) {
		start = len(matches)
	}
	end := len(matches)
	if req.Limit > 0 && start+req.Limit < end {
		end = start + req.Limit
	}

	result.Employees = make([]models.EmployeeRecord, end-start)
	copy(result.Employees, matches[start:end])
	return result
}

// DepartmentNames returns the snapshot's sorted department list, empty when
// no data is loaded.
func DepartmentNames(snap *store.Snapshot) []string {
	if snap == nil {
		return []string{}
	}
	return snap.Departments()
}
