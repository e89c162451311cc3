// internal/models/employee.go
package models

import "time"

// Mood is the categorical wellness bucket derived from the stress score.
type Mood string

const (
	MoodCalm     Mood = "Calm"
	MoodRelaxed  Mood = "Relaxed"
	MoodModerate Mood = "Moderate"
	MoodTense    Mood = "Tense"
	MoodStressed Mood = "Stressed"
)

// Moods lists all mood buckets from lowest to highest stress.
var Moods = []Mood{MoodCalm, MoodRelaxed, MoodModerate, MoodTense, MoodStressed}

// MoodForStress maps a 0-100 stress score onto a mood bucket.
func MoodForStress(score float64) Mood {
	switch {
	case score < 30:
		return MoodCalm
	case score < 50:
		return MoodRelaxed
	case score < 70:
		return MoodModerate
	case score < 85:
		return MoodTense
	default:
		return MoodStressed
	}
}

// EmployeeRecord is one employee joined with their latest health metrics.
// Exactly one record per employee ID is visible to the core at any time.
type EmployeeRecord struct {
	EmployeeID  string    `json:"employeeId"`
	Name        string    `json:"name"`
	Department  string    `json:"department"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	HeartRate   float64   `json:"heartRate"`
	SpO2        float64   `json:"spo2"`
	StressScore float64   `json:"stressScore"`
	Mood        Mood      `json:"mood"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// HighStressThreshold is the stress score above which an employee counts as
// high stress in department reports and alert sweeps.
const HighStressThreshold = 70.0
