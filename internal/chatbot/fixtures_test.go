package chatbot

import (
	"time"

	"wellness-dashboard/internal/models"
	"wellness-dashboard/internal/store"
)

// testSnapshot builds a three-department snapshot with round aggregate
// numbers, in the department-then-name order the loader produces.
//
//	Finance     avg stress 40.0  (lowest)
//	Sales       avg stress 60.0
//	Engineering avg stress 80.0  (highest)
func testSnapshot() *store.Snapshot {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	return store.NewSnapshot([]models.EmployeeRecord{
		{EmployeeID: "EMP001", Name: "Employee 1", Department: "Engineering", Age: 31, Gender: "Female", HeartRate: 96, SpO2: 93, StressScore: 82, Mood: models.MoodTense, LastUpdated: now},
		{EmployeeID: "EMP002", Name: "Employee 2", Department: "Engineering", Age: 44, Gender: "Male", HeartRate: 88, SpO2: 94, StressScore: 78, Mood: models.MoodTense, LastUpdated: now},
		{EmployeeID: "EMP003", Name: "Employee 3", Department: "Finance", Age: 27, Gender: "Male", HeartRate: 68, SpO2: 99, StressScore: 38, Mood: models.MoodRelaxed, LastUpdated: now},
		{EmployeeID: "EMP004", Name: "Employee 4", Department: "Finance", Age: 52, Gender: "Female", HeartRate: 72, SpO2: 97, StressScore: 42, Mood: models.MoodRelaxed, LastUpdated: now},
		{EmployeeID: "EMP005", Name: "Employee 5", Department: "Sales", Age: 36, Gender: "Male", HeartRate: 80, SpO2: 96, StressScore: 55.5, Mood: models.MoodModerate, LastUpdated: now},
		{EmployeeID: "EMP006", Name: "Employee 6", Department: "Sales", Age: 41, Gender: "Female", HeartRate: 82, SpO2: 96, StressScore: 64.5, Mood: models.MoodModerate, LastUpdated: now},
	})
}
