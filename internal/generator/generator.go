// internal/generator/generator.go
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"wellness-dashboard/internal/models"
)

// Bounds for the synthetic health metrics.
const (
	MinHeartRate = 60
	MaxHeartRate = 100
	MinSpO2      = 92
	MaxSpO2      = 100
)

// Departments is the fixed set the generator draws from. The resolver never
// hardcodes this list; it discovers departments from the record store.
var Departments = []string{"Engineering", "Marketing", "Finance", "HR", "Operations", "Sales"}

var genders = []string{"Male", "Female"}

// Generate produces n synthetic employee records with derived stress scores
// and moods. The same seed always yields the same dataset.
func Generate(n int, seed int64) []models.EmployeeRecord {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	records := make([]models.EmployeeRecord, 0, n)
	for i := 1; i <= n; i++ {
		heartRate := float64(MinHeartRate + rng.Intn(MaxHeartRate-MinHeartRate))
		spo2 := float64(MinSpO2 + rng.Intn(MaxSpO2-MinSpO2))
		stress := StressScore(heartRate, spo2)

		records = append(records, models.EmployeeRecord{
			EmployeeID:  fmt.Sprintf("EMP%03d", i),
			Name:        fmt.Sprintf("Employee %d", i),
			Department:  Departments[rng.Intn(len(Departments))],
			Age:         22 + rng.Intn(38),
			Gender:      genders[rng.Intn(len(genders))],
			HeartRate:   heartRate,
			SpO2:        spo2,
			StressScore: stress,
			Mood:        models.MoodForStress(stress),
			LastUpdated: now.Add(-time.Duration(5+rng.Intn(55)) * time.Minute),
		})
	}

	return records
}

// StressScore derives a 0-100 stress score from heart rate and SpO2. High
// heart rate and low SpO2 correlate with higher stress; heart rate carries
// more weight. The result is rounded to one decimal.
func StressScore(heartRate, spo2 float64) float64 {
	hrNorm := (heartRate - MinHeartRate) / float64(MaxHeartRate-MinHeartRate)
	spo2Norm := 1 - ((spo2 - MinSpO2) / float64(MaxSpO2-MinSpO2))

	score := (hrNorm*0.7 + spo2Norm*0.3) * 100
	return math.Round(score*10) / 10
}
