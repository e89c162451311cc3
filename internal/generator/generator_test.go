package generator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-dashboard/internal/models"
)

// ==========================
// Core Functionality Tests
// ==========================

func TestGenerate_RecordShape(t *testing.T) {
	records := Generate(50, 42)
	require.Len(t, records, 50)

	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("EMP%03d", i+1), rec.EmployeeID)
		assert.Equal(t, fmt.Sprintf("Employee %d", i+1), rec.Name)
		assert.Contains(t, Departments, rec.Department)
		assert.GreaterOrEqual(t, rec.Age, 22)
		assert.Less(t, rec.Age, 60)
		assert.GreaterOrEqual(t, rec.HeartRate, float64(MinHeartRate))
		assert.Less(t, rec.HeartRate, float64(MaxHeartRate))
		assert.GreaterOrEqual(t, rec.SpO2, float64(MinSpO2))
		assert.Less(t, rec.SpO2, float64(MaxSpO2))
		assert.GreaterOrEqual(t, rec.StressScore, 0.0)
		assert.LessOrEqual(t, rec.StressScore, 100.0)
		assert.Equal(t, models.MoodForStress(rec.StressScore), rec.Mood)
		assert.False(t, rec.LastUpdated.IsZero())
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(30, 42)
	b := Generate(30, 42)

	require.Len(t, b, len(a))
	for i := range a {
		// LastUpdated depends on wall time, everything else must match.
		assert.Equal(t, a[i].EmployeeID, b[i].EmployeeID)
		assert.Equal(t, a[i].Department, b[i].Department)
		assert.Equal(t, a[i].HeartRate, b[i].HeartRate)
		assert.Equal(t, a[i].SpO2, b[i].SpO2)
		assert.Equal(t, a[i].StressScore, b[i].StressScore)
		assert.Equal(t, a[i].Mood, b[i].Mood)
	}
}

func TestGenerate_DifferentSeeds(t *testing.T) {
	a := Generate(30, 1)
	b := Generate(30, 2)

	same := true
	for i := range a {
		if a[i].HeartRate != b[i].HeartRate || a[i].Department != b[i].Department {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should produce different datasets")
}

// ==========================
// Stress Score Tests
// ==========================

func TestStressScore(t *testing.T) {
	tests := []struct {
		name      string
		heartRate float64
		spo2      float64
		expected  float64
	}{
		{
			name:      "minimum stress",
			heartRate: 60,
			spo2:      100,
			expected:  0,
		},
		{
			name:      "maximum stress",
			heartRate: 100,
			spo2:      92,
			expected:  100,
		},
		{
			name:      "heart rate dominates",
			heartRate: 100,
			spo2:      100,
			expected:  70,
		},
		{
			name:      "spo2 component alone",
			heartRate: 60,
			spo2:      92,
			expected:  30,
		},
		{
			name:      "midpoint",
			heartRate: 80,
			spo2:      96,
			expected:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, StressScore(tt.heartRate, tt.spo2), 0.05)
		})
	}
}

func TestMoodForStress_Banding(t *testing.T) {
	tests := []struct {
		score float64
		mood  models.Mood
	}{
		{0, models.MoodCalm},
		{29.9, models.MoodCalm},
		{30, models.MoodRelaxed},
		{49.9, models.MoodRelaxed},
		{50, models.MoodModerate},
		{69.9, models.MoodModerate},
		{70, models.MoodTense},
		{84.9, models.MoodTense},
		{85, models.MoodStressed},
		{100, models.MoodStressed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.mood, models.MoodForStress(tt.score), "score %.1f", tt.score)
	}
}
