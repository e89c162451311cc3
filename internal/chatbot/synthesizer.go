// internal/chatbot/synthesizer.go
package chatbot

import (
	"fmt"
	"strings"

	"wellness-dashboard/internal/models"
	"wellness-dashboard/internal/store"
)

// Fixed replies.
const (
	emptyQueryReply = "Please ask me a question about employee wellness or department statistics."
	greetingReply   = "Hello! I'm the HR Wellness Assistant. How can I help you today?"
	noDataReply     = "I don't have any employee data to provide information."
	noEmployeeReply = "I couldn't find any information about this employee."
	needEmployeeRef = "I need an employee ID or name to provide information."

	helpReply = "I'm not sure I understand your question. You can ask me about:" +
		"\n- A specific department (e.g., 'How is the Engineering department doing?')" +
		"\n- A specific employee (e.g., 'What's the mood of Employee 5?')" +
		"\n- Department stress levels (e.g., 'Which department has the highest stress?')" +
		"\n- All departments (e.g., 'Show me all departments')"
)

var greetings = []string{"hi", "hello", "hey", "greetings", "howdy"}

// Synthesizer renders a deterministic natural language reply for a resolved
// query descriptor against a record store snapshot.
type Synthesizer struct{}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize dispatches over the descriptor and raw query in fixed priority
// order: greeting, department summary, department report, employee report,
// stress extremes, help text.
func (s *Synthesizer) Synthesize(desc Descriptor, rawQuery string, snap *store.Snapshot) string {
	lowered := strings.ToLower(strings.TrimSpace(rawQuery))

	if isGreeting(lowered) {
		return greetingReply
	}

	if strings.Contains(lowered, "department list") || strings.Contains(lowered, "all departments") {
		return s.departmentSummary(snap)
	}

	if desc.QueryType == models.QueryTypeDepartment && desc.Department != "" {
		return s.departmentReport(snap, desc.Department, desc.Intent)
	}

	if desc.QueryType == models.QueryTypeEmployee {
		return s.employeeReport(snap, desc.EmployeeID, desc.EmployeeName, desc.Intent)
	}

	if strings.Contains(lowered, "highest stress") || strings.Contains(lowered, "most stressed") {
		return s.stressExtreme(snap, true)
	}

	if strings.Contains(lowered, "lowest stress") || strings.Contains(lowered, "least stressed") {
		return s.stressExtreme(snap, false)
	}

	return helpReply
}

// isGreeting reports whether the trimmed, lowercased query is a greeting:
// an exact greeting word, or a "hi "/"hello " prefix.
func isGreeting(lowered string) bool {
	for _, g := range greetings {
		if lowered == g {
			return true
		}
	}
	return strings.HasPrefix(lowered, "hi ") || strings.HasPrefix(lowered, "hello ")
}

func (s *Synthesizer) departmentReport(snap *store.Snapshot, department string, intent models.Intent) string {
	if snap == nil {
		return noDataReply
	}

	stats, ok := snap.DepartmentStats(department)
	if !ok {
		return fmt.Sprintf("I couldn't find any information about the %s department.", department)
	}

	switch intent {
	case models.IntentMood:
		var b strings.Builder
		fmt.Fprintf(&b, "In the %s department, the average stress level is %.1f out of 100. ", department, stats.AvgStress)
		fmt.Fprintf(&b, "The most common mood is '%s'. ", stats.TopMood)

		if stats.HighStressCount > 0 {
			percent := float64(stats.HighStressCount) / float64(stats.EmployeeCount) * 100
			fmt.Fprintf(&b, "%d employees (%.1f%%) show high stress levels.", stats.HighStressCount, percent)
		} else {
			b.WriteString("No employees are showing high stress levels at the moment.")
		}
		return b.String()

	case models.IntentHealth:
		var b strings.Builder
		fmt.Fprintf(&b, "The %s department has an average heart rate of %.1f bpm ", department, stats.AvgHeartRate)
		fmt.Fprintf(&b, "and average SpO2 of %.1f%%. ", stats.AvgSpO2)

		if stats.AvgHeartRate > 85 {
			b.WriteString("The heart rate is slightly elevated. ")
		} else {
			b.WriteString("Heart rate levels are normal. ")
		}
		if stats.AvgSpO2 < 95 {
			b.WriteString("SpO2 levels could be improved.")
		} else {
			b.WriteString("SpO2 levels are healthy.")
		}
		return b.String()

	default:
		return fmt.Sprintf(
			"The %s department has %d employees. Average heart rate: %.1f bpm, Average SpO2: %.1f%%, Average stress level: %.1f/100. The most common mood is '%s'.",
			department, stats.EmployeeCount, stats.AvgHeartRate, stats.AvgSpO2, stats.AvgStress, stats.TopMood,
		)
	}
}

func (s *Synthesizer) employeeReport(snap *store.Snapshot, employeeID, employeeName string, intent models.Intent) string {
	if snap == nil {
		return noDataReply
	}

	emp, ok := s.findEmployee(snap, employeeID, employeeName)
	if !ok {
		if employeeID == "" && employeeName == "" {
			return needEmployeeRef
		}
		return noEmployeeReply
	}

	switch intent {
	case models.IntentMood:
		var b strings.Builder
		fmt.Fprintf(&b, "%s is currently in a '%s' mood with a stress level of %.1f/100. ", emp.Name, emp.Mood, emp.StressScore)

		if emp.StressScore > 70 {
			b.WriteString("This is a high stress level. Consider checking in with them.")
		} else if emp.StressScore > 50 {
			b.WriteString("This is a moderate stress level.")
		} else {
			b.WriteString("This is a low stress level, which is good.")
		}
		return b.String()

	case models.IntentHealth:
		var b strings.Builder
		fmt.Fprintf(&b, "%s has a heart rate of %.1f bpm and SpO2 of %.1f%%. ", emp.Name, emp.HeartRate, emp.SpO2)

		if emp.HeartRate > 100 {
			b.WriteString("Their heart rate is above the normal range. ")
		} else if emp.HeartRate < 60 {
			b.WriteString("Their heart rate is below the normal range. ")
		} else {
			b.WriteString("Their heart rate is within the normal range. ")
		}
		if emp.SpO2 < 95 {
			b.WriteString("Their SpO2 level is below the recommended level.")
		} else {
			b.WriteString("Their SpO2 level is good.")
		}
		return b.String()

	default:
		return fmt.Sprintf(
			"%s (ID: %s) works in the %s department. Heart rate: %.1f bpm, SpO2: %.1f%%, Stress level: %.1f/100. Current mood: %s.",
			emp.Name, emp.EmployeeID, emp.Department, emp.HeartRate, emp.SpO2, emp.StressScore, emp.Mood,
		)
	}
}

// findEmployee resolves by ID when set, otherwise by exact name; the first
// matching record wins.
func (s *Synthesizer) findEmployee(snap *store.Snapshot, employeeID, employeeName string) (models.EmployeeRecord, bool) {
	if employeeID != "" {
		return snap.EmployeeByID(employeeID)
	}
	if employeeName != "" {
		for _, emp := range snap.Employees() {
			if emp.Name == employeeName {
				return emp, true
			}
		}
	}
	return models.EmployeeRecord{}, false
}

func (s *Synthesizer) departmentSummary(snap *store.Snapshot) string {
	if snap == nil {
		return noDataReply
	}

	rankings := snap.DepartmentRankings()
	if len(rankings) == 0 {
		return noDataReply
	}

	var b strings.Builder
	b.WriteString("Here's a summary of all departments, ordered by stress level (lowest first):\n")
	for _, stats := range rankings {
		fmt.Fprintf(&b, "- %s: %d employees, Avg stress: %.1f/100\n", stats.Department, stats.EmployeeCount, stats.AvgStress)
	}

	highest := rankings[len(rankings)-1]
	lowest := rankings[0]
	fmt.Fprintf(&b, "\n%s shows the highest stress levels, while %s shows the lowest.", highest.Department, lowest.Department)

	return b.String()
}

func (s *Synthesizer) stressExtreme(snap *store.Snapshot, highest bool) string {
	if snap == nil {
		return noDataReply
	}

	rankings := snap.DepartmentRankings()
	if len(rankings) == 0 {
		return noDataReply
	}

	if highest {
		top := rankings[len(rankings)-1]
		return fmt.Sprintf(
			"The department with the highest stress level is %s with an average stress score of %.1f/100.",
			top.Department, top.AvgStress,
		)
	}

	bottom := rankings[0]
	return fmt.Sprintf(
		"The department with the lowest stress level is %s with an average stress score of %.1f/100.",
		bottom.Department, bottom.AvgStress,
	)
}
