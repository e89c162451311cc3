// internal/chatbot/resolver.go
package chatbot

import (
	"regexp"
	"strings"

	"wellness-dashboard/internal/models"
	"wellness-dashboard/internal/store"
)

// Descriptor is the structured result of resolving one user utterance.
// Intent is always set; the entity fields are set only when matched.
type Descriptor struct {
	Department   string
	EmployeeID   string
	EmployeeName string
	QueryType    models.QueryType
	Intent       models.Intent
}

var (
	empIDPattern = regexp.MustCompile(`emp(\d{3})`)

	moodKeywords   = []string{"mood", "feeling", "stress", "stressed", "emotion"}
	healthKeywords = []string{"health", "heart rate", "heartrate", "spo2", "oxygen"}
)

// Resolver extracts department/employee entities and the query intent from
// raw text. Matching is substring containment over the lowercased query;
// precedence is department, then employee ID, then employee name, with a
// later employee match overriding the query type.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve scans query against the snapshot's department names, employee IDs
// and employee names. A nil snapshot yields an empty descriptor with the
// default intent; intent detection itself needs no data and always runs.
func (r *Resolver) Resolve(query string, snap *store.Snapshot) Descriptor {
	desc := Descriptor{
		QueryType: models.QueryTypeNone,
		Intent:    detectIntent(query),
	}

	if snap == nil {
		return desc
	}

	lowered := strings.ToLower(query)

	// Department names: first match in sorted order wins.
	for _, dept := range snap.Departments() {
		if strings.Contains(lowered, strings.ToLower(dept)) {
			desc.Department = dept
			desc.QueryType = models.QueryTypeDepartment
			break
		}
	}

	// Employee ID pattern EMPxxx. The match is taken even when no such record
	// exists so synthesis can answer "couldn't find" instead of falling back
	// to the help text. Overrides a department query type.
	if m := empIDPattern.FindString(lowered); m != "" {
		desc.EmployeeID = strings.ToUpper(m)
		desc.QueryType = models.QueryTypeEmployee
	}

	// Employee full names: first match in store order wins. Overrides the ID
	// match, mirroring the evaluation order the reports depend on. When one
	// name contains another ("Employee 1" inside "Employee 10") the earlier
	// record in store order is the one matched.
	for _, emp := range snap.Employees() {
		if strings.Contains(lowered, strings.ToLower(emp.Name)) {
			desc.EmployeeName = emp.Name
			desc.EmployeeID = emp.EmployeeID
			desc.QueryType = models.QueryTypeEmployee
			break
		}
	}

	return desc
}

// detectIntent classifies the query by keyword presence. Mood keywords are
// checked before health keywords; the first set with a hit wins.
func detectIntent(query string) models.Intent {
	lowered := strings.ToLower(query)

	for _, kw := range moodKeywords {
		if strings.Contains(lowered, kw) {
			return models.IntentMood
		}
	}
	for _, kw := range healthKeywords {
		if strings.Contains(lowered, kw) {
			return models.IntentHealth
		}
	}
	return models.IntentGeneral
}
