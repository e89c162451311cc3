// internal/models/chat.go
package models

// QueryType classifies which entity a chat query targets.
type QueryType string

const (
	QueryTypeNone       QueryType = "none"
	QueryTypeDepartment QueryType = "department"
	QueryTypeEmployee   QueryType = "employee"
)

// Intent classifies what kind of information a chat query asks for.
type Intent string

const (
	IntentGeneral Intent = "general"
	IntentMood    Intent = "mood"
	IntentHealth  Intent = "health"
)

// Turn is one entry in a conversation history. Either side may be empty:
// the user utterance and the bot reply are recorded as separate entries.
type Turn struct {
	User string `json:"user,omitempty"`
	Bot  string `json:"bot,omitempty"`
}
