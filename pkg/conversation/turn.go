// Package conversation holds the turn-based history model shared by the
// assistant pipeline and the language-model backends.
package conversation

// Role identifies the speaker of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged utterance. Immutable once appended to a history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"content"`
}

// System returns a system turn carrying the given prompt.
func System(prompt string) Turn {
	return Turn{Role: RoleSystem, Text: prompt}
}

// User returns a user turn.
func User(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// Assistant returns an assistant turn.
func Assistant(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}
