package models

// Message roles within a research assistant conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a research assistant conversation.
type Message struct {
	Role string `json:"role"` // user | assistant
	Text string `json:"text"`
}
