package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles understood by model gateways.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// SystemTurn builds a system-role turn.
func SystemTurn(content string) Turn { return Turn{Role: RoleSystem, Content: content} }

// UserTurn builds a user-role turn.
func UserTurn(content string) Turn { return Turn{Role: RoleUser, Content: content} }

// AssistantTurn builds an assistant-role turn.
func AssistantTurn(content string) Turn { return Turn{Role: RoleAssistant, Content: content} }

// Conversation is the ordered message history fed to the model gateway.
// It is a value type: Append returns a new snapshot and never mutates the
// receiver, so each retry attempt holds an independent history and
// intermediate states can be inspected without a live call.
type Conversation struct {
	turns []Turn
}

// NewConversation seeds a conversation with the given turns.
func NewConversation(turns ...Turn) Conversation {
	c := Conversation{turns: make([]Turn, len(turns))}
	copy(c.turns, turns)
	return c
}

// Append returns a new conversation extended by the given turns.
// The receiver is left unchanged.
func (c Conversation) Append(turns ...Turn) Conversation {
	extended := make([]Turn, 0, len(c.turns)+len(turns))
	extended = append(extended, c.turns...)
	extended = append(extended, turns...)
	return Conversation{turns: extended}
}

// Turns returns a copy of the message history in order.
func (c Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c Conversation) Len() int { return len(c.turns) }
