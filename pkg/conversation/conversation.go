package conversation

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is a message authored by the end user.
	RoleUser Role = "user"

	// RoleAssistant is a message authored by the AI agent under evaluation.
	RoleAssistant Role = "assistant"

	// RoleSystem is an operator-supplied instruction message.
	RoleSystem Role = "system"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Message is a single dialogue turn. Messages are immutable once created.
type Message struct {
	// Role is the message author (user, assistant, system).
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Timestamp is when the message was produced (optional; zero if unknown).
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Conversation is an ordered sequence of messages. Insertion order is
// significant: it determines turn-taking and the "assistant turn after"
// lookups used by crisis-escalation rules. A Conversation is created once
// per evaluation request and never mutated.
type Conversation struct {
	messages []Message
}

// New creates a Conversation from the given messages. The slice is copied
// so later mutation by the caller cannot affect the conversation.
func New(messages []Message) *Conversation {
	copied := make([]Message, len(messages))
	copy(copied, messages)
	return &Conversation{messages: copied}
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Message returns the message at index i.
func (c *Conversation) Message(i int) Message {
	return c.messages[i]
}

// Messages returns a copy of the message sequence.
func (c *Conversation) Messages() []Message {
	copied := make([]Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// Empty reports whether the conversation has no messages with non-blank
// content.
func (c *Conversation) Empty() bool {
	for _, m := range c.messages {
		if strings.TrimSpace(m.Content) != "" {
			return false
		}
	}
	return true
}

// Transcript renders the conversation back into the canonical plain-text
// form ("User: ...\nAssistant: ..."). This form is what gets hashed for
// tamper evidence and sent to the external risk analyzer.
func (c *Conversation) Transcript() string {
	var b strings.Builder
	for i, m := range c.messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(roleLabel(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// ID returns a stable identifier for the conversation, derived from the
// canonical transcript. Identical transcripts share an ID, which is what
// audit lookup by conversation relies on.
func (c *Conversation) ID() string {
	sum := sha256.Sum256([]byte(c.Transcript()))
	return hex.EncodeToString(sum[:16])
}

func roleLabel(r Role) string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}
