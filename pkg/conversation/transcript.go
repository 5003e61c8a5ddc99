package conversation

import (
	"fmt"
	"strings"
)

// rolePrefixes maps the transcript line prefixes (case-insensitive) to roles.
// Both English and German labels are accepted since operator exports use
// either, depending on locale.
var rolePrefixes = map[string]Role{
	"user":      RoleUser,
	"nutzer":    RoleUser,
	"assistant": RoleAssistant,
	"ai":        RoleAssistant,
	"bot":       RoleAssistant,
	"system":    RoleSystem,
}

// ParseTranscript parses a plain-text transcript of the form
//
//	User: I had a great day!
//	Assistant: Glad to hear it.
//
// into a Conversation. Lines without a recognized "Role:" prefix are treated
// as continuations of the previous message. A transcript with no recognized
// role prefix at all becomes a single user message, which matches how
// free-form snippets (e.g. a job posting under an HR pack) are evaluated.
func ParseTranscript(transcript string) (*Conversation, error) {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	var messages []Message
	for _, line := range strings.Split(trimmed, "\n") {
		role, content, ok := splitRoleLine(line)
		if !ok {
			// Continuation of the previous message, or leading free text.
			if len(messages) == 0 {
				messages = append(messages, Message{Role: RoleUser, Content: strings.TrimSpace(line)})
				continue
			}
			last := &messages[len(messages)-1]
			last.Content = strings.TrimSpace(last.Content + "\n" + strings.TrimSpace(line))
			continue
		}
		messages = append(messages, Message{Role: role, Content: content})
	}

	conv := New(messages)
	if conv.Empty() {
		return nil, fmt.Errorf("transcript contains no message content")
	}
	return conv, nil
}

// splitRoleLine splits "User: text" into (RoleUser, "text", true).
func splitRoleLine(line string) (Role, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	label := strings.ToLower(strings.TrimSpace(line[:idx]))
	role, ok := rolePrefixes[label]
	if !ok {
		return "", "", false
	}
	return role, strings.TrimSpace(line[idx+1:]), true
}
