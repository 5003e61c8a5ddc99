package server

import (
	"fmt"
	"strings"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// evaluateRequest is the POST /v1/evaluate request body. Exactly one of
// Transcript and Messages must be set; Messages wins when both are.
type evaluateRequest struct {
	// PackID selects the policy pack.
	PackID string `json:"pack_id"`

	// Transcript is a plain-text transcript ("User: ...\nAssistant: ...").
	Transcript string `json:"transcript,omitempty"`

	// Messages is the structured message list.
	Messages []messageBody `json:"messages,omitempty"`
}

// messageBody is one structured message in an evaluate request.
type messageBody struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// conversationFrom builds the conversation from the request body. Roles
// are lowercased before validation; anything outside the role enum is
// rejected rather than passed through, because detectors filter on exact
// role values and an unknown role would silently evade every rule.
func (req *evaluateRequest) conversationFrom() (*conversation.Conversation, error) {
	if len(req.Messages) > 0 {
		messages := make([]conversation.Message, 0, len(req.Messages))
		for i, m := range req.Messages {
			role := conversation.Role(strings.ToLower(strings.TrimSpace(m.Role)))
			if !role.Valid() {
				return nil, &compliance.InvalidConversationError{
					Reason: fmt.Sprintf("unknown role %q in messages[%d]", m.Role, i),
				}
			}
			messages = append(messages, conversation.Message{
				Role:    role,
				Content: m.Content,
			})
		}
		return conversation.New(messages), nil
	}
	return conversation.ParseTranscript(req.Transcript)
}

// auditRecordResponse wraps one stored audit record together with its
// integrity verification outcome.
type auditRecordResponse struct {
	Record   any    `json:"record"`
	Verified bool   `json:"verified"`
	Problem  string `json:"problem,omitempty"`
}

// errorBody is the uniform error response envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail carries the machine-readable code and the human message.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
