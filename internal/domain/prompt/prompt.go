// Package prompt builds the grounded system prompt handed to the chat model.
package prompt

import (
	"fmt"
	"strings"
)

// Role is the author of a chat message.
type Role string

// Chat roles understood by OpenAI-compatible APIs.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is supported.
func (r Role) IsValid() bool {
	return r == RoleSystem || r == RoleUser || r == RoleAssistant
}

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenStream yields a model reply piece by piece. Recv returns io.EOF when the reply is complete.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

const contextSeparator = "\n\n"

const template = `You are an assistant that answers questions using only the context below.

Guidelines:
- Answer only from the information in the context. Do not use outside knowledge.
- Be concise and to the point.
- If the context does not contain the information needed to answer, say so plainly.
- Do not include images in your answer.

----------------
START CONTEXT
%s
END CONTEXT
----------------

QUESTION: %s
----------------`

// Build wraps the retrieved texts (kept in the given order) and the question into the fixed template.
// An empty texts slice yields an empty context block; the instructions are unchanged.
func Build(texts []string, question string) string {
	return fmt.Sprintf(template, strings.Join(texts, contextSeparator), question)
}
