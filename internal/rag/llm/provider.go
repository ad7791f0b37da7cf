package llm

import (
	"context"
	"errors"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Provider is the opaque model call: an ordered conversation in, the fully
// assembled reply text out. Backends may stream internally but callers only
// ever see the complete text.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// LLMError marks credential, transport and non-success provider failures so
// the engines can classify them without knowing the backend.
type LLMError struct {
	Provider string
	Err      error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

func IsLLMError(err error) bool {
	var le *LLMError
	return errors.As(err, &le)
}
