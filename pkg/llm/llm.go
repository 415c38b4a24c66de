// Package llm provides chat completion clients used for entity
// extraction and question answering.
package llm

import (
	"context"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    Role
	Content string
}

// Response is a chat completion result.
type Response struct {
	Content string
	Model   string
}

// Client is the interface for chat completion providers.
type Client interface {
	// Chat sends the messages and returns the model's reply.
	Chat(ctx context.Context, messages []Message) (*Response, error)

	// Close cleans up any resources.
	Close() error
}

// SystemMessage is a convenience constructor.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage is a convenience constructor.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
