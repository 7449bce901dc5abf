package conversation

import (
	"context"
	"fmt"
	"strings"
)

// Role tags who authored a message. It is decided once at the API boundary.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a wire role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleSystem, RoleUser, RoleAssistant:
		return r, nil
	}
	return "", fmt.Errorf("conversation: unsupported role %q", s)
}

// Message is a single role-tagged history entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model    string
	System   []string
	Messages []Message
	// MaxTokens <= 0 leaves the provider default.
	MaxTokens int32
	// Temperature < 0 leaves the provider default.
	Temperature float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is the text-completion collaborator.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

type pinnedModelClient struct {
	client LLMClient
	model  string
}

// PinModel forces every request through client to use model. Each provider in
// a fallback chain names its models differently, so the id is bound per client.
func PinModel(client LLMClient, model string) LLMClient {
	if model == "" {
		return client
	}
	return &pinnedModelClient{client: client, model: model}
}

func (c *pinnedModelClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	req.Model = c.model
	return c.client.Complete(ctx, req)
}
