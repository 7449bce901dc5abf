package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

type openAIResponsesAPI interface {
	New(ctx context.Context, body responses.ResponseNewParams, opts ...option.RequestOption) (*responses.Response, error)
}

// OpenAILLMClient implements LLMClient with the OpenAI Responses API.
type OpenAILLMClient struct {
	api openAIResponsesAPI
}

// NewOpenAILLMClient creates a client authenticated with apiKey.
func NewOpenAILLMClient(apiKey string) (*OpenAILLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("conversation: openai api key is required")
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAILLMClient{api: &client.Responses}, nil
}

func newOpenAILLMClientWithAPI(api openAIResponsesAPI) *OpenAILLMClient {
	if api == nil {
		panic("conversation: openai responses api cannot be nil")
	}
	return &OpenAILLMClient{api: api}
}

func (c *OpenAILLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return LLMResponse{}, errors.New("conversation: openai model is required")
	}

	items := make([]responses.ResponseInputItemUnionParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		var role responses.EasyInputMessageRole
		switch msg.Role {
		case RoleSystem:
			role = responses.EasyInputMessageRoleSystem
		case RoleUser:
			role = responses.EasyInputMessageRoleUser
		case RoleAssistant:
			role = responses.EasyInputMessageRoleAssistant
		default:
			return LLMResponse{}, fmt.Errorf("conversation: unsupported role %q", msg.Role)
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(content, role))
	}
	if len(items) == 0 {
		return LLMResponse{}, errors.New("conversation: openai requires at least one message")
	}

	params := responses.ResponseNewParams{
		Model: req.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
	}
	if instructions := joinSystem(req.System); instructions != "" {
		params.Instructions = openai.String(instructions)
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature >= 0 {
		params.Temperature = openai.Float(float64(req.Temperature))
	}

	resp, err := c.api.New(ctx, params)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("conversation: openai completion failed: %w", err)
	}
	if resp == nil {
		return LLMResponse{}, errors.New("conversation: openai returned no response")
	}

	return LLMResponse{
		Text:       strings.TrimSpace(resp.OutputText()),
		StopReason: string(resp.Status),
		Usage: TokenUsage{
			InputTokens:  int32(resp.Usage.InputTokens),
			OutputTokens: int32(resp.Usage.OutputTokens),
			TotalTokens:  int32(resp.Usage.TotalTokens),
		},
	}, nil
}

func joinSystem(blocks []string) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b = strings.TrimSpace(b); b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, "\n\n")
}
