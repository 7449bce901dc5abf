package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/mindmate-ai/internal/config"
	"github.com/wolfman30/mindmate-ai/internal/conversation"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
)

// AWSConfigLoader defers AWS credential resolution until a provider needs it.
type AWSConfigLoader func(ctx context.Context) (aws.Config, error)

// BuildLLMClient wires the configured completion provider, pinned to its own
// model id, and wraps it with the optional fallback provider.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, loadAWS AWSConfigLoader, logger *logging.Logger) (conversation.LLMClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	primaryName := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if primaryName == "" {
		primaryName = ProviderOpenAI
	}
	primary, err := buildProvider(ctx, primaryName, cfg, loadAWS)
	if err != nil {
		return nil, err
	}
	logger.Info("llm provider configured", "provider", primaryName)

	fallbackName := strings.ToLower(strings.TrimSpace(cfg.LLMFallbackProvider))
	if fallbackName == "" || fallbackName == primaryName {
		return primary, nil
	}
	fallback, err := buildProvider(ctx, fallbackName, cfg, loadAWS)
	if err != nil {
		logger.Warn("fallback llm provider unavailable", "provider", fallbackName, "error", err)
		return primary, nil
	}
	logger.Info("llm fallback provider configured", "provider", fallbackName)
	return conversation.NewFallbackLLMClient(primary, fallback, logger), nil
}

func buildProvider(ctx context.Context, name string, cfg *appconfig.Config, loadAWS AWSConfigLoader) (conversation.LLMClient, error) {
	switch name {
	case ProviderOpenAI:
		client, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: openai: %w", err)
		}
		return conversation.PinModel(client, cfg.LLMModel), nil
	case ProviderBedrock:
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return nil, fmt.Errorf("bootstrap: bedrock: BEDROCK_MODEL_ID is required")
		}
		if loadAWS == nil {
			return nil, fmt.Errorf("bootstrap: bedrock: aws config loader is required")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		client := conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
		return conversation.PinModel(client, cfg.BedrockModelID), nil
	case ProviderGemini:
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: gemini: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown llm provider %q", name)
	}
}
