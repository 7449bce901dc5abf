package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/mindmate-ai/internal/crisis"
	"github.com/wolfman30/mindmate-ai/internal/observability/metrics"
	"github.com/wolfman30/mindmate-ai/internal/sentiment"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

var pipelineTracer = otel.Tracer("mindmate.internal.conversation")

const (
	defaultLLMTimeout     = 30 * time.Second
	defaultReplyMaxTokens = 600
	mediaMaxTokens        = 200
	initialMaxTokens      = 120

	compositionFailurePrefix = "죄송합니다. 오류가 발생했습니다: "
)

// Outcomes reported on the turns counter.
const (
	outcomeOK     = "ok"
	outcomeCrisis = "crisis"
	outcomeFailed = "failed"
)

type route string

const (
	routeContinue route = "continue"
	routeCrisis   route = "crisis"
)

// routeFor is the only decision point after ComposeReply.
func routeFor(level crisis.RiskLevel) route {
	if level.IsCrisis() {
		return routeCrisis
	}
	return routeContinue
}

// PipelineConfig tunes completion calls. Zero values pick defaults.
type PipelineConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	Timeout     time.Duration
	Metrics     *metrics.PipelineMetrics
	Logger      *logging.Logger
}

// Pipeline runs one conversation turn through the fixed state machine.
type Pipeline struct {
	client      LLMClient
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	metrics     *metrics.PipelineMetrics
	logger      *logging.Logger
}

func NewPipeline(client LLMClient, cfg PipelineConfig) *Pipeline {
	if client == nil {
		panic("conversation: llm client cannot be nil")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLLMTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultReplyMaxTokens
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Pipeline{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// Turn is the input of a single Run.
type Turn struct {
	UserID  string
	Message string
	History []Message
}

// Run drives the turn from Start to Done. It never returns an error: a failed
// composition ends in Done with an apology reply and State.Err set, still
// followed by CrisisAugment for high and critical turns.
func (p *Pipeline) Run(ctx context.Context, turn Turn) *State {
	ctx, span := pipelineTracer.Start(ctx, "conversation.pipeline")
	defer span.End()

	logger := p.logger.WithUser(turn.UserID)
	state := newState(turn.Message, turn.History)

	if err := p.classify(ctx, state); err != nil {
		state.Err = err
		state.Reply = compositionFailurePrefix + err.Error()
		p.finish(state, outcomeFailed, logger)
		return state
	}
	span.SetAttributes(
		attribute.String("mindmate.risk_level", string(state.RiskLevel())),
		attribute.Float64("mindmate.sentiment_score", *state.SentimentScore()),
	)

	outcome := outcomeOK
	if !p.composeReply(ctx, state, logger) {
		span.RecordError(state.Err)
		outcome = outcomeFailed
	}

	// The safety block is appended even to the apology reply.
	if routeFor(state.RiskLevel()) == routeCrisis {
		state.enter(StepCrisisAugment)
		if block := crisis.SafetyBlock(state.RiskLevel()); block != "" {
			state.Reply = state.Reply + "\n\n" + block
		}
		if outcome == outcomeOK {
			outcome = outcomeCrisis
		}
	}
	p.finish(state, outcome, logger)
	return state
}

// classify runs both pure classifiers concurrently and records each result once.
func (p *Pipeline) classify(ctx context.Context, state *State) error {
	_, span := pipelineTracer.Start(ctx, "conversation.classify")
	defer span.End()

	var (
		wg     sync.WaitGroup
		result crisis.Result
		score  float64
		label  sentiment.Label
	)
	message := state.UserMessage()
	wg.Add(2)
	go func() {
		defer wg.Done()
		result = crisis.Detect(message)
	}()
	go func() {
		defer wg.Done()
		score, label = sentiment.Analyze(message)
	}()
	wg.Wait()

	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("mindmate.crisis_phrase", result.MatchedPhrase),
			attribute.Int("mindmate.negative_matches", result.NegativeMatches),
			attribute.String("mindmate.sentiment_label", string(label)),
		)
	}

	state.enter(StepClassifyCrisis)
	if err := state.setRisk(result.Level); err != nil {
		return err
	}
	state.enter(StepScoreSentiment)
	return state.setSentiment(score, label)
}

type mediaResult struct {
	block string
	err   error
}

// composeReply fills state.Reply. It reports false on composition failure.
func (p *Pipeline) composeReply(ctx context.Context, state *State, logger *logging.Logger) bool {
	state.enter(StepComposeReply)

	score := *state.SentimentScore()
	var mediaCh chan mediaResult
	mediaCtx, cancelMedia := context.WithCancel(ctx)
	defer cancelMedia()
	if shouldSuggestMedia(state.UserMessage(), score) {
		mediaCh = make(chan mediaResult, 1)
		go func() {
			block, err := p.complete(mediaCtx, "media", LLMRequest{
				Model:       p.model,
				System:      []string{mediaPrompt},
				Messages:    []Message{{Role: RoleUser, Content: mediaUserPrompt(state.UserMessage(), score)}},
				MaxTokens:   mediaMaxTokens,
				Temperature: p.temperature,
			}, logger)
			mediaCh <- mediaResult{block: block, err: err}
		}()
	}

	messages := make([]Message, 0, len(state.History())+1)
	messages = append(messages, state.History()...)
	messages = append(messages, Message{Role: RoleUser, Content: state.UserMessage()})

	reply, err := p.complete(ctx, "reply", LLMRequest{
		Model:       p.model,
		System:      composeSystemPrompts(state.IsCrisis()),
		Messages:    messages,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}, logger)
	if err != nil {
		cancelMedia()
		state.Err = err
		state.Reply = compositionFailurePrefix + err.Error()
		logger.Warn("reply composition failed", "error", err)
		return false
	}
	state.Reply = reply

	if mediaCh != nil {
		res := <-mediaCh
		switch {
		case res.err != nil:
			logger.Warn("media suggestion failed", "error", res.err)
		case strings.TrimSpace(res.block) != "":
			state.Reply = state.Reply + "\n\n" + strings.TrimSpace(res.block)
			state.MediaSuggested = true
		}
	}
	return true
}

func (p *Pipeline) finish(state *State, outcome string, logger *logging.Logger) {
	state.enter(StepDone)
	p.metrics.ObserveTurn(string(state.RiskLevel()), outcome)
	logger.Info("conversation turn finished",
		"risk_level", state.RiskLevel(),
		"is_crisis", state.IsCrisis(),
		"outcome", outcome,
		"media_suggested", state.MediaSuggested,
	)
}

// complete performs one bounded collaborator call. purpose labels metrics and spans.
func (p *Pipeline) complete(ctx context.Context, purpose string, req LLMRequest, logger *logging.Logger) (string, error) {
	ctx, span := pipelineTracer.Start(ctx, "conversation.llm."+purpose)
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.Complete(callCtx, req)
	latency := time.Since(start)
	p.metrics.ObserveLLMLatency(purpose, err != nil, latency.Seconds())
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Float64("mindmate.llm.latency_ms", float64(latency.Milliseconds())),
			attribute.String("mindmate.llm.model", req.Model),
			attribute.Int("mindmate.llm.input_tokens", int(resp.Usage.InputTokens)),
			attribute.Int("mindmate.llm.output_tokens", int(resp.Usage.OutputTokens)),
		)
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("conversation: %s completion failed: %w", purpose, err)
	}

	logger.Info("llm completion finished",
		"purpose", purpose,
		"latency_ms", latency.Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason,
	)
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		err := errors.New("conversation: llm returned empty response")
		span.RecordError(err)
		return "", err
	}
	return text, nil
}
