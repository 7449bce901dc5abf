package conversation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mindmate-ai/internal/crisis"
	"github.com/wolfman30/mindmate-ai/internal/observability/metrics"
	"github.com/wolfman30/mindmate-ai/internal/sentiment"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

func newTestPipeline(client LLMClient, cfg PipelineConfig) *Pipeline {
	if cfg.Model == "" {
		cfg.Model = "test-model"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("error")
	}
	return NewPipeline(client, cfg)
}

func TestRun_HighRiskAppendsSafetyBlock(t *testing.T) {
	llm := &stubLLM{reply: text("네 이야기 들려줘서 고마워"), media: text("")}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{UserID: "u1", Message: "너무 힘들어 그리고 외로워"})

	require.NoError(t, state.Err)
	assert.Equal(t, crisis.RiskHigh, state.RiskLevel())
	assert.True(t, state.IsCrisis())
	assert.Equal(t, "네 이야기 들려줘서 고마워\n\n"+crisis.SafetyBlock(crisis.RiskHigh), state.Reply)
	assert.Contains(t, state.Reply, "1393")
	assert.False(t, state.MediaSuggested)
	assert.Equal(t, StepDone, state.Step)
	assert.Equal(t, []Step{
		StepStart, StepClassifyCrisis, StepScoreSentiment, StepComposeReply, StepCrisisAugment, StepDone,
	}, state.Trace)

	replies := llm.replyRequests()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].System, crisisPrompt)
}

func TestRun_LowRiskReturnsPrimaryText(t *testing.T) {
	llm := &stubLLM{reply: text("다행이다, 편안한 하루였구나")}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{Message: "오늘 하루 괜찮았어"})

	require.NoError(t, state.Err)
	assert.Equal(t, crisis.RiskLow, state.RiskLevel())
	assert.False(t, state.IsCrisis())
	assert.Equal(t, "다행이다, 편안한 하루였구나", state.Reply)
	require.NotNil(t, state.SentimentScore())
	assert.Equal(t, 0.0, *state.SentimentScore())
	assert.Equal(t, sentiment.LabelNeutral, state.SentimentLabel())
	assert.Equal(t, []Step{
		StepStart, StepClassifyCrisis, StepScoreSentiment, StepComposeReply, StepDone,
	}, state.Trace)
	assert.Empty(t, llm.mediaRequests())

	replies := llm.replyRequests()
	require.Len(t, replies, 1)
	assert.Equal(t, []string{systemPrompt}, replies[0].System)
}

func TestRun_MediumRiskIsNotCrisis(t *testing.T) {
	llm := &stubLLM{reply: text("그랬구나"), media: fail(errors.New("unused"))}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{Message: "요즘 좀 외로워"})

	assert.Equal(t, crisis.RiskMedium, state.RiskLevel())
	assert.False(t, state.IsCrisis())
	assert.Equal(t, "그랬구나", state.Reply)
	assert.NotContains(t, state.Trace, StepCrisisAugment)
}

func TestRun_CompositionFailure(t *testing.T) {
	llm := &stubLLM{reply: fail(errors.New("upstream unavailable")), media: text("🎵 추천 콘텐츠")}
	reg := prometheus.NewRegistry()
	p := newTestPipeline(llm, PipelineConfig{Metrics: metrics.NewPipelineMetrics(reg)})

	state := p.Run(context.Background(), Turn{Message: "죽고 싶어"})

	require.Error(t, state.Err)
	assert.True(t, strings.HasPrefix(state.Reply, "죄송합니다. 오류가 발생했습니다: "))
	assert.Contains(t, state.Reply, "upstream unavailable")
	assert.Equal(t, StepDone, state.Step)
	assert.Equal(t, []Step{
		StepStart, StepClassifyCrisis, StepScoreSentiment, StepComposeReply, StepCrisisAugment, StepDone,
	}, state.Trace)
	assert.True(t, strings.HasSuffix(state.Reply, crisis.SafetyBlock(crisis.RiskCritical)))
	assert.Contains(t, state.Reply, "1393")
	assert.False(t, state.MediaSuggested)
	assert.Equal(t, crisis.RiskCritical, state.RiskLevel())

	expected := `
# HELP mindmate_pipeline_turns_total Conversation turns by risk level and outcome
# TYPE mindmate_pipeline_turns_total counter
mindmate_pipeline_turns_total{outcome="failed",risk_level="critical"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mindmate_pipeline_turns_total"))
}

func TestRun_CompositionFailureKeepsHotlinesForCriticalTurn(t *testing.T) {
	llm := &stubLLM{reply: fail(errors.New("upstream unavailable"))}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{UserID: "u1", Message: "자살 생각이 자주 들어"})

	require.Error(t, state.Err)
	assert.Equal(t, crisis.RiskCritical, state.RiskLevel())
	assert.Contains(t, state.Trace, StepCrisisAugment)
	assert.Equal(t, StepDone, state.Step)
	for _, hotline := range []string{"1393", "119", "1588-9191"} {
		assert.Contains(t, state.Reply, hotline)
	}
}

func TestRun_CompositionFailureLowRiskHasNoSafetyBlock(t *testing.T) {
	llm := &stubLLM{reply: fail(errors.New("upstream unavailable"))}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{Message: "오늘 하루 괜찮았어"})

	require.Error(t, state.Err)
	assert.NotContains(t, state.Trace, StepCrisisAugment)
	assert.NotContains(t, state.Reply, "1393")
}

func TestRun_CompositionFailureLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	llm := &stubLLM{reply: fail(errors.New("upstream unavailable")), media: fail(errors.New("media down"))}
	p := newTestPipeline(llm, PipelineConfig{Logger: logging.NewWithWriter(&buf, "warn")})

	p.Run(context.Background(), Turn{Message: "너무 우울해"})

	logs := buf.String()
	assert.Equal(t, 1, strings.Count(logs, "upstream unavailable"), logs)
	assert.LessOrEqual(t, strings.Count(logs, "media down"), 1, logs)

	buf.Reset()
	llm = &stubLLM{reply: text("그랬구나"), media: fail(errors.New("media down"))}
	p = newTestPipeline(llm, PipelineConfig{Logger: logging.NewWithWriter(&buf, "warn")})

	state := p.Run(context.Background(), Turn{Message: "너무 우울해"})

	require.NoError(t, state.Err)
	assert.Equal(t, 1, strings.Count(buf.String(), "media down"), buf.String())
}

func TestRun_EmptyReplyIsCompositionFailure(t *testing.T) {
	llm := &stubLLM{reply: text("   ")}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{Message: "오늘 하루 괜찮았어"})

	require.Error(t, state.Err)
	assert.Contains(t, state.Reply, "empty response")
	assert.Equal(t, StepDone, state.Step)
}

func TestRun_TimeoutIsCompositionFailure(t *testing.T) {
	llm := &stubLLM{reply: func(ctx context.Context, _ LLMRequest) (LLMResponse, error) {
		<-ctx.Done()
		return LLMResponse{}, ctx.Err()
	}}
	p := newTestPipeline(llm, PipelineConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	state := p.Run(context.Background(), Turn{Message: "오늘 하루 괜찮았어"})

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Error(t, state.Err)
	assert.ErrorIs(t, state.Err, context.DeadlineExceeded)
	assert.Equal(t, StepDone, state.Step)
}

func TestRun_MediaSuggestionAppended(t *testing.T) {
	llm := &stubLLM{reply: text("이런 곡은 어때?"), media: text("🎵 추천 콘텐츠\n- 노래: 봄날")}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{Message: "잔잔한 노래 추천해줘"})

	require.NoError(t, state.Err)
	assert.True(t, state.MediaSuggested)
	assert.Equal(t, "이런 곡은 어때?\n\n🎵 추천 콘텐츠\n- 노래: 봄날", state.Reply)
	require.Len(t, llm.mediaRequests(), 1)
}

func TestRun_MediaFailureIsSwallowed(t *testing.T) {
	llm := &stubLLM{reply: text("많이 지쳤구나"), media: fail(errors.New("rate limited"))}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{Message: "요즘 너무 지쳐"})

	require.NoError(t, state.Err)
	assert.False(t, state.MediaSuggested)
	assert.Equal(t, "많이 지쳤구나", state.Reply)
	require.Len(t, llm.mediaRequests(), 1)
}

func TestRun_CriticalWithMediaKeepsOrder(t *testing.T) {
	llm := &stubLLM{reply: text("오늘은 죽지 마"), media: text("🎵 추천 콘텐츠")}
	p := newTestPipeline(llm, PipelineConfig{})

	state := p.Run(context.Background(), Turn{Message: "너무 힘들어서 죽고 싶어"})

	assert.Equal(t, crisis.RiskCritical, state.RiskLevel())
	assert.Equal(t, "오늘은 죽지 마\n\n🎵 추천 콘텐츠\n\n"+crisis.SafetyBlock(crisis.RiskCritical), state.Reply)
}

func TestRun_HistoryIsBounded(t *testing.T) {
	llm := &stubLLM{reply: text("응")}
	p := newTestPipeline(llm, PipelineConfig{})

	history := make([]Message, 0, 15)
	for i := 0; i < 15; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		history = append(history, Message{Role: role, Content: fmt.Sprintf("m%d", i)})
	}

	state := p.Run(context.Background(), Turn{Message: "오늘 하루 괜찮았어", History: history})

	require.Len(t, state.History(), MaxHistoryMessages)
	replies := llm.replyRequests()
	require.Len(t, replies, 1)
	msgs := replies[0].Messages
	require.Len(t, msgs, MaxHistoryMessages+1)
	assert.Equal(t, "m5", msgs[0].Content)
	assert.Equal(t, Message{Role: RoleUser, Content: "오늘 하루 괜찮았어"}, msgs[len(msgs)-1])
}

func TestRun_PassesModelSettings(t *testing.T) {
	llm := &stubLLM{reply: text("응")}
	p := newTestPipeline(llm, PipelineConfig{Model: "gpt-4o-mini", Temperature: 0.7})

	p.Run(context.Background(), Turn{Message: "오늘 하루 괜찮았어"})

	replies := llm.replyRequests()
	require.Len(t, replies, 1)
	assert.Equal(t, "gpt-4o-mini", replies[0].Model)
	assert.InDelta(t, 0.7, replies[0].Temperature, 1e-6)
	assert.Equal(t, int32(defaultReplyMaxTokens), replies[0].MaxTokens)
}

func TestRouteFor(t *testing.T) {
	assert.Equal(t, routeCrisis, routeFor(crisis.RiskCritical))
	assert.Equal(t, routeCrisis, routeFor(crisis.RiskHigh))
	assert.Equal(t, routeContinue, routeFor(crisis.RiskMedium))
	assert.Equal(t, routeContinue, routeFor(crisis.RiskLow))
	assert.Equal(t, routeContinue, routeFor(crisis.RiskUnset))
}

func TestStateSettersAreSetOnce(t *testing.T) {
	s := newState("hi", nil)
	require.NoError(t, s.setRisk(crisis.RiskLow))
	assert.ErrorIs(t, s.setRisk(crisis.RiskHigh), errRiskAlreadySet)
	assert.Equal(t, crisis.RiskLow, s.RiskLevel())

	require.NoError(t, s.setSentiment(-0.5, sentiment.LabelNegative))
	assert.ErrorIs(t, s.setSentiment(0.5, sentiment.LabelPositive), errSentimentAlreadySet)
	assert.Equal(t, -0.5, *s.SentimentScore())
}

func TestShouldSuggestMedia(t *testing.T) {
	tests := []struct {
		name    string
		message string
		score   float64
		want    bool
	}{
		{name: "request keyword", message: "볼 만한 영화 있어?", score: 0, want: true},
		{name: "negative score", message: "그냥 그래", score: -0.5, want: true},
		{name: "boundary score", message: "그냥 그래", score: -0.3, want: false},
		{name: "emotion keyword", message: "불안해서 잠이 안 와", score: 0, want: true},
		{name: "nothing", message: "오늘 하루 괜찮았어", score: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldSuggestMedia(tt.message, tt.score))
		})
	}
}

func TestInitialQuestion(t *testing.T) {
	t.Run("uses backend text", func(t *testing.T) {
		llm := &stubLLM{question: text("요즘 잠은 잘 자고 있어?")}
		p := newTestPipeline(llm, PipelineConfig{})

		got := p.InitialQuestion(context.Background(), "u1", UserStats{AverageScore: "6.5", Topics: "수면"})

		assert.Equal(t, "요즘 잠은 잘 자고 있어?", got)
		reqs := llm.requests()
		require.Len(t, reqs, 1)
		assert.Contains(t, reqs[0].Messages[0].Content, "6.5")
		assert.Contains(t, reqs[0].Messages[0].Content, "수면")
		assert.Contains(t, reqs[0].Messages[0].Content, "안정적")
	})

	t.Run("falls back on error", func(t *testing.T) {
		llm := &stubLLM{question: fail(errors.New("boom"))}
		p := newTestPipeline(llm, PipelineConfig{})
		assert.Equal(t, FallbackInitialQuestion, p.InitialQuestion(context.Background(), "u1", UserStats{}))
	})

	t.Run("falls back on empty text", func(t *testing.T) {
		llm := &stubLLM{question: text("")}
		p := newTestPipeline(llm, PipelineConfig{})
		assert.Equal(t, FallbackInitialQuestion, p.InitialQuestion(context.Background(), "u1", UserStats{}))
	})
}

func TestNewPipelinePanicsOnNilClient(t *testing.T) {
	assert.Panics(t, func() { NewPipeline(nil, PipelineConfig{}) })
}
