package conversation

import (
	"errors"

	"github.com/wolfman30/mindmate-ai/internal/crisis"
	"github.com/wolfman30/mindmate-ai/internal/sentiment"
)

// Step names a state of the per-turn pipeline.
type Step string

const (
	StepStart          Step = "start"
	StepClassifyCrisis Step = "classify_crisis"
	StepScoreSentiment Step = "score_sentiment"
	StepComposeReply   Step = "compose_reply"
	StepCrisisAugment  Step = "crisis_augment"
	StepDone           Step = "done"
)

// MaxHistoryMessages bounds the history forwarded to the completion backend.
const MaxHistoryMessages = 10

var (
	errRiskAlreadySet      = errors.New("conversation: risk level already set")
	errSentimentAlreadySet = errors.New("conversation: sentiment already set")
)

// State is the per-turn record. It is owned by a single Pipeline.Run call.
type State struct {
	userMessage string
	history     []Message

	riskLevel      crisis.RiskLevel
	sentimentScore *float64
	sentimentLabel sentiment.Label

	Reply          string
	Step           Step
	Trace          []Step
	Err            error
	MediaSuggested bool
}

func newState(message string, history []Message) *State {
	s := &State{
		userMessage: message,
		history:     boundHistory(history),
	}
	s.enter(StepStart)
	return s
}

func (s *State) UserMessage() string { return s.userMessage }

// History returns the bounded history; callers must not modify it.
func (s *State) History() []Message { return s.history }

func (s *State) RiskLevel() crisis.RiskLevel { return s.riskLevel }

// SentimentScore returns nil until the sentiment stage has run.
func (s *State) SentimentScore() *float64 { return s.sentimentScore }

func (s *State) SentimentLabel() sentiment.Label { return s.sentimentLabel }

// IsCrisis derives the crisis flag from the risk level.
func (s *State) IsCrisis() bool { return s.riskLevel.IsCrisis() }

func (s *State) setRisk(level crisis.RiskLevel) error {
	if s.riskLevel != crisis.RiskUnset {
		return errRiskAlreadySet
	}
	s.riskLevel = level
	return nil
}

func (s *State) setSentiment(score float64, label sentiment.Label) error {
	if s.sentimentScore != nil {
		return errSentimentAlreadySet
	}
	s.sentimentScore = &score
	s.sentimentLabel = label
	return nil
}

func (s *State) enter(step Step) {
	s.Step = step
	s.Trace = append(s.Trace, step)
}

func boundHistory(history []Message) []Message {
	if len(history) > MaxHistoryMessages {
		history = history[len(history)-MaxHistoryMessages:]
	}
	out := make([]Message, len(history))
	copy(out, history)
	return out
}
