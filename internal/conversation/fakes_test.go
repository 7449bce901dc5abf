package conversation

import (
	"context"
	"sync"
)

// stubLLM answers reply and media calls separately and records every request.
type stubLLM struct {
	mu    sync.Mutex
	calls []LLMRequest

	reply    func(ctx context.Context, req LLMRequest) (LLMResponse, error)
	media    func(ctx context.Context, req LLMRequest) (LLMResponse, error)
	question func(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

func (s *stubLLM) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	handler := s.reply
	switch {
	case isMediaRequest(req):
		handler = s.media
	case isInitialQuestionRequest(req):
		handler = s.question
	}
	if handler == nil {
		return LLMResponse{Text: "ok"}, nil
	}
	return handler(ctx, req)
}

func (s *stubLLM) requests() []LLMRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LLMRequest, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *stubLLM) replyRequests() []LLMRequest {
	var out []LLMRequest
	for _, req := range s.requests() {
		if !isMediaRequest(req) && !isInitialQuestionRequest(req) {
			out = append(out, req)
		}
	}
	return out
}

func (s *stubLLM) mediaRequests() []LLMRequest {
	var out []LLMRequest
	for _, req := range s.requests() {
		if isMediaRequest(req) {
			out = append(out, req)
		}
	}
	return out
}

func isMediaRequest(req LLMRequest) bool {
	return len(req.System) > 0 && req.System[0] == mediaPrompt
}

func isInitialQuestionRequest(req LLMRequest) bool {
	return len(req.System) > 0 && req.System[0] == initialQuestionSystemPrompt
}

func text(s string) func(context.Context, LLMRequest) (LLMResponse, error) {
	return func(context.Context, LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: s}, nil
	}
}

func fail(err error) func(context.Context, LLMRequest) (LLMResponse, error) {
	return func(context.Context, LLMRequest) (LLMResponse, error) {
		return LLMResponse{}, err
	}
}
