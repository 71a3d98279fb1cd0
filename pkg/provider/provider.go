// Package provider defines the language-model provider external
// interface (spec §6). Core code never embeds a concrete LM client; it
// depends only on this interface, grounded on the teacher's
// pkg/batch.Service interface-then-impl split and pkg/agent's
// Message/CompletionResult request/response shape, generalised to a
// single narration-rendering operation.
package provider

import "context"

// Message is one entry in the prompt message list handed to the
// provider.
type Message struct {
	Role    string
	Content string
}

// Request is everything a provider needs to render one narration turn.
type Request struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
}

// Result is the provider's generated text plus its own tokens-used
// estimate.
type Result struct {
	Text       string
	TokensUsed uint32
}

// Provider renders narration from an assembled context. Errors are
// reported as a single error value carrying a human-readable message;
// no streaming is required by the core.
type Provider interface {
	Complete(ctx context.Context, req Request) (Result, error)
}

// Noop returns a fixed, empty completion. Used where no provider is
// configured, e.g. in tests that exercise everything up to — but not
// including — narration rendering.
type Noop struct{}

func (Noop) Complete(context.Context, Request) (Result, error) {
	return Result{}, nil
}

// Logging wraps an underlying Provider and records every request's
// prompt length and the response's token usage via the supplied sink,
// without altering behavior. Grounded on the teacher's
// pkg/agent.service's request/response logging wrapper idiom.
type Logging struct {
	Inner Provider
	Sink  func(promptChars int, tokensUsed uint32, err error)
}

func (l Logging) Complete(ctx context.Context, req Request) (Result, error) {
	chars := len(req.SystemPrompt)
	for _, m := range req.Messages {
		chars += len(m.Content)
	}
	res, err := l.Inner.Complete(ctx, req)
	if l.Sink != nil {
		l.Sink(chars, res.TokensUsed, err)
	}
	return res, err
}
