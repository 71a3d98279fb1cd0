package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/kittclouds/storyweave/pkg/provider"
)

// templateProvider is a deterministic stand-in for a language-model
// narrator: it renders the assembled context and the player's line into
// a fixed template rather than calling out to a model, so the demo runs
// with no API key and no network access. A real deployment swaps this
// for a provider.Provider backed by whatever LM client the caller
// wants; the pipeline never knows the difference.
type templateProvider struct{}

// Complete implements provider.Provider.
func (templateProvider) Complete(_ context.Context, req provider.Request) (provider.Result, error) {
	var player string
	for _, m := range req.Messages {
		if m.Role == "user" {
			player = m.Content
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[narrator] %s\n", firstLine(req.SystemPrompt))
	fmt.Fprintf(&b, "The scene answers: %s\n", strings.TrimSpace(player))

	text := b.String()
	return provider.Result{Text: text, TokensUsed: uint32(len(req.SystemPrompt)+len(player)) / 4}, nil
}

// firstLine returns s's first non-empty line, used to quote just the
// preamble's opening line rather than the whole assembled context.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
