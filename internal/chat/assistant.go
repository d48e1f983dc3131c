package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Bhupesh-S/SmartShop-AI/pkg/api"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/logger"
)

// FallbackMessage replaces the assistant's answer whenever the backend
// cannot be reached or returns nothing usable.
const FallbackMessage = "Sorry, I couldn't reach the shopping assistant. Please try again."

const defaultRevealInterval = 40 * time.Millisecond

type assistantClient interface {
	Chat(ctx context.Context, query string) (*api.ChatReply, error)
}

// Assistant is the chat widget core: one request/response per query. The
// word-by-word reveal is a client-side display affordance, not a streaming
// protocol.
type Assistant struct {
	client         assistantClient
	logg           *logger.Logger
	revealInterval time.Duration
}

// AssistantParams wires the assistant dependencies.
type AssistantParams struct {
	Client         assistantClient
	Logger         *logger.Logger
	RevealInterval time.Duration
}

// NewAssistant builds the chat assistant.
func NewAssistant(params AssistantParams) (*Assistant, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("assistant client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	interval := params.RevealInterval
	if interval <= 0 {
		interval = defaultRevealInterval
	}
	return &Assistant{
		client:         params.Client,
		logg:           params.Logger,
		revealInterval: interval,
	}, nil
}

// Ask sends one query and always returns displayable text: the reply's
// preferred rendering, or the fallback apology on any failure.
func (a *Assistant) Ask(ctx context.Context, query string) string {
	reply, err := a.client.Chat(ctx, query)
	if err != nil {
		a.logg.Warn(a.logg.WithOperation(ctx, "chat"), "assistant request failed")
		return FallbackMessage
	}
	text := strings.TrimSpace(reply.Text())
	if text == "" {
		return FallbackMessage
	}
	return text
}

// Reveal chunks text word-by-word on the returned channel, pacing chunks by
// the configured interval. The channel closes when the text is exhausted or
// ctx is cancelled.
func (a *Assistant) Reveal(ctx context.Context, text string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		ticker := time.NewTicker(a.revealInterval)
		defer ticker.Stop()
		for _, word := range strings.Fields(text) {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return
			case out <- word + " ":
			}
		}
	}()
	return out
}

// AskRevealed combines Ask and Reveal for callers that want the incremental
// display directly.
func (a *Assistant) AskRevealed(ctx context.Context, query string) <-chan string {
	return a.Reveal(ctx, a.Ask(ctx, query))
}
