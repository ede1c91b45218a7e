package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Client routes chat requests to an ordered list of providers, falling
// back down the list when one fails. The first provider is the primary.
type Client struct {
	providers []Provider
	opts      ChatOptions
	log       zerolog.Logger
}

// NewClient builds a routing client. Requests use opts unless the caller
// overrides them per call.
func NewClient(providers []Provider, opts ChatOptions, log zerolog.Logger) *Client {
	return &Client{
		providers: providers,
		opts:      opts,
		log:       log.With().Str("component", "llm").Logger(),
	}
}

// Available reports whether at least one provider is configured.
func (c *Client) Available() bool { return len(c.providers) > 0 }

// Chat tries each provider in order and returns the first success. All
// provider errors are joined when every one of them fails.
func (c *Client) Chat(ctx context.Context, messages []Message) (*Response, error) {
	if len(c.providers) == 0 {
		return nil, ErrNoProviders
	}

	var errs []error
	for i, p := range c.providers {
		opts := c.opts
		if i > 0 {
			// The configured model belongs to the primary; fallbacks use
			// their own defaults.
			opts.Model = ""
		}
		resp, err := p.Chat(ctx, messages, &opts)
		if err == nil {
			return resp, nil
		}
		c.log.Warn().Err(err).Str("provider", p.Name()).Msg("provider failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}

// Generate is the convenience wrapper used by the analysis agents: one
// system prompt, one user prompt, text out.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := c.Chat(ctx, []Message{SystemMessage(system), UserMessage(user)})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ClientConfig carries what NewFromSettings needs to assemble providers.
type ClientConfig struct {
	Primary      string
	OpenAIKey    string
	AnthropicKey string
	OllamaURL    string
	Model        string
	Temperature  float64
	MaxTokens    int
}

// NewFromSettings assembles a Client from configuration. Providers whose
// credentials are missing are skipped; the primary, when constructible,
// goes first and the rest become fallbacks. A client with no providers is
// still returned so callers can degrade gracefully.
func NewFromSettings(cfg ClientConfig, log zerolog.Logger) *Client {
	build := func(name string) Provider {
		switch name {
		case ProviderOpenAI:
			if cfg.OpenAIKey == "" {
				return nil
			}
			p, err := NewOpenAIProvider(cfg.OpenAIKey)
			if err != nil {
				return nil
			}
			return p
		case ProviderAnthropic:
			if cfg.AnthropicKey == "" {
				return nil
			}
			p, err := NewAnthropicProvider(cfg.AnthropicKey)
			if err != nil {
				return nil
			}
			return p
		case ProviderOllama:
			if cfg.OllamaURL == "" {
				return nil
			}
			p, err := NewOllamaProvider(cfg.OllamaURL)
			if err != nil {
				return nil
			}
			return p
		}
		return nil
	}

	order := []string{cfg.Primary}
	for _, name := range []string{ProviderOpenAI, ProviderAnthropic, ProviderOllama} {
		if name != cfg.Primary {
			order = append(order, name)
		}
	}

	var providers []Provider
	for _, name := range order {
		if p := build(name); p != nil {
			providers = append(providers, p)
		}
	}

	return NewClient(providers, ChatOptions{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, log)
}
