package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestOpenAIChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{
			"model": "gpt-4o-mini",
			"choices": [{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
		}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("test-key", WithOpenAIBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	resp, err := p.Chat(context.Background(), []Message{UserMessage("hi")}, nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "hello" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 12 {
		t.Errorf("TotalTokens = %d", resp.Usage.TotalTokens)
	}
	if resp.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q", resp.Provider)
	}
}

func TestOpenAIChatErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	p, _ := NewOpenAIProvider("test-key", WithOpenAIBaseURL(srv.URL))
	_, err := p.Chat(context.Background(), []Message{UserMessage("hi")}, nil)
	if !errors.Is(err, ErrRateLimit) {
		t.Errorf("err = %v, want ErrRateLimit", err)
	}
}

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(""); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestAnthropicChatLiftsSystemPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		var req anthropicRequest
		if err := jsonDecode(r, &req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.System != "be brief" {
			t.Errorf("System = %q, want lifted system prompt", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("Messages = %+v", req.Messages)
		}
		w.Write([]byte(`{
			"model": "claude-sonnet-4-20250514",
			"content": [{"type":"text","text":"ok"}],
			"usage": {"input_tokens": 5, "output_tokens": 1}
		}`))
	}))
	defer srv.Close()

	p, err := NewAnthropicProvider("test-key", WithAnthropicBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	resp, err := p.Chat(context.Background(),
		[]Message{SystemMessage("be brief"), UserMessage("hi")}, nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestOllamaChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"model": "qwen2.5:7b",
			"message": {"role":"assistant","content":"local hello"},
			"done": true,
			"prompt_eval_count": 8,
			"eval_count": 3
		}`))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL)
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}
	resp, err := p.Chat(context.Background(), []Message{UserMessage("hi")}, nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "local hello" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 11 {
		t.Errorf("TotalTokens = %d", resp.Usage.TotalTokens)
	}
}

type stubLLM struct {
	name string
	resp *Response
	err  error
}

func (s *stubLLM) Name() string { return s.name }

func (s *stubLLM) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	return s.resp, s.err
}

func (s *stubLLM) Ping(ctx context.Context) error { return s.err }

func TestClientFallsBack(t *testing.T) {
	c := NewClient([]Provider{
		&stubLLM{name: "primary", err: errors.New("down")},
		&stubLLM{name: "backup", resp: &Response{Content: "from backup"}},
	}, ChatOptions{}, zerolog.Nop())

	resp, err := c.Chat(context.Background(), []Message{UserMessage("hi")})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "from backup" {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestClientAllProvidersFail(t *testing.T) {
	boom := errors.New("boom")
	c := NewClient([]Provider{
		&stubLLM{name: "a", err: boom},
		&stubLLM{name: "b", err: boom},
	}, ChatOptions{}, zerolog.Nop())

	_, err := c.Chat(context.Background(), []Message{UserMessage("hi")})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want joined boom", err)
	}
}

func TestClientNoProviders(t *testing.T) {
	c := NewClient(nil, ChatOptions{}, zerolog.Nop())
	if c.Available() {
		t.Error("Available() = true for empty client")
	}
	if _, err := c.Chat(context.Background(), nil); !errors.Is(err, ErrNoProviders) {
		t.Errorf("err = %v, want ErrNoProviders", err)
	}
}

func TestNewFromSettingsOrdersPrimaryFirst(t *testing.T) {
	c := NewFromSettings(ClientConfig{
		Primary:   ProviderOllama,
		OpenAIKey: "key",
		OllamaURL: "http://localhost:11434",
	}, zerolog.Nop())

	if len(c.providers) != 2 {
		t.Fatalf("got %d providers, want 2", len(c.providers))
	}
	if c.providers[0].Name() != ProviderOllama {
		t.Errorf("first provider = %q, want primary ollama", c.providers[0].Name())
	}
}

func jsonDecode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
