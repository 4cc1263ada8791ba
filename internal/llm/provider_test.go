package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeQuestion)
	if p := PurposeFrom(ctx); p != "quiz-question" {
		t.Fatalf("expected 'quiz-question', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openrouter without key",
			cfg:     Config{Provider: "openrouter"},
			wantErr: true,
		},
		{
			name:    "gemini with key",
			cfg:     Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMockProvider_StripsFence(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage("```json\n{\"a\":1}\n```")})
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` {
		t.Fatalf("expected fence removed, got %s", resp.Content)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MATHQUIZ_LLM_PROVIDER", "gemini")
	t.Setenv("MATHQUIZ_GEMINI_API_KEY", "g-key")
	t.Setenv("MATHQUIZ_GEMINI_MODEL", "gemini-pro")

	cfg := ApplyEnv(DefaultConfig())
	if cfg.Provider != "gemini" {
		t.Fatalf("provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("gemini config not applied: %+v", cfg.Gemini)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("openai default model changed: %q", cfg.OpenAI.Model)
	}
}

func TestDiscover(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	t.Run("nothing found", func(t *testing.T) {
		if _, ok := Discover(DefaultConfig()); ok {
			t.Fatal("expected no provider without keys")
		}
	})

	t.Run("configured provider key already set", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OpenAI.APIKey = "sk-set"
		got, ok := Discover(cfg)
		if !ok || got.Provider != "openai" || got.OpenAI.APIKey != "sk-set" {
			t.Fatalf("unexpected discovery result: ok=%v cfg=%+v", ok, got)
		}
	})

	t.Run("falls back to first vendor key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "g-vendor")
		got, ok := Discover(DefaultConfig())
		if !ok {
			t.Fatal("expected a provider")
		}
		if got.Provider != "gemini" || got.Gemini.APIKey != "g-vendor" {
			t.Fatalf("unexpected discovery result: %+v", got)
		}
	})

	t.Run("prefers configured provider vendor key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-vendor")
		t.Setenv("ANTHROPIC_API_KEY", "ak-vendor")
		cfg := DefaultConfig()
		cfg.Provider = "anthropic"
		got, ok := Discover(cfg)
		if !ok || got.Provider != "anthropic" || got.Anthropic.APIKey != "ak-vendor" {
			t.Fatalf("unexpected discovery result: ok=%v cfg=%+v", ok, got)
		}
	})
}

func TestSetModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "anthropic"
	cfg.SetModel("claude-sonnet")
	if cfg.Anthropic.Model != "claude-sonnet" {
		t.Fatalf("anthropic model = %q", cfg.Anthropic.Model)
	}
	cfg.SetModel("")
	if cfg.Anthropic.Model != "claude-sonnet" {
		t.Fatalf("empty model should be a no-op, got %q", cfg.Anthropic.Model)
	}
}

func TestWithTimeout_SetsDeadline(t *testing.T) {
	rec := &deadlineRecorder{}
	p := WithTimeout(rec, time.Minute)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.hadDeadline {
		t.Fatal("expected a deadline on the inner context")
	}
	if p.ModelID() != "recorder" {
		t.Fatalf("ModelID not delegated: %q", p.ModelID())
	}
}

type deadlineRecorder struct {
	hadDeadline bool
}

func (d *deadlineRecorder) Generate(ctx context.Context, _ Request) (*Response, error) {
	_, d.hadDeadline = ctx.Deadline()
	return &Response{Content: json.RawMessage(`{}`)}, nil
}

func (d *deadlineRecorder) ModelID() string { return "recorder" }

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock provider, got %q", p.ModelID())
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}
