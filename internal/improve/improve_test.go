package improve

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mlorentedev/improver/internal/adapter"
	"github.com/mlorentedev/improver/internal/metrics"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"print('hi')", "Improve this code:\n\nprint('hi')"},
		{"  x = 1\n", "Improve this code:\n\n  x = 1\n"},
		{"a\n\nb", "Improve this code:\n\na\n\nb"},
	}
	for _, tt := range tests {
		if got := BuildPrompt(tt.source); got != tt.want {
			t.Errorf("BuildPrompt(%q): got %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestImproveMissingInput(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"empty credential", Request{Credential: "", Source: "print('hi')"}},
		{"empty source", Request{Credential: "sk-test", Source: ""}},
		{"both empty", Request{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &adapter.MockAdapter{}
			s := &Service{Adapter: m}

			res := s.Improve(context.Background(), tt.req)

			if len(m.Prompts()) != 0 {
				t.Errorf("adapter calls: got %d, want 0", len(m.Prompts()))
			}
			if res.OK() {
				t.Fatal("expected failure, got success")
			}
			if res.Failure.Kind != KindMissingInput {
				t.Errorf("kind: got %v, want %v", res.Failure.Kind, KindMissingInput)
			}
			if res.Message() != "Please enter both the code and the API key." {
				t.Errorf("message: got %q", res.Message())
			}
			if !errors.Is(res.Err(), ErrMissingInput) {
				t.Errorf("errors.Is(ErrMissingInput) = false for %v", res.Err())
			}
		})
	}
}

func TestImproveWhitespaceIsNotEmpty(t *testing.T) {
	m := &adapter.MockAdapter{Reply: "ok"}
	s := &Service{Adapter: m}

	res := s.Improve(context.Background(), Request{Credential: " ", Source: "\n"})
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	if len(m.Prompts()) != 1 {
		t.Errorf("adapter calls: got %d, want 1", len(m.Prompts()))
	}
}

func TestImproveSuccess(t *testing.T) {
	m := &adapter.MockAdapter{Reply: "print('hello')"}
	s := &Service{Adapter: m}

	res := s.Improve(context.Background(), Request{Credential: "sk-test", Source: "print('hi')"})

	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	prompts := m.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("adapter calls: got %d, want 1", len(prompts))
	}
	if prompts[0] != "Improve this code:\n\nprint('hi')" {
		t.Errorf("prompt: got %q", prompts[0])
	}
	if res.Text != "print('hello')" {
		t.Errorf("text: got %q, want %q", res.Text, "print('hello')")
	}
	if res.Message() != SuccessMessage {
		t.Errorf("message: got %q, want %q", res.Message(), SuccessMessage)
	}
	if res.Language() != "python" {
		t.Errorf("language: got %q, want %q", res.Language(), "python")
	}
	if res.Model != "mock" {
		t.Errorf("model: got %q, want %q", res.Model, "mock")
	}
	if res.Err() != nil {
		t.Errorf("Err: got %v, want nil", res.Err())
	}
}

func TestImproveGenerationFailure(t *testing.T) {
	m := &adapter.MockAdapter{Err: errors.New("rate limited")}
	s := &Service{Adapter: m}

	res := s.Improve(context.Background(), Request{Credential: "sk-test", Source: "x"})

	if res.OK() {
		t.Fatal("expected failure, got success")
	}
	if res.Failure.Kind != KindGeneration {
		t.Errorf("kind: got %v, want %v", res.Failure.Kind, KindGeneration)
	}
	if res.Message() != "❌ Error: rate limited" {
		t.Errorf("message: got %q, want %q", res.Message(), "❌ Error: rate limited")
	}
	if res.Text != "" {
		t.Errorf("text: got %q, want empty", res.Text)
	}
	if len(m.Prompts()) != 1 {
		t.Errorf("adapter calls: got %d, want 1 (no retry)", len(m.Prompts()))
	}
}

func TestImproveEmptyOpenAIReplyIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	svc := &Service{Adapter: &adapter.OpenAIAdapter{BaseURL: srv.URL + "/v1", Client: srv.Client()}}
	res := svc.Improve(context.Background(), Request{Credential: "sk-test", Source: "x = 1"})

	if res.OK() {
		t.Fatalf("empty reply reported as success: %q", res.Message())
	}
	if res.Failure.Kind != KindGeneration {
		t.Errorf("kind: got %v, want %v", res.Failure.Kind, KindGeneration)
	}
	if !strings.HasPrefix(res.Message(), ErrorPrefix) {
		t.Errorf("message: got %q, want prefix %q", res.Message(), ErrorPrefix)
	}
}

func TestImproveIsIndependentPerCall(t *testing.T) {
	m := &adapter.MockAdapter{Reply: "IMPROVED"}
	s := &Service{Adapter: m}
	req := Request{Credential: "sk-test", Source: "x = 1"}

	first := s.Improve(context.Background(), req)
	second := s.Improve(context.Background(), req)

	prompts := m.Prompts()
	if len(prompts) != 2 {
		t.Fatalf("adapter calls: got %d, want 2", len(prompts))
	}
	if prompts[0] != prompts[1] {
		t.Errorf("prompts differ: %q vs %q", prompts[0], prompts[1])
	}
	if first.Text != second.Text {
		t.Errorf("texts differ: %q vs %q", first.Text, second.Text)
	}
}

func TestImproveSourceTooLong(t *testing.T) {
	m := &adapter.MockAdapter{}
	s := &Service{Adapter: m, MaxSourceLength: 10}

	t.Run("over limit", func(t *testing.T) {
		res := s.Improve(context.Background(), Request{Credential: "k", Source: strings.Repeat("a", 11)})
		if res.OK() || res.Failure.Kind != KindInputTooLarge {
			t.Fatalf("expected input too large, got %+v", res)
		}
		if !strings.Contains(res.Message(), "too long") {
			t.Errorf("message: got %q, want to contain 'too long'", res.Message())
		}
		if len(m.Prompts()) != 0 {
			t.Errorf("adapter calls: got %d, want 0", len(m.Prompts()))
		}
	})

	t.Run("at limit", func(t *testing.T) {
		res := s.Improve(context.Background(), Request{Credential: "k", Source: strings.Repeat("a", 10)})
		if !res.OK() {
			t.Errorf("unexpected failure: %v", res.Err())
		}
	})
}

func TestImproveTimeout(t *testing.T) {
	m := &adapter.MockAdapter{Delay: 5 * time.Second}
	s := &Service{Adapter: m, Timeout: 20 * time.Millisecond}

	res := s.Improve(context.Background(), Request{Credential: "k", Source: "x"})
	if res.OK() {
		t.Fatal("expected timeout failure, got success")
	}
	if !errors.Is(res.Err(), context.DeadlineExceeded) {
		t.Errorf("error: got %v, want deadline exceeded", res.Err())
	}
	if !strings.HasPrefix(res.Message(), ErrorPrefix) {
		t.Errorf("message: got %q, want prefix %q", res.Message(), ErrorPrefix)
	}
}

func TestImproveRecordsMetrics(t *testing.T) {
	s := &Service{Adapter: &adapter.MockAdapter{Reply: "ok"}}

	successBefore := testutil.ToFloat64(metrics.ImproveResults.WithLabelValues("success"))
	missingBefore := testutil.ToFloat64(metrics.ImproveResults.WithLabelValues("missing_input"))

	s.Improve(context.Background(), Request{Credential: "k", Source: "x"})
	s.Improve(context.Background(), Request{Credential: "", Source: "x"})

	if got := testutil.ToFloat64(metrics.ImproveResults.WithLabelValues("success")); got != successBefore+1 {
		t.Errorf("success counter: got %f, want %f", got, successBefore+1)
	}
	if got := testutil.ToFloat64(metrics.ImproveResults.WithLabelValues("missing_input")); got != missingBefore+1 {
		t.Errorf("missing_input counter: got %f, want %f", got, missingBefore+1)
	}
}

func TestRequestStringRedacts(t *testing.T) {
	r := Request{Credential: "sk-secret", Source: "print('hi')"}
	s := r.String()
	if strings.Contains(s, "sk-secret") || strings.Contains(s, "print") {
		t.Errorf("String leaked input: %q", s)
	}
	if !strings.Contains(s, "<redacted>") {
		t.Errorf("String: got %q, want redaction marker", s)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindMissingInput, "missing_input"},
		{KindInputTooLarge, "input_too_large"},
		{KindGeneration, "generation_failure"},
		{Kind(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String(): got %q, want %q", tt.kind, got, tt.want)
		}
	}
}
