package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlorentedev/improver/internal/adapter"
	"github.com/mlorentedev/improver/internal/config"
)

func runCmd(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, _, err := runCmd(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "improver dev\n" {
		t.Errorf("got %q, want %q", out, "improver dev\n")
	}
}

func TestImproveCmdMockFromStdin(t *testing.T) {
	t.Setenv(apiKeyEnv, "sk-test")

	out, errOut, err := runCmd(t, "print('hi')\n", "improve", "--mock")
	if err != nil {
		t.Fatalf("improve: %v (stderr %q)", err, errOut)
	}
	if out != "print('hi')\n" {
		t.Errorf("stdout: got %q, want %q", out, "print('hi')\n")
	}
	if !strings.Contains(errOut, "Code improved successfully! ✅") {
		t.Errorf("stderr: got %q, want success message", errOut)
	}
}

func TestImproveCmdFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(path, []byte("x = 1"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, _, err := runCmd(t, "", "improve", "--mock", "--api-key", "sk-test", "--file", path)
	if err != nil {
		t.Fatalf("improve: %v", err)
	}
	if out != "x = 1\n" {
		t.Errorf("stdout: got %q, want %q", out, "x = 1\n")
	}
}

func TestImproveCmdMissingKey(t *testing.T) {
	t.Setenv(apiKeyEnv, "")

	out, errOut, err := runCmd(t, "x = 1", "improve", "--mock")
	if err == nil {
		t.Fatal("expected error for missing API key, got nil")
	}
	if out != "" {
		t.Errorf("stdout: got %q, want empty", out)
	}
	if !strings.Contains(errOut, "Please enter both the code and the API key.") {
		t.Errorf("stderr: got %q, want warning", errOut)
	}
}

func TestRunPrintsErrorsOnce(t *testing.T) {
	t.Setenv(apiKeyEnv, "")

	tests := []struct {
		name     string
		args     []string
		wantLine string
	}{
		{"reported failure", []string{"improve", "--mock"}, "Please enter both the code and the API key."},
		{"unreported failure", []string{"improve", "--mock", "--api-key", "k", "--file", "/nonexistent/code.py"}, "Error: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetIn(strings.NewReader("x = 1"))
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)

			if code := run(cmd, &errOut); code != 1 {
				t.Errorf("exit code: got %d, want 1", code)
			}
			if n := strings.Count(errOut.String(), tt.wantLine); n != 1 {
				t.Errorf("stderr has %d copies of %q, want 1: %q", n, tt.wantLine, errOut.String())
			}
		})
	}
}

func TestImproveCmdMissingFile(t *testing.T) {
	_, _, err := runCmd(t, "", "improve", "--mock", "--api-key", "k", "--file", "/nonexistent/code.py")
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("got %v, want file does not exist error", err)
	}
}

func TestBuildAdapter(t *testing.T) {
	cfg := config.Config{Provider: config.ProviderGemini, Model: "gemini-2.5-flash", TimeoutSeconds: 60}

	tests := []struct {
		name         string
		provider     string
		mock         bool
		wantProvider string
		check        func(adapter.LLMAdapter) bool
	}{
		{"mock", config.ProviderGemini, true, "mock", func(a adapter.LLMAdapter) bool { _, ok := a.(*adapter.MockAdapter); return ok }},
		{"gemini", config.ProviderGemini, false, "gemini", func(a adapter.LLMAdapter) bool { _, ok := a.(*adapter.GeminiAdapter); return ok }},
		{"openai", config.ProviderOpenAI, false, "openai", func(a adapter.LLMAdapter) bool { _, ok := a.(*adapter.OpenAIAdapter); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			c.Provider = tt.provider
			a, provider, err := buildAdapter(c, tt.mock)
			if err != nil {
				t.Fatalf("buildAdapter: %v", err)
			}
			if provider != tt.wantProvider {
				t.Errorf("provider: got %q, want %q", provider, tt.wantProvider)
			}
			if !tt.check(a) {
				t.Errorf("unexpected adapter type %T", a)
			}
		})
	}

	if _, _, err := buildAdapter(config.Config{Provider: "bard"}, false); err == nil {
		t.Error("expected error for unknown provider, got nil")
	}
}
