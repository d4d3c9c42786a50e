package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mlorentedev/improver/internal/adapter"
	"github.com/mlorentedev/improver/internal/config"
	"github.com/mlorentedev/improver/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	useMock    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "improver",
		Short: "Gemini Code Improver - paste code, get an improved version back",
		Long: `improver serves a small web form and JSON API that forward submitted code to a
hosted text-generation model with the instruction "Improve this code:" and
return the model's answer. The provider API key is supplied per request and
never stored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env file is normal.
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.useMock, "mock", false, "use mock adapter instead of the real provider")

	cmd.AddCommand(newServeCmd(opts), newImproveCmd(opts), newVersionCmd())
	return cmd
}

// load reads configuration and installs the global logger.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	return cfg, logger, nil
}

// buildAdapter returns the configured backend and the provider label shown
// on /api/models.
func buildAdapter(cfg config.Config, useMock bool) (adapter.LLMAdapter, string, error) {
	if useMock {
		return &adapter.MockAdapter{Delay: 500 * time.Millisecond}, "mock", nil
	}

	client := &http.Client{Timeout: cfg.Timeout()}
	switch cfg.Provider {
	case config.ProviderGemini:
		return &adapter.GeminiAdapter{
			BaseURL:   cfg.GeminiBaseURL,
			ModelName: cfg.Model,
			Client:    client,
		}, cfg.Provider, nil
	case config.ProviderOpenAI:
		return &adapter.OpenAIAdapter{
			BaseURL:   cfg.OpenAIBaseURL,
			ModelName: cfg.Model,
			Client:    client,
		}, cfg.Provider, nil
	default:
		return nil, "", fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "improver %s\n", version)
		},
	}
}
