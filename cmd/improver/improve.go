package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlorentedev/improver/internal/improve"
)

const apiKeyEnv = "IMPROVER_GEMINI_API_KEY"

func newImproveCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "improve",
		Short: "Improve one snippet from a file or stdin and print the result",
		Example: `  improver improve --file main.py
  cat main.py | IMPROVER_GEMINI_API_KEY=... improver improve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}

			source, err := readSource(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			if apiKey == "" {
				apiKey = os.Getenv(apiKeyEnv)
			}

			a, _, err := buildAdapter(cfg, opts.useMock)
			if err != nil {
				return err
			}
			svc := &improve.Service{
				Adapter:         a,
				Timeout:         cfg.Timeout(),
				MaxSourceLength: cfg.MaxCodeLength,
			}

			res := svc.Improve(cmd.Context(), improve.Request{Credential: apiKey, Source: source})
			if !res.OK() {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Message())
				return reportedError{err: res.Err()}
			}

			fmt.Fprintln(cmd.ErrOrStderr(), res.Message())
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", `file containing the code ("-" reads stdin)`)
	cmd.Flags().StringVar(&apiKey, "api-key", "", "provider API key (default $"+apiKeyEnv+")")
	return cmd
}

func readSource(stdin io.Reader, file string) (string, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read %s: file does not exist", file)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}
