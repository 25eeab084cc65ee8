package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/config"
	"github.com/spf13/cobra"
)

var debounceFlag time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <response-file>",
	Short: "Re-extract whenever the config or response file changes",
	Long: `Extract variables from a response file, then keep watching it together
with the config file. A changed response is extracted again; a changed config
is reloaded and its rules replace the current ones. A response that cannot be
parsed leaves the previous values in place.

Examples:
  respvar watch --config rules.yaml response.json`,
	Args: cobra.ExactArgs(1),
	RunE: watchCommand,
}

func init() {
	watchCmd.Flags().DurationVar(&debounceFlag, "debounce", config.DefaultDebounce, "Quiet period before a change is processed")
}

func watchCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	responsePath := args[0]
	provider := capture.NewProvider(s.rules, capture.WithLogger(s.logger))

	extract := func() {
		resp, err := readResponse(cmd, responsePath)
		if err != nil {
			s.formatter.FormatError(err)
			return
		}
		snap := provider.ExtractValues(sourceRequest(responsePath), resp)
		s.formatter.FormatSnapshot(snap, provider.Rules())
		if err := s.flush(); err != nil {
			s.formatter.FormatError(err)
		}
	}

	paths := []string{responsePath}
	if configFlag != "" {
		paths = append(paths, configFlag)
	}
	watcher, err := config.NewWatcher(paths, config.WithDebounce(debounceFlag), config.WithWatchLogger(s.logger))
	if err != nil {
		return &exitError{code: ExitUsageError, err: err}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extract()
	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")

	configAbs := absPath(configFlag)
	return watcher.Run(ctx, func(paths []string) {
		if configFlag != "" && slices.Contains(paths, configAbs) {
			cfg, err := config.LoadConfig(configFlag)
			if err != nil {
				s.formatter.FormatError(fmt.Errorf("config not reloaded: %w", err))
			} else {
				provider.SetRules(cfg.RuleSet(capture.WithLogger(s.logger)))
			}
		}
		extract()
	})
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
