package cmd

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configured rules",
	Long: `Compile every configured JSONPath expression without evaluating it and
report the rules that were rejected. Exits with status 3 when any rule was
rejected.

Examples:
  respvar validate --config rules.yaml
  respvar validate -c rules.yaml -o json`,
	Args: cobra.NoArgs,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	s.formatter.FormatRules(s.rules)
	if err := s.flush(); err != nil {
		return err
	}

	if len(s.rules.Rejected()) > 0 {
		return &exitError{code: ExitConfigError}
	}
	return nil
}
