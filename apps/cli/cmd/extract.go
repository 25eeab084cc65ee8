package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/http"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [response-file|-]",
	Short: "Extract variables from a JSON response body",
	Long: `Evaluate every configured JSONPath rule against a response body and print
each variable's outcome. The body is read from the named file, or from stdin
when the argument is "-" or omitted.

Examples:
  respvar extract --config rules.yaml response.json
  curl -s https://api.example.com/greeting | respvar extract -c rules.yaml -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: extractCommand,
}

func extractCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	resp, err := readResponse(cmd, source)
	if err != nil {
		return &exitError{code: ExitUsageError, err: err}
	}

	snap := capture.NewExtractor(s.rules, capture.WithLogger(s.logger)).Extract(sourceRequest(source), resp)
	s.formatter.FormatSnapshot(snap, s.rules)
	if err := s.flush(); err != nil {
		return err
	}

	return snapshotExit(snap)
}

// readResponse loads a response body from path, or stdin for "-".
func readResponse(cmd *cobra.Command, path string) (*http.Response, error) {
	var (
		body []byte
		err  error
	)
	if path == "-" {
		body, err = io.ReadAll(cmd.InOrStdin())
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read response %s: %w", path, err)
	}
	return http.NewResponse(200, body), nil
}

// sourceRequest describes where a response came from for log context.
func sourceRequest(path string) *http.Request {
	if path == "-" {
		return http.NewRequest("READ", "stdin")
	}
	return http.NewRequest("READ", path)
}

func snapshotExit(snap *capture.Snapshot) error {
	if snap.Skipped() {
		return &exitError{code: ExitParseError}
	}
	for _, key := range snap.Keys() {
		if o, _ := snap.Outcome(key); o.Kind() == capture.KindFailed {
			return &exitError{code: ExitExtractFailure}
		}
	}
	return nil
}
