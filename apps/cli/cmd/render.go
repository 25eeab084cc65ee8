package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/template"
	"github.com/spf13/cobra"
)

var (
	renderResponseFlag string
	strictFlag         bool
)

var renderCmd = &cobra.Command{
	Use:   "render <template-file|->",
	Short: "Fill {{placeholders}} in a template from a response",
	Long: `Render a request template, replacing each {{key}} with the variable it
resolves to. Keys are looked up in the values extracted from --response, then
process properties, then environment variables. {{$NAME}} reads an environment
variable directly and {{fn(args)}} calls a builtin function such as uuid(),
timestamp() or base64("user:pass").

Unresolved placeholders are left as written. With --strict they also make the
command exit with status 1.

Examples:
  respvar render -c rules.yaml --response body.json next-request.json
  respvar render --strict -D token=abc payload.tmpl`,
	Args: cobra.ExactArgs(1),
	RunE: renderCommand,
}

func init() {
	renderCmd.Flags().StringVarP(&renderResponseFlag, "response", "r", "", "Response body to extract from first (- for stdin)")
	renderCmd.Flags().BoolVar(&strictFlag, "strict", false, "Fail when a placeholder cannot be resolved")
}

func renderCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if args[0] == "-" && renderResponseFlag == "-" {
		return &exitError{code: ExitUsageError, err: fmt.Errorf("template and response cannot both be read from stdin")}
	}

	tmpl, err := readTemplate(cmd, args[0])
	if err != nil {
		return &exitError{code: ExitUsageError, err: err}
	}

	provider := capture.NewProvider(s.rules, capture.WithLogger(s.logger))
	if renderResponseFlag != "" {
		resp, err := readResponse(cmd, renderResponseFlag)
		if err != nil {
			return &exitError{code: ExitUsageError, err: err}
		}
		provider.ExtractValues(sourceRequest(renderResponseFlag), resp)
	}

	renderer := template.NewRenderer(
		template.WithLogger(s.logger),
		template.WithStrict(strictFlag),
	)
	out, renderErr := renderer.Render(tmpl, provider.LookupValue)

	if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if renderErr != nil {
		return &exitError{code: ExitExtractFailure, err: renderErr}
	}
	return nil
}

func readTemplate(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("cannot read template %s: %w", path, err)
	}
	return string(data), nil
}
