package cmd

import (
	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"github.com/spf13/cobra"
)

var responseFlag string

var lookupCmd = &cobra.Command{
	Use:   "lookup KEY...",
	Short: "Resolve variables through response, properties and environment",
	Long: `Resolve each key in order: values extracted from the response (when
--response is given), then process properties (-D, --properties-file), then
environment variables. The tier that answered is printed next to each value.

Examples:
  respvar lookup -c rules.yaml --response body.json name
  respvar lookup -D region=eu-west-1 region HOME`,
	Args: cobra.MinimumNArgs(1),
	RunE: lookupCommand,
}

func init() {
	lookupCmd.Flags().StringVarP(&responseFlag, "response", "r", "", "Response body to extract from first (- for stdin)")
}

func lookupCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	provider := capture.NewProvider(s.rules, capture.WithLogger(s.logger))

	if responseFlag != "" {
		resp, err := readResponse(cmd, responseFlag)
		if err != nil {
			return &exitError{code: ExitUsageError, err: err}
		}
		provider.ExtractValues(sourceRequest(responseFlag), resp)
	}

	resolutions := make([]env.Resolution, 0, len(args))
	undefined := false
	for _, key := range args {
		res := provider.Resolve(key)
		undefined = undefined || !res.Found()
		resolutions = append(resolutions, res)
	}

	s.formatter.FormatResolutions(resolutions)
	if err := s.flush(); err != nil {
		return err
	}

	if undefined {
		return &exitError{code: ExitExtractFailure}
	}
	return nil
}
