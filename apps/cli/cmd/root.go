package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/config"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"github.com/abdul-hamid-achik/respvar/packages/logging"
	"github.com/abdul-hamid-achik/respvar/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag         string
	logLevelFlag       string
	logFormatFlag      string
	noColorFlag        bool
	verboseFlag        bool
	outputFlag         string
	defineFlag         []string
	propertiesFileFlag string
	envFileFlag        string
)

var rootCmd = &cobra.Command{
	Use:   "respvar",
	Short: "Extract named variables from JSON responses.",
	Long: `respvar evaluates configured JSONPath expressions against JSON response
bodies and resolves the resulting variables, falling back to process
properties and environment variables for anything a response did not supply.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits with the command's exit code.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitUsageError
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", getEnvString("RESPVAR_CONFIG", ""), "Path to config file (env: RESPVAR_CONFIG)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.StringVar(&logFormatFlag, "log-format", "", "Log format: text, json (default from config)")
	flags.BoolVar(&noColorFlag, "no-color", getEnvBool("RESPVAR_NO_COLOR", false), "Disable colored output (env: RESPVAR_NO_COLOR)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Show full values and expressions")
	flags.StringVarP(&outputFlag, "output", "o", getEnvString("RESPVAR_OUTPUT", output.FormatConsole), "Output format: console, json, yaml (env: RESPVAR_OUTPUT)")
	flags.StringArrayVarP(&defineFlag, "define", "D", nil, "Set a process property (key=value), may be repeated")
	flags.StringVar(&propertiesFileFlag, "properties-file", getEnvString("RESPVAR_PROPERTIES_FILE", ""), "Load process properties from a key=value file (env: RESPVAR_PROPERTIES_FILE)")
	flags.StringVar(&envFileFlag, "env-file", getEnvString("RESPVAR_ENV_FILE", ""), "Export variables from a .env file before resolving (env: RESPVAR_ENV_FILE)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// session is the state shared by every command: loaded configuration,
// compiled rules, logger and output formatter.
type session struct {
	cfg       *config.Config
	rules     *capture.RuleSet
	logger    *slog.Logger
	formatter output.Formatter
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, &exitError{code: ExitConfigError, err: err}
	}

	logger, err := cfg.Logger(logging.Options{
		Level:  logLevelFlag,
		Format: logFormatFlag,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, &exitError{code: ExitUsageError, err: err}
	}

	if err := applyProperties(cfg); err != nil {
		return nil, &exitError{code: ExitConfigError, err: err}
	}

	formatter, err := output.New(outputFlag, output.Options{
		Writer:  cmd.OutOrStdout(),
		Verbose: verboseFlag,
		NoColor: noColorFlag,
	})
	if err != nil {
		return nil, &exitError{code: ExitUsageError, err: err}
	}

	return &session{
		cfg:       cfg,
		rules:     cfg.RuleSet(capture.WithLogger(logger)),
		logger:    logger,
		formatter: formatter,
	}, nil
}

// applyProperties exports the env file and fills the process properties.
// -D definitions win over the properties file.
func applyProperties(cfg *config.Config) error {
	envFile := envFileFlag
	if envFile == "" {
		envFile = cfg.EnvFile
	}
	if envFile != "" {
		if _, err := env.LoadAndExportDotEnv(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	defined, err := parseDefines(defineFlag)
	if err != nil {
		return err
	}
	env.SetProperties(defined)

	propsFile := propertiesFileFlag
	if propsFile == "" {
		propsFile = cfg.PropertiesFile
	}
	if propsFile != "" {
		if _, err := env.LoadPropertiesFile(propsFile); err != nil {
			return fmt.Errorf("failed to load properties file: %w", err)
		}
	}
	return nil
}

func parseDefines(defs []string) (map[string]string, error) {
	result := make(map[string]string, len(defs))
	for _, d := range defs {
		key, value, ok := strings.Cut(d, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid definition %q (expected key=value)", d)
		}
		result[key] = value
	}
	return result, nil
}

// flush writes buffered formatter output.
func (s *session) flush() error {
	if flushable, ok := s.formatter.(output.Flushable); ok {
		return flushable.Flush()
	}
	return nil
}
