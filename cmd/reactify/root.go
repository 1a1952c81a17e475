package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elementofdesign/reactify"
)

var (
	cfg    Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reactify [file]",
	Short: "Sanitize untrusted markup into a policy-filtered tree",
	Long: `reactify parses markup, removes every tag, attribute and attribute value
the policy does not allow, and prints the result.

Markup is read from the given file, or from stdin when no file is given.

Output formats:
  - json (default): the sanitized tree with tag names, attributes and keys
  - html: the sanitized tree rendered back to markup
  - text: plain text only

Environment:
  REACTIFY_POLICY      default for --policy
  REACTIFY_FORMAT      default for --format
  REACTIFY_LOG_LEVEL   debug, info, warn or error
  REACTIFY_LOG_FORMAT  text or json`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		l, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: runSanitize,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "reactify:", err)
		os.Exit(1)
	}
}

func init() {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "reactify:", err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().StringVarP(&cfg.PolicyFile, "policy", "p", cfg.PolicyFile, "policy file (YAML or JSON); built-in default when empty")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	rootCmd.Flags().StringVarP(&cfg.Format, "format", "f", cfg.Format, "output format: json, html, text")
}

// loadPolicy returns the policy named by --policy, or nil for the default.
func loadPolicy() (*reactify.Policy, error) {
	if cfg.PolicyFile == "" {
		return nil, nil
	}
	p, err := reactify.LoadPolicyFile(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("policy loaded", slog.String("path", cfg.PolicyFile), slog.Int("tags", len(p.Tags)))
	return p, nil
}

func runSanitize(cmd *cobra.Command, args []string) error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out, err := reactify.SanitizeReader(in, policy, reactify.WithLogger(logger))
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), out, cfg.Format)
}

func writeOutput(w io.Writer, out []reactify.Output, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case "html":
		if err := reactify.RenderHTML(w, out); err != nil {
			return fmt.Errorf("failed to render html: %w", err)
		}
		_, err := fmt.Fprintln(w)
		return err

	case "text":
		text, err := reactify.PlainText(out)
		if err != nil {
			return fmt.Errorf("failed to render text: %w", err)
		}
		_, err = fmt.Fprintln(w, text)
		return err

	default:
		return fmt.Errorf("unknown format %q (want json, html or text)", format)
	}
}
