// Package main provides the CLI entrypoint for subcrack.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/config"
	"github.com/verte-zerg/subcrack/internal/mono"
)

const (
	defaultRestarts = mono.DefaultRestarts
	defaultStall    = mono.DefaultStallThreshold
)

var (
	dataMonograms string
	dataNgrams    string
	dataBigrams   string
	noHistory     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "subcrack",
		Short:         "Ciphertext-only attacks on substitution ciphers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataMonograms, "monograms", config.DefaultMonogramPath(), "monogram frequency file")
	flags.StringVar(&dataNgrams, "ngrams", config.DefaultNgramPath(), "n-gram frequency file used for scoring")
	flags.StringVar(&dataBigrams, "bigrams", config.DefaultBigramPath(), "bigram frequency file")
	flags.BoolVar(&noHistory, "no-history", false, "do not record the run")

	rootCmd.AddCommand(newMonoCmd())
	rootCmd.AddCommand(newVigenereCmd())
	rootCmd.AddCommand(newTransformCmd("encrypt", "Encrypt text with a known key"))
	rootCmd.AddCommand(newTransformCmd("decrypt", "Decrypt text with a known key"))
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newTrainCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "monograms", &dataMonograms, fileCfg.Data.Monograms)
	applyStringConfig(cmd, "ngrams", &dataNgrams, fileCfg.Data.Ngrams)
	applyStringConfig(cmd, "bigrams", &dataBigrams, fileCfg.Data.Bigrams)
	if fileCfg.History.Enabled != nil && !*fileCfg.History.Enabled && !cmd.Flags().Changed("no-history") {
		noHistory = true
	}
	return fileCfg, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# subcrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[mono]
# restarts = %d           # Concurrent hill-climbing restarts
# stall = %d           # Non-improving trials that end a restart
# seed = 0                # Base random seed, 0 = seeded from the clock

[vigenere]
# parallel = true         # Search key boundaries concurrently

[data]
# monograms = %q
# ngrams = %q
# bigrams = %q

[history]
# enabled = true          # Record runs in the history database
`,
		defaultRestarts,
		defaultStall,
		config.DefaultMonogramPath(),
		config.DefaultNgramPath(),
		config.DefaultBigramPath(),
	)
}

// readInput returns the raw contents of path, or of in when path is "-".
func readInput(in io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func inputName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}

// writeOutput prints content to w, or replaces the file at path when set.
func writeOutput(w io.Writer, path, content string) error {
	if path == "" {
		if _, err := fmt.Fprintln(w, content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := writeFileAtomic(path, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeFileAtomic(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "subcrack-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if _, err := fmt.Fprintln(writer, content); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
