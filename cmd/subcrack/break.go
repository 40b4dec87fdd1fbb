package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/config"
	"github.com/verte-zerg/subcrack/internal/corpus"
	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/mono"
	"github.com/verte-zerg/subcrack/internal/progress"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/store"
	"github.com/verte-zerg/subcrack/internal/subst"
	"github.com/verte-zerg/subcrack/internal/vigenere"
)

const plainPreviewLetters = 400

var (
	monoRestarts int
	monoStall    int
	monoSeed     int64
	monoOut      string
	monoVerbose  bool
	monoPlot     bool
	monoProgress bool

	vigenereKeyLen     int
	vigenereSequential bool
	vigenereOut        string
	vigenereVerbose    bool
)

func newMonoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mono FILE",
		Short: "Recover a monoalphabetic substitution key",
		Long: "Recover a monoalphabetic substitution key from ciphertext alone.\n" +
			"FILE may be - for stdin. Non-letters are ignored. The key is printed\n" +
			"as the ciphertext letters for plaintext a..z.",
		Args: cobra.ExactArgs(1),
		RunE: runMonoCmd,
	}
	cmd.Flags().IntVar(&monoRestarts, "restarts", defaultRestarts, "concurrent hill-climbing restarts")
	cmd.Flags().IntVar(&monoStall, "stall", defaultStall, "non-improving trials that end a restart")
	cmd.Flags().Int64Var(&monoSeed, "seed", 0, "base random seed (0 = clock)")
	cmd.Flags().StringVar(&monoOut, "out", "", "write the key to this file instead of stdout")
	cmd.Flags().BoolVar(&monoVerbose, "verbose", false, "print restarts and a plaintext preview to stderr")
	cmd.Flags().BoolVar(&monoPlot, "plot", false, "plot score curves of every restart to stderr")
	cmd.Flags().BoolVar(&monoProgress, "progress", false, "show live restart progress")
	return cmd
}

func runMonoCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "restarts", &monoRestarts, fileCfg.Mono.Restarts)
	applyIntConfig(cmd, "stall", &monoStall, fileCfg.Mono.Stall)
	applyInt64Config(cmd, "seed", &monoSeed, fileCfg.Mono.Seed)

	cfg := model.MonoConfig{
		Restarts: monoRestarts,
		Stall:    monoStall,
		Seed:     monoSeed,
	}
	if err := validateMonoConfig(cfg); err != nil {
		return err
	}

	text, err := loadCiphertext(cmd, args[0])
	if err != nil {
		return err
	}
	table, err := freq.LoadTable(dataMonograms, dataNgrams)
	if err != nil {
		return dataLoadError(err, dataMonograms, dataNgrams)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := mono.Options{
		Restarts:       cfg.Restarts,
		StallThreshold: cfg.Stall,
		Seed:           cfg.Seed,
	}
	startedAt := time.Now()
	var res mono.Result
	if monoProgress {
		res, err = progress.Run(ctx, text, table, opts)
	} else {
		res, err = mono.Break(ctx, text, table, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to break cipher: %w", err)
	}
	endedAt := time.Now()

	if monoVerbose {
		if err := report.RenderRestarts(os.Stderr, res); err != nil {
			logErrf("failed to render restarts: %v\n", err)
		}
		logErrln(preview(subst.DecryptMono(text, res.Best.Key)))
	}
	if monoPlot {
		if err := report.RenderScoreCurves(os.Stderr, res.Restarts, 0, 0, false); err != nil {
			logErrf("failed to render score curves: %v\n", err)
		}
	}
	if err := writeOutput(cmd.OutOrStdout(), monoOut, res.Best.Key.String()); err != nil {
		return err
	}

	rec := model.BreakRecord{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Cipher:     model.CipherMono,
		Input:      inputName(args[0]),
		TextLength: len(text),
		KeyLength:  len(res.Best.Key),
		Key:        res.Best.Key.String(),
		Score:      res.Best.Score,
		Restarts:   cfg.Restarts,
		Stall:      cfg.Stall,
		DurationMs: endedAt.Sub(startedAt).Milliseconds(),
	}
	restarts := make([]model.RestartRecord, len(res.Restarts))
	for i, c := range res.Restarts {
		restarts[i] = model.RestartRecord{
			Restart:  c.Restart,
			Key:      c.Key.String(),
			Score:    c.Score,
			Trials:   c.Trials,
			Accepted: c.Accepted,
		}
	}
	recordBreak(ctx, rec, restarts)
	return nil
}

func newVigenereCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vigenere FILE",
		Short: "Recover a Vigenère key of known length",
		Long: "Recover a Vigenère key of known length from ciphertext alone.\n" +
			"FILE may be - for stdin. Non-letters are ignored.",
		Args: cobra.ExactArgs(1),
		RunE: runVigenereCmd,
	}
	cmd.Flags().IntVar(&vigenereKeyLen, "keylen", 0, "key length (required)")
	cmd.Flags().BoolVar(&vigenereSequential, "sequential", false, "search key boundaries one at a time")
	cmd.Flags().StringVar(&vigenereOut, "out", "", "write the key to this file instead of stdout")
	cmd.Flags().BoolVar(&vigenereVerbose, "verbose", false, "print boundary estimates and a plaintext preview to stderr")
	return cmd
}

func runVigenereCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	if fileCfg.Vigenere.Parallel != nil && !cmd.Flags().Changed("sequential") {
		vigenereSequential = !*fileCfg.Vigenere.Parallel
	}

	cfg := model.VigenereConfig{
		KeyLength: vigenereKeyLen,
		Parallel:  !vigenereSequential,
	}
	if err := validateVigenereConfig(cfg); err != nil {
		return err
	}

	text, err := loadCiphertext(cmd, args[0])
	if err != nil {
		return err
	}
	grid, err := freq.LoadBigramGrid(dataBigrams)
	if err != nil {
		return dataLoadError(err, dataBigrams)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startedAt := time.Now()
	res, err := vigenere.Break(ctx, text, cfg.KeyLength, grid, vigenere.Options{Parallel: cfg.Parallel})
	if err != nil {
		if errors.Is(err, vigenere.ErrInvalidKeyLength) {
			return fmt.Errorf("--keylen must be shorter than the ciphertext (%d letters)", len(text))
		}
		return fmt.Errorf("failed to break cipher: %w", err)
	}
	endedAt := time.Now()

	if vigenereVerbose {
		if err := report.RenderBoundaries(os.Stderr, res); err != nil {
			logErrf("failed to render boundaries: %v\n", err)
		}
		plain, err := subst.DecryptVigenere(text, res.Key)
		if err != nil {
			logErrf("failed to decrypt preview: %v\n", err)
		} else {
			logErrln(preview(plain))
		}
	}
	if err := writeOutput(cmd.OutOrStdout(), vigenereOut, res.Key); err != nil {
		return err
	}

	var fitness int64
	for _, b := range res.Boundaries {
		fitness += b.Fitness
	}
	recordBreak(ctx, model.BreakRecord{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Cipher:     model.CipherVigenere,
		Input:      inputName(args[0]),
		TextLength: len(text),
		KeyLength:  cfg.KeyLength,
		Key:        res.Key,
		Score:      fitness,
		DurationMs: endedAt.Sub(startedAt).Milliseconds(),
	}, nil)
	return nil
}

func validateMonoConfig(cfg model.MonoConfig) error {
	if cfg.Restarts <= 0 {
		return fmt.Errorf("--restarts must be > 0")
	}
	if cfg.Stall <= 0 {
		return fmt.Errorf("--stall must be > 0")
	}
	return nil
}

func validateVigenereConfig(cfg model.VigenereConfig) error {
	if cfg.KeyLength <= 0 {
		return fmt.Errorf("--keylen must be > 0")
	}
	return nil
}

// loadCiphertext reads path and reduces it to lowercase letters.
func loadCiphertext(cmd *cobra.Command, path string) (string, error) {
	var (
		text string
		err  error
	)
	if path == "-" {
		text, err = corpus.ReadLetters(cmd.InOrStdin())
	} else {
		text, err = corpus.LoadLetters(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load ciphertext: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("no letters found in %s", inputName(path))
	}
	return text, nil
}

func dataLoadError(err error, paths ...string) error {
	var formatErr *freq.DataFormatError
	if errors.As(err, &formatErr) {
		return fmt.Errorf("failed to load frequency data: %w", err)
	}
	lines := []string{
		fmt.Sprintf("failed to load frequency data: %v", err),
		fmt.Sprintf("expected frequency files at: %s", strings.Join(paths, ", ")),
		"Generate them from an English text: subcrack train CORPUS",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func preview(text string) string {
	if len(text) > plainPreviewLetters {
		return text[:plainPreviewLetters] + "..."
	}
	return text
}

func recordBreak(ctx context.Context, rec model.BreakRecord, restarts []model.RestartRecord) {
	if noHistory {
		return
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertBreak(ctx, rec, restarts); err != nil {
		logErrf("failed to save run: %v\n", err)
	}
}
