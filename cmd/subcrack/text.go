package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/config"
	"github.com/verte-zerg/subcrack/internal/corpus"
	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/subst"
)

var (
	transformCipher string
	transformKey    string
	transformOut    string

	trainDir   string
	trainForce bool
)

// trainOutputs maps n-gram lengths to the data files train writes. path is the
// layered --monograms/--bigrams/--ngrams value; name is used under --dir.
var trainOutputs = []struct {
	n    int
	path *string
	name func() string
}{
	{n: 1, path: &dataMonograms, name: config.DefaultMonogramPath},
	{n: 2, path: &dataBigrams, name: config.DefaultBigramPath},
	{n: 4, path: &dataNgrams, name: config.DefaultNgramPath},
}

func newTransformCmd(name, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE:  runTransformCmd,
	}
	cmd.Flags().StringVar(&transformCipher, "cipher", string(model.CipherMono), "cipher: mono or vigenere")
	cmd.Flags().StringVar(&transformKey, "key", "", "key (26-letter permutation for mono, letters for vigenere)")
	cmd.Flags().StringVar(&transformOut, "out", "", "write the result to this file instead of stdout")
	return cmd
}

func runTransformCmd(cmd *cobra.Command, args []string) error {
	if transformKey == "" {
		return fmt.Errorf("--key is required")
	}
	text, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	text = strings.TrimRight(text, "\r\n")
	decrypt := cmd.Name() == "decrypt"

	var out string
	switch model.Cipher(strings.ToLower(transformCipher)) {
	case model.CipherMono:
		key, err := subst.ParseKey(transformKey)
		if err != nil {
			return fmt.Errorf("invalid --key: %w", err)
		}
		if decrypt {
			out = subst.DecryptMono(text, key)
		} else {
			out = subst.EncryptMono(text, key)
		}
	case model.CipherVigenere:
		if decrypt {
			out, err = subst.DecryptVigenere(text, transformKey)
		} else {
			out, err = subst.EncryptVigenere(text, transformKey)
		}
		if err != nil {
			return fmt.Errorf("invalid --key: %w", err)
		}
	default:
		return fmt.Errorf("--cipher must be %q or %q", model.CipherMono, model.CipherVigenere)
	}
	return writeOutput(cmd.OutOrStdout(), transformOut, out)
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE",
		Short: "Show letter frequencies of a text",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyzeCmd,
	}
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	text, err := loadCiphertext(cmd, args[0])
	if err != nil {
		return err
	}
	var rank *[26]byte
	if r, err := freq.LoadRank(dataMonograms); err != nil {
		logErrf("no reference ranking (%v); skipping guesses\n", err)
	} else {
		rank = &r
	}
	if err := report.RenderLetterTable(cmd.OutOrStdout(), text, rank); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train CORPUS",
		Short: "Build frequency files from a plaintext corpus",
		Long: "Count monograms, bigrams and quadgrams of a plaintext corpus and\n" +
			"write them as frequency files used by mono, vigenere and analyze.\n" +
			"CORPUS may be a file, - for stdin, or an http(s) URL that is downloaded\n" +
			"once and cached.",
		Args: cobra.ExactArgs(1),
		RunE: runTrainCmd,
	}
	cmd.Flags().StringVar(&trainDir, "dir", "", "output directory (default: data directory)")
	cmd.Flags().BoolVar(&trainForce, "force", false, "overwrite existing files")
	return cmd
}

func runTrainCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	source := args[0]
	if corpus.IsURL(source) {
		dl, err := corpus.Fetch(cmd.Context(), source, config.DefaultCorpusCacheDir())
		if err != nil {
			return fmt.Errorf("failed to fetch corpus: %w", err)
		}
		if dl.Cached {
			logErrf("Using cached corpus %s\n", dl.Path)
		} else {
			logErrf("Downloaded corpus to %s\n", dl.Path)
		}
		source = dl.Path
	}
	text, err := loadCiphertext(cmd, source)
	if err != nil {
		return err
	}
	if len(text) < freq.MaxNgramLen {
		return fmt.Errorf("corpus must contain at least %d letters", freq.MaxNgramLen)
	}

	paths := make([]string, len(trainOutputs))
	for i, out := range trainOutputs {
		paths[i] = *out.path
		if trainDir != "" {
			paths[i] = filepath.Join(trainDir, filepath.Base(out.name()))
		}
		if trainForce {
			continue
		}
		if _, err := os.Stat(paths[i]); err == nil {
			return fmt.Errorf("frequency file already exists: %s (use --force to overwrite)", paths[i])
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat frequency file: %w", err)
		}
	}

	logErrf("Training on %d letters...\n", len(text))
	for i, out := range trainOutputs {
		counts := freq.Train(text, out.n)
		if err := freq.WriteCountsFile(paths[i], counts); err != nil {
			return fmt.Errorf("failed to write %s: %w", paths[i], err)
		}
		logErrf("Wrote %s (%d entries)\n", paths[i], len(counts))
	}
	return nil
}
