package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/config"
	"github.com/verte-zerg/subcrack/internal/historyui"
	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/store"
)

var (
	historyCipher string
	historySince  string
	historyLast   int
	historyTUI    bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded break runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyCipher, "cipher", "", "cipher filter: mono or vigenere")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().BoolVar(&historyTUI, "tui", false, "browse runs interactively")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	records, err := st.ListBreaks(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if !historyTUI {
		if err := report.RenderHistory(cmd.OutOrStdout(), records); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	ui := historyui.NewModel(st, records)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func historyFilter() (model.HistoryFilter, error) {
	filter := model.HistoryFilter{Last: historyLast}
	if historyLast < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	switch c := model.Cipher(strings.ToLower(historyCipher)); c {
	case "", model.CipherMono, model.CipherVigenere:
		filter.Cipher = c
	default:
		return filter, fmt.Errorf("--cipher must be %q or %q", model.CipherMono, model.CipherVigenere)
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	return filter, nil
}
