package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"resumerag/internal/config"
	"resumerag/internal/extract"
	"resumerag/internal/logger"
	"resumerag/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console <resume-file>",
	Short: "Ask questions about a resume interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log, err := logger.New(true, debug)
		if err != nil {
			return err
		}
		defer log.Sync()

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text, err := extract.Text(filepath.Base(path), "", data)
		if err != nil {
			return fmt.Errorf("extract resume text: %w", err)
		}

		pipe, err := buildPipeline(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}

		p := tea.NewProgram(tui.New(pipe, text, filepath.Base(path)), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}
