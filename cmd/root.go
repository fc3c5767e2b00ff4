// Package cmd provides the CLI commands for gemsuite.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rbarros/gemsuite/internal/config"
	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/db"
	"github.com/rbarros/gemsuite/internal/debug"
	"github.com/rbarros/gemsuite/internal/gemini"
	"github.com/rbarros/gemsuite/internal/orchestrator"
	"github.com/rbarros/gemsuite/internal/pubsub"
	"github.com/rbarros/gemsuite/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gemsuite",
		Short: "Terminal creative suite for Gemini",
		Long: `gemsuite is a terminal client for Google's Gemini models.

It combines three workflows in one TUI:
  - Chat: streaming conversations with markdown rendering and history
  - Generate: text-to-image generation with Imagen
  - Edit: iterative image editing with prompt-driven revisions

Conversations persist locally in SQLite. Set GEMINI_API_KEY to authenticate.`,
		RunE: runTUI,
	}

	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.AddCommand(newModelsCmd())

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debugMode, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("getting debug flag: %w", err)
	}
	if debugMode || cfg.Debug() {
		logPath := debug.DefaultLogPath()
		if debugErr := debug.Enable(logPath); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to enable debug logging: %v\n", debugErr)
		} else {
			defer debug.Disable()
			fmt.Fprintf(os.Stderr, "Debug log: %s\n", logPath)
		}
	}

	if cfg.APIKey() == "" {
		fmt.Fprintln(os.Stderr, "Warning: GEMINI_API_KEY is not set; requests will fail until it is.")
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	hub := pubsub.NewHub()
	defer hub.Shutdown()

	store := conversation.NewSQLiteStore(database)
	conversations := conversation.NewService(store, hub.Conversation, cfg.ChatModel)
	client := gemini.NewClient(cfg.APIKey())
	orc := orchestrator.New(client, conversations, hub)

	return tui.Run(cfg, orc, hub)
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
