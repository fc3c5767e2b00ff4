package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rbarros/gemsuite/internal/config"
	"github.com/rbarros/gemsuite/internal/gemini"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models <name>",
		Short: "Show metadata for a Gemini or Imagen model",
		Long: `Look up a model's metadata from the API: display name, description,
token limits, supported generation methods, and (for Imagen models) the
generation parameters gemsuite exposes.`,
		Args: cobra.ExactArgs(1),
		RunE: runModels,
	}
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client := gemini.NewClient(cfg.APIKey())
	cache := gemini.NewModelInfoCache(client)

	info, err := cache.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", info.DisplayName)
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("Name:          %s\n", info.Name)
	if info.Description != "" {
		fmt.Printf("Description:   %s\n", info.Description)
	}
	if info.InputTokenLimit > 0 {
		fmt.Printf("Input tokens:  %d\n", info.InputTokenLimit)
	}
	if info.OutputTokenLimit > 0 {
		fmt.Printf("Output tokens: %d\n", info.OutputTokenLimit)
	}
	if len(info.SupportedGenerationMethods) > 0 {
		fmt.Printf("Methods:       %s\n", strings.Join(info.SupportedGenerationMethods, ", "))
	}

	if len(info.SupportedParameters) > 0 {
		fmt.Println()
		fmt.Println("Generation parameters:")
		for _, p := range info.SupportedParameters {
			fmt.Printf("  %-16s %s\n", p.Name, strings.Join(p.Values, ", "))
		}
	}

	return nil
}
