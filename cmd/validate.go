package cmd

import (
	"fmt"
	"strings"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and show the active check commands",
	Long: `Validate checks the checkpoint configuration file and displays the
project types, their gate check commands, and the classifier tables.

This is useful for:
- Checking that your config.toml syntax is correct
- Seeing which check commands run for each project type
- Debugging why a command was or was not blocked`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("failed to load configuration")
	}
	if err := config.InitError(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Println("Configuration valid!")
	fmt.Println()

	fmt.Printf("Project types: %d\n", len(cfg.Projects))
	for _, p := range cfg.Projects {
		fmt.Printf("  - %s (marker %s)\n", p.Name, p.Marker)
		fmt.Printf("      compile: %s\n", strings.Join(p.Compile.Command, " "))
		fmt.Printf("      format:  %s\n", strings.Join(p.Format.Command, " "))
		if !p.Lint.Empty() {
			fmt.Printf("      lint:    %s (optional)\n", strings.Join(p.Lint.Command, " "))
		}
		fmt.Printf("      test:    %s\n", strings.Join(p.Test.Command, " "))
	}
	fmt.Println()

	fmt.Printf("Temp dirs: %s\n", strings.Join(cfg.Classifier.TempDirs, ", "))
	fmt.Printf("System roots: %s\n", strings.Join(cfg.Classifier.SystemRoots, ", "))
	fmt.Printf("Strict denylist: %s\n", strings.Join(cfg.Classifier.Denylist, ", "))

	return nil
}
