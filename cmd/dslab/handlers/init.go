package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/dslab/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.WriteFile
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	cfg, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if err := writeConfig(outputPath, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("dslab - data science workspaces on AWS")
	fmt.Println("=======================================")
	fmt.Println()
	fmt.Println("This wizard creates a workspace configuration with sensible defaults.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Workspace Summary")
	fmt.Println("-----------------")
	fmt.Printf("  Project:     %s (%s)\n", cfg.ProjectName, cfg.Environment)
	fmt.Printf("  Region:      %s\n", cfg.Region)
	fmt.Printf("  Instances:   %d x %s\n", cfg.InstanceCount, cfg.InstanceType)
	fmt.Printf("  Bucket:      %s\n", cfg.BucketName)
	fmt.Printf("  Allowed:     %s\n", cfg.AllowedCIDR)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  dslab deploy")
}
