package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// ignoreTemplate is written to a fresh .talkieignore so common build
// output never reaches the embedding provider.
const ignoreTemplate = `# Paths excluded from indexing (gitignore-style).
.git/
node_modules/
vendor/
dist/
build/
__pycache__/
*.lock
`

// RunWizard runs an interactive configuration wizard, saves the result
// to configPath, and optionally seeds an ignore file in the current
// directory.
func RunWizard(configPath string) (*Config, error) {
	fmt.Println("Welcome to talkie! Let's configure directory indexing.")
	fmt.Println()

	cfg := DefaultConfig()

	modelPrompt := promptui.Select{
		Label: "Select embedding model",
		Items: []string{
			"text-embedding-3-small (fast & cheap, 1536 dims)",
			"text-embedding-3-large (highest quality, 3072 dims)",
			"text-embedding-ada-002 (legacy, 1536 dims)",
		},
	}
	modelIdx, _, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	models := []string{"text-embedding-3-small", "text-embedding-3-large", "text-embedding-ada-002"}
	cfg.EmbeddingModel = models[modelIdx]

	ignorePrompt := promptui.Prompt{
		Label:     fmt.Sprintf("Create a starter %s in the current directory", cfg.IgnoreFile),
		IsConfirm: true,
		Default:   "y",
	}
	if _, err := ignorePrompt.Run(); err == nil {
		if _, statErr := os.Stat(cfg.IgnoreFile); os.IsNotExist(statErr) {
			if writeErr := os.WriteFile(cfg.IgnoreFile, []byte(ignoreTemplate), 0644); writeErr != nil {
				return nil, fmt.Errorf("writing %s: %w", cfg.IgnoreFile, writeErr)
			}
			fmt.Printf("Created %s\n", cfg.IgnoreFile)
		} else {
			fmt.Printf("%s already exists, leaving it alone\n", cfg.IgnoreFile)
		}
	}

	if err := cfg.Save(configPath); err != nil {
		return nil, err
	}
	fmt.Printf("Configuration saved to %s\n", configPath)

	if os.Getenv(APIKeyEnvVar) == "" {
		fmt.Printf("\nNote: %s is not set. Set it before running `talkie sync`.\n", APIKeyEnvVar)
	}

	return cfg, nil
}
