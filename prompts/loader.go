package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptKey identifies an overridable stage prompt.
type PromptKey string

const (
	// KeyMatching is the framework recommendation output format.
	KeyMatching PromptKey = "Matching"
	// KeyGeneration is the final composition output requirement.
	KeyGeneration PromptKey = "Generation"
)

// promptConfig defines the default content and override filename for a
// prompt. Clarification prompts are round-parameterized and therefore not
// file-overridable.
type promptConfig struct {
	defaultContent string
	filename       string
}

var promptRegistry = map[PromptKey]promptConfig{
	KeyMatching: {
		defaultContent: FrameworkMatchingSystemPrompt,
		filename:       "matching_prompt.txt",
	},
	KeyGeneration: {
		defaultContent: GenerationSystemPrompt,
		filename:       "generation_prompt.txt",
	},
}

// GetPrompt searches for a user-provided prompt file in templatesDir. If
// found, its content is returned; otherwise the hardcoded default is used.
func GetPrompt(key PromptKey, templatesDir string) (string, error) {
	config, ok := promptRegistry[key]
	if !ok {
		return "", fmt.Errorf("unrecognized prompt key: %s", key)
	}

	if strings.TrimSpace(templatesDir) == "" {
		return config.defaultContent, nil
	}

	customPromptPath := filepath.Join(templatesDir, config.filename)
	if _, err := os.Stat(customPromptPath); err == nil {
		content, readErr := os.ReadFile(customPromptPath)
		if readErr != nil {
			return "", fmt.Errorf("failed to read custom prompt file at %s: %w", customPromptPath, readErr)
		}
		return string(content), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("error checking for custom prompt file at %s: %w", customPromptPath, err)
	}

	return config.defaultContent, nil
}
