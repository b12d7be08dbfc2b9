package utils

import (
	"fmt"
	"os"
	"strings"
)

// LoadPrompt loads prompt instructions from a specific file path
func LoadPrompt(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return strings.TrimSpace(string(content)), nil
}

// LoadPromptWithFallback loads prompt instructions from a file path,
// returning the fallback string when the file cannot be read
func LoadPromptWithFallback(filePath, fallback string) string {
	if content, err := LoadPrompt(filePath); err == nil {
		return content
	}
	return fallback
}
