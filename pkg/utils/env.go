package utils

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the given .env files and returns
// them as a map, with later files taking precedence over earlier ones
func LoadEnv(files ...string) map[string]string {
	config := make(map[string]string)

	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				log.Printf("[UTILS]: Warning, could not load %s: %v", file, err)
			}
		}
	}

	for _, env := range os.Environ() {
		if key, value, ok := strings.Cut(env, "="); ok && key != "" {
			config[key] = value
		}
	}

	return config
}
