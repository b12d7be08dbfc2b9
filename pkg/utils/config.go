package utils

import (
	"maps"
	"strconv"
	"sync"
)

// Config provides thread-safe access to configuration values loaded from
// the environment, with defaults and type conversion
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewConfig creates a new Config instance with the provided key-value pairs
func NewConfig(values map[string]string) *Config {
	config := &Config{
		values: make(map[string]string),
	}

	maps.Copy(config.values, values)

	return config
}

// NewConfigFromEnv creates a new Config instance by loading environment
// variables from the specified .env files
func NewConfigFromEnv(files ...string) *Config {
	return NewConfig(LoadEnv(files...))
}

// Get retrieves a configuration value by key, empty string when absent
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetWithDefault retrieves a configuration value with a fallback default
func (c *Config) GetWithDefault(key, defaultValue string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if value, exists := c.values[key]; exists && value != "" {
		return value
	}
	return defaultValue
}

// GetInt retrieves a configuration value as an integer. Returns 0 when the
// key is absent or unparseable
func (c *Config) GetInt(key string) int {
	value := c.Get(key)
	if value == "" {
		return 0
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}

// GetIntWithDefault retrieves an integer value with a fallback default
func (c *Config) GetIntWithDefault(key string, defaultValue int) int {
	c.mu.RLock()
	_, exists := c.values[key]
	c.mu.RUnlock()

	if !exists {
		return defaultValue
	}
	return c.GetInt(key)
}

// GetBool retrieves a configuration value as a boolean. Returns false when
// the key is absent or cannot be interpreted
func (c *Config) GetBool(key string) bool {
	value := c.Get(key)
	if value == "" {
		return false
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		switch value {
		case "1", "yes", "on", "enabled":
			return true
		default:
			return false
		}
	}
	return parsed
}

// Set modifies a configuration value
func (c *Config) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Has checks if a configuration key exists
func (c *Config) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.values[key]
	return exists
}

// Keys returns all configuration keys
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}
