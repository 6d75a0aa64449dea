// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider API keys. Keys come from, in order: an
// explicit value (flag or config), the environment, a directory of
// plain-text files where the filename is the key name, and a dotenv file.
//
// Supported key files: anthropic-api-key, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Key file names.
const (
	AnthropicAPIKey = "anthropic-api-key"
	OpenAIAPIKey    = "openai-api-key"
)

// envVars maps key names to the environment variables (and dotenv keys)
// that may carry them.
var envVars = map[string]string{
	AnthropicAPIKey: "ANTHROPIC_API_KEY",
	OpenAIAPIKey:    "OPENAI_API_KEY",
}

// EnvVar returns the environment variable for key, or "" if none is known.
func EnvVar(key string) string {
	return envVars[key]
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFile parses a dotenv file without touching the process environment.
// A missing file returns an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return values, nil
}

// Resolve returns the first non-empty value for key: explicit, then the
// key's environment variable, then dir[key], then the dotenv entry for the
// key's environment variable.
func Resolve(key, explicit string, dir, dotenv map[string]string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	env := envVars[key]
	if env != "" {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	if v := dir[key]; v != "" {
		return v
	}
	if env != "" {
		return strings.TrimSpace(dotenv[env])
	}
	return ""
}
