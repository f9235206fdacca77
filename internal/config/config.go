// Package config loads txkv settings from an optional CUE file.
//
// The file is unified with the embedded #Config schema, which supplies
// defaults and rejects unknown fields or out-of-range values:
//
//	log_level: "debug"
//	format:    "json"
//	echo:      true
//	database:  "./txkv.db"
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the settings shared by all commands.
type Config struct {
	LogLevel string `json:"log_level"`
	Format   string `json:"format"`
	Echo     bool   `json:"echo"`
	Prompt   string `json:"prompt"`
	Database string `json:"database"`
}

// Default returns the schema defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Format:   "text",
	}
}

// Load reads and validates a CUE config file. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data, path)
}

// Parse validates CUE source against the schema and decodes it.
// filename is used in error positions only.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(filename, err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(); err != nil {
		return Config{}, formatCUEError(filename, err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(filename, err)
	}
	return cfg, nil
}

// formatCUEError flattens CUE's multi-error into a single message.
func formatCUEError(filename string, err error) error {
	return fmt.Errorf("invalid config %s: %s", filename, errors.Details(err, nil))
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
