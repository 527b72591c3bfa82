package config

import (
	"dualstream/log"
	"dualstream/stream"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ConfigFileName = "config.json"
	// HomeEnv overrides the configuration directory.
	HomeEnv = "DUALSTREAM_HOME"
)

const (
	RenderPlain   = "plain"
	RenderGlamour = "glamour"
)

var ErrEmptyReference = errors.New("reference text is empty")

// GetConfigDir returns the path to the application's configuration directory
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".dualstream"), nil
}

// Config represents the application configuration
type Config struct {
	// LeftRate and RightRate are the starting rates in chunks per second.
	// Zero or negative pauses the panel.
	LeftRate  float64 `json:"left_rate"`
	RightRate float64 `json:"right_rate"`
	// SourceMode is "shared" or "independent".
	SourceMode string `json:"source_mode"`
	// Seed makes chunk sizes reproducible. Zero means random.
	Seed     uint64 `json:"seed"`
	MinChunk int    `json:"min_chunk"`
	MaxChunk int    `json:"max_chunk"`
	// ReferenceFile replaces the built-in reference text when set.
	ReferenceFile string `json:"reference_file,omitempty"`
	// RenderMode is "plain" or "glamour" and controls how plain text is drawn.
	RenderMode string `json:"render_mode"`
	// GlamourStyle is a glamour standard style name, used in glamour mode.
	GlamourStyle string `json:"glamour_style"`
	// LogLimit caps how many chunks the chunk log keeps.
	LogLimit int `json:"log_limit"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LeftRate:     20,
		RightRate:    8,
		SourceMode:   string(stream.SharedSource),
		MinChunk:     stream.DefaultMinChunk,
		MaxChunk:     stream.DefaultMaxChunk,
		RenderMode:   RenderPlain,
		GlamourStyle: "dark",
		LogLimit:     200,
	}
}

func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create and save default config if file doesn't exist
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}

		log.WarningLog.Printf("failed to get config file: %v", err)
		return DefaultConfig()
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}

	// Merge with defaults for missing fields to handle config file migration.
	// Rates are left alone: zero is a meaningful value there.
	defaults := DefaultConfig()
	if config.SourceMode == "" {
		config.SourceMode = defaults.SourceMode
	}
	if config.MinChunk == 0 {
		config.MinChunk = defaults.MinChunk
	}
	if config.MaxChunk == 0 {
		config.MaxChunk = defaults.MaxChunk
	}
	if config.RenderMode == "" {
		config.RenderMode = defaults.RenderMode
	}
	if config.GlamourStyle == "" {
		config.GlamourStyle = defaults.GlamourStyle
	}
	if config.LogLimit == 0 {
		config.LogLimit = defaults.LogLimit
	}

	for _, problem := range config.Normalize() {
		log.WarningLog.Printf("config %s: %s", configPath, problem)
	}
	return &config
}

// Normalize replaces invalid values with defaults and describes each fix.
func (c *Config) Normalize() []string {
	var problems []string
	defaults := DefaultConfig()

	switch stream.SourceMode(c.SourceMode) {
	case stream.SharedSource, stream.IndependentSource:
	default:
		problems = append(problems, fmt.Sprintf("unknown source_mode %q, using %q", c.SourceMode, defaults.SourceMode))
		c.SourceMode = defaults.SourceMode
	}

	if c.MinChunk < 1 {
		problems = append(problems, fmt.Sprintf("min_chunk %d is below 1, using %d", c.MinChunk, defaults.MinChunk))
		c.MinChunk = defaults.MinChunk
	}
	if c.MaxChunk < c.MinChunk {
		problems = append(problems, fmt.Sprintf("max_chunk %d is below min_chunk %d", c.MaxChunk, c.MinChunk))
		c.MaxChunk = c.MinChunk
	}

	switch strings.ToLower(c.RenderMode) {
	case RenderPlain, RenderGlamour:
		c.RenderMode = strings.ToLower(c.RenderMode)
	default:
		problems = append(problems, fmt.Sprintf("unknown render_mode %q, using %q", c.RenderMode, defaults.RenderMode))
		c.RenderMode = defaults.RenderMode
	}

	if c.LogLimit < 1 {
		problems = append(problems, fmt.Sprintf("log_limit %d is below 1, using %d", c.LogLimit, defaults.LogLimit))
		c.LogLimit = defaults.LogLimit
	}
	return problems
}

// ReferenceText returns the configured corpus, reading ReferenceFile if set.
func (c *Config) ReferenceText() (string, error) {
	if c.ReferenceFile == "" {
		return stream.ReferenceText, nil
	}
	data, err := os.ReadFile(c.ReferenceFile)
	if err != nil {
		return "", fmt.Errorf("failed to read reference file: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", c.ReferenceFile, ErrEmptyReference)
	}
	return string(data), nil
}

// ControllerOptions builds the stream options this configuration describes.
func (c *Config) ControllerOptions() (stream.Options, error) {
	text, err := c.ReferenceText()
	if err != nil {
		return stream.Options{}, err
	}
	return stream.Options{
		Text:     text,
		Mode:     stream.SourceMode(c.SourceMode),
		Names:    []string{"Left", "Right"},
		Rates:    []float64{c.LeftRate, c.RightRate},
		Seed:     c.Seed,
		MinChunk: c.MinChunk,
		MaxChunk: c.MaxChunk,
	}, nil
}

// saveConfig saves the configuration to disk
func saveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// ConfigPath is where LoadConfig reads from.
func ConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}
