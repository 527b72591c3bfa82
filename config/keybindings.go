package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const KeyBindingsFileName = "keybindings.json"

// KeyBinding represents a custom keybinding configuration
type KeyBinding struct {
	Command string   `json:"command"` // The command name (e.g., "toggle", "focus")
	Keys    []string `json:"keys"`    // The key combinations (e.g., ["space", "s"])
	Help    string   `json:"help"`    // Help text to display
}

// KeyBindingsConfig stores all custom keybindings
type KeyBindingsConfig struct {
	Version  string       `json:"version"`
	Bindings []KeyBinding `json:"bindings"`
}

// DefaultKeyBindings returns the default keybindings configuration
func DefaultKeyBindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Version: "1.0",
		Bindings: []KeyBinding{
			// Generation
			{Command: "toggle", Keys: []string{" "}, Help: "space"},
			{Command: "reset", Keys: []string{"r"}, Help: "r"},
			{Command: "edit_rate", Keys: []string{"e", "enter"}, Help: "e/↵"},

			// Panels
			{Command: "focus", Keys: []string{"tab"}, Help: "tab"},
			{Command: "up", Keys: []string{"up", "k"}, Help: "↑/k"},
			{Command: "down", Keys: []string{"down", "j"}, Help: "↓/j"},
			{Command: "copy", Keys: []string{"y"}, Help: "y"},
			{Command: "transcript", Keys: []string{"t"}, Help: "t"},
			{Command: "chunk_log", Keys: []string{"l"}, Help: "l"},

			// Other
			{Command: "help", Keys: []string{"?"}, Help: "?"},
			{Command: "quit", Keys: []string{"q", "ctrl+c"}, Help: "q"},
		},
	}
}

func keyBindingsPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, KeyBindingsFileName), nil
}

// LoadKeyBindings loads keybindings from the config file
func LoadKeyBindings() (*KeyBindingsConfig, error) {
	configPath, err := keyBindingsPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultKeyBindings(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config KeyBindingsConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// If no bindings are defined, use defaults
	if len(config.Bindings) == 0 {
		return DefaultKeyBindings(), nil
	}

	return &config, nil
}

// Save writes the keybindings to the config file
func (k *KeyBindingsConfig) Save() error {
	configPath, err := keyBindingsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// ToKeyMap maps every configured key string to its command name.
func (k *KeyBindingsConfig) ToKeyMap() map[string]string {
	keyMap := make(map[string]string)
	for _, binding := range k.Bindings {
		for _, key := range binding.Keys {
			keyMap[key] = binding.Command
		}
	}
	return keyMap
}

// ValidateBindings checks for conflicts in keybindings
func (k *KeyBindingsConfig) ValidateBindings() map[string][]string {
	conflicts := make(map[string][]string)
	keyToCommands := make(map[string][]string)

	for _, binding := range k.Bindings {
		for _, key := range binding.Keys {
			keyToCommands[key] = append(keyToCommands[key], binding.Command)
		}
	}

	for key, commands := range keyToCommands {
		if len(commands) > 1 {
			conflicts[key] = commands
		}
	}

	return conflicts
}
