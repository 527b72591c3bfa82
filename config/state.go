package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dualstream/log"
)

const StateFileName = "state.json"

// AppState persists small bits of UI state between runs.
type AppState interface {
	// GetHelpScreensSeen returns the bitmask of help screens already shown.
	GetHelpScreensSeen() uint32
	// SetHelpScreensSeen stores the bitmask and saves it.
	SetHelpScreensSeen(seen uint32) error
}

// State is the file backed AppState.
type State struct {
	HelpScreensSeen uint32 `json:"help_screens_seen"`
}

// DefaultState returns the default state
func DefaultState() *State {
	return &State{}
}

// LoadState loads the state from disk. A missing or unreadable file yields
// the default state.
func LoadState() *State {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultState()
	}

	statePath := filepath.Join(configDir, StateFileName)
	data, err := os.ReadFile(statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WarningLog.Printf("failed to read state file: %v", err)
		}
		return DefaultState()
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		log.ErrorLog.Printf("failed to parse state file: %v", err)
		return DefaultState()
	}
	return &state
}

// SaveState writes the state to disk.
func SaveState(state *State) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return os.WriteFile(filepath.Join(configDir, StateFileName), data, 0644)
}

func (s *State) GetHelpScreensSeen() uint32 {
	return s.HelpScreensSeen
}

func (s *State) SetHelpScreensSeen(seen uint32) error {
	s.HelpScreensSeen = seen
	return SaveState(s)
}
