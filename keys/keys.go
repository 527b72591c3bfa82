package keys

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dualstream/config"
	"dualstream/log"

	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyToggle KeyName = iota
	KeyReset
	KeyEditRate
	KeyFocus
	KeyUp
	KeyDown
	KeyCopy
	KeyTranscript
	KeyChunkLog
	KeyHelp
	KeyQuit

	// -- Rate input keys, only read while editing a rate --

	KeySubmitRate
	KeyCancel
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	" ":      KeyToggle,
	"r":      KeyReset,
	"e":      KeyEditRate,
	"enter":  KeyEditRate,
	"tab":    KeyFocus,
	"up":     KeyUp,
	"k":      KeyUp,
	"down":   KeyDown,
	"j":      KeyDown,
	"y":      KeyCopy,
	"t":      KeyTranscript,
	"l":      KeyChunkLog,
	"?":      KeyHelp,
	"q":      KeyQuit,
	"ctrl+c": KeyQuit,
}

// GlobalkeyBindings is a global map of KeyName to keybinding, updated from
// the keybindings file on startup.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyToggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "start/stop"),
	),
	KeyReset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	KeyEditRate: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e/↵", "edit rate"),
	),
	KeyFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch panel"),
	),
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	KeyCopy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy output"),
	),
	KeyTranscript: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "segments"),
	),
	KeyChunkLog: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "chunk log"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),

	// -- Special keybindings --

	KeySubmitRate: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "set rate"),
	),
	KeyCancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// commandToKeyName maps keybindings file command names to KeyName constants.
var commandToKeyName = map[string]KeyName{
	"toggle":     KeyToggle,
	"reset":      KeyReset,
	"edit_rate":  KeyEditRate,
	"focus":      KeyFocus,
	"up":         KeyUp,
	"down":       KeyDown,
	"copy":       KeyCopy,
	"transcript": KeyTranscript,
	"chunk_log":  KeyChunkLog,
	"help":       KeyHelp,
	"quit":       KeyQuit,
}

var helpTexts = map[string]string{
	"toggle":     "start/stop",
	"reset":      "reset",
	"edit_rate":  "edit rate",
	"focus":      "switch panel",
	"up":         "scroll up",
	"down":       "scroll down",
	"copy":       "copy output",
	"transcript": "segments",
	"chunk_log":  "chunk log",
	"help":       "help",
	"quit":       "quit",
}

// ErrBindingConflict is returned when the keybindings file maps one key to
// more than one command. The defaults are used instead.
var ErrBindingConflict = errors.New("conflicting keybindings")

// CustomKeyStringsMap is a mutable map that can be updated with custom keybindings
var CustomKeyStringsMap map[string]KeyName

// customized holds the commands the keybindings file binds. Their default keys
// no longer resolve.
var customized map[KeyName]bool

// InitializeCustomKeyBindings loads custom keybindings from config
func InitializeCustomKeyBindings() error {
	kbConfig, err := config.LoadKeyBindings()
	if err != nil {
		return err
	}

	var conflictErr error
	if conflicts := kbConfig.ValidateBindings(); len(conflicts) > 0 {
		keyStrs := make([]string, 0, len(conflicts))
		for keyStr, commands := range conflicts {
			log.WarningLog.Printf("key %q is bound to %s", keyStr, strings.Join(commands, ", "))
			keyStrs = append(keyStrs, fmt.Sprintf("%q", keyStr))
		}
		sort.Strings(keyStrs)
		conflictErr = fmt.Errorf("%w on %s, using defaults", ErrBindingConflict, strings.Join(keyStrs, ", "))
		kbConfig = config.DefaultKeyBindings()
	}

	CustomKeyStringsMap = make(map[string]KeyName)
	customized = make(map[KeyName]bool)
	for keyStr, command := range kbConfig.ToKeyMap() {
		if name, ok := commandToKeyName[command]; ok {
			CustomKeyStringsMap[keyStr] = name
			customized[name] = true
		}
	}

	updateGlobalBindings(kbConfig)
	return conflictErr
}

// GetKeyName returns the KeyName for a given key string, checking custom bindings first
func GetKeyName(keyStr string) (KeyName, bool) {
	if CustomKeyStringsMap != nil {
		if keyName, ok := CustomKeyStringsMap[keyStr]; ok {
			return keyName, true
		}
	}

	// Fall back to default bindings for commands the file leaves alone
	keyName, ok := GlobalKeyStringsMap[keyStr]
	if !ok || customized[keyName] {
		return 0, false
	}
	return keyName, true
}

// updateGlobalBindings updates the GlobalkeyBindings with custom keybindings
func updateGlobalBindings(kbConfig *config.KeyBindingsConfig) {
	for _, binding := range kbConfig.Bindings {
		if keyName, ok := commandToKeyName[binding.Command]; ok {
			GlobalkeyBindings[keyName] = key.NewBinding(
				key.WithKeys(binding.Keys...),
				key.WithHelp(binding.Help, getHelpText(binding.Command)),
			)
		}
	}
}

// getHelpText returns the help text for a command
func getHelpText(command string) string {
	if text, ok := helpTexts[command]; ok {
		return text
	}
	return command
}
