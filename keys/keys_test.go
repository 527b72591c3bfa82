package keys

import (
	"errors"
	"testing"

	"dualstream/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rebind points command at keyStrs in kb.
func rebind(kb *config.KeyBindingsConfig, command string, keyStrs ...string) {
	for i := range kb.Bindings {
		if kb.Bindings[i].Command == command {
			kb.Bindings[i].Keys = keyStrs
			kb.Bindings[i].Help = keyStrs[0]
		}
	}
}

// restoreBindings puts the package globals back after a test loads a file.
func restoreBindings(t *testing.T) {
	t.Helper()
	saved := make(map[KeyName]key.Binding, len(GlobalkeyBindings))
	for name, b := range GlobalkeyBindings {
		saved[name] = b
	}
	t.Cleanup(func() {
		CustomKeyStringsMap = nil
		customized = nil
		for name, b := range saved {
			GlobalkeyBindings[name] = b
		}
	})
}

func TestGetKeyNameDefaults(t *testing.T) {
	restoreBindings(t)
	CustomKeyStringsMap = nil
	customized = nil

	tests := []struct {
		key  string
		want KeyName
	}{
		{" ", KeyToggle},
		{"tab", KeyFocus},
		{"enter", KeyEditRate},
		{"ctrl+c", KeyQuit},
	}
	for _, tt := range tests {
		got, ok := GetKeyName(tt.key)
		require.True(t, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}

	_, ok := GetKeyName("F13")
	assert.False(t, ok)
}

func TestInitializeCustomKeyBindings(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	restoreBindings(t)

	kb := config.DefaultKeyBindings()
	rebind(kb, "copy", "c")
	require.NoError(t, kb.Save())

	require.NoError(t, InitializeCustomKeyBindings())

	name, ok := GetKeyName("c")
	require.True(t, ok)
	assert.Equal(t, KeyCopy, name)
	assert.Equal(t, []string{"c"}, GlobalkeyBindings[KeyCopy].Keys())
	assert.Equal(t, "copy output", GlobalkeyBindings[KeyCopy].Help().Desc)

	_, ok = GetKeyName("y")
	assert.False(t, ok, "the default key of a rebound command no longer copies")

	name, ok = GetKeyName("r")
	require.True(t, ok)
	assert.Equal(t, KeyReset, name)
}

func TestInitializeCustomKeyBindingsPartialFile(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	restoreBindings(t)

	kb := &config.KeyBindingsConfig{
		Version:  "1.0",
		Bindings: []config.KeyBinding{{Command: "toggle", Keys: []string{"s"}, Help: "s"}},
	}
	require.NoError(t, kb.Save())
	require.NoError(t, InitializeCustomKeyBindings())

	name, ok := GetKeyName("s")
	require.True(t, ok)
	assert.Equal(t, KeyToggle, name)

	_, ok = GetKeyName(" ")
	assert.False(t, ok)

	name, ok = GetKeyName("q")
	require.True(t, ok, "commands the file leaves out keep their defaults")
	assert.Equal(t, KeyQuit, name)
}

func TestInitializeCustomKeyBindingsConflict(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	restoreBindings(t)

	kb := config.DefaultKeyBindings()
	rebind(kb, "copy", "r")
	require.NoError(t, kb.Save())

	err := InitializeCustomKeyBindings()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBindingConflict))
	assert.Contains(t, err.Error(), `"r"`)

	for i := 0; i < 20; i++ {
		name, ok := GetKeyName("r")
		require.True(t, ok)
		assert.Equal(t, KeyReset, name, "the defaults win over a conflicting file")
	}
	name, ok := GetKeyName("y")
	require.True(t, ok)
	assert.Equal(t, KeyCopy, name)
	assert.Equal(t, []string{"y"}, GlobalkeyBindings[KeyCopy].Keys())
}
