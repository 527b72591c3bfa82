package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindingFor(kb *KeyBindingsConfig, command string) *KeyBinding {
	for i := range kb.Bindings {
		if kb.Bindings[i].Command == command {
			return &kb.Bindings[i]
		}
	}
	return nil
}

func TestDefaultKeyBindingsHaveNoConflicts(t *testing.T) {
	assert.Empty(t, DefaultKeyBindings().ValidateBindings())
}

func TestValidateBindingsFindsConflicts(t *testing.T) {
	kb := DefaultKeyBindings()
	bindingFor(kb, "copy").Keys = []string{"r"}

	conflicts := kb.ValidateBindings()
	require.Len(t, conflicts, 1)
	require.Contains(t, conflicts, "r")
	assert.ElementsMatch(t, []string{"reset", "copy"}, conflicts["r"])
}

func TestToKeyMap(t *testing.T) {
	keyMap := DefaultKeyBindings().ToKeyMap()
	assert.Equal(t, "toggle", keyMap[" "])
	assert.Equal(t, "edit_rate", keyMap["enter"])
	assert.Equal(t, "quit", keyMap["ctrl+c"])
}

func TestKeyBindingsSaveAndLoad(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	loaded, err := LoadKeyBindings()
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyBindings(), loaded, "missing file means defaults")

	kb := DefaultKeyBindings()
	bindingFor(kb, "toggle").Keys = []string{"s"}
	require.NoError(t, kb.Save())

	loaded, err = LoadKeyBindings()
	require.NoError(t, err)
	require.NotNil(t, bindingFor(loaded, "toggle"))
	assert.Equal(t, []string{"s"}, bindingFor(loaded, "toggle").Keys)
}

func TestLoadKeyBindingsEmptyFileUsesDefaults(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	require.NoError(t, (&KeyBindingsConfig{Version: "1.0"}).Save())

	loaded, err := LoadKeyBindings()
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyBindings(), loaded)
}
