package ui

import (
	"errors"
	"strings"
	"testing"

	"dualstream/keys"

	"github.com/stretchr/testify/assert"
)

func TestMenuToggleLabel(t *testing.T) {
	m := NewMenu()
	m.SetSize(200, 1)

	assert.Contains(t, m.String(), "space start")
	m.SetRunning(true)
	assert.Contains(t, m.String(), "space stop")
}

func TestMenuStates(t *testing.T) {
	m := NewMenu()
	m.SetSize(200, 1)

	out := m.String()
	assert.Contains(t, out, "edit rate")
	assert.Contains(t, out, "copy output")
	assert.Equal(t, 2, strings.Count(out, "│"), "three option groups")

	m.SetState(StateEditRate)
	out = m.String()
	assert.Contains(t, out, "set rate")
	assert.Contains(t, out, "cancel")
	assert.NotContains(t, out, "copy output")
}

func TestMenuKeydown(t *testing.T) {
	m := NewMenu()
	m.Keydown(keys.KeyCopy)
	assert.Equal(t, keys.KeyCopy, m.keyDown)
	m.ClearKeydown()
	assert.Equal(t, keys.KeyName(-1), m.keyDown)
}

func TestErrBox(t *testing.T) {
	e := NewErrBox()
	e.SetSize(20, 1)

	assert.Equal(t, strings.Repeat(" ", 20), e.String())

	e.SetError(errors.New("first line\nsecond line"))
	out := e.String()
	assert.Contains(t, out, "first line//se...")
	assert.Equal(t, 20, len(out))

	e.SetInfo("copied")
	assert.Contains(t, e.String(), "copied")

	e.Clear()
	assert.Equal(t, strings.Repeat(" ", 20), e.String())
}
