package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	msg, ok := Parse("  Reschedule 2025-03-27 ")
	require.True(t, ok)
	assert.Equal(t, "reschedule", msg.Name)
	assert.Equal(t, []string{"2025-03-27"}, msg.Args)

	msg, ok = Parse("quit")
	require.True(t, ok)
	assert.Equal(t, "quit", msg.Name)
	assert.Empty(t, msg.Args)

	_, ok = Parse("   ")
	assert.False(t, ok)
}

func TestEnter_EmitsCommand(t *testing.T) {
	m := New(80, 24)
	m.Focus()
	for _, r := range "status completed" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Name: "status", Args: []string{"completed"}}, cmd())
	assert.Equal(t, "", m.input.Value())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
