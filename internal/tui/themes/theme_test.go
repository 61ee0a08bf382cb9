package themes

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"contrast", "default"}, Names())

	th, err := Lookup("contrast")
	require.NoError(t, err)
	assert.Equal(t, Contrast.Palette, th.Palette)

	_, err = Lookup("solarized")
	assert.ErrorContains(t, err, "unknown theme")
}

func TestNew_UsesPalette(t *testing.T) {
	th := New(Palette{Brand: "1", Accent: "2", Error: "3"})

	assert.Equal(t, lipgloss.Color("2"), th.Title.GetForeground())
	assert.Equal(t, lipgloss.Color("1"), th.Selected.GetBackground())
	assert.Equal(t, lipgloss.Color("3"), th.StatusError.GetForeground())
	assert.True(t, th.Title.GetBold())
}
