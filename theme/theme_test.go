package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.gpl")
	doc := "GIMP Palette\nName: Two\nColumns: 2\n# comment\n0 0 0 black\n255 255 255 white\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	p, err := LoadPalette(path)
	require.NoError(t, err)
	assert.Equal(t, "Two", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
	assert.Equal(t, RGB{127, 127, 127}, p.Lookup(0.5))
	assert.Equal(t, RGB{255, 255, 255}, p.Index(9))
}

func TestLoadGPLWithoutColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\n"), 0644))
	_, err := LoadGPL(path)
	assert.Error(t, err)
}

func TestDefaultTheme(t *testing.T) {
	p, err := LoadPalette("")
	require.NoError(t, err)
	th := New(p)
	assert.Equal(t, lipgloss.Color("#0d0887"), th.BG())
	assert.Equal(t, lipgloss.Color("#f0f921"), th.Success())
	assert.NotEqual(t, th.Row(0, 8), th.Row(7, 8))

	assert.NotNil(t, New(nil).Palette)
}
