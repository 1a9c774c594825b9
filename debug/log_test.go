package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWritesCategoryLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, Enable(path))
	t.Cleanup(Disable)
	assert.True(t, Enabled())

	Log("engine", "play tempo=%d", 120)
	for i := 0; i < 4; i++ {
		LogEvery(2, "tick", "step=%d", i)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Debug logging started")
	assert.Contains(t, out, "engine")
	assert.Contains(t, out, "play tempo=120")
	assert.Equal(t, 2, strings.Count(out, "(every 2"))
}

func TestLogDisabledIsSilent(t *testing.T) {
	Disable()
	assert.False(t, Enabled())
	Log("engine", "nothing")
	LogEvery(1, "tick", "nothing")
}
