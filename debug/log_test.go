package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDisabled(t *testing.T) {
	Disable()
	assert.False(t, Enabled())
	Log("test", "dropped %d", 1) // must not panic
}

func TestLogWriter(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("player", "speed=%.1f", 1.5)
	out := buf.String()
	assert.Contains(t, out, "=== Debug logging started ===")
	assert.Contains(t, out, "player     speed=1.5")
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "tick", "frame")
	}
	lines := strings.Count(buf.String(), "frame (every 5")
	assert.Equal(t, 2, lines)
	assert.Contains(t, buf.String(), "count=10")
}

func TestEnableFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Enable(dir))
	Log("load", "tracks=%d", 3)
	Disable()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "tracks=3")
}
