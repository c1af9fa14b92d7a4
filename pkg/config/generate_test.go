package config

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[store]")
	assert.Contains(t, content, `# db_file = "db.json"`)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := &Config{
		Store:   Store{DBFile: "a.json", LogFile: "a.log", AtomicWrites: true},
		Logging: Logging{Verbosity: 1},
		Output:  Output{Format: "yaml", Color: false},
	}

	content, err := Encode(cfg)
	require.NoError(t, err)
	assert.Contains(t, content, "[store]")

	var back Config
	require.NoError(t, toml.Unmarshal([]byte(content), &back))
	assert.Equal(t, *cfg, back)
}
