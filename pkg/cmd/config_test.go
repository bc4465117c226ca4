package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := loadConfig(&cmdFlags{})
	require.NoError(t, err)

	assert.Equal(t, ":8103", cfg.Office.Listen)
	assert.Equal(t, ":8104", cfg.Chat.Listen)
	assert.Equal(t, ":8105", cfg.Page.Listen)
}

func TestLoadConfig_EnvOverridesDefault(t *testing.T) {
	t.Setenv("OFFICE_LISTEN", ":9000")

	cfg, err := loadConfig(&cmdFlags{})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Office.Listen)
}
