package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "version")

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("project-id"))
	assert.NotNil(t, root.PersistentFlags().Lookup("port"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&out)

	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "welltegra-api "+Version)
	assert.Contains(t, out.String(), "go version")
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
	}{
		{"debug"}, {"info"}, {"warn"}, {"error"}, {"INFO"}, {"unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := newLogger(&config.Config{LogLevel: tt.level})
			require.NotNil(t, logger)
		})
	}
}
