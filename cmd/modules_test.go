package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-modular/framework/modules"
)

func samplePlan() *modules.Plan {
	return &modules.Plan{
		Decisions: []modules.Decision{
			{Module: "a.Bus", Active: true, Flag: "unset", Reason: "required by a.Manager"},
			{Module: "a.Manager", Active: true, Flag: "enabled", Reason: "enabled", Requires: []string{"a.EventBus"}},
		},
		Bindings: []modules.Binding{{Abstract: "a.EventBus", Module: "a.Bus"}},
	}
}

func TestWritePlan_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, samplePlan(), "table"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "MODULE"))
	assert.Contains(t, lines[1], "required by a.Manager")
}

func TestWritePlan_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, samplePlan(), "yaml"))

	var out struct {
		Decisions []modules.Decision `yaml:"decisions"`
		Bindings  []modules.Binding  `yaml:"bindings"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, samplePlan().Decisions, out.Decisions)
	assert.Equal(t, "a.Bus", out.Bindings[0].Module)
}

func TestWritePlan_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, samplePlan(), "JSON"))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out["decisions"], 2)
}

func TestWritePlan_UnknownFormat(t *testing.T) {
	assert.Error(t, writePlan(&bytes.Buffer{}, samplePlan(), "xml"))
}

func TestModulesCommand_ReadsConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "Services:\n  github.com/km-arc/go-modular/app/services.TicketManager:\n    Enabled: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"modules", "--config", path, "--output", "json"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile, modulesOutput = "", "table"
	})

	require.NoError(t, Execute())

	var plan modules.Plan
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan))
	require.Len(t, plan.Decisions, 5)
	for _, d := range plan.Decisions {
		assert.True(t, d.Active, d.Module)
	}
}
