package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var legacyProject = filepath.Join("..", "..", "internal", "loader", "testdata", "project_510.xml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PKSNAP_CONFIG", "")
	t.Chdir(t.TempDir())

	cmd, opts := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	require.NoError(t, opts.close())
	return out.String(), err
}

func TestConvertAndSnapshot(t *testing.T) {
	src, err := filepath.Abs(legacyProject)
	require.NoError(t, err)
	dir := t.TempDir()
	converted := filepath.Join(dir, "Project.json")

	out, err := execute(t, "convert", src, converted)
	require.NoError(t, err, out)
	assert.Contains(t, out, "converted")

	yamlOut := filepath.Join(dir, "Project.yaml")
	exportDir := filepath.Join(dir, "export")
	out, err = execute(t, "snapshot", converted, yamlOut, "--export", exportDir)
	require.NoError(t, err, out)
	assert.FileExists(t, yamlOut)

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestQualify(t *testing.T) {
	src, err := filepath.Abs(legacyProject)
	require.NoError(t, err)
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "Base.json")
	_, err = execute(t, "convert", src, snapshotPath)
	require.NoError(t, err)

	outputFolder := filepath.Join(dir, "out")
	stale := filepath.Join(outputFolder, "Base", "stale.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))

	cfg, err := json.Marshal(map[string]any{"SnapshotPath": snapshotPath, "OutputFolder": outputFolder})
	require.NoError(t, err)
	cfgPath := filepath.Join(dir, "qualification.json")
	require.NoError(t, os.WriteFile(cfgPath, cfg, 0o644))

	textfile := filepath.Join(dir, "pksnap.prom")
	out, err := execute(t, "qualify", cfgPath, "--metrics-textfile", textfile)
	require.NoError(t, err, out)

	assert.NoFileExists(t, stale)
	entries, err := os.ReadDir(filepath.Join(outputFolder, "Base"))
	require.NoError(t, err)
	var jsonFiles, yamlFiles int
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".json":
			jsonFiles++
		case ".yaml":
			yamlFiles++
		}
	}
	assert.Positive(t, jsonFiles)
	assert.Equal(t, jsonFiles, yamlFiles)

	metrics, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `pksnap_qualification_runs_total{outcome="success"} 1`)
}

func TestQualifyInvalidConfiguration(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "qualification.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"SnapshotPath":"x.json","OutputFolder":""}`), 0o644))

	out, err := execute(t, "qualify", cfgPath)
	require.Error(t, err)
	assert.Contains(t, out, "QualificationOutputFolderNotDefined")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("warn", "json", &buf)
	log.Info("hidden")
	log.Warn("shown", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "value", rec["key"])

	buf.Reset()
	newLogger("bogus", "text", &buf).Info("info is the fallback")
	assert.Contains(t, buf.String(), "level=INFO")
}
