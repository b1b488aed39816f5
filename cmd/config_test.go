package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRunConfig_AllFields(t *testing.T) {
	path := writeConfig(t, `
factions: 5
warriors: 50
seed: 7
names: [red, blue, green, gold, grey]
output: out
sqlite: runs.db
trace: ticks
`)
	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)

	seed := int64(7)
	assert.Equal(t, &RunConfig{
		Factions: 5,
		Warriors: 50,
		Seed:     &seed,
		Names:    []string{"red", "blue", "green", "gold", "grey"},
		Output:   "out",
		SQLite:   "runs.db",
		Trace:    "ticks",
	}, cfg)
}

func TestLoadRunConfig_UnknownKeyRejected(t *testing.T) {
	// GIVEN a typo in a key
	path := writeConfig(t, "factoins: 5\n")

	// WHEN loaded
	_, err := LoadRunConfig(path)

	// THEN strict parsing rejects it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factoins")
}

func TestLoadRunConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative factions", "factions: -3\n"},
		{"negative warriors", "warriors: -1\n"},
		{"bad trace level", "trace: verbose\n"},
		{"wrong type", "factions: many\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRunConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadRunConfig_MissingFile(t *testing.T) {
	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRunConfig_ApplyTo_FlagsWin(t *testing.T) {
	// GIVEN file values for every field
	seed := int64(9)
	rc := &RunConfig{Factions: 6, Warriors: 10, Seed: &seed, Names: []string{"x"}, Output: "file-out", SQLite: "file.db", Trace: "ticks"}
	opts := runOptions{factions: 3, warriors: 100, seed: 42, outputDir: "output", traceLevel: "none"}

	// WHEN only --factions and --output were set on the command line
	changed := map[string]bool{"factions": true, "output": true}
	rc.applyTo(&opts, func(flag string) bool { return changed[flag] })

	// THEN explicit flags keep their values and the file fills the rest
	assert.Equal(t, runOptions{
		factions:   3,
		warriors:   10,
		seed:       9,
		names:      []string{"x"},
		outputDir:  "output",
		sqlitePath: "file.db",
		traceLevel: "ticks",
	}, opts)
}

func TestRunConfig_ApplyTo_EmptyFileChangesNothing(t *testing.T) {
	opts := runOptions{factions: 4, warriors: 100, seed: 42, outputDir: "output", traceLevel: "none"}
	want := opts
	(&RunConfig{}).applyTo(&opts, func(string) bool { return false })
	assert.Equal(t, want, opts)
}
