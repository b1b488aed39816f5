package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factionsim/faction-sim/export"
	sim "github.com/factionsim/faction-sim/sim"
)

func testOptions(t *testing.T, factions int) runOptions {
	t.Helper()
	return runOptions{
		factions:   factions,
		warriors:   sim.DefaultWarriors,
		seed:       42,
		outputDir:  filepath.Join(t.TempDir(), "output"),
		traceLevel: "none",
	}
}

func TestRunSimulation_WritesOneDocumentPerFaction(t *testing.T) {
	// GIVEN a 4-faction run with JSON output
	opts := testOptions(t, 4)

	// WHEN the simulation runs
	res, err := runSimulation(opts)
	require.NoError(t, err)

	// THEN each faction has a document and a manifest is present
	for _, id := range []string{"0", "1", "2", "3"} {
		assert.FileExists(t, filepath.Join(opts.outputDir, export.FactionFileName(id)))
	}
	assert.FileExists(t, filepath.Join(opts.outputDir, export.ManifestFile))
	assert.NoFileExists(t, filepath.Join(opts.outputDir, export.TraceFile))
	assert.Len(t, res.Metrics.EliminationOrder, 3)
}

func TestRunSimulation_SameSeed_ByteIdenticalDocuments(t *testing.T) {
	a := testOptions(t, 5)
	b := testOptions(t, 5)

	_, err := runSimulation(a)
	require.NoError(t, err)
	_, err = runSimulation(b)
	require.NoError(t, err)

	for _, id := range []string{"0", "1", "2", "3", "4"} {
		da, err := os.ReadFile(filepath.Join(a.outputDir, export.FactionFileName(id)))
		require.NoError(t, err)
		db, err := os.ReadFile(filepath.Join(b.outputDir, export.FactionFileName(id)))
		require.NoError(t, err)
		assert.Equal(t, string(da), string(db), "faction %s differs between identical runs", id)
	}
}

func TestRunSimulation_TraceAndSQLite(t *testing.T) {
	opts := testOptions(t, 3)
	opts.traceLevel = "ticks"
	opts.sqlitePath = filepath.Join(t.TempDir(), "runs.db")

	res, err := runSimulation(opts)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(opts.outputDir, export.TraceFile))
	db, err := export.OpenSQLite(opts.sqlitePath)
	require.NoError(t, err)
	defer db.Close()
	ids, err := db.RunIDs()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	total, err := db.TotalKills(ids[0])
	require.NoError(t, err)
	assert.Equal(t, res.Metrics.Ticks, total)
	assert.NotEmpty(t, res.Survivor.ID)
}

func TestRunSimulation_ClearsStaleOutput(t *testing.T) {
	opts := testOptions(t, 2)
	require.NoError(t, os.MkdirAll(opts.outputDir, 0o755))
	stale := filepath.Join(opts.outputDir, export.FactionFileName("7"))
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))

	_, err := runSimulation(opts)
	require.NoError(t, err)

	assert.NoFileExists(t, stale)
}

func TestRunSimulation_NoOutputDir_SkipsJSON(t *testing.T) {
	opts := testOptions(t, 2)
	opts.outputDir = ""

	res, err := runSimulation(opts)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Store.TotalStages())
}

func TestRunSimulation_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runOptions)
	}{
		{"unknown trace level", func(o *runOptions) { o.traceLevel = "verbose" }},
		{"no warriors", func(o *runOptions) { o.warriors = 0 }},
		{"name count mismatch", func(o *runOptions) { o.names = []string{"only"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t, 3)
			tt.mutate(&opts)
			_, err := runSimulation(opts)
			assert.Error(t, err)
		})
	}
}

func TestRunSimulation_InvalidOptions_LeaveOutputDirAlone(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runOptions)
	}{
		{"unknown trace level", func(o *runOptions) { o.traceLevel = "verbose" }},
		{"name count mismatch", func(o *runOptions) { o.names = []string{"only"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN an output directory holding a previous run and an unrelated file
			opts := testOptions(t, 3)
			tt.mutate(&opts)
			require.NoError(t, os.MkdirAll(opts.outputDir, 0o755))
			previous := filepath.Join(opts.outputDir, export.FactionFileName("0"))
			require.NoError(t, os.WriteFile(previous, []byte("{}"), 0o644))
			thesis := filepath.Join(opts.outputDir, "thesis.tex")
			require.NoError(t, os.WriteFile(thesis, []byte("\\documentclass{article}"), 0o644))

			// WHEN the run is rejected
			_, err := runSimulation(opts)
			require.Error(t, err)

			// THEN nothing in the directory was removed
			assert.FileExists(t, previous)
			assert.FileExists(t, thesis)
		})
	}
}

func TestRunSimulation_KeepsUnrelatedFilesInOutputDir(t *testing.T) {
	opts := testOptions(t, 2)
	require.NoError(t, os.MkdirAll(opts.outputDir, 0o755))
	thesis := filepath.Join(opts.outputDir, "thesis.tex")
	require.NoError(t, os.WriteFile(thesis, []byte("draft"), 0o644))

	_, err := runSimulation(opts)
	require.NoError(t, err)

	assert.FileExists(t, thesis)
	assert.FileExists(t, filepath.Join(opts.outputDir, export.ManifestFile))
}

func TestMetricsAndWinnerPrintedToStdout(t *testing.T) {
	// GIVEN a finished run
	opts := testOptions(t, 3)
	opts.outputDir = ""
	res, err := runSimulation(opts)
	require.NoError(t, err)

	// WHEN metrics and the winner are reported
	var buf bytes.Buffer
	res.Metrics.Print(&buf, time.Now())
	announceWinner(&buf, res)

	// THEN both appear in the output
	assert.Contains(t, buf.String(), "Combat Metrics")
	assert.Contains(t, buf.String(), "The faction number "+res.Survivor.ID+" wins")
}
