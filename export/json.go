// Package export writes completed combat statistics to disk.
// It is the only place besides cmd/ that performs file I/O.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/factionsim/faction-sim/sim"
	"github.com/factionsim/faction-sim/sim/trace"
)

const (
	// ManifestFile is the name of the run summary written next to the faction documents.
	ManifestFile = "run.json"
	// TraceFile holds the per-tick decision trace when tracing is enabled.
	TraceFile = "trace.json"
)

// FactionFileName returns the document name for faction id.
func FactionFileName(id string) string {
	return fmt.Sprintf("faction_%s.json", id)
}

// Manifest describes a single run.
type Manifest struct {
	RunID            string    `json:"run_id"`
	Seed             int64     `json:"seed"`
	Factions         int       `json:"factions"`
	Warriors         int       `json:"warriors"`
	Survivor         string    `json:"survivor"`
	Ticks            int64     `json:"ticks"`
	Stages           int       `json:"stages"`
	EliminationOrder []string  `json:"elimination_order"`
	FinishedAt       time.Time `json:"finished_at"`
}

// NewManifest builds a manifest for a finished run with a fresh run id.
func NewManifest(cfg sim.CombatConfig, seed int64, res *sim.Result) Manifest {
	return Manifest{
		RunID:            uuid.NewString(),
		Seed:             seed,
		Factions:         cfg.Factions,
		Warriors:         cfg.Warriors,
		Survivor:         res.Survivor.ID,
		Ticks:            res.Metrics.Ticks,
		Stages:           res.Metrics.Stages,
		EliminationOrder: res.Metrics.EliminationOrder,
		FinishedAt:       time.Now().UTC(),
	}
}

// ClearOutput prepares dir for a new run: it creates dir if needed and removes
// the documents a previous run left there. Files this package did not write
// are left untouched.
func ClearOutput(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	owned, err := filepath.Glob(filepath.Join(dir, FactionFileName("*")))
	if err != nil {
		return fmt.Errorf("listing output directory: %w", err)
	}
	owned = append(owned, filepath.Join(dir, ManifestFile), filepath.Join(dir, TraceFile))
	for _, path := range owned {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clearing output directory: %w", err)
		}
	}
	return nil
}

// WriteFactionFiles writes one indented {"stages": [...]} document per faction into dir.
func WriteFactionFiles(dir string, store *sim.StatisticsStore) error {
	for _, id := range store.Factions() {
		path := filepath.Join(dir, FactionFileName(id))
		if err := writeJSON(path, store.Document(id)); err != nil {
			return fmt.Errorf("writing faction %s: %w", id, err)
		}
		logrus.Debugf("wrote %s", path)
	}
	return nil
}

// WriteManifest writes m as run.json into dir.
func WriteManifest(dir string, m Manifest) error {
	if err := writeJSON(filepath.Join(dir, ManifestFile), m); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// WriteTrace writes the tick and elimination records as trace.json into dir.
func WriteTrace(dir string, st *trace.SimulationTrace) error {
	doc := struct {
		Ticks        []trace.TickRecord        `json:"ticks"`
		Eliminations []trace.EliminationRecord `json:"eliminations"`
	}{st.Ticks, st.Eliminations}
	if err := writeJSON(filepath.Join(dir, TraceFile), doc); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

// ReadFactionFile loads a faction document written by WriteFactionFiles.
func ReadFactionFile(dir, id string) (*sim.FactionStatistics, error) {
	data, err := os.ReadFile(filepath.Join(dir, FactionFileName(id)))
	if err != nil {
		return nil, fmt.Errorf("reading faction %s: %w", id, err)
	}
	var doc sim.FactionStatistics
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing faction %s: %w", id, err)
	}
	return &doc, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
