// Per-faction, per-stage record of attack probabilities and kill counts.
// The store is an explicit value owned by the CombatResolver; nothing here is process-wide.

package sim

import (
	"encoding/json"
	"fmt"
)

// Engagement is one attacker's view of one opponent within a stage.
type Engagement struct {
	Probability float64 `json:"probability"` // attack probability in percent, fixed when the stage opens
	Kills       int     `json:"kills"`       // warriors of the opponent killed during the stage
}

// Stage is a faction's record for a period during which the faction set was unchanged.
type Stage struct {
	RemainingWarriors int                    `json:"remainingWarriors"`
	Probabilities     map[string]*Engagement `json:"probabilities"`
}

// TotalKills sums the kill counters across all opponents.
func (s *Stage) TotalKills() int {
	total := 0
	for _, e := range s.Probabilities {
		total += e.Kills
	}
	return total
}

// FactionStatistics is the serialized document of one faction.
type FactionStatistics struct {
	Stages []*Stage `json:"stages"`
}

// StatisticsStore maps faction id to its chronologically ordered stages.
type StatisticsStore struct {
	order  []string // faction ids in first-seen order
	stages map[string][]*Stage
}

// NewStatisticsStore creates an empty store.
func NewStatisticsStore() *StatisticsStore {
	return &StatisticsStore{stages: make(map[string][]*Stage)}
}

// Factions returns every faction id that has at least one stage, in first-seen order.
func (s *StatisticsStore) Factions() []string {
	return append([]string(nil), s.order...)
}

// Stages returns the stages recorded for id (nil if unknown).
func (s *StatisticsStore) Stages(id string) []*Stage {
	return s.stages[id]
}

// TotalStages counts stage entries across all factions, the survivor's
// terminal stage included, so a resolved N-faction run holds N(N+1)/2.
func (s *StatisticsStore) TotalStages() int {
	total := 0
	for _, st := range s.stages {
		total += len(st)
	}
	return total
}

// Document returns the serializable document for one faction.
func (s *StatisticsStore) Document(id string) FactionStatistics {
	return FactionStatistics{Stages: s.stages[id]}
}

// MarshalJSON encodes the store as {"<id>": {"stages": [...]}}.
// encoding/json sorts map keys, so output is stable for identical contents.
func (s *StatisticsStore) MarshalJSON() ([]byte, error) {
	docs := make(map[string]FactionStatistics, len(s.stages))
	for id := range s.stages {
		docs[id] = s.Document(id)
	}
	return json.Marshal(docs)
}

func (s *StatisticsStore) appendStage(id string, stage *Stage) {
	if _, ok := s.stages[id]; !ok {
		s.order = append(s.order, id)
	}
	s.stages[id] = append(s.stages[id], stage)
}

// StatisticsRecorder mediates all writes to a StatisticsStore.
type StatisticsRecorder struct {
	store *StatisticsStore
}

// NewStatisticsRecorder creates a recorder writing into store.
func NewStatisticsRecorder(store *StatisticsStore) *StatisticsRecorder {
	return &StatisticsRecorder{store: store}
}

// OpenStage appends a fresh stage for every active faction.
// factions[i] must correspond to row i of m.
func (r *StatisticsRecorder) OpenStage(factions []*Faction, m Matrix) error {
	if m.Size() != len(factions) {
		return fmt.Errorf("%w: matrix size %d for %d factions", ErrInvariantViolated, m.Size(), len(factions))
	}
	for i, f := range factions {
		probabilities := make(map[string]*Engagement, len(factions)-1)
		for j, opponent := range factions {
			if j == i {
				continue
			}
			probabilities[opponent.ID] = &Engagement{Probability: m[i][j] * 100}
		}
		r.store.appendStage(f.ID, &Stage{
			RemainingWarriors: f.Warriors,
			Probabilities:     probabilities,
		})
	}
	return nil
}

// RecordKill increments the attacker's kill counter against defender in the
// attacker's most recently opened stage.
func (r *StatisticsRecorder) RecordKill(attacker, defender string) error {
	stages := r.store.stages[attacker]
	if len(stages) == 0 {
		return fmt.Errorf("%w: no open stage for attacker %q", ErrInvariantViolated, attacker)
	}
	e, ok := stages[len(stages)-1].Probabilities[defender]
	if !ok {
		return fmt.Errorf("%w: attacker %q has no engagement with %q in its open stage", ErrInvariantViolated, attacker, defender)
	}
	e.Kills++
	return nil
}

// Store returns the underlying store.
func (r *StatisticsRecorder) Store() *StatisticsStore {
	return r.store
}
