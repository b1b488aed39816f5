// Drives the elimination loop: every tick picks an attacker, samples a defender
// from the attacker's partition, and removes one defender warrior. Eliminations
// regenerate the matrix and open a new statistics stage.

package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/factionsim/faction-sim/sim/trace"
)

// CombatState represents the lifecycle state of a CombatResolver.
type CombatState string

const (
	StateActive   CombatState = "active"   // more than one faction remains
	StateTerminal CombatState = "terminal" // exactly one faction remains
)

var (
	// ErrInvariantViolated marks an internal inconsistency; the run must be discarded.
	ErrInvariantViolated = errors.New("combat invariant violated")
	// ErrTerminal is returned by Step once a single faction remains.
	ErrTerminal = errors.New("combat already resolved")
)

// Result is the outcome of a completed run.
type Result struct {
	Survivor Faction
	Store    *StatisticsStore
	Metrics  *Metrics
}

// CombatResolver owns the active faction set, the current matrix and partitions,
// and the statistics store. Not safe for concurrent use.
type CombatResolver struct {
	factions   []*Faction
	matrix     Matrix
	partitions []Partition
	recorder   *StatisticsRecorder

	matrixSrc Source
	combatSrc Source

	state CombatState
	stage int
	tick  int64

	Metrics *Metrics
	Trace   *trace.SimulationTrace // nil when tracing is disabled
}

// NewCombatResolver creates a resolver for cfg. matrixSrc feeds matrix
// generation; combatSrc feeds attacker and defender draws. The initial matrix,
// partitions and first stage are built before returning.
func NewCombatResolver(cfg CombatConfig, matrixSrc, combatSrc Source) (*CombatResolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid combat config: %w", err)
	}
	c := &CombatResolver{
		factions:  NewFactions(cfg),
		recorder:  NewStatisticsRecorder(NewStatisticsStore()),
		matrixSrc: matrixSrc,
		combatSrc: combatSrc,
		state:     StateActive,
		Metrics:   NewMetrics(),
	}
	if err := c.openStage(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewSeededCombatResolver creates a resolver whose draws come from isolated
// subsystems of a PartitionedRNG derived from key.
func NewSeededCombatResolver(cfg CombatConfig, key SimulationKey) (*CombatResolver, error) {
	rng := NewPartitionedRNG(key)
	return NewCombatResolver(cfg, rng.ForSubsystem(SubsystemMatrix), rng.ForSubsystem(SubsystemCombat))
}

// State returns the resolver's current lifecycle state.
func (c *CombatResolver) State() CombatState {
	return c.state
}

// Stage returns the index of the currently open stage.
func (c *CombatResolver) Stage() int {
	return c.stage
}

// Tick returns the number of ticks resolved so far.
func (c *CombatResolver) Tick() int64 {
	return c.tick
}

// ActiveFactions returns a snapshot of the factions still in play.
func (c *CombatResolver) ActiveFactions() []Faction {
	out := make([]Faction, len(c.factions))
	for i, f := range c.factions {
		out[i] = *f
	}
	return out
}

// Matrix returns the attack-probability matrix of the open stage.
func (c *CombatResolver) Matrix() Matrix {
	return c.matrix
}

// Partitions returns the sampling partitions of the open stage (nil once terminal).
func (c *CombatResolver) Partitions() []Partition {
	return c.partitions
}

// Store returns the statistics recorded so far.
func (c *CombatResolver) Store() *StatisticsStore {
	return c.recorder.Store()
}

// openStage regenerates matrix and partitions for the current faction set and
// records a fresh stage. A lone survivor gets a final stage with no opponents.
func (c *CombatResolver) openStage() error {
	if len(c.factions) > 1 {
		c.matrix = GenerateMatrix(len(c.factions), c.matrixSrc)
		c.partitions = NewPartitions(c.matrix)
	} else {
		c.matrix = Matrix{{0}}
		c.partitions = nil
	}
	if err := c.recorder.OpenStage(c.factions, c.matrix); err != nil {
		return err
	}
	c.Metrics.Stages++
	logrus.Debugf("[stage %d] opened with %d factions", c.stage, len(c.factions))
	return nil
}

// Step resolves a single tick.
func (c *CombatResolver) Step() error {
	if c.state == StateTerminal {
		return ErrTerminal
	}

	n := len(c.factions)
	a := drawIndex(c.combatSrc, n)
	draw := c.combatSrc.Float64()
	d := c.partitions[a].Sample(draw)
	if d == a || d < 0 || d >= n {
		return fmt.Errorf("%w: attacker %d sampled defender %d of %d", ErrInvariantViolated, a, d, n)
	}

	attacker, defender := c.factions[a], c.factions[d]
	if defender.Eliminated() {
		return fmt.Errorf("%w: defender %q already eliminated", ErrInvariantViolated, defender.ID)
	}
	defender.Warriors--
	if err := c.recorder.RecordKill(attacker.ID, defender.ID); err != nil {
		return err
	}
	c.tick++
	c.Metrics.Ticks++
	c.Metrics.KillsByFaction[attacker.ID]++

	if c.Trace != nil {
		c.Trace.RecordTick(trace.TickRecord{
			Tick:         c.tick,
			Stage:        c.stage,
			Attacker:     attacker.ID,
			Defender:     defender.ID,
			Draw:         draw,
			DefenderLeft: defender.Warriors,
		})
	}
	logrus.Tracef("[tick %07d] %s -> %s (%d left)", c.tick, attacker.ID, defender.ID, defender.Warriors)

	if defender.Eliminated() {
		return c.eliminate(d, attacker)
	}
	return nil
}

// eliminate removes the faction at idx and opens the next stage.
func (c *CombatResolver) eliminate(idx int, by *Faction) error {
	gone := c.factions[idx]
	c.factions = append(c.factions[:idx], c.factions[idx+1:]...)
	closed := c.stage
	c.stage++

	c.Metrics.EliminationOrder = append(c.Metrics.EliminationOrder, gone.ID)
	if c.Trace != nil {
		c.Trace.RecordElimination(trace.EliminationRecord{
			Tick:      c.tick,
			Stage:     closed,
			Faction:   gone.ID,
			Attacker:  by.ID,
			Survivors: len(c.factions),
		})
	}
	logrus.Infof("[tick %07d] faction %s eliminated by %s, %d remaining", c.tick, gone.ID, by.ID, len(c.factions))

	if len(c.factions) == 1 {
		c.state = StateTerminal
		c.Metrics.Survivor = c.factions[0].ID
	}
	return c.openStage()
}

// Survivor returns the last faction standing once the resolver is terminal.
func (c *CombatResolver) Survivor() (Faction, bool) {
	if c.state != StateTerminal {
		return Faction{}, false
	}
	return *c.factions[0], true
}

// Run steps until a single faction remains. On error no result is returned;
// partial statistics are not a valid outcome.
func (c *CombatResolver) Run() (*Result, error) {
	for c.state == StateActive {
		if err := c.Step(); err != nil {
			return nil, fmt.Errorf("tick %d: %w", c.tick+1, err)
		}
	}
	survivor, _ := c.Survivor()
	logrus.Infof("[tick %07d] combat resolved, faction %s wins", c.tick, survivor.ID)
	return &Result{
		Survivor: survivor,
		Store:    c.recorder.Store(),
		Metrics:  c.Metrics,
	}, nil
}
