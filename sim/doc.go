// Package sim provides the combat engine for faction-sim.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - matrix.go: stick-breaking generation of the attack-probability matrix
//   - partition.go: cumulative-interval encoding of a row and draw sampling
//   - statistics.go: per-faction, per-stage probabilities and kill counters
//   - combat.go: the Active/Terminal state machine that drives the run
//
// # Determinism
//
// All randomness flows through the Source interface. NewSeededCombatResolver
// derives separate matrix and combat streams from a single SimulationKey via
// PartitionedRNG, so two runs with the same key and config produce identical
// statistics. Decision tracing lives in sim/trace/ and is optional.
//
// The engine performs no I/O besides logging; serialization is done by the
// export package and the CLI in cmd/.
package sim
