package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/factionsim/faction-sim/sim"
)

// SQLiteStore persists finished runs into a SQLite database.
type SQLiteStore struct {
	conn *sqlx.DB
}

// StageRow is one faction stage as stored in the stages table.
type StageRow struct {
	RunID             string `db:"run_id"`
	Faction           string `db:"faction"`
	StageIndex        int    `db:"stage_index"`
	RemainingWarriors int    `db:"remaining_warriors"`
}

// EngagementRow is one attacker/opponent pair within a stage.
type EngagementRow struct {
	RunID       string  `db:"run_id"`
	Faction     string  `db:"faction"`
	StageIndex  int     `db:"stage_index"`
	Opponent    string  `db:"opponent"`
	Probability float64 `db:"probability"`
	Kills       int     `db:"kills"`
}

// OpenSQLite opens or creates a SQLite database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// sqliteDSN appends the connection pragmas to path, keeping any query
// parameters the caller already supplied.
func sqliteDSN(path string) string {
	const pragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if strings.Contains(path, "?") {
		return strings.TrimSuffix(path, "&") + "&" + pragmas
	}
	return path + "?" + pragmas
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		factions INTEGER NOT NULL,
		warriors INTEGER NOT NULL,
		survivor TEXT NOT NULL,
		ticks INTEGER NOT NULL,
		stages INTEGER NOT NULL,
		finished_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stages (
		run_id TEXT NOT NULL,
		faction TEXT NOT NULL,
		stage_index INTEGER NOT NULL,
		remaining_warriors INTEGER NOT NULL,
		PRIMARY KEY (run_id, faction, stage_index)
	);

	CREATE TABLE IF NOT EXISTS engagements (
		run_id TEXT NOT NULL,
		faction TEXT NOT NULL,
		stage_index INTEGER NOT NULL,
		opponent TEXT NOT NULL,
		probability REAL NOT NULL,
		kills INTEGER NOT NULL,
		PRIMARY KEY (run_id, faction, stage_index, opponent)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRun stores the manifest and every stage of store in one transaction.
func (s *SQLiteStore) SaveRun(m Manifest, store *sim.StatisticsStore) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(run_id, seed, factions, warriors, survivor, ticks, stages, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.Seed, m.Factions, m.Warriors, m.Survivor, m.Ticks, m.Stages,
		m.FinishedAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", m.RunID, err)
	}

	stageStmt, err := tx.Preparex(`INSERT INTO stages
		(run_id, faction, stage_index, remaining_warriors) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stageStmt.Close()

	engStmt, err := tx.Preparex(`INSERT INTO engagements
		(run_id, faction, stage_index, opponent, probability, kills) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer engStmt.Close()

	for _, id := range store.Factions() {
		for idx, st := range store.Stages(id) {
			if _, err := stageStmt.Exec(m.RunID, id, idx, st.RemainingWarriors); err != nil {
				return fmt.Errorf("insert stage %s/%d: %w", id, idx, err)
			}
			for opp, e := range st.Probabilities {
				if _, err := engStmt.Exec(m.RunID, id, idx, opp, e.Probability, e.Kills); err != nil {
					return fmt.Errorf("insert engagement %s/%d/%s: %w", id, idx, opp, err)
				}
			}
		}
	}

	return tx.Commit()
}

// RunIDs lists stored runs, oldest first.
func (s *SQLiteStore) RunIDs() ([]string, error) {
	var ids []string
	err := s.conn.Select(&ids, "SELECT run_id FROM runs ORDER BY finished_at, run_id")
	return ids, err
}

// Stages returns the stage rows of a run ordered by faction and stage.
func (s *SQLiteStore) Stages(runID string) ([]StageRow, error) {
	var rows []StageRow
	err := s.conn.Select(&rows,
		`SELECT run_id, faction, stage_index, remaining_warriors FROM stages
		 WHERE run_id = ? ORDER BY faction, stage_index`, runID)
	return rows, err
}

// Engagements returns the engagement rows of a run.
func (s *SQLiteStore) Engagements(runID string) ([]EngagementRow, error) {
	var rows []EngagementRow
	err := s.conn.Select(&rows,
		`SELECT run_id, faction, stage_index, opponent, probability, kills FROM engagements
		 WHERE run_id = ? ORDER BY faction, stage_index, opponent`, runID)
	return rows, err
}

// TotalKills sums the kill counters of a run.
func (s *SQLiteStore) TotalKills(runID string) (int64, error) {
	var total int64
	err := s.conn.Get(&total, "SELECT COALESCE(SUM(kills), 0) FROM engagements WHERE run_id = ?", runID)
	return total, err
}
