// Package store persists rollouts in SQLite so that the transitions
// gathered during training can be inspected and replayed later.
//
// Each rollout is one row of the rollouts table. Its transitions are
// stored in order in the transitions table, with the tuple fields
// keeping their types: state and next state as little-endian float64
// BLOBs, action and done as INTEGERs and reward as a REAL.
package store

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/samuelfneumann/goptions/region"
	"github.com/samuelfneumann/goptions/rollout"
	ts "github.com/samuelfneumann/goptions/timestep"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS rollouts (
	rollout_id     TEXT PRIMARY KEY,
	kind           TEXT NOT NULL,
	episode        INTEGER NOT NULL,
	task           INTEGER NOT NULL,
	option_index   INTEGER NOT NULL,
	outcome        TEXT NOT NULL,
	initial_region INTEGER NOT NULL,
	end_region     INTEGER NOT NULL,
	total_reward   REAL NOT NULL,
	final_done     INTEGER NOT NULL,
	steps          INTEGER NOT NULL,
	pos_x          INTEGER NOT NULL,
	pos_y          INTEGER NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transitions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	rollout_id  TEXT NOT NULL,
	trajectory  TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	state       BLOB NOT NULL,
	action      INTEGER NOT NULL,
	reward      REAL NOT NULL,
	next_state  BLOB NOT NULL,
	done        INTEGER NOT NULL,
	FOREIGN KEY (rollout_id) REFERENCES rollouts(rollout_id)
);

CREATE INDEX IF NOT EXISTS idx_rollouts_episode ON rollouts(episode);
CREATE INDEX IF NOT EXISTS idx_transitions_rollout
	ON transitions(rollout_id, trajectory, seq);
`

// Kind is the kind of rollout a Record holds
type Kind string

const (
	Option  Kind = "option"
	Explore Kind = "explore"
)

const (
	actual   = "actual"
	intended = "intended"
)

// Record is a persisted rollout
type Record struct {
	ID      string
	Kind    Kind
	Episode int
	Task    rollout.Task

	// Option is the option that was executed, or -1 for exploration
	Option int

	// Outcome is the outcome of an option execution. It is empty for
	// exploration.
	Outcome string

	Initial     region.ID
	End         region.ID
	TotalReward float64
	FinalDone   bool
	Steps       int
	Position    ts.Position
	CreatedAt   time.Time

	Transitions ts.Trajectory
	Intended    ts.Trajectory
}

// Store manages persisted rollouts in SQLite
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at path and creates its tables if
// needed
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open: pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open: pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("open: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult stores the result of executing option from region initial
// and returns the new rollout's ID
func (s *Store) SaveResult(episode int, task rollout.Task, option int,
	initial region.ID, res rollout.Result) (string, error) {
	rec := Record{
		Kind:        Option,
		Episode:     episode,
		Task:        task,
		Option:      option,
		Outcome:     res.Outcome.String(),
		Initial:     initial,
		End:         res.EndRegion,
		TotalReward: res.TotalReward,
		FinalDone:   res.FinalDone,
		Steps:       res.Steps,
		Position:    res.Position,
		Transitions: res.Transitions,
		Intended:    res.Intended,
	}
	id, err := s.save(rec)
	if err != nil {
		return "", fmt.Errorf("saveResult: %w", err)
	}
	return id, nil
}

// SaveExploration stores an exploratory rollout and returns the new
// rollout's ID
func (s *Store) SaveExploration(episode int, task rollout.Task,
	res rollout.Exploration) (string, error) {
	rec := Record{
		Kind:        Explore,
		Episode:     episode,
		Task:        task,
		Option:      -1,
		Initial:     res.Initial,
		End:         res.Next,
		TotalReward: res.TotalReward,
		FinalDone:   res.FinalDone,
		Steps:       res.Steps,
		Position:    res.Position,
		Transitions: res.Transitions,
	}
	id, err := s.save(rec)
	if err != nil {
		return "", fmt.Errorf("saveExploration: %w", err)
	}
	return id, nil
}

func (s *Store) save(rec Record) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO rollouts (rollout_id, kind, episode, task, option_index,
			outcome, initial_region, end_region, total_reward, final_done,
			steps, pos_x, pos_y, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(rec.Kind), rec.Episode, int(rec.Task), rec.Option,
		rec.Outcome, rec.Initial.Code(), rec.End.Code(), rec.TotalReward,
		boolToInt(rec.FinalDone), rec.Steps, rec.Position.X, rec.Position.Y,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert rollout: %w", err)
	}

	if err := insertTrajectory(tx, id, actual, rec.Transitions); err != nil {
		return "", err
	}
	if err := insertTrajectory(tx, id, intended, rec.Intended); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func insertTrajectory(tx *sql.Tx, id, name string, t ts.Trajectory) error {
	for i, tr := range t {
		_, err := tx.Exec(
			`INSERT INTO transitions (rollout_id, trajectory, seq, state,
				action, reward, next_state, done)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, name, i, encodeVector(tr.State), tr.Action, tr.Reward,
			encodeVector(tr.NextState), boolToInt(tr.Done),
		)
		if err != nil {
			return fmt.Errorf("insert %s transition %d: %w", name, i, err)
		}
	}
	return nil
}

// Load retrieves the rollout with the argument ID
func (s *Store) Load(id string) (Record, error) {
	var rec Record
	var kind, createdStr string
	var task, initial, end, finalDone int

	err := s.db.QueryRow(
		`SELECT rollout_id, kind, episode, task, option_index, outcome,
			initial_region, end_region, total_reward, final_done, steps,
			pos_x, pos_y, created_at
		 FROM rollouts WHERE rollout_id = ?`, id,
	).Scan(&rec.ID, &kind, &rec.Episode, &task, &rec.Option, &rec.Outcome,
		&initial, &end, &rec.TotalReward, &finalDone, &rec.Steps,
		&rec.Position.X, &rec.Position.Y, &createdStr)
	if err != nil {
		return Record{}, fmt.Errorf("load %s: %w", id, err)
	}

	rec.Kind = Kind(kind)
	rec.Task = rollout.Task(task)
	rec.Initial = region.FromCode(initial)
	rec.End = region.FromCode(end)
	rec.FinalDone = finalDone != 0
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
		return Record{}, fmt.Errorf("load %s: created_at: %w", id, err)
	}

	if rec.Transitions, err = s.trajectory(id, actual); err != nil {
		return Record{}, fmt.Errorf("load %s: %w", id, err)
	}
	if rec.Intended, err = s.trajectory(id, intended); err != nil {
		return Record{}, fmt.Errorf("load %s: %w", id, err)
	}
	return rec, nil
}

func (s *Store) trajectory(id, name string) (ts.Trajectory, error) {
	rows, err := s.db.Query(
		`SELECT state, action, reward, next_state, done FROM transitions
		 WHERE rollout_id = ? AND trajectory = ? ORDER BY seq`, id, name,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s transitions: %w", name, err)
	}
	defer rows.Close()

	var t ts.Trajectory
	for rows.Next() {
		var state, next []byte
		var tr ts.Transition
		var done int
		if err := rows.Scan(&state, &tr.Action, &tr.Reward, &next,
			&done); err != nil {
			return nil, fmt.Errorf("scan %s transition: %w", name, err)
		}
		tr.State = decodeVector(state)
		tr.NextState = decodeVector(next)
		tr.Done = done != 0
		t = append(t, tr)
	}
	return t, rows.Err()
}

// Episode returns the IDs of the rollouts of an episode in the order
// they were saved
func (s *Store) Episode(episode int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT rollout_id FROM rollouts WHERE episode = ? ORDER BY rowid`,
		episode,
	)
	if err != nil {
		return nil, fmt.Errorf("episode %d: %w", episode, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("episode %d: %w", episode, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the number of stored rollouts of each kind
func (s *Store) Count() (map[Kind]int, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM rollouts GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	defer rows.Close()

	counts := make(map[Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
		counts[Kind(kind)] = n
	}
	return counts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeVector(v *mat.VecDense) []byte {
	if v == nil {
		return []byte{}
	}
	buf := make([]byte, v.Len()*8)
	for i := 0; i < v.Len(); i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v.AtVec(i)))
	}
	return buf
}

func decodeVector(b []byte) *mat.VecDense {
	n := len(b) / 8
	if n == 0 {
		return nil
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return mat.NewVecDense(n, data)
}
