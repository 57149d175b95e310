package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MatchStatus is the lifecycle of a recorded match.
type MatchStatus string

const (
	StatusInProgress MatchStatus = "in_progress"
	StatusFinished   MatchStatus = "finished"
	StatusAbandoned  MatchStatus = "abandoned"
)

// Match is one recorded game. Winner holds the side key ("left" or
// "right") and is empty until the match finishes.
type Match struct {
	ID         string      `db:"id" json:"id"`
	Status     MatchStatus `db:"status" json:"status"`
	LeftScore  int         `db:"left_score" json:"left_score"`
	RightScore int         `db:"right_score" json:"right_score"`
	Winner     string      `db:"winner" json:"winner,omitempty"`
	WinScore   int         `db:"win_score" json:"win_score"`
	StartedAt  time.Time   `db:"started_at" json:"started_at"`
	FinishedAt *time.Time  `db:"finished_at" json:"finished_at,omitempty"`
}

// Stats summarises the whole history.
type Stats struct {
	Matches   int `db:"matches" json:"matches"`
	Finished  int `db:"finished" json:"finished"`
	Abandoned int `db:"abandoned" json:"abandoned"`
	LeftWins  int `db:"left_wins" json:"left_wins"`
	RightWins int `db:"right_wins" json:"right_wins"`
	Goals     int `db:"goals" json:"goals"`
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

const matchColumns = `id, status, left_score, right_score, winner, win_score, started_at, finished_at`

// MatchRepository provides CRUD operations for matches.
type MatchRepository struct {
	db *sqlx.DB
}

// Matches returns the match repository for this store.
func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{db: s.db}
}

// Create inserts m as a new in-progress match, filling in its ID and start
// time when they are empty.
func (r *MatchRepository) Create(m *Match) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.StartedAt.IsZero() {
		m.StartedAt = time.Now().UTC()
	}
	if m.Status == "" {
		m.Status = StatusInProgress
	}

	_, err := r.db.NamedExec(
		`INSERT INTO matches (`+matchColumns+`)
		 VALUES (:id, :status, :left_score, :right_score, :winner, :win_score, :started_at, :finished_at)`,
		m,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(id string) (*Match, error) {
	var m Match
	err := r.db.Get(&m, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns the most recent matches first. limit is clamped to
// [1, MaxListLimit] with DefaultListLimit for non-positive values.
func (r *MatchRepository) List(limit int) ([]Match, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	matches := []Match{}
	err := r.db.Select(&matches,
		`SELECT `+matchColumns+` FROM matches ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// updateScore stores the running score of a match. Only an in-progress
// match takes a new score; anything else is ErrNotFound.
func updateScore(db sqlx.Execer, id string, left, right int) error {
	res, err := db.Exec(
		`UPDATE matches SET left_score = ?, right_score = ? WHERE id = ? AND status = ?`,
		left, right, id, StatusInProgress,
	)
	return affected(res, err)
}

// Finish records the final score and winner.
func (r *MatchRepository) Finish(id, winner string, left, right int) error {
	res, err := r.db.Exec(
		`UPDATE matches
		 SET status = ?, winner = ?, left_score = ?, right_score = ?, finished_at = ?
		 WHERE id = ? AND status = ?`,
		StatusFinished, winner, left, right, time.Now().UTC(), id, StatusInProgress,
	)
	return affected(res, err)
}

// Abandon closes an in-progress match that will never finish, for example
// because it was reset.
func (r *MatchRepository) Abandon(id string) error {
	res, err := r.db.Exec(
		`UPDATE matches SET status = ?, finished_at = ? WHERE id = ? AND status = ?`,
		StatusAbandoned, time.Now().UTC(), id, StatusInProgress,
	)
	return affected(res, err)
}

// AbandonOpen marks every in-progress match abandoned and returns how many
// there were. It is run at start-up to close matches cut short by a crash.
func (r *MatchRepository) AbandonOpen() (int64, error) {
	res, err := r.db.Exec(
		`UPDATE matches SET status = ?, finished_at = ? WHERE status = ?`,
		StatusAbandoned, time.Now().UTC(), StatusInProgress,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a match and its goals.
func (r *MatchRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM matches WHERE id = ?`, id)
	return affected(res, err)
}

func (r *MatchRepository) Stats() (*Stats, error) {
	var st Stats
	err := r.db.Get(&st, `
		SELECT
			COUNT(*) AS matches,
			COALESCE(SUM(status = 'finished'), 0) AS finished,
			COALESCE(SUM(status = 'abandoned'), 0) AS abandoned,
			COALESCE(SUM(status = 'finished' AND winner = 'left'), 0) AS left_wins,
			COALESCE(SUM(status = 'finished' AND winner = 'right'), 0) AS right_wins,
			(SELECT COUNT(*) FROM goals) AS goals
		FROM matches`)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
