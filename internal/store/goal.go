package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Goal is one point scored in a match, with the score after it.
type Goal struct {
	ID         string    `db:"id" json:"id"`
	MatchID    string    `db:"match_id" json:"match_id"`
	Seq        int       `db:"seq" json:"seq"`
	Scorer     string    `db:"scorer" json:"scorer"`
	LeftScore  int       `db:"left_score" json:"left_score"`
	RightScore int       `db:"right_score" json:"right_score"`
	Tick       int64     `db:"tick" json:"tick"`
	PuckY      float64   `db:"puck_y" json:"puck_y"`
	ScoredAt   time.Time `db:"scored_at" json:"scored_at"`
}

// GoalRepository stores goals.
type GoalRepository struct {
	db *sqlx.DB
}

// Goals returns the goal repository for this store.
func (s *Store) Goals() *GoalRepository {
	return &GoalRepository{db: s.db}
}

// Add appends g to its match. Seq is assigned as the next number in the
// match and the match's running score is updated in the same transaction.
// A match that is no longer in progress takes no goals (ErrNotFound).
func (r *GoalRepository) Add(g *Goal) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.ScoredAt.IsZero() {
		g.ScoredAt = time.Now().UTC()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.Get(&g.Seq, `SELECT COALESCE(MAX(seq), 0) + 1 FROM goals WHERE match_id = ?`, g.MatchID); err != nil {
		return fmt.Errorf("next goal seq: %w", err)
	}

	if _, err := tx.NamedExec(
		`INSERT INTO goals (id, match_id, seq, scorer, left_score, right_score, tick, puck_y, scored_at)
		 VALUES (:id, :match_id, :seq, :scorer, :left_score, :right_score, :tick, :puck_y, :scored_at)`,
		g,
	); err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	if err := updateScore(tx, g.MatchID, g.LeftScore, g.RightScore); err != nil {
		return fmt.Errorf("goal for match %s: %w", g.MatchID, err)
	}

	return tx.Commit()
}

// ListByMatch returns the goals of a match in the order they were scored.
func (r *GoalRepository) ListByMatch(matchID string) ([]Goal, error) {
	goals := []Goal{}
	err := r.db.Select(&goals,
		`SELECT id, match_id, seq, scorer, left_score, right_score, tick, puck_y, scored_at
		 FROM goals WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, err
	}
	return goals, nil
}
