package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrGameNotFound is returned when a game row does not exist.
var ErrGameNotFound = errors.New("game not found")

// Owner identifies who started a game: a signed-in user or a guest cookie.
type Owner struct {
	UserID string
	AnonID string
}

// GameRow is one line of a player's history. The answer is never stored.
type GameRow struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// InsertGame records that a game started.
func (s *Store) InsertGame(ctx context.Context, id, mode string, o Owner) error {
	now := time.Now().UTC().Format(time.RFC3339)
	var userID, anonID any
	if o.UserID != "" {
		userID = o.UserID
	} else {
		anonID = o.AnonID
	}
	_, err := s.DB.ExecContext(ctx, `INSERT INTO games (id, user_id, anonymous_id, mode, started_at, status, guesses)
	                                 VALUES (?,?,?,?,?,'playing',0)`, id, userID, anonID, mode, now)
	return err
}

// RecordGuess persists an accepted guess and, when status is terminal
// ("won" or "lost"), the finish time plus the owning user's stats. It runs
// in a single transaction. Guest games only get their counters updated.
func (s *Store) RecordGuess(ctx context.Context, id, status string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT user_id FROM games WHERE id=?`, id).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGameNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=?`, id); err != nil {
		return err
	}
	if status == "won" || status == "lost" {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=?`,
			status, time.Now().UTC().Format(time.RFC3339), id); err != nil {
			return err
		}
		if userID.Valid && userID.String != "" {
			if err := bumpStats(ctx, tx, userID.String, status == "won"); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// AbandonGame marks an unfinished game as abandoned (e.g. on restart).
// Finished games are left alone.
func (s *Store) AbandonGame(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE games SET status='abandoned', finished_at=?
	                                 WHERE id=? AND status='playing'`,
		time.Now().UTC().Format(time.RFC3339), id)
	return err
}

// RecentGames returns a user's latest games, newest first.
func (s *Store) RecentGames(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT id, mode, status, guesses, started_at, COALESCE(finished_at,'')
	                                     FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var g GameRow
		if err := rows.Scan(&g.ID, &g.Mode, &g.Status, &g.Guesses, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ClaimAnonGames transfers a guest's games and daily results to a user
// account after sign-in. A guest daily result for a date the user already
// has a result for is discarded, keeping one result per player and date.
func (s *Store) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE OR IGNORE daily_results SET player_id=? WHERE player_id=?`, userID, anonID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_results WHERE player_id=?`, anonID); err != nil {
		return err
	}
	return tx.Commit()
}
