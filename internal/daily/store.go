// internal/daily/store.go
//
// SQLite persistence for the Daily Challenge:
//   - one result row per player per day (first write wins)
//   - leaderboard ordered by score, then mines detonated, then time

package daily

import (
	"context"
	"database/sql"
)

// Result is one player's daily round outcome.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Seed      int64  `json:"seed"`
	Score     int    `json:"score"`
	Detonated int    `json:"detonated"`
	MineCount int    `json:"mineCount"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	UserID    string `json:"userId"`
	Score     int    `json:"score"`
	Detonated int    `json:"detonated"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r; a second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, seed, score, detonated, mine_count)
		 VALUES(?,?,?,?,?,?)`,
		r.UserID, r.Date, r.Seed, r.Score, r.Detonated, r.MineCount,
	)
	return err
}

// Leaderboard returns the best results for date: highest score first, then
// most mines detonated, then earliest submission.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, score, detonated
		 FROM daily_results
		 WHERE date=?
		 ORDER BY score DESC, detonated DESC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Score, &r.Detonated); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
