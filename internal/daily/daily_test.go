package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/chainreaction/assets"
	"github.com/robalobadob/chainreaction/internal/db"
)

func TestDateKey_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	if got := DateKey(ts); got != "2026-03-01" {
		t.Fatalf("DateKey = %q", got)
	}
}

func TestSeed_StablePerDayAndSalt(t *testing.T) {
	morning := time.Date(2026, 5, 4, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 4, 23, 0, 0, 0, time.UTC)
	next := time.Date(2026, 5, 5, 1, 0, 0, 0, time.UTC)

	if Seed(morning, "s") != Seed(evening, "s") {
		t.Fatalf("same day must give the same seed")
	}
	if Seed(morning, "s") == Seed(next, "s") {
		t.Fatalf("different days should give different seeds")
	}
	if Seed(morning, "s") == Seed(morning, "t") {
		t.Fatalf("different salts should give different seeds")
	}
	if Seed(morning, "s") < 0 {
		t.Fatalf("seed must be non-negative")
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		t.Fatalf("db.Migrate: %v", err)
	}
	return NewStore(conn)
}

func TestStore_ResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	date := "2026-05-04"

	results := []Result{
		{UserID: "ann", Date: date, Score: 4200, Detonated: 20, MineCount: 170},
		{UserID: "bob", Date: date, Score: 9100, Detonated: 31, MineCount: 170},
		{UserID: "cat", Date: date, Score: 4200, Detonated: 25, MineCount: 170},
		{UserID: "ann", Date: date, Score: 99999, Detonated: 170, MineCount: 170}, // ignored
		{UserID: "dan", Date: "2026-05-03", Score: 50000, Detonated: 90, MineCount: 160},
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult(%s): %v", r.UserID, err)
		}
	}

	played, err := s.AlreadyPlayed(ctx, "ann", date)
	if err != nil || !played {
		t.Fatalf("AlreadyPlayed(ann) = %v, %v", played, err)
	}
	played, err = s.AlreadyPlayed(ctx, "dan", date)
	if err != nil || played {
		t.Fatalf("AlreadyPlayed(dan) = %v, %v", played, err)
	}

	got, err := s.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	want := []LBRow{
		{UserID: "bob", Score: 9100, Detonated: 31},
		{UserID: "cat", Score: 4200, Detonated: 25},
		{UserID: "ann", Score: 4200, Detonated: 20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("leaderboard mismatch (-want +got):\n%s", diff)
	}
}
