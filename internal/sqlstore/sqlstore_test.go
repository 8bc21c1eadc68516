package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	var n int
	if err := s.DB.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s.Close()
	var again int
	if err := s.DB.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&again); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n == 0 || again != n {
		t.Errorf("migrations %d then %d, want equal and non-zero", n, again)
	}
}

func TestCreateUser(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, " alice ", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Username != "alice" || u.ID == "" {
		t.Errorf("user %+v", u)
	}
	if _, err := s.CreateUser(ctx, "ALICE", "password123"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate err %v, want ErrUsernameTaken", err)
	}
	if _, err := s.CreateUser(ctx, "al", "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("short username err %v, want ErrInvalidUsername", err)
	}
	if _, err := s.CreateUser(ctx, "bob!", "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("bad chars err %v, want ErrInvalidUsername", err)
	}
	if _, err := s.CreateUser(ctx, "bob", "short"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("short password err %v, want ErrInvalidPassword", err)
	}

	got, err := s.UserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if got.Username != "alice" || !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("UserByID = %+v, want %+v", got, u)
	}
	if _, err := s.UserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing err %v, want ErrUserNotFound", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	if _, err := s.CreateUser(ctx, "alice", "password123"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.Authenticate(ctx, "Alice", "password123"); err != nil {
		t.Errorf("Authenticate: %v", err)
	}
	if _, err := s.Authenticate(ctx, "alice", "wrong-password"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password err %v, want ErrBadCredentials", err)
	}
	if _, err := s.Authenticate(ctx, "nobody", "password123"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown user err %v, want ErrBadCredentials", err)
	}
}

func TestGames_StatsAndHistory(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	me := Owner{UserID: u.ID}

	if err := s.InsertGame(ctx, "g1", "classic", me); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	for _, status := range []string{"playing", "playing", "won"} {
		if err := s.RecordGuess(ctx, "g1", status); err != nil {
			t.Fatalf("RecordGuess(%s): %v", status, err)
		}
	}
	if err := s.InsertGame(ctx, "g2", "classic", me); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if err := s.RecordGuess(ctx, "g2", "lost"); err != nil {
		t.Fatalf("RecordGuess: %v", err)
	}

	got, err := s.UserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if got.GamesPlayed != 2 || got.Wins != 1 || got.Streak != 0 {
		t.Errorf("stats played=%d wins=%d streak=%d, want 2/1/0", got.GamesPlayed, got.Wins, got.Streak)
	}

	rows, err := s.RecentGames(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(RecentGames) %d, want 2", len(rows))
	}
	byID := map[string]GameRow{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	if g := byID["g1"]; g.Status != "won" || g.Guesses != 3 || g.FinishedAt == "" {
		t.Errorf("g1 = %+v", g)
	}
	if g := byID["g2"]; g.Status != "lost" || g.Guesses != 1 {
		t.Errorf("g2 = %+v", g)
	}
}

func TestClaimAnonGames(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	guest := Owner{AnonID: "anon-1"}
	if err := s.InsertGame(ctx, "g1", "classic", guest); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if err := s.AbandonGame(ctx, "g1"); err != nil {
		t.Fatalf("AbandonGame: %v", err)
	}
	u, err := s.CreateUser(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.ClaimAnonGames(ctx, "anon-1", u.ID); err != nil {
		t.Fatalf("ClaimAnonGames: %v", err)
	}
	rows, err := s.RecentGames(ctx, u.ID, 0)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "g1" || rows[0].Status != "abandoned" {
		t.Errorf("RecentGames = %+v", rows)
	}
}

func TestClaimAnonGames_DailyResults(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, "carol", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	insert := `INSERT INTO daily_results(player_id, date, word_index, won, guesses, elapsed_ms) VALUES(?,?,?,?,?,?)`
	for _, row := range [][]any{
		{"anon-1", "2024-03-01", 3, 1, 2, 1000},
		{"anon-1", "2024-03-02", 4, 1, 1, 500},
		{u.ID, "2024-03-02", 4, 0, 6, 9000},
	} {
		if _, err := s.DB.ExecContext(ctx, insert, row...); err != nil {
			t.Fatalf("insert daily result: %v", err)
		}
	}

	if err := s.ClaimAnonGames(ctx, "anon-1", u.ID); err != nil {
		t.Fatalf("ClaimAnonGames: %v", err)
	}

	var guest int
	if err := s.DB.QueryRow(`SELECT COUNT(1) FROM daily_results WHERE player_id=?`, "anon-1").Scan(&guest); err != nil {
		t.Fatalf("count guest rows: %v", err)
	}
	if guest != 0 {
		t.Errorf("%d guest daily rows left, want 0", guest)
	}
	var guesses int
	if err := s.DB.QueryRow(`SELECT guesses FROM daily_results WHERE player_id=? AND date=?`, u.ID, "2024-03-01").Scan(&guesses); err != nil || guesses != 2 {
		t.Errorf("claimed 2024-03-01 row: guesses %d err %v, want 2", guesses, err)
	}
	if err := s.DB.QueryRow(`SELECT guesses FROM daily_results WHERE player_id=? AND date=?`, u.ID, "2024-03-02").Scan(&guesses); err != nil || guesses != 6 {
		t.Errorf("existing 2024-03-02 row: guesses %d err %v, want 6", guesses, err)
	}
}

func TestRecordGuess_UnknownGame(t *testing.T) {
	s := openTest(t)
	if err := s.RecordGuess(context.Background(), "nope", "won"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("err %v, want ErrGameNotFound", err)
	}
}

func TestGenID(t *testing.T) {
	a, b := GenID(), GenID()
	if len(a) != 22 || a == b {
		t.Errorf("GenID %q %q", a, b)
	}
}
