package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SetGold(12); err != nil {
		t.Fatalf("SetGold() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	p, err := store.Profile()
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}
	if p.Gold != 12 {
		t.Errorf("Gold = %d after reopen, expected 12", p.Gold)
	}
}

func TestProfileDefaults(t *testing.T) {
	store := openTestStore(t)

	p, err := store.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}
	want := engine.Profile{SmoothMovement: true}
	if p != want {
		t.Errorf("fresh profile = %+v, expected %+v", p, want)
	}
}

func TestRecordRunUpdatesProfile(t *testing.T) {
	store := openTestStore(t)

	runs := []engine.RunRecord{
		{Score: 10, Counted: 10, Apples: 8, GoldBalance: 3, Turns: 40},
		{Score: 4, Counted: 4, Apples: 4, GoldBalance: 1, Turns: 12},
		{Score: 13, Counted: 7, Apples: 10, GoldBalance: 0, Turns: 60, Revives: 1, HardMode: true},
	}
	for _, r := range runs {
		if err := store.RecordRun(r); err != nil {
			t.Fatalf("RecordRun(%+v) failed: %v", r, err)
		}
	}

	p, err := store.Profile()
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}
	if p.Highscore != 13 {
		t.Errorf("Highscore = %d, expected 13", p.Highscore)
	}
	if p.GamesPlayed != 3 {
		t.Errorf("GamesPlayed = %d, expected 3", p.GamesPlayed)
	}
	if p.AverageScore != 7 {
		t.Errorf("AverageScore = %v, expected 7", p.AverageScore)
	}
	if p.Gold != 0 {
		t.Errorf("Gold = %d, expected the last balance 0", p.Gold)
	}
}

func TestSaveRunReturnsUniqueIDs(t *testing.T) {
	store := openTestStore(t)

	seen := make(map[string]bool)
	for i := range 5 {
		id, err := store.SaveRun(engine.RunRecord{Score: i, Counted: i})
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		if id == "" || seen[id] {
			t.Errorf("SaveRun() returned empty or duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestTopRunsOrdering(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200, 75} {
		if err := store.RecordRun(engine.RunRecord{Score: score, Counted: score}); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns(3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}
	expected := []int{200, 100, 75}
	for i, run := range top {
		if run.Score != expected[i] {
			t.Errorf("top[%d].Score = %d, expected %d", i, run.Score, expected[i])
		}
	}
}

func TestRecentRunsFields(t *testing.T) {
	store := openTestStore(t)

	rec := engine.RunRecord{Score: 9, Counted: 4, Apples: 6, GoldBalance: 2, Turns: 33, Revives: 2, HardMode: true}
	if err := store.RecordRun(rec); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	recent, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(recent))
	}
	got := recent[0]
	if got.Score != 9 || got.Counted != 4 || got.Apples != 6 || got.Gold != 2 ||
		got.Turns != 33 || got.Revives != 2 || !got.HardMode {
		t.Errorf("stored run = %+v, expected fields from %+v", got, rec)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
}

func TestToggles(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetToggle(KeyHardMode, true); err != nil {
		t.Fatalf("SetToggle() failed: %v", err)
	}
	if err := store.SetToggle(KeySmooth, false); err != nil {
		t.Fatalf("SetToggle() failed: %v", err)
	}
	if err := store.SetToggle(KeyColorblind, true); err != nil {
		t.Fatalf("SetToggle() failed: %v", err)
	}

	p, err := store.Profile()
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}
	if !p.HardMode || p.SmoothMovement || !p.Colorblind {
		t.Errorf("profile toggles = %+v", p)
	}

	music, err := store.Toggle(KeyMusic)
	if err != nil || !music {
		t.Errorf("Toggle(music) = %v, %v; expected default true", music, err)
	}

	if err := store.SetToggle("volume", true); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("SetToggle(volume) err = %v, expected ErrUnknownSetting", err)
	}
	if _, err := store.Toggle(KeyGold); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("Toggle(gold) err = %v, expected ErrUnknownSetting", err)
	}
}

func TestSetGoldClampsNegative(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetGold(-5); err != nil {
		t.Fatalf("SetGold() failed: %v", err)
	}
	p, _ := store.Profile()
	if p.Gold != 0 {
		t.Errorf("Gold = %d, expected 0", p.Gold)
	}
}

func TestStatsAndClear(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	for _, score := range []int{100, 200, 300} {
		store.RecordRun(engine.RunRecord{Score: score, Counted: score})
	}

	stats, err = store.GetStats()
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.Runs != 3 {
		t.Errorf("Runs = %d, expected 3", stats.Runs)
	}
	if stats.HighScore != 300 {
		t.Errorf("HighScore = %d, expected 300", stats.HighScore)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %f, expected 200", stats.AvgScore)
	}
	if stats.TotalScore != 600 {
		t.Errorf("TotalScore = %d, expected 600", stats.TotalScore)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	runs, _ := store.RecentRuns(10)
	if len(runs) != 0 {
		t.Errorf("Expected no runs after ClearRuns, got %d", len(runs))
	}
	p, _ := store.Profile()
	if p.Highscore != 300 {
		t.Errorf("ClearRuns should keep the highscore, got %d", p.Highscore)
	}
}

func TestEngineRecordsThroughStore(t *testing.T) {
	store := openTestStore(t)
	if err := store.SetGold(5); err != nil {
		t.Fatalf("SetGold() failed: %v", err)
	}

	e := engine.New(config.DefaultConfig(), engine.WithStore(store), engine.WithSeed(1))
	e.SetPosition()
	if !e.StartSession(false) {
		t.Fatal("StartSession failed")
	}
	if got := e.Snapshot().Gold; got != 5 {
		t.Errorf("engine gold = %d, expected 5 from the store", got)
	}
}
