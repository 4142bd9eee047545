package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func era(v float64) *float64 { return &v }

func TestSaveAndLoadSeason(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	records := []pitcher.Record{
		{
			PitcherID: "skubt001", Name: "Tarik Skubal", Year: 2024, Team: "DET",
			GamesStarted: 31, Wins: 18, Losses: 4,
			Decisions:  []pitcher.Decision{pitcher.Win, pitcher.NoDecision, pitcher.Loss},
			RunSupport: 4.6, TeamErrors: 0.4, ERA: era(2.39),
		},
		{
			PitcherID: "rooki001", Name: "Rookie Arm", Year: 2024, Team: "DET",
			GamesStarted: 3, Decisions: []pitcher.Decision{pitcher.NoDecision},
		},
	}

	if err := s.SaveSeason(ctx, 2024, "fp-1", records); err != nil {
		t.Fatalf("SaveSeason() error = %v", err)
	}

	tests := []struct {
		name        string
		year        int
		fingerprint string
		wantOK      bool
	}{
		{"hit", 2024, "fp-1", true},
		{"stale fingerprint", 2024, "fp-2", false},
		{"unknown season", 2023, "fp-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := s.LoadSeason(ctx, tt.year, tt.fingerprint)
			if err != nil {
				t.Fatalf("LoadSeason() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("LoadSeason() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, records) {
				t.Errorf("LoadSeason() = %+v, want %+v", got, records)
			}
		})
	}
}

func TestSaveSeason_Replaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	first := []pitcher.Record{{PitcherID: "a", Team: "NYA"}, {PitcherID: "b", Team: "NYA"}}
	second := []pitcher.Record{{PitcherID: "c", Team: "BOS"}}

	if err := s.SaveSeason(ctx, 2024, "fp-1", first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSeason(ctx, 2024, "fp-2", second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.LoadSeason(ctx, 2024, "fp-2")
	if err != nil || !ok {
		t.Fatalf("LoadSeason() ok = %v, err = %v", ok, err)
	}
	if len(got) != 1 || got[0].PitcherID != "c" {
		t.Errorf("LoadSeason() = %+v, want only c", got)
	}
}

func TestSaveSeason_EmptySeason(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.SaveSeason(ctx, 2020, "fp", nil); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.LoadSeason(ctx, 2020, "fp")
	if err != nil || !ok {
		t.Fatalf("LoadSeason() ok = %v, err = %v", ok, err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("LoadSeason() = %#v, want empty non-nil slice", got)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.SaveSeason(ctx, 2024, "fp", []pitcher.Record{{PitcherID: "a"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, ok, _ := s.LoadSeason(ctx, 2024, "fp"); ok {
		t.Error("LoadSeason() hit after Clear()")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if s.Path() != filepath.Join(dir, FileName) {
		t.Errorf("Path() = %q", s.Path())
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.csv")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	fp1, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	fp2, err := Fingerprint(path)
	if err != nil {
		t.Fatal(err)
	}
	if fp1 == fp2 {
		t.Error("Fingerprint() unchanged after mtime change")
	}

	if _, err := Fingerprint(filepath.Join(dir, "absent.csv")); err == nil {
		t.Error("Fingerprint() of missing file expected error")
	}
}
