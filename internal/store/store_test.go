package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/wordsgen/internal/model"
)

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := model.Run{
			StartedAt:    base.Add(time.Duration(i) * time.Minute),
			DurationMs:   int64(10 + i),
			InputPath:    "words.txt",
			OutputPath:   "words.rs",
			Name:         "WORDS",
			Requested:    1024,
			Emitted:      1024,
			InputWords:   2048 + i,
			OutputSHA256: "abc",
		}
		if _, err := st.InsertRun(ctx, run); err != nil {
			t.Fatalf("InsertRun failed: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if !runs[0].StartedAt.Equal(base) {
		t.Fatalf("expected oldest run first, got %s", runs[0].StartedAt)
	}
	if runs[2].InputWords != 2050 || runs[2].Emitted != 1024 || runs[2].Name != "WORDS" {
		t.Fatalf("unexpected last run: %+v", runs[2])
	}

	recent, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns with limit failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recent))
	}
	if recent[0].InputWords != 2049 || recent[1].InputWords != 2050 {
		t.Fatalf("unexpected recent runs: %+v", recent)
	}
}

func TestListRunsOrdersSubSecondTimestamps(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC)

	for _, ts := range []time.Time{base.Add(500 * time.Millisecond), base} {
		if _, err := st.InsertRun(ctx, model.Run{StartedAt: ts, Name: "WORDS"}); err != nil {
			t.Fatalf("InsertRun failed: %v", err)
		}
	}
	runs, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || !runs[0].StartedAt.Equal(base) {
		t.Fatalf("expected whole-second run first, got %+v", runs)
	}
}

func TestLastRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.LastRun(ctx, "words.rs"); err != nil || ok {
		t.Fatalf("expected no run, got ok=%v err=%v", ok, err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, out := range []string{"words.rs", "other.rs", "words.rs"} {
		run := model.Run{StartedAt: base.Add(time.Duration(i) * time.Second), OutputPath: out, Emitted: i}
		if _, err := st.InsertRun(ctx, run); err != nil {
			t.Fatalf("InsertRun failed: %v", err)
		}
	}
	run, ok, err := st.LastRun(ctx, "words.rs")
	if err != nil || !ok {
		t.Fatalf("expected run, got ok=%v err=%v", ok, err)
	}
	if run.Emitted != 2 {
		t.Fatalf("expected latest words.rs run, got %+v", run)
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return st
}
