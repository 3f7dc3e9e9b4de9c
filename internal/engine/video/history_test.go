package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// resetHistory points the history database at a throwaway HOME and clears the
// open-once state so each test gets a fresh database.
func resetHistory(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	if historyDB != nil {
		historyDB.Close()
	}
	historyDB = nil
	historyErr = nil
	historyOnce = sync.Once{}
}

func TestRecordAndListHistory(t *testing.T) {
	resetHistory(t)
	engine.Init(engine.Config{})
	ctx := context.Background()

	RecordAnalysis(ctx, "dQw4w9WgXcQ", "video_summarize", "", "A classic.")
	RecordAnalysis(ctx, "dQw4w9WgXcQ", "video_ask", "what song is this?", "Never Gonna Give You Up")
	RecordAnalysis(ctx, "jNQXAC9IVRw", "video_summarize", "", "Elephants at the zoo.")

	res, err := ListHistory(ctx, HistoryListInput{})
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("Total = %d, want 3", res.Total)
	}
	// Newest first.
	if res.Entries[0].VideoID != "jNQXAC9IVRw" {
		t.Errorf("Entries[0].VideoID = %q, want the most recent run", res.Entries[0].VideoID)
	}
	if res.Entries[1].Tool != "video_ask" || res.Entries[1].Prompt != "what song is this?" {
		t.Errorf("Entries[1] = %+v", res.Entries[1])
	}
	if res.Entries[0].CreatedAt == "" {
		t.Error("CreatedAt not recorded")
	}
}

func TestListHistoryVideoFilter(t *testing.T) {
	resetHistory(t)
	engine.Init(engine.Config{})
	ctx := context.Background()

	RecordAnalysis(ctx, "dQw4w9WgXcQ", "video_summarize", "", "one")
	RecordAnalysis(ctx, "jNQXAC9IVRw", "video_summarize", "", "two")

	res, err := ListHistory(ctx, HistoryListInput{VideoID: "jNQXAC9IVRw"})
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if res.Total != 1 || res.Entries[0].Summary != "two" {
		t.Errorf("filtered result = %+v", res)
	}
}

func TestListHistoryLimit(t *testing.T) {
	resetHistory(t)
	engine.Init(engine.Config{})
	ctx := context.Background()

	for range 5 {
		RecordAnalysis(ctx, "dQw4w9WgXcQ", "video_summarize", "", "run")
	}

	res, err := ListHistory(ctx, HistoryListInput{Limit: 2})
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("Total = %d, want 2", res.Total)
	}
}

func TestRecordAnalysisTruncatesSummary(t *testing.T) {
	resetHistory(t)
	engine.Init(engine.Config{})
	ctx := context.Background()

	RecordAnalysis(ctx, "dQw4w9WgXcQ", "video_summarize", "", strings.Repeat("s", 900))

	res, err := ListHistory(ctx, HistoryListInput{})
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if got := len(res.Entries[0].Summary); got != 500 {
		t.Errorf("summary length = %d, want 500", got)
	}
}

func TestHistoryUnavailableWithoutHome(t *testing.T) {
	resetHistory(t)
	t.Setenv("HOME", "")
	engine.Init(engine.Config{})

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	// Recording stays a silent no-op; listing surfaces the failure.
	RecordAnalysis(context.Background(), "dQw4w9WgXcQ", "video_summarize", "", "x")
	if _, err := ListHistory(context.Background(), HistoryListInput{}); err == nil {
		t.Fatal("expected error when no home dir can be resolved")
	}

	// No relative ".go_video" dropped into the working directory.
	if _, err := os.Stat(filepath.Join(wd, ".go_video")); !os.IsNotExist(err) {
		t.Errorf("history wrote relative to cwd (stat err: %v)", err)
	}
}

func TestRecordAnalysisDisabled(t *testing.T) {
	resetHistory(t)
	engine.Init(engine.Config{HistoryDisabled: true})

	RecordAnalysis(context.Background(), "dQw4w9WgXcQ", "video_summarize", "", "nope")

	// Disabled recording must not even create the database file.
	dbPath := filepath.Join(os.Getenv("HOME"), ".go_video", "history.db")
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Errorf("history database created while disabled (stat err: %v)", err)
	}
}
