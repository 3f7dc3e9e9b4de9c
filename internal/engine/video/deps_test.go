package video

import (
	"errors"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_video/internal/engine"
)

func TestProbeDependenciesMissingTool(t *testing.T) {
	tests := []struct {
		name     string
		missing  string
		wantTool string
		wantHint string
	}{
		{"no yt-dlp", "yt-dlp", "yt-dlp", "pip install yt-dlp"},
		{"no ffmpeg", "ffmpeg", "ffmpeg", "apt install ffmpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := lookPath
			lookPath = func(name string) (string, error) {
				if name == tt.missing {
					return "", errors.New("executable file not found in $PATH")
				}
				return "/usr/bin/" + name, nil
			}
			t.Cleanup(func() { lookPath = orig })

			_, err := probeDependencies()
			if !engine.IsKind(err, engine.KindDependency) {
				t.Fatalf("want dependency error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantTool+" not found") {
				t.Errorf("error should name the tool: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantHint) {
				t.Errorf("error should carry an install hint: %v", err)
			}
		})
	}
}

func TestEnsureReadyMemoizesProbe(t *testing.T) {
	var probes int
	orig := lookPath
	lookPath = func(name string) (string, error) {
		probes++
		return "/usr/bin/" + name, nil
	}
	t.Cleanup(func() { lookPath = orig })

	e := NewExtractor()
	for range 3 {
		deps, err := e.EnsureReady()
		if err != nil {
			t.Fatalf("EnsureReady: %v", err)
		}
		if deps.YTDLP != "/usr/bin/yt-dlp" || deps.FFmpeg != "/usr/bin/ffmpeg" {
			t.Fatalf("unexpected handles: %+v", deps)
		}
	}
	if probes != 2 {
		t.Errorf("probe ran %d lookups, want 2 (one per tool, memoized)", probes)
	}
}

func TestEnsureReadyMemoizesFailure(t *testing.T) {
	var probes int
	orig := lookPath
	lookPath = func(name string) (string, error) {
		probes++
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })

	e := NewExtractor()
	for range 2 {
		if _, err := e.EnsureReady(); err == nil {
			t.Fatal("expected probe failure")
		}
	}
	if probes != 1 {
		t.Errorf("failed probe ran %d lookups, want 1", probes)
	}
}
