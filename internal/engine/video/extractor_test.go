package video

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_video/internal/engine"
	"golang.org/x/time/rate"
)

// stubLookPath makes dependency probing succeed without yt-dlp/ffmpeg
// installed. Restored automatically.
func stubLookPath(t *testing.T) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	t.Cleanup(func() { lookPath = orig })
}

// newTestExtractor builds an Extractor with an unthrottled limiter and the
// given command runner.
func newTestExtractor(run commandRunner) *Extractor {
	return &Extractor{
		limiter: rate.NewLimiter(rate.Inf, 1),
		run:     run,
	}
}

// call records one external invocation seen by a stub runner.
type call struct {
	name string
	args []string
}

// okRunner simulates a working yt-dlp + ffmpeg pair: the resolver prints a
// stream URL, the transcoder writes a fake JPEG at the output path.
func okRunner(calls *[]call) commandRunner {
	return func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		if calls != nil {
			*calls = append(*calls, call{name, args})
		}
		if strings.Contains(name, "yt-dlp") {
			return []byte("https://cdn.example/stream.mp4\nhttps://cdn.example/audio.m4a\n"), nil, nil
		}
		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("jpegdata-"+out), 0o644); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}
}

func TestTranscoderQuality(t *testing.T) {
	tests := []struct {
		quality int
		want    int
	}{
		{100, 2}, // best quality clamps up to ffmpeg's minimum
		{85, 5},
		{50, 15},
		{1, 30},
	}
	for _, tt := range tests {
		if got := TranscoderQuality(tt.quality); got != tt.want {
			t.Errorf("TranscoderQuality(%d) = %d, want %d", tt.quality, got, tt.want)
		}
	}

	// Monotonic and bounded across the whole input range.
	prev := 32
	for q := 1; q <= 100; q++ {
		got := TranscoderQuality(q)
		if got < 2 || got > 31 {
			t.Fatalf("TranscoderQuality(%d) = %d out of [2,31]", q, got)
		}
		if got > prev {
			t.Fatalf("TranscoderQuality not monotonic at %d: %d > %d", q, got, prev)
		}
		prev = got
	}
}

func TestStreamFormat(t *testing.T) {
	tests := []struct {
		res  Resolution
		want string
	}{
		{ResThumbnail, "best[height<=160]"},
		{ResSmall, "best[height<=360]"},
		{ResMedium, "best[height<=720]"},
		{ResLarge, "best[height<=1080]"},
		{ResFull, "best"},
	}
	for _, tt := range tests {
		if got := streamFormat(tt.res); got != tt.want {
			t.Errorf("streamFormat(%s) = %q, want %q", tt.res, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{3, "0:03"},
		{65, "1:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{7325, "2:02:05"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(12); got != "12" {
		t.Errorf("formatSeconds(12) = %q, want %q", got, "12")
	}
	if got := formatSeconds(12.5); got != "12.5" {
		t.Errorf("formatSeconds(12.5) = %q, want %q", got, "12.5")
	}
}

func TestExtractFrameCommandShape(t *testing.T) {
	stubLookPath(t)
	engine.Init(engine.Config{})

	var calls []call
	e := newTestExtractor(okRunner(&calls))

	out := t.TempDir() + "/frame.jpg"
	err := e.ExtractFrame(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 42, out, 85, ResMedium)
	if err != nil {
		t.Fatalf("ExtractFrame error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 external calls (resolver + transcoder), got %d", len(calls))
	}

	resolver := calls[0]
	if !slices.Equal(resolver.args, []string{"-f", "best[height<=720]", "-g", "https://youtu.be/dQw4w9WgXcQ"}) {
		t.Errorf("resolver args = %v", resolver.args)
	}

	ffmpeg := calls[1]
	// Input-side seek: -ss must come before -i.
	ssIdx := slices.Index(ffmpeg.args, "-ss")
	inIdx := slices.Index(ffmpeg.args, "-i")
	if ssIdx < 0 || inIdx < 0 || ssIdx > inIdx {
		t.Errorf("expected -ss before -i, args = %v", ffmpeg.args)
	}
	if ffmpeg.args[ssIdx+1] != "42" {
		t.Errorf("seek offset = %q, want 42", ffmpeg.args[ssIdx+1])
	}
	// First line only of resolver output.
	if ffmpeg.args[inIdx+1] != "https://cdn.example/stream.mp4" {
		t.Errorf("stream URL = %q", ffmpeg.args[inIdx+1])
	}
	qIdx := slices.Index(ffmpeg.args, "-q:v")
	if qIdx < 0 || ffmpeg.args[qIdx+1] != "5" {
		t.Errorf("expected -q:v 5, args = %v", ffmpeg.args)
	}
	vfIdx := slices.Index(ffmpeg.args, "-vf")
	if vfIdx < 0 || !strings.Contains(ffmpeg.args[vfIdx+1], "720") {
		t.Errorf("expected a 720 height cap filter, args = %v", ffmpeg.args)
	}
	if !slices.Contains(ffmpeg.args, "-y") {
		t.Errorf("expected overwrite flag, args = %v", ffmpeg.args)
	}
	if ffmpeg.args[len(ffmpeg.args)-1] != out {
		t.Errorf("last arg = %q, want output path", ffmpeg.args[len(ffmpeg.args)-1])
	}
}

func TestExtractFrameFullResolutionHasNoScale(t *testing.T) {
	stubLookPath(t)
	engine.Init(engine.Config{})

	var calls []call
	e := newTestExtractor(okRunner(&calls))

	err := e.ExtractFrame(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 3, t.TempDir()+"/f.jpg", 85, ResFull)
	if err != nil {
		t.Fatalf("ExtractFrame error: %v", err)
	}
	if calls[0].args[1] != "best" {
		t.Errorf("resolver format = %q, want best", calls[0].args[1])
	}
	if slices.Contains(calls[1].args, "-vf") {
		t.Errorf("full resolution must not add a scale filter, args = %v", calls[1].args)
	}
}

func TestExtractFrameEmptyResolverOutput(t *testing.T) {
	stubLookPath(t)
	engine.Init(engine.Config{})

	e := newTestExtractor(func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte("\n"), nil, nil
	})

	err := e.ExtractFrame(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 9, t.TempDir()+"/f.jpg", 85, ResLarge)
	if err == nil {
		t.Fatal("expected error for empty resolver output")
	}
	if !engine.IsKind(err, engine.KindExtraction) {
		t.Errorf("expected extraction error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Failed to get video stream URL") {
		t.Errorf("unexpected message: %v", err)
	}
	if !strings.Contains(err.Error(), "9s") {
		t.Errorf("error should carry the timestamp: %v", err)
	}
}

func TestExtractFrameTranscoderFailureCarriesStderrTail(t *testing.T) {
	stubLookPath(t)
	engine.Init(engine.Config{})

	longStderr := strings.Repeat("x", 1000) + "MARKER-AT-THE-END"
	e := newTestExtractor(func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		if strings.Contains(name, "yt-dlp") {
			return []byte("https://cdn.example/stream.mp4\n"), nil, nil
		}
		return nil, []byte(longStderr), fmt.Errorf("exit status 1")
	})

	err := e.ExtractFrame(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 5, t.TempDir()+"/f.jpg", 85, ResLarge)
	if err == nil {
		t.Fatal("expected transcoder failure")
	}
	if !strings.Contains(err.Error(), "MARKER-AT-THE-END") {
		t.Errorf("error should keep the stderr tail: %v", err)
	}
	if strings.Contains(err.Error(), longStderr) {
		t.Error("error should not carry the full stderr")
	}
}
