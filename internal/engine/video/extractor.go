package video

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go_video/internal/engine"
	"golang.org/x/time/rate"
)

// Resolution selects the maximum pixel height of extracted frames.
type Resolution string

const (
	ResThumbnail Resolution = "thumbnail"
	ResSmall     Resolution = "small"
	ResMedium    Resolution = "medium"
	ResLarge     Resolution = "large"
	ResFull      Resolution = "full"
)

// resolutionHeights maps each resolution to its height cap. ResFull is
// absent: no cap, use the source's best stream.
var resolutionHeights = map[Resolution]int{
	ResThumbnail: 160,
	ResSmall:     360,
	ResMedium:    720,
	ResLarge:     1080,
}

// DefaultQuality is the JPEG quality used when a tool call passes none.
const DefaultQuality = 85

// stderrTailLimit bounds the diagnostic tail carried in extraction errors.
const stderrTailLimit = 500

// commandRunner executes an external tool and returns stdout and stderr.
// Swapped in tests to simulate resolver/transcoder behavior.
type commandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Extractor chains yt-dlp and ffmpeg to produce single encoded frames.
// Dependency probing is memoized per instance; construct a fresh Extractor
// to re-probe.
type Extractor struct {
	probeOnce sync.Once
	deps      *DependencyHandles
	depsErr   error

	// limiter throttles stream-URL resolutions: each one is a full yt-dlp
	// invocation against YouTube, which rate-limits aggressive callers.
	limiter *rate.Limiter

	run commandRunner
}

// NewExtractor returns an Extractor with fresh (unprobed) dependency state.
func NewExtractor() *Extractor {
	return &Extractor{
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		run:     runCommand,
	}
}

// EnsureReady resolves and memoizes the external tool paths. Idempotent.
func (e *Extractor) EnsureReady() (*DependencyHandles, error) {
	e.probeOnce.Do(func() {
		e.deps, e.depsErr = probeDependencies()
	})
	return e.deps, e.depsErr
}

// runCommand is the production commandRunner. Standard input is left
// unattached (reads as closed), stderr is captured for diagnostics.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// TranscoderQuality maps the caller-facing 1-100 "higher is better" quality
// to ffmpeg's inverse 2-31 "lower is better" -q:v scale.
func TranscoderQuality(quality int) int {
	q := int(math.Round(float64(100-quality) / 3.33))
	if q < 2 {
		q = 2
	}
	if q > 31 {
		q = 31
	}
	return q
}

// streamFormat builds the yt-dlp format selector for the target resolution.
func streamFormat(res Resolution) string {
	if h, ok := resolutionHeights[res]; ok {
		return fmt.Sprintf("best[height<=%d]", h)
	}
	return "best"
}

// resolveStreamURL asks yt-dlp for a direct, time-limited media URL for the
// best stream at or below the target height. Only the first output line is
// used.
func (e *Extractor) resolveStreamURL(ctx context.Context, reference string, ts float64, res Resolution) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}
	engine.IncrStreamResolves()

	deps, err := e.EnsureReady()
	if err != nil {
		return "", err
	}

	stdout, stderr, err := e.run(ctx, deps.YTDLP, "-f", streamFormat(res), "-g", reference)
	if err != nil {
		return "", engine.ExtractionErr(ts, "Failed to get video stream URL",
			fmt.Errorf("%w: %s", err, tail(stderr, stderrTailLimit)))
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(stdout)), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", engine.ExtractionErr(ts, "Failed to get video stream URL", nil)
	}
	return line, nil
}

// ExtractFrame writes exactly one encoded JPEG frame at outputPath,
// overwriting any existing file. No retry happens at this layer; the batch
// orchestrator decides what a per-timestamp failure means.
func (e *Extractor) ExtractFrame(ctx context.Context, reference string, ts float64, outputPath string, quality int, res Resolution) error {
	deps, err := e.EnsureReady()
	if err != nil {
		return err
	}

	streamURL, err := e.resolveStreamURL(ctx, reference, ts, res)
	if err != nil {
		return err
	}

	// -ss before -i: input-side seeking. Fast keyframe-approximate seek
	// instead of decoding from the start of the stream; a one-frame
	// screenshot does not need frame accuracy.
	args := []string{
		"-ss", formatSeconds(ts),
		"-i", streamURL,
		"-frames:v", "1",
		"-q:v", strconv.Itoa(TranscoderQuality(quality)),
	}
	if h, capped := resolutionHeights[res]; capped {
		args = append(args, "-vf", fmt.Sprintf("scale=-2:min(%d\\,ih)", h))
	}
	args = append(args, "-y", outputPath)

	_, stderr, err := e.run(ctx, deps.FFmpeg, args...)
	if err != nil {
		engine.IncrFrameErrors()
		return engine.ExtractionErr(ts, "Failed to extract frame",
			fmt.Errorf("%w: %s", err, tail(stderr, stderrTailLimit)))
	}

	engine.IncrFramesExtracted()
	return nil
}

// tail returns the last n bytes of b as a trimmed string.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}

// formatSeconds renders a seek offset for the transcoder command line.
// Whole seconds render without a fraction.
func formatSeconds(ts float64) string {
	return strconv.FormatFloat(ts, 'f', -1, 64)
}

// FormatTimestamp renders seconds as "M:SS", or "H:MM:SS" past an hour.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
