package video

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// TimestampCandidate is one moment to screenshot, either planned by the
// model or synthesized from a bare seconds value.
type TimestampCandidate struct {
	TimeSeconds   float64 `json:"time_seconds"`
	TimeFormatted string  `json:"time_formatted"`
	Description   string  `json:"description"`
}

// Screenshot is one successfully extracted frame. PersistedPath is set only
// when the caller supplied a durable output directory; otherwise the on-disk
// artifact is gone by the time the batch returns and the base64 payload is
// the only copy.
type Screenshot struct {
	TimestampSeconds   float64 `json:"timestamp_seconds"`
	TimestampFormatted string  `json:"timestamp_formatted"`
	Description        string  `json:"description"`
	ImageBase64        string  `json:"image_base64"`
	MimeType           string  `json:"mime_type"`
	PersistedPath      string  `json:"persisted_path,omitempty"`
}

// ScreenshotOptions carries per-batch extraction parameters. Zero values
// select the defaults: quality 85, resolution large, and an ephemeral
// working directory (or SCREENSHOT_DIR when configured).
type ScreenshotOptions struct {
	OutputDir  string
	Quality    int
	Resolution Resolution
}

// normalize applies defaults and validates ranges.
func (o *ScreenshotOptions) normalize() error {
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Quality < 1 || o.Quality > 100 {
		return engine.ValidationErr("quality must be 1-100, got %d", o.Quality)
	}
	if o.Resolution == "" {
		o.Resolution = ResLarge
	}
	if _, ok := resolutionHeights[o.Resolution]; !ok && o.Resolution != ResFull {
		return engine.ValidationErr("resolution must be thumbnail, small, medium, large, or full, got %q", o.Resolution)
	}
	return nil
}

// ExtractScreenshots drives the frame extractor over a list of timestamp
// candidates. Extractions run sequentially: each one spawns two external
// processes, and parallel fan-out across a 20-item batch would hammer both
// the local CPU and YouTube's rate limits.
//
// Per-item failures are recorded and skipped; the batch itself fails only
// when every single item failed, with an aggregated message listing each
// per-item failure line.
func (e *Extractor) ExtractScreenshots(ctx context.Context, reference string, candidates []TimestampCandidate, opts ScreenshotOptions) ([]Screenshot, error) {
	if len(candidates) == 0 {
		return nil, engine.ValidationErr("no timestamps to extract")
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	// Dependencies are checked once for the whole batch, up front.
	if _, err := e.EnsureReady(); err != nil {
		return nil, err
	}

	videoID, err := ResolveVideoID(reference)
	if err != nil {
		return nil, err
	}

	workDir, durable, err := resolveWorkDir(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if !durable {
		// Best-effort: cleanup never masks the batch outcome.
		defer os.RemoveAll(workDir)
	}

	var shots []Screenshot
	var failures []string
	for _, cand := range candidates {
		shot, err := e.extractOne(ctx, reference, videoID, cand, workDir, durable, opts)
		if err != nil {
			slog.Warn("screenshot failed",
				slog.String("video_id", videoID),
				slog.String("timestamp", cand.TimeFormatted),
				slog.Any("error", err),
			)
			failures = append(failures, fmt.Sprintf("%s: %v", cand.TimeFormatted, err))
			continue
		}
		shots = append(shots, *shot)
	}

	if len(shots) == 0 {
		return nil, engine.ExtractionErr(-1,
			fmt.Sprintf("all %d screenshot extractions failed:\n%s", len(candidates), strings.Join(failures, "\n")), nil)
	}
	if len(failures) > 0 {
		slog.Warn("partial screenshot batch",
			slog.String("video_id", videoID),
			slog.Int("succeeded", len(shots)),
			slog.Int("failed", len(failures)),
		)
	}
	return shots, nil
}

// ExtractFramesAtTimestamps is the manual-mode entry point: bare seconds
// values instead of model-planned candidates. Output order mirrors the
// input order of seconds.
func (e *Extractor) ExtractFramesAtTimestamps(ctx context.Context, reference string, seconds []float64, opts ScreenshotOptions) ([]Screenshot, error) {
	if len(seconds) == 0 {
		return nil, engine.ValidationErr("no timestamps to extract")
	}
	candidates := make([]TimestampCandidate, 0, len(seconds))
	for _, s := range seconds {
		if s < 0 {
			return nil, engine.ValidationErr("timestamps must be non-negative, got %v", s)
		}
		formatted := FormatTimestamp(s)
		candidates = append(candidates, TimestampCandidate{
			TimeSeconds:   s,
			TimeFormatted: formatted,
			Description:   "Frame at " + formatted,
		})
	}
	return e.ExtractScreenshots(ctx, reference, candidates, opts)
}

// extractOne produces a single Screenshot: extract, read, encode, and for
// ephemeral directories delete the artifact right after reading it.
func (e *Extractor) extractOne(ctx context.Context, reference, videoID string, cand TimestampCandidate, workDir string, durable bool, opts ScreenshotOptions) (*Screenshot, error) {
	outPath := filepath.Join(workDir, fmt.Sprintf("%s_%ss.jpg", videoID, formatSeconds(cand.TimeSeconds)))

	if err := e.ExtractFrame(ctx, reference, cand.TimeSeconds, outPath, opts.Quality, opts.Resolution); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, engine.ExtractionErr(cand.TimeSeconds, "Failed to read extracted frame", err)
	}
	if !durable {
		_ = os.Remove(outPath)
	}

	shot := &Screenshot{
		TimestampSeconds:   cand.TimeSeconds,
		TimestampFormatted: cand.TimeFormatted,
		Description:        cand.Description,
		ImageBase64:        base64.StdEncoding.EncodeToString(data),
		MimeType:           "image/jpeg",
	}
	if durable {
		shot.PersistedPath = outPath
	}
	return shot, nil
}

// resolveWorkDir picks the batch working directory: caller-supplied, else
// the configured default, else a fresh temp dir. The returned durable flag
// is false only for the temp-dir case; durable directories are created if
// absent and never deleted by this package.
func resolveWorkDir(outputDir string) (dir string, durable bool, err error) {
	dir = outputDir
	if dir == "" {
		dir = engine.Cfg.ScreenshotDir
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", false, fmt.Errorf("create output dir %s: %w", dir, err)
		}
		return dir, true, nil
	}
	dir, err = os.MkdirTemp("", "go_video_frames_")
	if err != nil {
		return "", false, fmt.Errorf("create temp dir: %w", err)
	}
	return dir, false, nil
}
