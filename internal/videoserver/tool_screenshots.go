package videoserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_video/internal/engine/video"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ScreenshotsInput is the input for video_screenshots.
type ScreenshotsInput struct {
	URL        string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, or shorts form)"`
	Count      int    `json:"count,omitempty" jsonschema:"Number of screenshots, 1-20 (default: 5)"`
	Focus      string `json:"focus,omitempty" jsonschema:"Optional topic to bias moment selection toward"`
	OutputDir  string `json:"output_dir,omitempty" jsonschema:"Directory to keep the image files in; omit for base64-only results"`
	Quality    int    `json:"quality,omitempty" jsonschema:"JPEG quality 1-100 (default: 85)"`
	Resolution string `json:"resolution,omitempty" jsonschema:"Frame resolution: thumbnail, small, medium, large (default), full"`
}

// ScreenshotsManualInput is the input for video_screenshots_manual.
type ScreenshotsManualInput struct {
	URL        string    `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, or shorts form)"`
	Timestamps []float64 `json:"timestamps" jsonschema:"Timestamps in seconds to capture, 1-20 non-negative values"`
	OutputDir  string    `json:"output_dir,omitempty" jsonschema:"Directory to keep the image files in; omit for base64-only results"`
	Quality    int       `json:"quality,omitempty" jsonschema:"JPEG quality 1-100 (default: 85)"`
	Resolution string    `json:"resolution,omitempty" jsonschema:"Frame resolution: thumbnail, small, medium, large (default), full"`
}

// ScreenshotsOutput is the result envelope for both screenshot tools.
type ScreenshotsOutput struct {
	VideoID              string             `json:"video_id"`
	VideoDurationSeconds float64            `json:"video_duration_seconds,omitempty"`
	Screenshots          []video.Screenshot `json:"screenshots"`
	Count                int                `json:"count"`
}

func registerScreenshots(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_screenshots",
		Description: "Extract key-moment screenshots from a YouTube video. A video-capable model picks the most visually significant timestamps, then each frame is extracted via yt-dlp + ffmpeg. Returns base64 JPEG images; pass output_dir to also keep the files on disk. Tolerates individual timestamp failures.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ScreenshotsInput) (*mcp.CallToolResult, *ScreenshotsOutput, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		count := input.Count
		if count == 0 {
			count = 5
		}

		plan, err := video.PlanTimestamps(ctx, input.URL, count, input.Focus)
		if err != nil {
			return nil, nil, err
		}

		shots, err := extractor.ExtractScreenshots(ctx, input.URL, plan.Timestamps, video.ScreenshotOptions{
			OutputDir:  input.OutputDir,
			Quality:    input.Quality,
			Resolution: video.Resolution(input.Resolution),
		})
		if err != nil {
			return nil, nil, err
		}

		videoID, _ := video.ResolveVideoID(input.URL)
		video.RecordAnalysis(ctx, videoID, "video_screenshots", input.Focus,
			fmt.Sprintf("%d of %d screenshots extracted", len(shots), len(plan.Timestamps)))
		return nil, &ScreenshotsOutput{
			VideoID:              videoID,
			VideoDurationSeconds: plan.VideoDurationSeconds,
			Screenshots:          shots,
			Count:                len(shots),
		}, nil
	})
}

func registerScreenshotsManual(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_screenshots_manual",
		Description: "Extract screenshots from a YouTube video at caller-chosen timestamps (seconds). No model involved: each frame is extracted via yt-dlp + ffmpeg in input order. Returns base64 JPEG images; pass output_dir to also keep the files on disk.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ScreenshotsManualInput) (*mcp.CallToolResult, *ScreenshotsOutput, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		if len(input.Timestamps) == 0 {
			return nil, nil, errors.New("timestamps is required")
		}
		if len(input.Timestamps) > 20 {
			return nil, nil, errors.New("at most 20 timestamps per call")
		}

		shots, err := extractor.ExtractFramesAtTimestamps(ctx, input.URL, input.Timestamps, video.ScreenshotOptions{
			OutputDir:  input.OutputDir,
			Quality:    input.Quality,
			Resolution: video.Resolution(input.Resolution),
		})
		if err != nil {
			return nil, nil, err
		}

		videoID, _ := video.ResolveVideoID(input.URL)
		video.RecordAnalysis(ctx, videoID, "video_screenshots_manual", "",
			fmt.Sprintf("%d of %d screenshots extracted", len(shots), len(input.Timestamps)))
		return nil, &ScreenshotsOutput{
			VideoID:     videoID,
			Screenshots: shots,
			Count:       len(shots),
		}, nil
	})
}
