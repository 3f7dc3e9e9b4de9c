package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_video/internal/engine"
	"github.com/anatolykoptev/go_video/internal/engine/video"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SummarizeInput is the input for video_summarize.
type SummarizeInput struct {
	URL    string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, or shorts form)"`
	Focus  string `json:"focus,omitempty" jsonschema:"Optional topic to emphasize in the summary"`
	Detail string `json:"detail,omitempty" jsonschema:"Detail level: brief, normal (default), detailed"`
}

func registerSummarize(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_summarize",
		Description: "Summarize a YouTube video by watching it with a video-capable model. Returns a structured summary with key points, topics, and best-effort metadata (title, channel, publish date). Detail levels: brief, normal, detailed.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SummarizeInput) (*mcp.CallToolResult, *video.SummarizeResult, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}

		cacheKey := engine.CacheKey("video_summarize", input.URL, input.Focus, input.Detail)
		if out, ok := engine.CacheLoadJSON[*video.SummarizeResult](ctx, cacheKey); ok {
			return nil, out, nil
		}

		result, err := video.Summarize(ctx, input.URL, input.Focus, input.Detail)
		if err != nil {
			return nil, nil, err
		}

		engine.CacheStoreJSON(ctx, cacheKey, result)
		video.RecordAnalysis(ctx, result.VideoID, "video_summarize", input.Focus, result.Summary)
		return nil, result, nil
	})
}
