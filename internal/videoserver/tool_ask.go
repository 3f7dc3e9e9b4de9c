package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_video/internal/engine"
	"github.com/anatolykoptev/go_video/internal/engine/video"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input for video_ask.
type AskInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, or shorts form)"`
	Question string `json:"question" jsonschema:"Question to answer about the video content"`
}

func registerAsk(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_ask",
		Description: "Answer a question about a YouTube video by watching it with a video-capable model. Returns a grounded answer plus up to 5 supporting timestamps and best-effort metadata.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, *video.AskResult, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		if input.Question == "" {
			return nil, nil, errors.New("question is required")
		}

		cacheKey := engine.CacheKey("video_ask", input.URL, input.Question)
		if out, ok := engine.CacheLoadJSON[*video.AskResult](ctx, cacheKey); ok {
			return nil, out, nil
		}

		result, err := video.Ask(ctx, input.URL, input.Question)
		if err != nil {
			return nil, nil, err
		}

		engine.CacheStoreJSON(ctx, cacheKey, result)
		video.RecordAnalysis(ctx, result.VideoID, "video_ask", input.Question, result.Answer)
		return nil, result, nil
	})
}
