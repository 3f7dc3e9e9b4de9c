package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_video/internal/engine"
	"github.com/anatolykoptev/go_video/internal/engine/video"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MetadataInput is the input for video_metadata.
type MetadataInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, or shorts form)"`
}

func registerMetadata(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_metadata",
		Description: "Fetch metadata for a YouTube video: title, channel, publish date, description, thumbnail. Uses the oEmbed endpoint with a watch-page fallback; no model call.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MetadataInput) (*mcp.CallToolResult, *video.Metadata, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}

		cacheKey := engine.CacheKey("video_metadata", input.URL)
		if out, ok := engine.CacheLoadJSON[*video.Metadata](ctx, cacheKey); ok {
			return nil, out, nil
		}

		meta, err := video.FetchMetadata(ctx, input.URL)
		if err != nil {
			return nil, nil, err
		}

		engine.CacheStoreJSON(ctx, cacheKey, meta)
		return nil, meta, nil
	})
}
