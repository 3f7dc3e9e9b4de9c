package videoserver

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine/video"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerHistory(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_history",
		Description: "List recent video analyses recorded by this server (local SQLite log). Optionally filter by video ID. Returns newest first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input video.HistoryListInput) (*mcp.CallToolResult, *video.HistoryListResult, error) {
		result, err := video.ListHistory(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
