// Package videoserver registers the MCP tool surface: video_summarize,
// video_ask, video_screenshots, video_screenshots_manual, video_metadata,
// video_history.
package videoserver

import (
	"github.com/anatolykoptev/go_video/internal/engine/video"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// extractor is the process-wide frame extractor. Dependency probing (yt-dlp,
// ffmpeg) is memoized on it, so the PATH lookup happens once per process.
var extractor = video.NewExtractor()

// RegisterTools registers all video understanding tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerSummarize(server)
	registerAsk(server)
	registerScreenshots(server)
	registerScreenshotsManual(server)
	registerMetadata(server)
	registerHistory(server)
}
