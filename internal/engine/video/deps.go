package video

import (
	"os/exec"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// DependencyHandles holds resolved paths to the two external executables the
// frame extractor chains: yt-dlp (stream URL resolution) and ffmpeg
// (single-frame transcode).
type DependencyHandles struct {
	YTDLP  string
	FFmpeg string
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// probeDependencies resolves both tools via PATH lookup. The two probes are
// independent so each missing tool gets its own install hint.
func probeDependencies() (*DependencyHandles, error) {
	ytdlp, err := lookPath("yt-dlp")
	if err != nil {
		return nil, engine.DependencyErr("yt-dlp",
			"install it with 'pip install yt-dlp' or 'brew install yt-dlp' and make sure it is on PATH")
	}
	ffmpeg, err := lookPath("ffmpeg")
	if err != nil {
		return nil, engine.DependencyErr("ffmpeg",
			"install it with 'apt install ffmpeg' or 'brew install ffmpeg' and make sure it is on PATH")
	}
	return &DependencyHandles{YTDLP: ytdlp, FFmpeg: ffmpeg}, nil
}
