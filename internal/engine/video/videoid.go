// Package video implements YouTube video understanding: identifier
// resolution, model-driven timestamp planning, and the yt-dlp + ffmpeg
// screenshot extraction pipeline.
package video

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// videoIDRe matches the canonical YouTube video identifier. The character
// class keeps extracted IDs filesystem-path-safe by construction.
var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)

// ResolveVideoID extracts the canonical video ID from a reference string.
// Three shapes are accepted:
//
//	https://www.youtube.com/watch?v=<id>  (extra query params ignored)
//	https://youtu.be/<id>
//	https://www.youtube.com/shorts/<id>
//
// Scheme and www. are optional. Anything else (channel pages, playlists,
// arbitrary text) is a validation error.
func ResolveVideoID(reference string) (string, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return "", engine.ValidationErr("video reference is empty")
	}

	raw := ref
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", engine.ValidationErr("not a recognized YouTube video URL: %q", ref)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	var id string
	switch host {
	case "youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
			id = strings.TrimSuffix(id, "/")
		}
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	}

	if !videoIDRe.MatchString(id) {
		return "", engine.ValidationErr("not a recognized YouTube video URL: %q", ref)
	}
	return id, nil
}
