package video

import (
	"testing"

	"github.com/anatolykoptev/go_video/internal/engine"
)

func TestResolveVideoID(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"watch form", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch without www", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch without scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"extra query params ignored", "https://youtube.com/watch?v=abc123&t=60", "abc123"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link trailing slash", "https://youtu.be/dQw4w9WgXcQ/", "dQw4w9WgXcQ"},
		{"shorts", "https://www.youtube.com/shorts/abc_-123xyz", "abc_-123xyz"},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"surrounding whitespace", "  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveVideoID(tt.ref)
			if err != nil {
				t.Fatalf("ResolveVideoID(%q) error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ResolveVideoID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestResolveVideoIDRejects(t *testing.T) {
	refs := []string{
		"",
		"   ",
		"not a url at all",
		"https://www.youtube.com/@SomeChannel",
		"https://www.youtube.com/playlist?list=PL123456789",
		"https://www.youtube.com/watch",
		"https://vimeo.com/123456",
		"https://youtu.be/",
		"https://www.youtube.com/shorts/",
		"https://www.youtube.com/watch?v=bad/id",
	}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			_, err := ResolveVideoID(ref)
			if err == nil {
				t.Fatalf("ResolveVideoID(%q) should fail", ref)
			}
			if !engine.IsKind(err, engine.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
