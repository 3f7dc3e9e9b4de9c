package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_video/internal/engine"
)

// Metadata is the auxiliary video information attached to analysis results.
// All of it is best-effort enrichment; callers must tolerate a nil Metadata.
type Metadata struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Channel      string `json:"channel"`
	ChannelURL   string `json:"channel_url,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// oembedResponse is YouTube's oEmbed payload, trimmed to what we use.
type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// FetchMetadata fetches title/channel/thumbnail via the oEmbed endpoint and
// enriches publish date and description from the watch page. The watch-page
// pass is a fallback layer: its failure never fails the fetch as long as
// oEmbed answered.
func FetchMetadata(ctx context.Context, reference string) (*Metadata, error) {
	videoID, err := ResolveVideoID(reference)
	if err != nil {
		return nil, err
	}

	engine.IncrMetadataRequests()
	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.MetadataTimeout)
	defer cancel()

	meta := &Metadata{VideoID: videoID}

	oe, oeErr := fetchOEmbed(ctx, videoID)
	if oeErr == nil {
		meta.Title = oe.Title
		meta.Channel = oe.AuthorName
		meta.ChannelURL = oe.AuthorURL
		meta.ThumbnailURL = oe.ThumbnailURL
	}

	if err := scrapeWatchPage(ctx, videoID, meta); err != nil && oeErr != nil {
		engine.IncrMetadataErrors()
		return nil, fmt.Errorf("metadata for %s: oembed: %w", videoID, oeErr)
	}
	return meta, nil
}

// fetchOEmbed queries the oEmbed endpoint for basic video metadata.
func fetchOEmbed(ctx context.Context, videoID string) (*oembedResponse, error) {
	endpoint := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(watchURL(videoID))

	resp, err := engine.RetryHTTP(ctx, engine.MetadataRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var oe oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return nil, fmt.Errorf("decode oembed: %w", err)
	}
	return &oe, nil
}

// scrapeWatchPage fills publish date, description, and any fields oEmbed
// left empty from the watch page's meta tags.
func scrapeWatchPage(ctx context.Context, videoID string, meta *Metadata) error {
	resp, err := engine.RetryHTTP(ctx, engine.MetadataRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL(videoID), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept-Language", "en")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("watch page status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return fmt.Errorf("parse watch page: %w", err)
	}
	fillFromDocument(doc, meta)
	return nil
}

// fillFromDocument extracts meta-tag fields, keeping values already set.
func fillFromDocument(doc *goquery.Document, meta *Metadata) {
	metaContent := func(selector string) string {
		val, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(val)
	}

	if meta.Title == "" {
		meta.Title = metaContent(`meta[property="og:title"]`)
	}
	if meta.Channel == "" {
		meta.Channel = metaContent(`link[itemprop="name"]`)
	}
	if meta.ThumbnailURL == "" {
		meta.ThumbnailURL = metaContent(`meta[property="og:image"]`)
	}
	if meta.Description == "" {
		meta.Description = metaContent(`meta[property="og:description"]`)
	}
	if meta.PublishedAt == "" {
		meta.PublishedAt = metaContent(`meta[itemprop="datePublished"]`)
	}
	if meta.PublishedAt == "" {
		meta.PublishedAt = metaContent(`meta[itemprop="uploadDate"]`)
	}
}
