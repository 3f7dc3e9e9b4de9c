package video

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// AnswerTimestamp is a moment in the video supporting an answer.
type AnswerTimestamp struct {
	TimeSeconds   float64 `json:"time_seconds"`
	TimeFormatted string  `json:"time_formatted"`
	Note          string  `json:"note"`
}

// SummarizeResult is the output of video_summarize.
type SummarizeResult struct {
	VideoID   string    `json:"video_id"`
	URL       string    `json:"url"`
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"key_points,omitempty"`
	Topics    []string  `json:"topics,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// AskResult is the output of video_ask.
type AskResult struct {
	VideoID    string            `json:"video_id"`
	URL        string            `json:"url"`
	Question   string            `json:"question"`
	Answer     string            `json:"answer"`
	Timestamps []AnswerTimestamp `json:"timestamps,omitempty"`
	Metadata   *Metadata         `json:"metadata,omitempty"`
}

// llmSummary is the JSON structure expected from the model for summaries.
type llmSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Topics    []string `json:"topics"`
}

// llmAnswer is the JSON structure expected from the model for Q&A.
type llmAnswer struct {
	Answer     string            `json:"answer"`
	Timestamps []AnswerTimestamp `json:"timestamps"`
}

// detailInstructions maps the summarize detail level to a prompt rule.
var detailInstructions = map[string]string{
	"brief":    "summary: 2-3 plain-text sentences, the gist only",
	"normal":   "summary: one plain-text paragraph covering the arc of the video",
	"detailed": "summary: 2-4 plain-text paragraphs covering the video section by section",
}

// Summarize watches the video and produces a structured summary. Metadata
// enrichment runs concurrently with the model call and is best-effort: a
// metadata failure degrades to a summary without title/channel, never to a
// failed request.
func Summarize(ctx context.Context, reference, focus, detail string) (*SummarizeResult, error) {
	videoID, err := ResolveVideoID(reference)
	if err != nil {
		return nil, err
	}
	if detail == "" {
		detail = "normal"
	}
	instruction, ok := detailInstructions[detail]
	if !ok {
		return nil, engine.ValidationErr("detail must be brief, normal, or detailed, got %q", detail)
	}

	metaCh := fetchMetadataAsync(ctx, reference)

	focusLine := ""
	if focus != "" {
		focusLine = fmt.Sprintf("- emphasize content related to: %s", focus)
	}
	prompt := fmt.Sprintf(engine.PromptSummarize, engine.CurrentDate(), watchURL(videoID), instruction, focusLine)

	parsed, raw, err := engine.CallLLMJSON[llmSummary](ctx, prompt)
	meta := <-metaCh
	if err != nil {
		return nil, classifyModelError(err, "video summarization failed")
	}

	result := &SummarizeResult{VideoID: videoID, URL: watchURL(videoID), Metadata: meta}
	if parsed == nil {
		// Malformed JSON: salvage what we can rather than failing the call.
		if answer := engine.ExtractJSONAnswer(raw); answer != "" {
			result.Summary = answer
		} else {
			result.Summary = raw
		}
		return result, nil
	}
	result.Summary = parsed.Summary
	result.KeyPoints = parsed.KeyPoints
	result.Topics = parsed.Topics
	return result, nil
}

// Ask answers a question about the video, with the same concurrent
// best-effort metadata enrichment as Summarize.
func Ask(ctx context.Context, reference, question string) (*AskResult, error) {
	videoID, err := ResolveVideoID(reference)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, engine.ValidationErr("question is required")
	}

	metaCh := fetchMetadataAsync(ctx, reference)

	prompt := fmt.Sprintf(engine.PromptAsk, engine.CurrentDate(), watchURL(videoID), question)
	parsed, raw, err := engine.CallLLMJSON[llmAnswer](ctx, prompt)
	meta := <-metaCh
	if err != nil {
		return nil, classifyModelError(err, "video question answering failed")
	}

	result := &AskResult{VideoID: videoID, URL: watchURL(videoID), Question: question, Metadata: meta}
	if parsed == nil {
		if answer := engine.ExtractJSONAnswer(raw); answer != "" {
			result.Answer = answer
		} else {
			result.Answer = raw
		}
		return result, nil
	}
	result.Answer = parsed.Answer
	result.Timestamps = parsed.Timestamps
	return result, nil
}

// fetchMetadataAsync starts a best-effort metadata fetch and returns its
// result channel. Failures are logged and collapse to nil.
func fetchMetadataAsync(ctx context.Context, reference string) <-chan *Metadata {
	ch := make(chan *Metadata, 1)
	go func() {
		meta, err := FetchMetadata(ctx, reference)
		if err != nil {
			slog.Warn("metadata enrichment failed", slog.Any("error", err))
			ch <- nil
			return
		}
		ch <- meta
	}()
	return ch
}

// watchURL builds the canonical watch URL for a resolved video ID.
func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// classifyModelError sorts upstream model failures into the error taxonomy
// by message content. The upstream API exposes no typed error codes, so this
// substring heuristic is the single place the mapping lives; anything it
// does not recognize stays a generic analysis error.
func classifyModelError(err error, context string) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "429"):
		return engine.AnalysisErr(engine.KindQuota, context+": API quota or rate limit exhausted", err)
	case strings.Contains(msg, "private"),
		strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "not found"),
		strings.Contains(msg, "age restricted"),
		strings.Contains(msg, "permission"):
		return engine.AnalysisErr(engine.KindAccess, context+": video is not accessible", err)
	}
	return engine.AnalysisErr(engine.KindAnalysis, context, err)
}
