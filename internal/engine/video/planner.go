package video

import (
	"context"
	"fmt"
	"sort"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// TimestampPlan is the structured output of the model's moment-picking pass.
type TimestampPlan struct {
	VideoDurationSeconds float64              `json:"video_duration_seconds"`
	Timestamps           []TimestampCandidate `json:"timestamps"`
}

// PlanTimestamps asks the model to pick count visually significant moments
// in the video, optionally biased toward focus. The model's free-form output
// is forced through a strict JSON schema; items with negative times are
// dropped, the rest are sorted and truncated to count.
func PlanTimestamps(ctx context.Context, reference string, count int, focus string) (*TimestampPlan, error) {
	if _, err := ResolveVideoID(reference); err != nil {
		return nil, err
	}
	max := engine.Cfg.MaxTimestamps
	if max <= 0 {
		max = 20
	}
	if count < 1 || count > max {
		return nil, engine.ValidationErr("count must be 1-%d, got %d", max, count)
	}

	focusLine := ""
	if focus != "" {
		focusLine = fmt.Sprintf("Focus on moments related to: %s\n", focus)
	}

	prompt := fmt.Sprintf(engine.PromptTimestamps, reference, count, focusLine)
	plan, raw, err := engine.CallLLMJSON[TimestampPlan](ctx, prompt)
	if err != nil {
		return nil, classifyModelError(err, "timestamp planning failed")
	}
	if plan == nil {
		return nil, engine.AnalysisErr(engine.KindAnalysis,
			fmt.Sprintf("timestamp planning returned unparseable output: %s", snippet(raw, 200)), nil)
	}

	plan.Timestamps = sanitizeTimestamps(plan.Timestamps, count)
	if len(plan.Timestamps) == 0 {
		return nil, engine.AnalysisErr(engine.KindAnalysis, "model returned no usable timestamps", nil)
	}
	return plan, nil
}

// sanitizeTimestamps drops negative-time items, backfills missing formatted
// times, sorts ascending, and truncates to count.
func sanitizeTimestamps(candidates []TimestampCandidate, count int) []TimestampCandidate {
	kept := make([]TimestampCandidate, 0, len(candidates))
	for _, ts := range candidates {
		if ts.TimeSeconds < 0 {
			continue
		}
		if ts.TimeFormatted == "" {
			ts.TimeFormatted = FormatTimestamp(ts.TimeSeconds)
		}
		kept = append(kept, ts)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].TimeSeconds < kept[j].TimeSeconds })
	if len(kept) > count {
		kept = kept[:count]
	}
	return kept
}

// snippet truncates s for inclusion in error messages.
func snippet(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
