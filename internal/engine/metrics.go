package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	LLMCalls         atomic.Int64
	LLMErrors        atomic.Int64
	MetadataRequests atomic.Int64
	MetadataErrors   atomic.Int64
	StreamResolves   atomic.Int64
	FramesExtracted  atomic.Int64
	FrameErrors      atomic.Int64
	HistoryWrites    atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"llm_calls":         metrics.LLMCalls.Load(),
		"llm_errors":        metrics.LLMErrors.Load(),
		"metadata_requests": metrics.MetadataRequests.Load(),
		"metadata_errors":   metrics.MetadataErrors.Load(),
		"stream_resolves":   metrics.StreamResolves.Load(),
		"frames_extracted":  metrics.FramesExtracted.Load(),
		"frame_errors":      metrics.FrameErrors.Load(),
		"history_writes":    metrics.HistoryWrites.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"llm_calls", "llm_errors",
		"metadata_requests", "metadata_errors",
		"stream_resolves", "frames_extracted", "frame_errors",
		"history_writes",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the video sub-package.
func IncrMetadataRequests() { metrics.MetadataRequests.Add(1) }
func IncrMetadataErrors()   { metrics.MetadataErrors.Add(1) }
func IncrStreamResolves()   { metrics.StreamResolves.Add(1) }
func IncrFramesExtracted()  { metrics.FramesExtracted.Add(1) }
func IncrFrameErrors()      { metrics.FrameErrors.Add(1) }
func IncrHistoryWrites()    { metrics.HistoryWrites.Add(1) }
