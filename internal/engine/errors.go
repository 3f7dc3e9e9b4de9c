package engine

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories the engine reports.
// Tool handlers and the batch orchestrator match on Kind instead of doing
// runtime type checks against ad-hoc error types.
type ErrorKind int

const (
	// KindValidation — malformed input (bad video reference, out-of-range
	// count). Surfaced before any external call, never retried.
	KindValidation ErrorKind = iota
	// KindDependency — a required external tool (yt-dlp, ffmpeg) is absent.
	KindDependency
	// KindExtraction — stream resolution or transcode failed for one
	// timestamp. Recorded per item by the batch orchestrator.
	KindExtraction
	// KindAnalysis — generic model/analysis failure.
	KindAnalysis
	// KindAccess — the video is private, deleted, or otherwise unreachable.
	KindAccess
	// KindQuota — upstream API quota or rate limit exhausted.
	KindQuota
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDependency:
		return "dependency"
	case KindExtraction:
		return "extraction"
	case KindAnalysis:
		return "analysis"
	case KindAccess:
		return "access"
	case KindQuota:
		return "quota"
	}
	return "unknown"
}

// Error is the engine's tagged error variant. Kind selects the category;
// the payload fields are populated per kind (Timestamp for extraction
// failures, Tool/Hint for missing dependencies).
type Error struct {
	Kind    ErrorKind
	Message string

	Timestamp float64 // seconds into the video; extraction failures only
	Tool      string  // missing executable name; dependency failures only
	Hint      string  // install hint; dependency failures only

	Err error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDependency:
		return fmt.Sprintf("%s not found: %s", e.Tool, e.Hint)
	case KindExtraction:
		if e.Timestamp < 0 { // batch-level aggregate, no single timestamp
			break
		}
		if e.Err != nil {
			return fmt.Sprintf("%s (at %.0fs): %v", e.Message, e.Timestamp, e.Err)
		}
		return fmt.Sprintf("%s (at %.0fs)", e.Message, e.Timestamp)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationErr reports malformed caller input.
func ValidationErr(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// DependencyErr reports a missing external executable with its install hint.
func DependencyErr(tool, hint string) *Error {
	return &Error{Kind: KindDependency, Tool: tool, Hint: hint}
}

// ExtractionErr reports a per-timestamp screenshot failure.
func ExtractionErr(timestamp float64, message string, err error) *Error {
	return &Error{Kind: KindExtraction, Timestamp: timestamp, Message: message, Err: err}
}

// AnalysisErr reports a model or analysis failure of the given kind.
// kind must be KindAnalysis, KindAccess, or KindQuota.
func AnalysisErr(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the ErrorKind from err. Returns KindAnalysis for errors
// that did not originate in the engine taxonomy.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindAnalysis
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
