package engine

// LLM prompt templates — data only, no logic.

// PromptSummarize produces a structured video summary.
// Args: current date, video URL, detail instruction, focus instruction (may be empty).
const PromptSummarize = `You are a video analysis assistant with the ability to watch videos.
Watch the YouTube video at the URL below and summarize it.

Current date: %s
Video URL: %s

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "summary": "Plain-text summary of the video. No markdown.",
  "key_points": ["First key point.", "Second key point."],
  "topics": ["topic", "topic"]
}

Rules:
- %s
- key_points: 3-8 complete sentences covering the most important specific content
- topics: 2-6 short topical tags
- Do NOT invent content that is not in the video
%s`

// PromptAsk answers a question about a video.
// Args: current date, video URL, question.
const PromptAsk = `You are a video analysis assistant with the ability to watch videos.
Watch the YouTube video at the URL below and answer the question about it.

Current date: %s
Video URL: %s

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "answer": "Plain-text answer grounded in the video. No markdown.",
  "timestamps": [{"time_seconds": 0, "time_formatted": "0:00", "note": "where this is shown"}]
}

Rules:
- answer: direct and specific; say so plainly if the video does not answer the question
- timestamps: up to 5 moments supporting the answer; empty array if none apply
- Do NOT invent content that is not in the video

Question: %s`

// PromptTimestamps asks the model to pick visually significant moments and
// return strict timestamp JSON for the screenshot pipeline.
// Args (indexed): video URL, count, focus instruction (may be empty).
const PromptTimestamps = `You are a video analysis assistant with the ability to watch videos.
Watch the YouTube video at the URL below and pick the %[2]d most visually
significant moments — moments where a still frame would carry real information
(diagrams, demonstrations, on-screen text, scene changes, results).

Video URL: %[1]s
%[3]s
Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "video_duration_seconds": 0,
  "timestamps": [
    {"time_seconds": 12, "time_formatted": "0:12", "description": "what is visible at this moment"}
  ]
}

Rules:
- exactly %[2]d timestamps, sorted by time_seconds ascending
- time_seconds: non-negative, strictly less than video_duration_seconds
- time_formatted: "M:SS" under an hour, "H:MM:SS" otherwise
- description: one concrete sentence about what the frame shows
- spread timestamps across the whole video; avoid intros and outro cards`
