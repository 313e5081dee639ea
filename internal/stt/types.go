package stt

import "strings"

// TranscriptionRequest holds parameters for a transcription call.
type TranscriptionRequest struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language is the expected language of the audio (e.g. "en").
	Language string `json:"language,omitempty"`
	// BeamSize is the decoder beam width (0 = provider default).
	// Low values trade transcription quality for latency.
	BeamSize int `json:"beam_size,omitempty"`
}

// TranscriptionResponse holds the result of a transcription call.
type TranscriptionResponse struct {
	// Segments contains the recognized segments in order.
	Segments []Segment `json:"segments"`
	// Language is the language detected or used for decoding.
	Language string `json:"language,omitempty"`
	// Duration is the audio duration in seconds, if reported.
	Duration float64 `json:"duration,omitempty"`
}

// Segment represents one recognized time range.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the recognized text for this segment.
	Text string `json:"text"`
}

// Text concatenates segment texts with single-space separators and trims
// surrounding whitespace.
func (r *TranscriptionResponse) Text() string {
	parts := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
