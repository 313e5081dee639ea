// Package stt defines the speech-recognition provider interface and common
// types for interacting with transcription backends.
package stt

import (
	"context"

	"github.com/skillsenselab/voiceboard/internal/provider"
)

// Provider is the interface that speech-recognition backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe sends audio for recognition and returns the result.
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
}
