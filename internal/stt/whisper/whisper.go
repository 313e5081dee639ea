// Package whisper implements stt.Provider against a Whisper HTTP sidecar.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/skillsenselab/voiceboard/internal/stt"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:8390"
	defaultWhisperTimeout = 120 * time.Second
	defaultLanguage       = "en"
	defaultBeamSize       = 1
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	// Language is the decoding language hint applied when a request
	// leaves it unset.
	Language string `json:"language"`
	// BeamSize is the default decoder beam width.
	BeamSize int `json:"beam_size"`
}

// Provider implements stt.Provider using the Whisper HTTP sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new Whisper transcription provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultWhisperURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWhisperTimeout
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.BeamSize == 0 {
		cfg.BeamSize = defaultBeamSize
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Whisper sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Transcribe sends audio to the Whisper sidecar and returns recognized segments.
func (p *Provider) Transcribe(ctx context.Context, req stt.TranscriptionRequest) (*stt.TranscriptionResponse, error) {
	audioData, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	language := req.Language
	if language == "" {
		language = p.cfg.Language
	}
	beamSize := req.BeamSize
	if beamSize == 0 {
		beamSize = p.cfg.BeamSize
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	_ = writer.WriteField("language", language)
	_ = writer.WriteField("beam_size", fmt.Sprintf("%d", beamSize))
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription error (status %d): %s", resp.StatusCode, string(body))
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode transcription response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("transcription error: %s", result.Error)
	}

	return toTranscriptionResponse(&result), nil
}

// --- internal Whisper API types ---

type whisperResponse struct {
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language,omitempty"`
	Duration float64          `json:"duration,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type whisperSegment struct {
	StartTime float64 `json:"start"`
	EndTime   float64 `json:"end"`
	Text      string  `json:"text"`
}

func toTranscriptionResponse(resp *whisperResponse) *stt.TranscriptionResponse {
	segments := make([]stt.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = stt.Segment{
			Start: seg.StartTime,
			End:   seg.EndTime,
			Text:  seg.Text,
		}
	}
	return &stt.TranscriptionResponse{
		Segments: segments,
		Language: resp.Language,
		Duration: resp.Duration,
	}
}
