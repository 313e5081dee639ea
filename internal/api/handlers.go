// Package api implements the HTTP surface of the service. Response bodies
// follow the flat {success, ...} envelope the diagramming front-end expects.
package api

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/voiceboard/internal/errors"
	"github.com/skillsenselab/voiceboard/internal/diagram"
	"github.com/skillsenselab/voiceboard/internal/logger"
	"github.com/skillsenselab/voiceboard/internal/stt"
)

// Transcriber converts recorded audio into recognized segments.
type Transcriber interface {
	Transcribe(ctx context.Context, req stt.TranscriptionRequest) (*stt.TranscriptionResponse, error)
}

// Enricher derives diagram actions and suggestions from text.
type Enricher interface {
	DiagramActions(ctx context.Context, transcript string) ([]diagram.Action, error)
	Suggestions(ctx context.Context, userContext string) []string
}

// ActionWriter persists the latest action batch for the front-end to poll.
type ActionWriter interface {
	Write(batch diagram.ActionBatch) error
}

// Options carries the tunables the handlers need beyond their collaborators.
type Options struct {
	// MinAudioBytes rejects uploads below this size before any
	// transcription attempt.
	MinAudioBytes int64
	// Language is the decoding language hint passed to the transcriber.
	Language string
	// BeamSize is the decoder beam width passed to the transcriber.
	BeamSize int
}

// Handlers holds the request handlers and their injected collaborators.
type Handlers struct {
	transcriber Transcriber
	enricher    Enricher
	sink        ActionWriter
	opts        Options
	log         *logger.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(t Transcriber, e Enricher, sink ActionWriter, opts Options, log *logger.Logger) *Handlers {
	if opts.MinAudioBytes == 0 {
		opts.MinAudioBytes = 100
	}
	return &Handlers{
		transcriber: t,
		enricher:    e,
		sink:        sink,
		opts:        opts,
		log:         log.WithComponent("api"),
	}
}

// Transcribe accepts a multipart audio upload, transcribes it, derives
// diagram actions, persists the batch, and returns the transcript.
//
// The uploaded blob lives in a request-scoped temp file removed on every
// exit path. Transcription failure is a client-class error; enrichment
// failure degrades to a message-only record because the transcript is
// still valuable to the consumer without derived actions.
func (h *Handlers) Transcribe(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		respondError(c, apperrors.InvalidInput("audio", "No audio file provided"))
		return
	}
	if file.Size < h.opts.MinAudioBytes {
		respondError(c, apperrors.InvalidInput("audio", "Audio file is too small or empty"))
		return
	}

	tmp, err := os.CreateTemp("", "voiceboard-*.webm")
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	ctx := c.Request.Context()
	result, err := h.transcriber.Transcribe(ctx, stt.TranscriptionRequest{
		AudioPath: tmpPath,
		Language:  h.opts.Language,
		BeamSize:  h.opts.BeamSize,
	})
	if err != nil {
		h.log.Warn("Transcription failed", logger.ErrorFields("transcribe", err))
		respondError(c, apperrors.TranscriptionFailed(err))
		return
	}
	transcript := result.Text()
	h.log.Info("Transcribed audio", map[string]interface{}{
		"bytes":      file.Size,
		"transcript": transcript,
	})

	actions, err := h.enricher.DiagramActions(ctx, transcript)
	if err != nil {
		h.log.Warn("Enrichment failed, writing message-only record", logger.ErrorFields("enrich", err))
		actions = nil
	}

	if err := h.sink.Write(diagram.NewActionBatch(transcript, actions)); err != nil {
		h.log.Error("Action sink write failed", logger.ErrorFields("sink", err))
		respondError(c, apperrors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "transcript": transcript})
}

type processRequest struct {
	Text string `json:"text"`
}

// Process accepts raw text and returns the derived diagram actions directly.
// Unlike Transcribe it never writes the sink, and an enrichment failure is a
// hard 500 — this endpoint exists solely to return actions.
func (h *Handlers) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		respondError(c, apperrors.InvalidInput("text", "No text provided"))
		return
	}

	actions, err := h.enricher.DiagramActions(c.Request.Context(), req.Text)
	if err != nil {
		h.log.Error("Enrichment failed", logger.ErrorFields("enrich", err))
		respondError(c, apperrors.EnrichmentFailed(err))
		return
	}
	if actions == nil {
		actions = []diagram.Action{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"actions":    actions,
		"transcript": req.Text,
	})
}

type suggestionsRequest struct {
	Context string `json:"context"`
}

// Suggestions returns model-generated suggestions for the optional context.
// The enrichment path cannot fail hard, so this handler always reports
// success, possibly with an empty list.
func (h *Handlers) Suggestions(c *gin.Context) {
	var req suggestionsRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	list := h.enricher.Suggestions(c.Request.Context(), req.Context)
	if list == nil {
		list = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "suggestions": list})
}

// Health reports liveness in the shape the front-end polls for.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps an error onto the flat {success:false, error} envelope,
// deriving the status from AppError when possible.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, gin.H{"success": false, "error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
