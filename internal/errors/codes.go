package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Upstream errors
const (
	// ErrCodeTranscription indicates the speech-recognition call failed.
	ErrCodeTranscription ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeEnrichment indicates the diagram-action derivation failed.
	ErrCodeEnrichment ErrorCode = "ENRICHMENT_FAILED"
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
