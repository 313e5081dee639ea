package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/voiceboard/internal/diagram"
	"github.com/skillsenselab/voiceboard/internal/logger"
	"github.com/skillsenselab/voiceboard/internal/stt"
)

// --- fakes ---

type fakeTranscriber struct {
	resp  *stt.TranscriptionResponse
	err   error
	calls int

	lastPath       string
	sawFileOnDisk  bool
	lastLanguage   string
	lastBeamSize   int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, req stt.TranscriptionRequest) (*stt.TranscriptionResponse, error) {
	f.calls++
	f.lastPath = req.AudioPath
	f.lastLanguage = req.Language
	f.lastBeamSize = req.BeamSize
	if _, err := os.Stat(req.AudioPath); err == nil {
		f.sawFileOnDisk = true
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeEnricher struct {
	actions     []diagram.Action
	actErr      error
	actionCalls int

	suggestions    []string
	suggestionCall bool
	lastContext    string
}

func (f *fakeEnricher) DiagramActions(_ context.Context, _ string) ([]diagram.Action, error) {
	f.actionCalls++
	if f.actErr != nil {
		return nil, f.actErr
	}
	return f.actions, nil
}

func (f *fakeEnricher) Suggestions(_ context.Context, userContext string) []string {
	f.suggestionCall = true
	f.lastContext = userContext
	return f.suggestions
}

type fakeSink struct {
	batches []diagram.ActionBatch
	err     error
}

func (f *fakeSink) Write(batch diagram.ActionBatch) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, batch)
	return nil
}

// --- harness ---

func newTestEngine(t *testing.T, tr *fakeTranscriber, en *fakeEnricher, sink *fakeSink) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewHandlers(tr, en, sink, Options{MinAudioBytes: 100, Language: "en", BeamSize: 1}, logger.NewDefault("test"))
	h.Register(engine)
	return engine
}

func audioRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "recording.webm")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v (%s)", err, rr.Body.String())
	}
	return body
}

func segments(texts ...string) *stt.TranscriptionResponse {
	resp := &stt.TranscriptionResponse{}
	for _, s := range texts {
		resp.Segments = append(resp.Segments, stt.Segment{Text: s})
	}
	return resp
}

// --- /transcribe ---

func TestTranscribe_NoAudio(t *testing.T) {
	tr := &fakeTranscriber{}
	en := &fakeEnricher{}
	sink := &fakeSink{}
	engine := newTestEngine(t, tr, en, sink)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transcribe", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["success"] != false {
		t.Error("success should be false")
	}
	if tr.calls != 0 || en.actionCalls != 0 || len(sink.batches) != 0 {
		t.Error("no downstream calls expected for a missing payload")
	}
}

func TestTranscribe_PayloadTooSmall(t *testing.T) {
	tr := &fakeTranscriber{}
	en := &fakeEnricher{}
	sink := &fakeSink{}
	engine := newTestEngine(t, tr, en, sink)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, audioRequest(t, []byte("tiny")))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if tr.calls != 0 {
		t.Error("transcription must not run for an undersized payload")
	}
	if en.actionCalls != 0 {
		t.Error("enrichment must not run for an undersized payload")
	}
	if len(sink.batches) != 0 {
		t.Error("sink must not be written for an undersized payload")
	}
}

func TestTranscribe_Success(t *testing.T) {
	tr := &fakeTranscriber{resp: segments(" Create a node", "called Billing ")}
	en := &fakeEnricher{actions: []diagram.Action{{Type: diagram.ActionCreateNode, ID: "Billing", NodeType: diagram.NodeService}}}
	sink := &fakeSink{}
	engine := newTestEngine(t, tr, en, sink)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, audioRequest(t, bytes.Repeat([]byte("a"), 4096)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["success"] != true {
		t.Error("success should be true")
	}
	if body["transcript"] != "Create a node called Billing" {
		t.Errorf("transcript = %q, want space-joined trimmed segments", body["transcript"])
	}

	if len(sink.batches) != 1 {
		t.Fatalf("sink writes = %d, want 1", len(sink.batches))
	}
	batch := sink.batches[0]
	if batch.Message != "Create a node called Billing" || len(batch.Actions) != 1 {
		t.Errorf("persisted batch = %+v", batch)
	}

	if tr.lastLanguage != "en" || tr.lastBeamSize != 1 {
		t.Errorf("decoding config = %s/%d, want en/1", tr.lastLanguage, tr.lastBeamSize)
	}
	if !tr.sawFileOnDisk {
		t.Error("transcriber should have seen the temp file on disk")
	}
	if _, err := os.Stat(tr.lastPath); !os.IsNotExist(err) {
		t.Errorf("temp file %s still exists after the request", tr.lastPath)
	}
}

func TestTranscribe_TranscriptionFailure(t *testing.T) {
	tr := &fakeTranscriber{err: errors.New("decode error")}
	en := &fakeEnricher{}
	sink := &fakeSink{}
	engine := newTestEngine(t, tr, en, sink)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, audioRequest(t, bytes.Repeat([]byte("a"), 512)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	body := decodeBody(t, rr)
	if !strings.Contains(body["error"].(string), "try recording again") {
		t.Errorf("error = %q, want the re-record hint", body["error"])
	}
	if en.actionCalls != 0 {
		t.Error("enrichment must not run after a transcription failure")
	}
	if len(sink.batches) != 0 {
		t.Error("sink must not be written after a transcription failure")
	}
	if _, err := os.Stat(tr.lastPath); !os.IsNotExist(err) {
		t.Errorf("temp file %s still exists after the request", tr.lastPath)
	}
}

func TestTranscribe_EnrichmentFailureDegrades(t *testing.T) {
	tr := &fakeTranscriber{resp: segments("hello", "world")}
	en := &fakeEnricher{actErr: errors.New("model unavailable")}
	sink := &fakeSink{}
	engine := newTestEngine(t, tr, en, sink)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, audioRequest(t, bytes.Repeat([]byte("a"), 512)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite enrichment failure", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["success"] != true || body["transcript"] != "hello world" {
		t.Errorf("body = %v", body)
	}

	if len(sink.batches) != 1 {
		t.Fatalf("sink writes = %d, want 1", len(sink.batches))
	}
	encoded, _ := json.Marshal(sink.batches[0])
	if strings.Contains(string(encoded), `"actions"`) {
		t.Errorf("degraded batch must omit the actions key, got %s", encoded)
	}
}

func TestTranscribe_SinkFailure(t *testing.T) {
	tr := &fakeTranscriber{resp: segments("hello")}
	en := &fakeEnricher{}
	sink := &fakeSink{err: errors.New("disk full")}
	engine := newTestEngine(t, tr, en, sink)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, audioRequest(t, bytes.Repeat([]byte("a"), 512)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

// --- /process ---

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestProcess_EmptyText(t *testing.T) {
	en := &fakeEnricher{}
	engine := newTestEngine(t, &fakeTranscriber{}, en, &fakeSink{})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, postJSON("/process", `{"text": ""}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if en.actionCalls != 0 {
		t.Error("enrichment must not run for empty text")
	}
}

func TestProcess_Success(t *testing.T) {
	en := &fakeEnricher{actions: []diagram.Action{{Type: diagram.ActionCreateEdge, From: "A", To: "B"}}}
	sink := &fakeSink{}
	engine := newTestEngine(t, &fakeTranscriber{}, en, sink)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, postJSON("/process", `{"text": "connect A to B"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["success"] != true || body["transcript"] != "connect A to B" {
		t.Errorf("body = %v", body)
	}
	actions, ok := body["actions"].([]any)
	if !ok || len(actions) != 1 {
		t.Errorf("actions = %v, want one edge action", body["actions"])
	}
	if len(sink.batches) != 0 {
		t.Error("/process must never write the sink")
	}
}

func TestProcess_EnrichmentFailureIsHard(t *testing.T) {
	en := &fakeEnricher{actErr: errors.New("model unavailable")}
	engine := newTestEngine(t, &fakeTranscriber{}, en, &fakeSink{})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, postJSON("/process", `{"text": "connect A to B"}`))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (no degrade on this path)", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["success"] != false {
		t.Error("success should be false")
	}
}

// --- /suggestions ---

func TestSuggestions_EmptyBodyAndFailureStillSucceeds(t *testing.T) {
	en := &fakeEnricher{suggestions: nil} // degraded path yields nil
	engine := newTestEngine(t, &fakeTranscriber{}, en, &fakeSink{})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/suggestions", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["success"] != true {
		t.Error("success should be true")
	}
	suggestions, ok := body["suggestions"].([]any)
	if !ok || len(suggestions) != 0 {
		t.Errorf("suggestions = %v, want empty list", body["suggestions"])
	}
	if !en.suggestionCall {
		t.Error("suggestion requester should have been called")
	}
}

func TestSuggestions_PassesContext(t *testing.T) {
	en := &fakeEnricher{suggestions: []string{"Add a queue"}}
	engine := newTestEngine(t, &fakeTranscriber{}, en, &fakeSink{})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, postJSON("/suggestions", `{"context": "payment flow"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if en.lastContext != "payment flow" {
		t.Errorf("context = %q", en.lastContext)
	}
	body := decodeBody(t, rr)
	suggestions, _ := body["suggestions"].([]any)
	if len(suggestions) != 1 || suggestions[0] != "Add a queue" {
		t.Errorf("suggestions = %v", body["suggestions"])
	}
}

// --- /health ---

func TestHealth(t *testing.T) {
	engine := newTestEngine(t, &fakeTranscriber{}, &fakeEnricher{}, &fakeSink{})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["status"] != "ok" {
		t.Errorf(`status field = %v, want "ok"`, body["status"])
	}
}
