package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// WhisperRecognizer is the production Recognizer: microphone capture plus a
// Whisper-style /audio/transcriptions endpoint for recognition.
type WhisperRecognizer struct {
	*MicCapture

	apiKey  string
	apiBase string
	model   string
	client  *http.Client
}

// NewWhisperRecognizer wires a MicCapture to the transcription API.
// apiBase defaults to the OpenAI endpoint; model defaults to whisper-1.
func NewWhisperRecognizer(capture *MicCapture, apiKey, apiBase, model string) *WhisperRecognizer {
	if apiBase == "" {
		apiBase = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperRecognizer{
		MicCapture: capture,
		apiKey:     apiKey,
		apiBase:    strings.TrimRight(apiBase, "/"),
		model:      model,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Transcribe posts the captured WAV to the transcription endpoint. An empty
// transcription is reported as a timeout: the recorder heard something, the
// recogniser found no words in it.
func (w *WhisperRecognizer) Transcribe(ctx context.Context, audio []byte) Result {
	if len(audio) == 0 {
		return Timeout()
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return Failure(fmt.Errorf("create form file: %w", err))
	}
	if _, err := part.Write(audio); err != nil {
		return Failure(fmt.Errorf("write audio data: %w", err))
	}
	if err := writer.WriteField("model", w.model); err != nil {
		return Failure(fmt.Errorf("write model field: %w", err))
	}
	if err := writer.Close(); err != nil {
		return Failure(fmt.Errorf("close multipart writer: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		w.apiBase+"/audio/transcriptions", &buf)
	if err != nil {
		return Failure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return Failure(fmt.Errorf("transcription request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(fmt.Errorf("read transcription response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return Failure(fmt.Errorf("transcription HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(raw)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Failure(fmt.Errorf("parse transcription response: %w", err))
	}

	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		return Timeout()
	}
	return Transcript(text)
}
