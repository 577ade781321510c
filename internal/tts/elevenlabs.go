package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/neocortex/neocortex/internal/schema"
)

const (
	elevenLabsAPIEndpoint  = "https://api.elevenlabs.io/v1"
	elevenLabsDefaultVoice = "21m00Tcm4TlvDq8ikWAM" // Rachel
)

// ElevenLabsSpeaker synthesizes speech through the ElevenLabs API and plays
// the resulting MP3 with a local player binary.
type ElevenLabsSpeaker struct {
	apiKey      string
	voice       string
	playCommand string
	client      *http.Client
}

// NewElevenLabsSpeaker creates an ElevenLabsSpeaker. voice may be empty to
// use the default; playCommand overrides player auto-detection.
func NewElevenLabsSpeaker(apiKey, voice, playCommand string) *ElevenLabsSpeaker {
	if voice == "" {
		voice = elevenLabsDefaultVoice
	}
	return &ElevenLabsSpeaker{
		apiKey:      apiKey,
		voice:       voice,
		playCommand: playCommand,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *ElevenLabsSpeaker) Name() string { return "elevenlabs" }

// Speak synthesizes and plays text. The style argument is ignored here; the
// routing layer never sends robotic speech to this provider.
func (p *ElevenLabsSpeaker) Speak(ctx context.Context, text string, _ schema.SpeechStyle) error {
	audio, err := p.synthesize(ctx, text)
	if err != nil {
		return err
	}
	return p.play(ctx, audio)
}

func (p *ElevenLabsSpeaker) synthesize(ctx context.Context, text string) ([]byte, error) {
	payload := map[string]any{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", elevenLabsAPIEndpoint, p.voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("synthesis HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return io.ReadAll(resp.Body)
}

// play writes the MP3 to a temp file and hands it to a local player.
func (p *ElevenLabsSpeaker) play(ctx context.Context, audio []byte) error {
	f, err := os.CreateTemp("", "neocortex-*.mp3")
	if err != nil {
		return fmt.Errorf("create temp audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("write temp audio file: %w", err)
	}
	f.Close()

	var cmd *exec.Cmd
	switch {
	case p.playCommand != "":
		cmd = exec.CommandContext(ctx, "sh", "-c", p.playCommand+" "+f.Name())
	case runtime.GOOS == "darwin":
		cmd = exec.CommandContext(ctx, "afplay", f.Name())
	case commandExists("mpg123"):
		cmd = exec.CommandContext(ctx, "mpg123", "-q", f.Name())
	case commandExists("ffplay"):
		cmd = exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", f.Name())
	default:
		return fmt.Errorf("no audio player found (install mpg123 or ffplay)")
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
