package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"time"
)

const wavHeaderSize = 44

// MicCapture records WAV audio from the default microphone by shelling out
// to a recorder binary (arecord on Linux, sox's rec elsewhere) and applies a
// crude energy gate: captures whose RMS stays near the calibrated ambient
// floor are treated as silence.
type MicCapture struct {
	command    string  // explicit recorder command; auto-detected when empty
	sampleRate int
	listenFor  time.Duration
	noiseFloor float64 // RMS of ambient noise, set by Calibrate
	baseline   float64 // configured fallback floor before first calibration
}

// NewMicCapture creates a MicCapture. listenSeconds bounds one utterance;
// baselineRMS is the silence threshold used until the first calibration.
func NewMicCapture(command string, sampleRate, listenSeconds int, baselineRMS float64) *MicCapture {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if listenSeconds <= 0 {
		listenSeconds = 6
	}
	return &MicCapture{
		command:    command,
		sampleRate: sampleRate,
		listenFor:  time.Duration(listenSeconds) * time.Second,
		baseline:   baselineRMS,
	}
}

// Calibrate samples a short stretch of ambient audio and records its RMS as
// the silence floor for subsequent captures.
func (m *MicCapture) Calibrate(ctx context.Context) error {
	audio, err := m.record(ctx, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}
	m.noiseFloor = rms(audio)
	slog.Debug("ambient noise calibrated", "rms", m.noiseFloor)
	return nil
}

// Capture records one utterance and gates out silence-only captures.
func (m *MicCapture) Capture(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = m.listenFor
	}
	audio, err := m.record(ctx, timeout)
	if err != nil {
		return nil, err
	}

	floor := m.noiseFloor
	if floor <= 0 {
		floor = m.baseline
	}
	// Speech should rise well above the ambient floor.
	if rms(audio) < floor*1.5 {
		return nil, ErrWaitTimeout
	}
	return audio, nil
}

// record shells out to the recorder and returns raw WAV bytes.
func (m *MicCapture) record(ctx context.Context, d time.Duration) ([]byte, error) {
	secs := d.Seconds()
	rate := strconv.Itoa(m.sampleRate)

	var cmd *exec.Cmd
	switch {
	case m.command != "":
		cmd = exec.CommandContext(ctx, "sh", "-c", m.command)
	case commandExists("arecord"):
		cmd = exec.CommandContext(ctx, "arecord",
			"-q", "-f", "S16_LE", "-r", rate, "-c", "1",
			"-d", strconv.Itoa(int(math.Ceil(secs))), "-t", "wav", "-")
	case commandExists("rec"):
		cmd = exec.CommandContext(ctx, "rec",
			"-q", "-r", rate, "-c", "1", "-b", "16", "-t", "wav", "-",
			"trim", "0", fmt.Sprintf("%.1f", secs))
	default:
		return nil, fmt.Errorf("no audio recorder found (install arecord or sox)")
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("recorder: %w (%s)", err, bytes.TrimSpace(errBuf.Bytes()))
	}
	if out.Len() <= wavHeaderSize {
		return nil, ErrWaitTimeout
	}
	return out.Bytes(), nil
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// rms computes the root-mean-square amplitude of 16-bit little-endian PCM
// samples, skipping the WAV header.
func rms(wav []byte) float64 {
	if len(wav) <= wavHeaderSize {
		return 0
	}
	samples := wav[wavHeaderSize:]
	n := len(samples) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(samples[i*2:]))
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(n))
}
