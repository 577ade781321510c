package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neocortex/neocortex/internal/bus"
	"github.com/neocortex/neocortex/internal/neocortex"
	"github.com/neocortex/neocortex/internal/persona"
	"github.com/neocortex/neocortex/internal/schema"
	"github.com/neocortex/neocortex/internal/session"
	"github.com/neocortex/neocortex/internal/speech"
)

type fakeRecognizer struct {
	captureErr   error
	result       speech.Result
	onCapture    func()
	onTranscribe func()
}

func (f *fakeRecognizer) Calibrate(context.Context) error { return nil }

func (f *fakeRecognizer) Capture(context.Context, time.Duration) ([]byte, error) {
	if f.onCapture != nil {
		f.onCapture()
	}
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return []byte{0x01}, nil
}

func (f *fakeRecognizer) Transcribe(context.Context, []byte) speech.Result {
	if f.onTranscribe != nil {
		f.onTranscribe()
	}
	return f.result
}

type spoken struct {
	text  string
	style schema.SpeechStyle
}

type fakeSpeaker struct {
	said []spoken
}

func (f *fakeSpeaker) Name() string { return "fake" }

func (f *fakeSpeaker) Speak(_ context.Context, text string, style schema.SpeechStyle) error {
	f.said = append(f.said, spoken{text, style})
	return nil
}

type fakeProvider struct {
	reply    string
	err      error
	called   bool
	lastMsgs schema.Messages
	lastOpts schema.ChatOptions
}

func (f *fakeProvider) Chat(_ context.Context, msgs schema.Messages, opts schema.ChatOptions) (schema.LLMResponse, error) {
	f.called = true
	f.lastMsgs = msgs
	f.lastOpts = opts
	if f.err != nil {
		return schema.LLMResponse{}, f.err
	}
	return schema.LLMResponse{Content: f.reply, FinishReason: "stop"}, nil
}

func (f *fakeProvider) DefaultModel() string { return "fake-model" }

type harness struct {
	ctrl       *Controller
	sess       *session.Session
	transcript *schema.Transcript
	recognizer *fakeRecognizer
	speaker    *fakeSpeaker
	provider   *fakeProvider
	store      *neocortex.Store
	out        *bytes.Buffer
	bus        bus.Bus
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sess:       session.New(256),
		transcript: schema.NewTranscript(),
		recognizer: &fakeRecognizer{},
		speaker:    &fakeSpeaker{},
		provider:   &fakeProvider{reply: "hello human"},
		store:      neocortex.NewStore(t.TempDir() + "/neocortex"),
		out:        &bytes.Buffer{},
		bus:        bus.NewSignalBus(8),
	}
	h.ctrl = NewController(Options{
		Session:     h.sess,
		Persona:     persona.NewManager("Aibot", "I am helpful.", h.store, nil),
		Store:       h.store,
		Transcript:  h.transcript,
		Recognizer:  h.recognizer,
		Speaker:     h.speaker,
		Provider:    h.provider,
		Bus:         h.bus,
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		Out:         h.out,
	})
	return h
}

func (h *harness) runTurn(t *testing.T) {
	t.Helper()
	if !h.sess.BeginWork() {
		t.Fatal("could not take the working flag")
	}
	h.ctrl.runTurn(context.Background())
}

func TestTurnForwardsToModel(t *testing.T) {
	h := newHarness(t)
	h.recognizer.result = speech.Transcript("tell me a story")

	h.runTurn(t)

	if !h.provider.called {
		t.Fatal("provider was not called")
	}
	if h.transcript.Len() != 1 {
		t.Fatalf("transcript has %d exchanges, want 1", h.transcript.Len())
	}
	if h.sess.TurnCount() != 1 {
		t.Errorf("TurnCount = %d, want 1", h.sess.TurnCount())
	}
	if len(h.speaker.said) != 1 || h.speaker.said[0].text != "hello human" {
		t.Fatalf("spoken = %+v, want the model reply", h.speaker.said)
	}
	if h.speaker.said[0].style != schema.StyleNormal {
		t.Errorf("reply spoken in %v, want the session style", h.speaker.said[0].style)
	}
	if !strings.Contains(h.out.String(), "Turn 1") {
		t.Errorf("missing turn banner in console output: %q", h.out.String())
	}
	if h.sess.Working() {
		t.Error("working flag still set after the cycle")
	}
}

func TestForwardAppendsTerminator(t *testing.T) {
	h := newHarness(t)
	h.recognizer.result = speech.Transcript("hello")

	h.runTurn(t)

	msgs := h.provider.lastMsgs.Messages
	last := msgs[len(msgs)-1]
	if last.Role != "user" || !strings.HasSuffix(last.Content, "\n") {
		t.Errorf("forwarded user message = %+v, want trailing newline", last)
	}
	if msgs[0].Role != "system" || msgs[0].Content != "I am helpful." {
		t.Errorf("system message = %+v, want the self-concept", msgs[0])
	}
	if h.provider.lastOpts.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want the session reply tokens", h.provider.lastOpts.MaxTokens)
	}
}

func TestTurnRunsCommand(t *testing.T) {
	h := newHarness(t)
	h.recognizer.result = speech.Transcript("speak like a robot")

	h.runTurn(t)

	if h.provider.called {
		t.Error("command utterance was forwarded to the model")
	}
	if h.sess.Style() != schema.StyleRobotic {
		t.Errorf("Style = %v, want robotic", h.sess.Style())
	}
	if h.transcript.Len() != 0 {
		t.Error("command mutated the transcript")
	}
	if len(h.speaker.said) != 1 || h.speaker.said[0].style != schema.StyleRobotic {
		t.Fatalf("confirmation = %+v, want one robospeak line", h.speaker.said)
	}
}

func TestCancelBeforeTranscriptionDiscardsTurn(t *testing.T) {
	h := newHarness(t)
	h.recognizer.result = speech.Transcript("set tokens to 100")
	h.recognizer.onCapture = func() { h.sess.RequestCancel() }

	h.runTurn(t)

	if h.provider.called {
		t.Error("cancelled cycle reached the model")
	}
	if h.sess.ReplyTokens() != 256 {
		t.Error("cancelled cycle mutated session state")
	}
	if h.sess.CancelRequested() {
		t.Error("cancel flag not cleared by cycle end")
	}
}

func TestCancelAfterTranscriptionDiscardsTranscript(t *testing.T) {
	h := newHarness(t)
	h.recognizer.result = speech.Transcript("tell me a story")
	h.recognizer.onTranscribe = func() { h.sess.RequestCancel() }

	h.runTurn(t)

	if h.provider.called {
		t.Error("discarded transcript was forwarded")
	}
	if h.transcript.Len() != 0 {
		t.Error("discarded transcript reached the conversation")
	}
}

func TestNoSpeechEndsQuietly(t *testing.T) {
	h := newHarness(t)
	h.recognizer.captureErr = speech.ErrWaitTimeout

	h.runTurn(t)

	if h.provider.called || len(h.speaker.said) != 0 {
		t.Error("silent cycle produced output")
	}
	if h.sess.Working() {
		t.Error("working flag still set")
	}
}

func TestTranscriptionFailureSpeaksApology(t *testing.T) {
	h := newHarness(t)
	h.recognizer.result = speech.Failure(errors.New("backend down"))

	h.runTurn(t)

	if h.provider.called {
		t.Error("failed transcription was forwarded")
	}
	if len(h.speaker.said) != 1 || h.speaker.said[0].style != schema.StyleRobotic {
		t.Fatalf("apology = %+v, want one robospeak line", h.speaker.said)
	}
}

func TestModelFailureSpeaksApology(t *testing.T) {
	h := newHarness(t)
	h.recognizer.result = speech.Transcript("hello")
	h.provider.err = errors.New("rate limited")

	h.runTurn(t)

	if h.transcript.Len() != 0 {
		t.Error("failed exchange reached the transcript")
	}
	if len(h.speaker.said) != 1 || h.speaker.said[0].style != schema.StyleRobotic {
		t.Fatalf("apology = %+v", h.speaker.said)
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.transcript.Append("hello", "hi")
	if err := h.ctrl.SaveMemories(); err != nil {
		t.Fatal(err)
	}

	h.transcript.Replace(schema.NewTranscript())
	if err := h.ctrl.RestoreMemories(); err != nil {
		t.Fatal(err)
	}
	if h.transcript.Len() != 1 || h.transcript.Exchanges[0].Human != "hello" {
		t.Errorf("restored transcript = %+v", h.transcript.Exchanges)
	}
}

func TestRunLoopExit(t *testing.T) {
	h := newHarness(t)
	h.bus.PublishSignal(bus.SignalExit)

	if err := h.ctrl.RunLoop(context.Background()); err != nil {
		t.Fatalf("RunLoop = %v", err)
	}
}

func TestRunLoopSaveExit(t *testing.T) {
	h := newHarness(t)
	h.transcript.Append("keep", "this")
	h.bus.PublishSignal(bus.SignalSaveExit)

	if err := h.ctrl.RunLoop(context.Background()); err != nil {
		t.Fatalf("RunLoop = %v", err)
	}
	restored, err := h.store.RestoreConversation()
	if err != nil {
		t.Fatal(err)
	}
	if restored.Len() != 1 {
		t.Errorf("save-exit did not persist the conversation: %d exchanges", restored.Len())
	}
}
