// Package agent runs the voice turn loop: listen, interpret or forward,
// speak, repeat.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/neocortex/neocortex/internal/bus"
	"github.com/neocortex/neocortex/internal/interpreter"
	"github.com/neocortex/neocortex/internal/mirror"
	"github.com/neocortex/neocortex/internal/neocortex"
	"github.com/neocortex/neocortex/internal/persona"
	"github.com/neocortex/neocortex/internal/schema"
	"github.com/neocortex/neocortex/internal/session"
	"github.com/neocortex/neocortex/internal/speech"
	"github.com/neocortex/neocortex/internal/tts"
)

// Options carries the collaborators a Controller needs.
type Options struct {
	Session     *session.Session
	Persona     *persona.Manager
	Store       *neocortex.Store
	Transcript  *schema.Transcript
	Recognizer  speech.Recognizer
	Speaker     tts.Speaker
	Provider    schema.LLMProvider
	Bus         bus.Bus
	Mirrors     *mirror.Manager
	Model       string
	Temperature float64
	Out         io.Writer // console output: turn banners, conversation dumps
}

// Controller owns the listen cycle. At most one cycle runs at a time; the
// session's working flag guards against overlap, and its cancel flag lets the
// key loop abort a cycle between capture and forwarding.
type Controller struct {
	opts   Options
	interp *interpreter.Interpreter
}

func NewController(opts Options) *Controller {
	return &Controller{
		opts: opts,
		interp: interpreter.New(interpreter.Env{
			Session:    opts.Session,
			Persona:    opts.Persona,
			Store:      opts.Store,
			Transcript: opts.Transcript,
		}),
	}
}

// Start performs the pre-loop work: restore memories when configured, warm
// up the microphone, and settle the indicator on idle.
func (c *Controller) Start(ctx context.Context, restore bool) {
	if restore {
		if err := c.RestoreMemories(); err != nil {
			slog.Warn("startup restore failed", "err", err)
		} else {
			slog.Info("memories restored", "exchanges", c.opts.Transcript.Len())
		}
	}
	c.warmUp(ctx)
	c.opts.Bus.PublishState(bus.StateIdle)
}

// warmUp runs a short discarded capture so the first real listen does not pay
// the device open cost.
func (c *Controller) warmUp(ctx context.Context) {
	if _, err := c.opts.Recognizer.Capture(ctx, time.Second); err != nil &&
		!errors.Is(err, speech.ErrWaitTimeout) {
		slog.Debug("microphone warm-up", "err", err)
	}
	slog.Info("microphone ready")
}

// RunLoop consumes control signals until an exit signal or context
// cancellation. Listen signals are ignored while a cycle is in flight.
func (c *Controller) RunLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-c.opts.Bus.SignalChan():
			switch sig {
			case bus.SignalListen:
				if !c.opts.Session.BeginWork() {
					slog.Debug("listen ignored, cycle already active")
					continue
				}
				go c.runTurn(ctx)
			case bus.SignalCancel:
				if c.opts.Session.Working() {
					c.opts.Session.RequestCancel()
					slog.Info("cancel requested")
				}
			case bus.SignalSaveExit:
				if err := c.SaveMemories(); err != nil {
					slog.Error("save on exit failed", "err", err)
				} else {
					c.speakRobotic(ctx, "Memories saved. Goodbye.")
				}
				return nil
			case bus.SignalExit:
				return nil
			}
		}
	}
}

// runTurn executes one full listen cycle. It owns the session working flag
// taken by RunLoop and releases it on every path.
func (c *Controller) runTurn(ctx context.Context) {
	defer func() {
		c.opts.Session.EndWork()
		c.opts.Bus.PublishState(bus.StateIdle)
	}()

	c.opts.Session.SetState(session.StateListening)
	c.opts.Bus.PublishState(bus.StateCalibrating)
	if err := c.opts.Recognizer.Calibrate(ctx); err != nil {
		slog.Warn("calibration failed, proceeding uncalibrated", "err", err)
	}

	c.opts.Bus.PublishState(bus.StateListening)
	audio, err := c.opts.Recognizer.Capture(ctx, 0)
	if err != nil {
		if errors.Is(err, speech.ErrWaitTimeout) {
			slog.Info("no speech detected")
		} else {
			slog.Error("audio capture failed", "err", err)
		}
		return
	}

	// First cancellation checkpoint: between capture and transcription.
	if c.opts.Session.CancelRequested() {
		c.opts.Session.SetState(session.StateCancelled)
		slog.Info("cycle cancelled before transcription")
		return
	}

	c.opts.Session.SetState(session.StateProcessing)
	c.opts.Bus.PublishState(bus.StateThinking)

	res := c.opts.Recognizer.Transcribe(ctx, audio)
	switch res.Outcome {
	case speech.OutcomeTimeout:
		slog.Info("no usable speech in capture")
		return
	case speech.OutcomeFailure:
		slog.Error("transcription failed", "err", res.Err)
		c.speakRobotic(ctx, "I could not understand that.")
		return
	}

	// Second checkpoint: a cancel that raced the transcription discards the
	// transcript before it can mutate any state.
	if c.opts.Session.CancelRequested() {
		c.opts.Session.SetState(session.StateCancelled)
		slog.Info("cycle cancelled, transcript discarded")
		return
	}

	slog.Info("heard", "text", res.Text)
	if result, ok := c.interp.Interpret(res.Text); ok {
		c.deliver(ctx, result)
		return
	}
	c.forward(ctx, res.Text)
}

// deliver speaks a command confirmation and prints its console output.
// Confirmations are always robospeak regardless of the session style.
func (c *Controller) deliver(ctx context.Context, result interpreter.Result) {
	for _, line := range result.Lines {
		fmt.Fprintln(c.opts.Out, line)
	}
	c.speakRobotic(ctx, result.Spoken)
}

// forward sends the utterance to the language model and speaks the reply.
func (c *Controller) forward(ctx context.Context, human string) {
	msgs := schema.NewMessages()
	if concept := c.opts.Persona.EffectiveSelfConcept(); concept != "" {
		msgs.AddSystem(concept)
	}
	history := c.opts.Transcript.History()
	msgs.Messages = append(msgs.Messages, history.Messages...)
	msgs.AddUser(human + "\n")

	opts := schema.NewChatOptions(c.opts.Model, c.opts.Session.ReplyTokens(), c.opts.Temperature)
	resp, err := c.opts.Provider.Chat(ctx, msgs, opts)
	if err != nil {
		slog.Error("model request failed", "err", err)
		c.speakRobotic(ctx, "I could not reach my language model.")
		return
	}

	c.opts.Transcript.Append(human, resp.Content)
	c.opts.Session.IncrementTurns()

	fmt.Fprintf(c.opts.Out, "\n===== Turn %d =====\nHuman: %s\n%s: %s\n",
		c.opts.Session.TurnCount(), human, c.opts.Persona.Name(), resp.Content)

	if err := c.opts.Speaker.Speak(ctx, resp.Content, c.opts.Session.Style()); err != nil {
		slog.Warn("speech synthesis failed", "err", err)
	}
	if c.opts.Mirrors != nil && c.opts.Mirrors.Enabled() {
		c.opts.Mirrors.Broadcast(ctx, human, resp.Content)
	}
}

func (c *Controller) speakRobotic(ctx context.Context, text string) {
	if text == "" {
		return
	}
	if err := c.opts.Speaker.Speak(ctx, text, schema.StyleRobotic); err != nil {
		slog.Warn("speech synthesis failed", "err", err)
	}
}

// SaveMemories journals the conversation and base self-concept into the
// neocortex store. The active preset is deliberately not baked in.
func (c *Controller) SaveMemories() error {
	if err := c.opts.Store.Save(c.opts.Transcript, c.opts.Persona.BaseSelfConcept()); err != nil {
		return fmt.Errorf("saving memories: %w", err)
	}
	slog.Info("memories saved", "dir", c.opts.Store.Dir(), "exchanges", c.opts.Transcript.Len())
	return nil
}

// RestoreMemories loads the stored conversation and self-concept, replacing
// the live transcript.
func (c *Controller) RestoreMemories() error {
	restored, err := c.opts.Store.RestoreConversation()
	if err != nil {
		return fmt.Errorf("restoring memories: %w", err)
	}
	if err := c.opts.Persona.RestoreBase(); err != nil {
		return fmt.Errorf("restoring self-concept: %w", err)
	}
	c.opts.Transcript.Replace(restored)
	return nil
}

// SnapshotText renders the current conversation for scheduled snapshots.
func (c *Controller) SnapshotText() string {
	return c.opts.Transcript.Render(c.opts.Persona.Name())
}
