// Package tts renders spoken output. Callers treat Speak as fire-and-forget:
// errors are logged, never acted on.
package tts

import (
	"context"

	"github.com/neocortex/neocortex/internal/schema"
)

// Speaker renders text as audio in the requested style.
type Speaker interface {
	Name() string
	Speak(ctx context.Context, text string, style schema.SpeechStyle) error
}

// routedSpeaker sends robotic speech to the local synthesizer and everything
// else to the natural-voice provider. Robospeak is always the local voice,
// matching the original's separate robospeak path.
type routedSpeaker struct {
	natural Speaker
	robot   Speaker
}

// NewSpeaker builds the speaker stack: ElevenLabs for the natural voice when
// a key is available, the local synthesizer otherwise and for robospeak.
func NewSpeaker(elevenKey, voice, robotCommand, playCommand string) Speaker {
	local := NewLocalSpeaker(robotCommand)
	if elevenKey == "" {
		return local
	}
	return &routedSpeaker{
		natural: NewElevenLabsSpeaker(elevenKey, voice, playCommand),
		robot:   local,
	}
}

func (r *routedSpeaker) Name() string { return r.natural.Name() + "+" + r.robot.Name() }

func (r *routedSpeaker) Speak(ctx context.Context, text string, style schema.SpeechStyle) error {
	if style == schema.StyleRobotic {
		return r.robot.Speak(ctx, text, style)
	}
	return r.natural.Speak(ctx, text, style)
}
