package tts

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/neocortex/neocortex/internal/schema"
)

// LocalSpeaker renders speech with the operating system's own synthesizer:
// espeak on Linux, `say` on macOS. It carries the robospeak voice and is the
// fallback when no ElevenLabs key is configured.
type LocalSpeaker struct {
	command string // explicit command override; text appended as last arg
}

func NewLocalSpeaker(command string) *LocalSpeaker {
	return &LocalSpeaker{command: command}
}

func (p *LocalSpeaker) Name() string { return "local" }

func (p *LocalSpeaker) Speak(ctx context.Context, text string, style schema.SpeechStyle) error {
	var cmd *exec.Cmd
	switch {
	case p.command != "":
		cmd = exec.CommandContext(ctx, "sh", "-c", p.command+" "+shellQuote(text))
	case runtime.GOOS == "darwin":
		if style == schema.StyleRobotic {
			cmd = exec.CommandContext(ctx, "say", "-v", "Zarvox", text)
		} else {
			cmd = exec.CommandContext(ctx, "say", text)
		}
	case commandExists("espeak"):
		// espeak is robotic by nature; slow it slightly for the normal style.
		if style == schema.StyleRobotic {
			cmd = exec.CommandContext(ctx, "espeak", text)
		} else {
			cmd = exec.CommandContext(ctx, "espeak", "-s", "150", text)
		}
	default:
		return fmt.Errorf("no speech synthesizer found (install espeak)")
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}
	return nil
}

// shellQuote single-quotes text for safe interpolation into an sh -c line.
func shellQuote(s string) string {
	out := "'"
	for _, r := range s {
		if r == '\'' {
			out += `'\''`
			continue
		}
		out += string(r)
	}
	return out + "'"
}
