package tts

import (
	"context"
	"testing"

	"github.com/neocortex/neocortex/internal/schema"
)

type recordingSpeaker struct {
	name  string
	said  []string
	style []schema.SpeechStyle
}

func (r *recordingSpeaker) Name() string { return r.name }

func (r *recordingSpeaker) Speak(_ context.Context, text string, style schema.SpeechStyle) error {
	r.said = append(r.said, text)
	r.style = append(r.style, style)
	return nil
}

func TestRoutedSpeakerSendsRoboticToLocal(t *testing.T) {
	natural := &recordingSpeaker{name: "natural"}
	robot := &recordingSpeaker{name: "robot"}
	s := &routedSpeaker{natural: natural, robot: robot}

	if err := s.Speak(context.Background(), "beep", schema.StyleRobotic); err != nil {
		t.Fatal(err)
	}
	if err := s.Speak(context.Background(), "hello", schema.StyleNormal); err != nil {
		t.Fatal(err)
	}

	if len(robot.said) != 1 || robot.said[0] != "beep" {
		t.Errorf("robot voice said %v, want [beep]", robot.said)
	}
	if len(natural.said) != 1 || natural.said[0] != "hello" {
		t.Errorf("natural voice said %v, want [hello]", natural.said)
	}
}

func TestNewSpeakerWithoutKeyIsLocalOnly(t *testing.T) {
	s := NewSpeaker("", "", "", "")
	if _, ok := s.(*LocalSpeaker); !ok {
		t.Fatalf("NewSpeaker without key = %T, want *LocalSpeaker", s)
	}
}

func TestShellQuote(t *testing.T) {
	cases := map[string]string{
		"hello":      "'hello'",
		"it's":       `'it'\''s'`,
		"a b; rm -f": "'a b; rm -f'",
	}
	for in, want := range cases {
		if got := shellQuote(in); got != want {
			t.Errorf("shellQuote(%q) = %s, want %s", in, got, want)
		}
	}
}
