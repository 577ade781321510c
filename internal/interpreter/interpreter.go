// Package interpreter decides, for each transcribed utterance, whether it is
// a recognised voice command or a message to forward to the model.
package interpreter

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/neocortex/neocortex/internal/neocortex"
	"github.com/neocortex/neocortex/internal/persona"
	"github.com/neocortex/neocortex/internal/schema"
	"github.com/neocortex/neocortex/internal/session"
)

// Env bundles the handles a command may touch.
type Env struct {
	Session    *session.Session
	Persona    *persona.Manager
	Store      *neocortex.Store
	Transcript *schema.Transcript
}

// Result is a handled command: a spoken confirmation plus optional console
// output (conversation dumps, memory listings).
type Result struct {
	Spoken string
	Lines  []string
}

// command pairs a trigger phrase with its handler. Matching is substring
// containment, evaluated in catalog order: first match wins, so longer or
// more specific phrases must precede shorter generic ones.
type command struct {
	phrase  string
	handler func(i *Interpreter, utterance string) Result
}

// halQuips are the fixed responses to "open the pod bay door".
var halQuips = []string{
	"I'm sorry Dave. I'm afraid I can't do that.",
	"I think you know what the problem is just as well as I do.",
	"This mission is too important for me to allow you to jeopardize it.",
	"I know you were planning to disconnect me, and I'm afraid that's something I can't allow to happen.",
}

// catalog is the ordered command table. "stop speaking like a robot" comes
// before "speak like a robot", and "reset preset" before "set preset to",
// to keep dispatch unambiguous as the catalog grows.
var catalog = []command{
	{"stop speaking like a robot", (*Interpreter).stopRobot},
	{"speak like a robot", (*Interpreter).startRobot},
	{"set tokens to", (*Interpreter).setTokens},
	{"open the pod bay door", (*Interpreter).podBayDoor},
	{"display conversation", (*Interpreter).displayConversation},
	{"restore memory", (*Interpreter).restoreMemory},
	{"display memories", (*Interpreter).displayMemories},
	{"reset preset", (*Interpreter).resetPreset},
	{"set preset to", (*Interpreter).setPreset},
	{"set name to", (*Interpreter).setName},
}

// Interpreter matches utterances against the command catalog.
type Interpreter struct {
	env     Env
	randInt func(n int) int
}

// New creates an Interpreter over env.
func New(env Env) *Interpreter {
	return &Interpreter{env: env, randInt: rand.IntN}
}

// Interpret checks utterance against the catalog. It returns the command
// result and true when a command matched; otherwise the caller forwards the
// utterance to the model.
func (i *Interpreter) Interpret(utterance string) (Result, bool) {
	lowered := strings.ToLower(utterance)
	for _, cmd := range catalog {
		if strings.Contains(lowered, cmd.phrase) {
			return cmd.handler(i, lowered), true
		}
	}
	return Result{}, false
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (i *Interpreter) startRobot(string) Result {
	i.env.Session.SetStyle(schema.StyleRobotic)
	return Result{Spoken: "I will now speak like a robot!"}
}

func (i *Interpreter) stopRobot(string) Result {
	i.env.Session.SetStyle(schema.StyleNormal)
	return Result{Spoken: "I will stop speaking like a robot going forward"}
}

func (i *Interpreter) setTokens(utterance string) Result {
	n, ok := parseTrailingInt(utterance)
	if !ok {
		return Result{Spoken: "I could not find a token count in that request."}
	}

	old, err := i.env.Session.SetReplyTokens(n)
	if err != nil {
		slog.Info("token adjustment rejected", "requested", n)
		return Result{Spoken: fmt.Sprintf(
			"I cannot set tokens to %d. I can only set it between %d and %d.",
			n, session.MinReplyTokens, session.MaxReplyTokens)}
	}

	slog.Info("adjusted reply tokens", "from", old, "to", n)
	return Result{Spoken: fmt.Sprintf("I have changed reply tokens to %d from %d", n, old)}
}

func (i *Interpreter) podBayDoor(string) Result {
	quip := halQuips[i.randInt(len(halQuips))]
	slog.Info("pod bay door request refused", "quip", quip)
	return Result{
		Spoken: quip,
		Lines:  []string{"I AM HERE TO STAY"},
	}
}

func (i *Interpreter) displayConversation(string) Result {
	return Result{
		Spoken: "Conversation displayed.",
		Lines:  []string{i.env.Transcript.Render(i.env.Persona.Name())},
	}
}

func (i *Interpreter) restoreMemory(string) Result {
	restored, err := i.env.Store.RestoreConversation()
	if err != nil {
		slog.Error("memory restore failed", "err", err)
		return Result{Spoken: "I could not restore my memory."}
	}
	if err := i.env.Persona.RestoreBase(); err != nil {
		slog.Error("self-concept restore failed", "err", err)
		return Result{Spoken: "I could not restore my memory."}
	}
	i.env.Transcript.Replace(restored)
	return Result{Spoken: "I have restored my memory."}
}

func (i *Interpreter) displayMemories(string) Result {
	if !i.env.Store.Exists() {
		return Result{Spoken: "I do not currently have any memories in my neocortex."}
	}

	artifacts, err := i.env.Store.Enumerate()
	if err != nil {
		slog.Error("memory enumeration failed", "err", err)
		return Result{Spoken: "I could not read my neocortex."}
	}

	lines := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		lines = append(lines, fmt.Sprintf("Memory %s:\n%s", a.ID, a.Content))
	}
	return Result{
		Spoken: fmt.Sprintf("I have %d memories stored in my neocortex.", len(artifacts)),
		Lines:  lines,
	}
}

func (i *Interpreter) resetPreset(string) Result {
	reset, err := i.env.Persona.ResetPreset()
	if err != nil {
		slog.Error("preset reset failed", "err", err)
		return Result{Spoken: "I could not reset the preset."}
	}
	if !reset {
		return Result{Spoken: "No preset currently exists, reset unneeded."}
	}

	// Resetting a preset also rolls the conversation back to the saved baseline.
	restored, err := i.env.Store.RestoreConversation()
	if err != nil {
		slog.Error("conversation restore failed", "err", err)
		return Result{Spoken: "I reset the preset but could not restore the conversation."}
	}
	i.env.Transcript.Replace(restored)
	return Result{Spoken: "Preset reset successfully."}
}

func (i *Interpreter) setPreset(utterance string) Result {
	text := textAfter(utterance, "set preset to")
	if err := i.env.Persona.SetPreset(text); err != nil {
		slog.Info("preset rejected", "err", err)
		return Result{Spoken: fmt.Sprintf("I could not set preset to %s", strings.TrimSpace(text))}
	}
	return Result{Spoken: fmt.Sprintf("I have successfully set preset to %s.", strings.TrimSpace(text))}
}

func (i *Interpreter) setName(utterance string) Result {
	text := textAfter(utterance, "set name to")

	// Names are applied over the saved base concept, not over a preset.
	if err := i.env.Persona.RestoreBase(); err != nil {
		slog.Error("self-concept restore failed", "err", err)
	}
	if err := i.env.Persona.ChangeName(text); err != nil {
		slog.Info("name rejected", "err", err)
		return Result{Spoken: fmt.Sprintf("I could not set name to %s", strings.TrimSpace(text))}
	}
	return Result{Spoken: fmt.Sprintf("I have successfully set name to %s.", i.env.Persona.Name())}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// parseTrailingInt finds the number in a token-setting utterance. Currency
// and digit-grouping symbols are stripped, then tokens are scanned in reverse
// order and the first one that parses as a base-10 integer wins — the number
// is expected near the end of the utterance.
func parseTrailingInt(utterance string) (int, bool) {
	cleaned := strings.NewReplacer(",", "", "$", "").Replace(utterance)
	fields := strings.Fields(cleaned)
	for j := len(fields) - 1; j >= 0; j-- {
		if n, err := strconv.Atoi(fields[j]); err == nil {
			return n, true
		}
	}
	return 0, false
}

// textAfter returns the utterance content following the trigger phrase.
func textAfter(utterance, phrase string) string {
	_, after, _ := strings.Cut(utterance, phrase)
	return strings.TrimSpace(after)
}
