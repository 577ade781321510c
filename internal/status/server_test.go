package status

import (
	"testing"

	"github.com/neocortex/neocortex/internal/bus"
)

func TestSignalForKey(t *testing.T) {
	cases := []struct {
		key  string
		want bus.Signal
		ok   bool
	}{
		{"space", bus.SignalListen, true},
		{"l", bus.SignalListen, true},
		{"p", bus.SignalCancel, true},
		{"q", bus.SignalSaveExit, true},
		{"escape", bus.SignalExit, true},
		{"x", bus.SignalExit, true},
		{"z", "", false},
	}
	for _, tc := range cases {
		got, ok := SignalForKey(tc.key)
		if got != tc.want || ok != tc.ok {
			t.Errorf("SignalForKey(%q) = %v, %v; want %v, %v", tc.key, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStateColors(t *testing.T) {
	cases := map[bus.State]string{
		bus.StateIdle:        "#ff1919",
		bus.StateCalibrating: "#ffff4d",
		bus.StateListening:   "#2bff00",
		bus.StateThinking:    "#33bbff",
	}
	for state, want := range cases {
		if got := state.Color(); got != want {
			t.Errorf("%s color = %s, want %s", state, got, want)
		}
	}
}
