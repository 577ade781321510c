// Package bus decouples the turn controller from the status display and
// input sources.
//
// Input sources (terminal keys, the websocket status page) push Signals; the
// controller consumes them, and publishes State changes back for the display
// to render. Both directions use buffered channels so senders never block on
// a slow consumer.
package bus

// Bus is the contract between the turn controller and the status/input layer.
type Bus interface {
	// PublishSignal delivers a control event to the controller.
	PublishSignal(sig Signal)
	// PublishState delivers an indicator state change to the display.
	PublishState(state State)
	// SignalChan returns a receive-only channel for the controller to consume.
	SignalChan() <-chan Signal
	// StateChan returns a receive-only channel for the display to consume.
	StateChan() <-chan State
}

// SignalBus is the default in-process Bus implementation backed by buffered
// Go channels.
type SignalBus struct {
	signals chan Signal
	states  chan State
}

func NewSignalBus(bufSize int) Bus {
	return &SignalBus{
		signals: make(chan Signal, bufSize),
		states:  make(chan State, bufSize),
	}
}

// PublishSignal sends a Signal to the controller. Signals are dropped rather
// than blocking when the buffer is full; the controller ignores stale input
// anyway while a cycle is active.
func (b *SignalBus) PublishSignal(sig Signal) {
	select {
	case b.signals <- sig:
	default:
	}
}

// PublishState sends a State change to the display. Stale states are dropped
// the same way; only the latest color matters.
func (b *SignalBus) PublishState(state State) {
	select {
	case b.states <- state:
	default:
	}
}

// SignalChan returns a receive-only view of the signal channel.
func (b *SignalBus) SignalChan() <-chan Signal {
	return b.signals
}

// StateChan returns a receive-only view of the state channel.
func (b *SignalBus) StateChan() <-chan State {
	return b.states
}
