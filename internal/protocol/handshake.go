// internal/protocol/handshake.go
package protocol

import (
	"bytes"
	"fmt"
	"time"
)

// Exchanger performs one raw exchange without any handshake
type Exchanger interface {
	Exchange(payload []byte, settle time.Duration) ([]byte, error)
	Sleep(d time.Duration)
}

// Handshake runs before a command to bring the device into a state where
// it accepts commands. Implementations are stateless.
type Handshake interface {
	Perform(x Exchanger) error
}

// NoHandshake does nothing
type NoHandshake struct{}

func (NoHandshake) Perform(Exchanger) error { return nil }

// WaitHandshake waits a fixed time and always succeeds
type WaitHandshake struct {
	Wait time.Duration
}

func (h WaitHandshake) Perform(x Exchanger) error {
	x.Sleep(h.Wait)
	return nil
}

// SendAndReceiveHandshake sends a fixed sequence and requires the device to
// answer with exactly Expect.
type SendAndReceiveHandshake struct {
	Wait   time.Duration
	Send   []byte
	Expect []byte
}

func (h SendAndReceiveHandshake) Perform(x Exchanger) error {
	got, err := x.Exchange(h.Send, h.Wait)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}
	if !bytes.Equal(got, h.Expect) {
		return fmt.Errorf("%w: got % X, want % X", ErrHandshakeFailed, got, h.Expect)
	}
	return nil
}

// lockedBus exposes raw exchanges to a handshake while RunCommand holds
// the bus lock.
type lockedBus struct {
	bus *Bus
}

func (l lockedBus) Exchange(payload []byte, settle time.Duration) ([]byte, error) {
	return l.bus.exchange(payload, settle)
}

func (l lockedBus) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
