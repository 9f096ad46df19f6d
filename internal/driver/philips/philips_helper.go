// internal/driver/philips/philips_helper.go
package philips

import (
	"context"
	"fmt"
	"strings"
	"time"

	"display-service/pkg/display"
)

// Helper methods for the Philips display

// query sends one SICP command and returns the validated reply payload.
// A reply that fails validation is not an error: ack is false and data
// is empty.
func (d *Display) query(ctx context.Context, name string, opcode byte, payload ...byte) (bool, []byte, error) {
	start := time.Now()
	frame := d.codec.Encode(byte(d.id), opcode, payload)

	raw, err := d.conn.RunCommand(ctx, frame, true)
	if err != nil {
		d.logger.LogCommand(name, time.Since(start), false, err)
		return false, nil, err
	}

	ack, _, data := d.codec.DecodeFrom(byte(d.id), raw)
	d.logger.LogCommand(name, time.Since(start), ack, nil)
	return ack, data, nil
}

// text runs a query whose payload is an ASCII string
func (d *Display) text(ctx context.Context, name string, opcode byte, payload ...byte) (string, error) {
	_, data, err := d.query(ctx, name, opcode, payload...)
	if err != nil {
		return "", err
	}
	return asciiString(data), nil
}

func (d *Display) lockState(ctx context.Context, name string, get LockGet) (display.Lock, error) {
	if !get.Supported() {
		return display.LockUnknown, display.ErrCommandNotImplemented
	}

	_, data, err := d.query(ctx, name, get.Opcode)
	if err != nil {
		return display.LockUnknown, err
	}
	code, ok := at(data, get.Index)
	if !ok {
		return display.LockUnknown, nil
	}

	if get.Bit != 0 {
		if code&get.Bit != 0 {
			return display.LockNone, nil
		}
		return display.LockAll, nil
	}

	if state, ok := get.Table[code]; ok {
		return state, nil
	}
	return display.LockUnknown, nil
}

// setLockState writes one lock. Bitmask revisions carry both locks in one
// byte, so the other lock is read first and written back unchanged. A
// partial state of the other lock, as reported from SICP 1.86, cannot be
// written back and refuses the write.
func (d *Display) setLockState(ctx context.Context, name string, target, other LockScheme, state display.Lock) (bool, error) {
	set := target.Set
	if !set.Supported() {
		return false, display.ErrCommandNotImplemented
	}

	if set.Bit == 0 {
		code, ok := set.Table[state]
		if !ok {
			return false, fmt.Errorf("%w: lock state %s on SICP %s", display.ErrCommandArgumentsInvalid, state, d.desc.Version)
		}
		ack, _, err := d.query(ctx, name, set.Opcode, code)
		return ack, err
	}

	if state != display.LockNone && state != display.LockAll {
		return false, fmt.Errorf("%w: lock state %s on SICP %s", display.ErrCommandArgumentsInvalid, state, d.desc.Version)
	}

	var mask byte
	if state == display.LockNone {
		mask |= set.Bit
	}
	if other.Set.Bit != 0 {
		otherState, err := d.lockState(ctx, name+"_read_back", other.Get)
		if err != nil {
			return false, err
		}
		switch otherState {
		case display.LockNone:
			mask |= other.Set.Bit
		case display.LockAll, display.LockUnknown:
		default:
			// the shared byte has no encoding for a partial lock
			return false, fmt.Errorf("%w: %s lock state %s cannot be kept in the lock bitmask on SICP %s",
				display.ErrCommandArgumentsInvalid, otherName(name), otherState, d.desc.Version)
		}
	}

	ack, _, err := d.query(ctx, name, set.Opcode, mask)
	return ack, err
}

func otherName(name string) string {
	if strings.HasPrefix(name, "key") {
		return "IR"
	}
	return "key"
}

// at returns data[i] if present
func at(data []byte, i int) (byte, bool) {
	if i < 0 || i >= len(data) {
		return 0, false
	}
	return data[i], true
}

// fitLength pads codes with zeros or truncates it from the tail to n bytes
func fitLength(codes []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, codes)
	return out
}

func asciiString(data []byte) string {
	return strings.TrimSpace(strings.Trim(string(data), "\x00"))
}
