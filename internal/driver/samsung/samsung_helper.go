// internal/driver/samsung/samsung_helper.go
package samsung

import (
	"context"
	"fmt"
	"strings"
	"time"

	"display-service/pkg/display"
)

// query sends one MDC command and returns the reply values. A reply that
// fails validation is not an error: ack is false and data is empty.
func (d *Display) query(ctx context.Context, name string, cmd byte, data ...byte) (bool, []byte, error) {
	start := time.Now()

	raw, err := d.conn.RunCommand(ctx, Encode(byte(d.id), cmd, data), true)
	if err != nil {
		d.logger.LogCommand(name, time.Since(start), false, err)
		return false, nil, err
	}

	ack, _, values := DecodeFrom(byte(d.id), raw)
	d.logger.LogCommand(name, time.Since(start), ack, nil)
	return ack, values, nil
}

func (d *Display) text(ctx context.Context, name string, cmd byte) (string, error) {
	_, data, err := d.query(ctx, name, cmd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Trim(string(data), "\x00")), nil
}

func (d *Display) toggle(ctx context.Context, name string, cmd byte) (display.Toggle, error) {
	_, data, err := d.query(ctx, name, cmd)
	if err != nil || len(data) == 0 {
		return display.ToggleUnknown, err
	}
	return lockToggle.Decode(fmt.Sprintf("%02X", data[0])), nil
}

// lockCode encodes a lock state for the on/off lock commands. enabledLocks
// tells whether the enabled value means locked (safety lock) or unlocked
// (remote enable).
func lockCode(state display.Lock, enabledLocks bool) (byte, error) {
	var locked bool
	switch state {
	case display.LockAll:
		locked = true
	case display.LockNone:
	default:
		return 0, fmt.Errorf("%w: lock state %s on MDC", display.ErrCommandArgumentsInvalid, state)
	}
	if locked == enabledLocks {
		return 0x01, nil
	}
	return 0x00, nil
}
