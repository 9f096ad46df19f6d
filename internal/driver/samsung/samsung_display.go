// internal/driver/samsung/samsung_display.go
package samsung

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"display-service/internal/protocol"
	"display-service/internal/utils"
	"display-service/pkg/display"
)

// VendorKey identifies the Samsung MDC driver in the registry
const VendorKey = "samsung_mdc"

// Display controls one Samsung display over MDC
type Display struct {
	display.Unimplemented

	conn   protocol.Runner
	id     int
	inputs display.InputTable
	logger *utils.DisplayLogger
}

// New binds a Samsung display with the given MDC id to conn
func New(conn protocol.Runner, id int, logger *zap.Logger) (*Display, error) {
	if id < 0 || id > 0xFF {
		return nil, fmt.Errorf("%w: display id %d out of range", display.ErrCommandArgumentsInvalid, id)
	}
	return &Display{
		conn:   conn,
		id:     id,
		inputs: newInputTable(),
		logger: utils.NewDisplayLogger(logger, conn.PortName(), VendorKey, id),
	}, nil
}

var _ display.Display = (*Display)(nil)

func (d *Display) ID() int { return d.id }

func (d *Display) VendorKey() string { return VendorKey }

// IsReadyForCommands sends a power query and reports whether it was answered
func (d *Display) IsReadyForCommands(ctx context.Context) (bool, error) {
	ack, _, err := d.query(ctx, "ready", cmdPower)
	return ack, err
}

// PowerState returns the current power state
func (d *Display) PowerState(ctx context.Context) (display.Power, error) {
	_, data, err := d.query(ctx, "power_get", cmdPower)
	if err != nil || len(data) == 0 {
		return display.PowerUnknown, err
	}
	if state, ok := powerStates[data[0]]; ok {
		return state, nil
	}
	return display.PowerUnknown, nil
}

// SetPowerState switches the display on or off
func (d *Display) SetPowerState(ctx context.Context, state display.Power) (bool, error) {
	var code byte
	switch state {
	case display.PowerOn:
		code = powerOn
	case display.PowerOff:
		code = powerOff
	default:
		return false, fmt.Errorf("%w: power state %s on MDC", display.ErrCommandArgumentsInvalid, state)
	}
	ack, _, err := d.query(ctx, "power_set", cmdPower, code)
	return ack, err
}

// InputChannel returns the active input source
func (d *Display) InputChannel(ctx context.Context) (display.Input, error) {
	_, data, err := d.query(ctx, "input_get", cmdInputSource)
	if err != nil || len(data) == 0 {
		return display.Input{Code: -1, Label: display.UnknownInputLabel}, err
	}
	return d.inputs.Lookup(data[0]), nil
}

// SetInputChannel selects the input with the given label. The display
// acknowledges the switch before it completes, so success is confirmed by
// reading the input back. MDC has no OSD flag; showOSD is ignored.
func (d *Display) SetInputChannel(ctx context.Context, label string, showOSD bool) (bool, error) {
	entry, ok := d.inputs.ByLabel(label)
	if !ok {
		return false, fmt.Errorf("%w: input %q on MDC", display.ErrCommandArgumentsInvalid, label)
	}

	ack, _, err := d.query(ctx, "input_set", cmdInputSource, entry.SetCode...)
	if err != nil || !ack {
		return false, err
	}

	current, err := d.InputChannel(ctx)
	if err != nil {
		return false, err
	}
	return current.Label == entry.Label, nil
}

func (d *Display) InputChannels() []string {
	return d.inputs.Labels()
}

// KeyLock maps the safety lock onto the key lock
func (d *Display) KeyLock(ctx context.Context) (display.Lock, error) {
	switch t, err := d.toggle(ctx, "key_lock_get", cmdSafetyLock); {
	case err != nil:
		return display.LockUnknown, err
	case t == display.ToggleEnabled:
		return display.LockAll, nil
	case t == display.ToggleDisabled:
		return display.LockNone, nil
	}
	return display.LockUnknown, nil
}

func (d *Display) SetKeyLock(ctx context.Context, state display.Lock) (bool, error) {
	code, err := lockCode(state, true)
	if err != nil {
		return false, err
	}
	ack, _, err := d.query(ctx, "key_lock_set", cmdSafetyLock, code)
	return ack, err
}

// IRRemoteLock reports a disabled remote control as locked
func (d *Display) IRRemoteLock(ctx context.Context) (display.Lock, error) {
	switch t, err := d.toggle(ctx, "ir_lock_get", cmdRemoteEnable); {
	case err != nil:
		return display.LockUnknown, err
	case t == display.ToggleEnabled:
		return display.LockNone, nil
	case t == display.ToggleDisabled:
		return display.LockAll, nil
	}
	return display.LockUnknown, nil
}

func (d *Display) SetIRRemoteLock(ctx context.Context, state display.Lock) (bool, error) {
	code, err := lockCode(state, false)
	if err != nil {
		return false, err
	}
	ack, _, err := d.query(ctx, "ir_lock_set", cmdRemoteEnable, code)
	return ack, err
}

// Adjust steps the volume. Other attributes have no relative MDC command.
func (d *Display) Adjust(ctx context.Context, attribute display.Adjustment, direction display.Direction) (bool, error) {
	if attribute != display.AdjustVolume {
		return false, display.ErrCommandNotImplemented
	}
	step := volumeUp
	if direction == display.DirectionDown {
		step = volumeDown
	}
	ack, _, err := d.query(ctx, "volume_step", cmdVolumeStep, step)
	return ack, err
}

// ControlSoftwareVersion returns the MDC software version string
func (d *Display) ControlSoftwareVersion(ctx context.Context) (string, error) {
	return d.text(ctx, "software_version", cmdSoftwareVer)
}

// PlatformLabel is the model name on Samsung displays
func (d *Display) PlatformLabel(ctx context.Context) (string, error) {
	return d.text(ctx, "platform_label", cmdModelName)
}

func (d *Display) SerialNumber(ctx context.Context) (string, error) {
	return d.text(ctx, "serial_number", cmdSerialNumber)
}

func (d *Display) ModelName(ctx context.Context) (string, error) {
	return d.text(ctx, "model_name", cmdModelName)
}
