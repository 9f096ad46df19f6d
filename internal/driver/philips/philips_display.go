// internal/driver/philips/philips_display.go
package philips

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"display-service/internal/protocol"
	"display-service/internal/utils"
	"display-service/pkg/display"
)

// Display controls one Philips display speaking a given SICP revision
type Display struct {
	display.Unimplemented

	desc   Descriptor
	codec  Codec
	conn   protocol.Runner
	id     int
	logger *utils.DisplayLogger
}

// New binds a display to a connection using the revision named by key
func New(key string, conn protocol.Runner, id int, logger *zap.Logger) (*Display, error) {
	desc, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown SICP revision: %s", key)
	}
	if id < 0 || id > 0xFF {
		return nil, fmt.Errorf("%w: display id %d out of range", display.ErrCommandArgumentsInvalid, id)
	}

	return &Display{
		desc:   desc,
		codec:  desc.Codec(),
		conn:   conn,
		id:     id,
		logger: utils.NewDisplayLogger(logger, conn.PortName(), key, id),
	}, nil
}

var _ display.Display = (*Display)(nil)

// ID returns the display ID on the bus
func (d *Display) ID() int { return d.id }

// VendorKey returns the revision key, e.g. "philips_sicp186"
func (d *Display) VendorKey() string { return d.desc.Key }

// ProtocolVersion returns the SICP revision this display was bound with
func (d *Display) ProtocolVersion() string { return d.desc.Version }

// IsReadyForCommands sends a power query and reports whether it was answered
func (d *Display) IsReadyForCommands(ctx context.Context) (bool, error) {
	ack, _, err := d.query(ctx, "ready", opPowerStateGet)
	return ack, err
}

// PowerState returns the current power state
func (d *Display) PowerState(ctx context.Context) (display.Power, error) {
	_, data, err := d.query(ctx, "power_get", opPowerStateGet)
	if err != nil {
		return display.PowerUnknown, err
	}
	code, ok := at(data, 0)
	if !ok {
		return display.PowerUnknown, nil
	}
	if state, ok := d.desc.PowerGet[code]; ok {
		return state, nil
	}
	return display.PowerUnknown, nil
}

// SetPowerState switches the display to state
func (d *Display) SetPowerState(ctx context.Context, state display.Power) (bool, error) {
	code, ok := d.desc.PowerSet[state]
	if !ok {
		return false, fmt.Errorf("%w: power state %s on SICP %s", display.ErrCommandArgumentsInvalid, state, d.desc.Version)
	}
	ack, _, err := d.query(ctx, "power_set", opPowerStateSet, code)
	return ack, err
}

// InputChannel returns the active input source
func (d *Display) InputChannel(ctx context.Context) (display.Input, error) {
	_, data, err := d.query(ctx, "input_get", opInputSourceGet)
	if err != nil {
		return display.Input{Code: -1, Label: display.UnknownInputLabel}, err
	}
	code, ok := at(data, d.desc.InputGetIndex)
	if !ok {
		return display.Input{Code: -1, Label: display.UnknownInputLabel}, nil
	}
	return d.desc.Inputs.Lookup(code), nil
}

// SetInputChannel selects the input source with the given label. With
// showOSD the display shows the source name.
func (d *Display) SetInputChannel(ctx context.Context, label string, showOSD bool) (bool, error) {
	entry, ok := d.desc.Inputs.ByLabel(label)
	if !ok {
		return false, fmt.Errorf("%w: input %q on SICP %s", display.ErrCommandArgumentsInvalid, label, d.desc.Version)
	}

	var osd byte
	if showOSD {
		osd = 0x01
	}

	payload := make([]byte, 0, 4)
	if d.desc.InputSetSingleCode {
		payload = append(payload, entry.SetCode[0], entry.SetCode[0])
	} else {
		payload = append(payload, entry.SetCode[0], entry.SetCode[1])
	}
	payload = append(payload, osd, 0x00)

	ack, _, err := d.query(ctx, "input_set", opInputSourceSet, payload...)
	return ack, err
}

// InputChannels lists the input labels of this revision
func (d *Display) InputChannels() []string {
	return d.desc.Inputs.Labels()
}

// KeyLock returns the local keyboard lock state
func (d *Display) KeyLock(ctx context.Context) (display.Lock, error) {
	return d.lockState(ctx, "key_lock_get", d.desc.KeyLock.Get)
}

// SetKeyLock sets the local keyboard lock state
func (d *Display) SetKeyLock(ctx context.Context, state display.Lock) (bool, error) {
	return d.setLockState(ctx, "key_lock_set", d.desc.KeyLock, d.desc.IRLock, state)
}

// IRRemoteLock returns the IR remote lock state
func (d *Display) IRRemoteLock(ctx context.Context) (display.Lock, error) {
	return d.lockState(ctx, "ir_lock_get", d.desc.IRLock.Get)
}

// SetIRRemoteLock sets the IR remote lock state
func (d *Display) SetIRRemoteLock(ctx context.Context, state display.Lock) (bool, error) {
	return d.setLockState(ctx, "ir_lock_set", d.desc.IRLock, d.desc.KeyLock, state)
}

// AutoDetectInput returns the automatic input detection mode
func (d *Display) AutoDetectInput(ctx context.Context) (display.AutoDetect, error) {
	scheme := d.desc.AutoDetect
	if !scheme.Supported() {
		return display.AutoDetectUnknown, display.ErrCommandNotImplemented
	}

	_, data, err := d.query(ctx, "autodetect_get", scheme.GetOpcode)
	if err != nil {
		return display.AutoDetectUnknown, err
	}
	// The reply carries exactly one status byte
	if len(data) != 1 {
		return display.AutoDetectUnknown, nil
	}
	if mode, ok := scheme.Get[data[0]]; ok {
		return mode, nil
	}
	return display.AutoDetectUnknown, nil
}

// SetAutoDetectInput sets the automatic input detection mode
func (d *Display) SetAutoDetectInput(ctx context.Context, mode display.AutoDetect) (bool, error) {
	scheme := d.desc.AutoDetect
	if !scheme.Supported() {
		return false, display.ErrCommandNotImplemented
	}
	code, ok := scheme.Set[mode]
	if !ok {
		return false, fmt.Errorf("%w: auto detect mode %s on SICP %s", display.ErrCommandArgumentsInvalid, mode, d.desc.Version)
	}
	ack, _, err := d.query(ctx, "autodetect_set", scheme.SetOpcode, code)
	return ack, err
}

// FailoverInputs returns the failover input order as raw source codes
func (d *Display) FailoverInputs(ctx context.Context) ([]byte, error) {
	if !d.desc.Failover.Supported() {
		return nil, display.ErrCommandNotImplemented
	}
	_, data, err := d.query(ctx, "failover_get", d.desc.Failover.GetOpcode)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SetFailoverInputs writes the failover order. The display expects exactly
// as many entries as it reports, so codes is padded with zeros or cut from
// the tail to that length.
func (d *Display) SetFailoverInputs(ctx context.Context, codes []byte) (bool, error) {
	if !d.desc.Failover.Supported() {
		return false, display.ErrCommandNotImplemented
	}

	current, err := d.FailoverInputs(ctx)
	if err != nil {
		return false, err
	}

	ack, _, err := d.query(ctx, "failover_set", d.desc.Failover.SetOpcode, fitLength(codes, len(current))...)
	return ack, err
}

// ControlSoftwareVersion returns the SICP implementation version
func (d *Display) ControlSoftwareVersion(ctx context.Context) (string, error) {
	return d.text(ctx, "sicp_version", opPlatformInfoGet, selectorSICPVersion)
}

// PlatformLabel returns the platform software label
func (d *Display) PlatformLabel(ctx context.Context) (string, error) {
	return d.text(ctx, "platform_label", opPlatformInfoGet, selectorPlatformLabel)
}

// PlatformVersion returns the platform version. Revisions before 1.88 do
// not separate it from the label.
func (d *Display) PlatformVersion(ctx context.Context) (string, error) {
	return d.text(ctx, "platform_version", opPlatformInfoGet, d.desc.PlatformVersionSelector)
}

// SerialNumber returns the serial number
func (d *Display) SerialNumber(ctx context.Context) (string, error) {
	return d.text(ctx, "serial_number", opSerialNumberGet)
}

// OperatingHours returns the operating hours counter
func (d *Display) OperatingHours(ctx context.Context) (int, error) {
	_, data, err := d.query(ctx, "operating_hours", opOperatingHoursGet)
	if err != nil {
		return 0, err
	}
	hours := 0
	for _, b := range data {
		hours = hours<<8 | int(b)
	}
	return hours, nil
}

// Temperatures returns one reading in degrees Celsius per sensor
func (d *Display) Temperatures(ctx context.Context) ([]int, error) {
	_, data, err := d.query(ctx, "temperature", opTemperatureGet)
	if err != nil {
		return nil, err
	}
	temps := make([]int, len(data))
	for i, b := range data {
		temps[i] = int(b)
	}
	return temps, nil
}
