// internal/driver/benq/benq_display.go
package benq

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"display-service/internal/protocol"
	"display-service/internal/utils"
	"display-service/pkg/display"
)

// VendorKey identifies the BenQ driver in the registry
const VendorKey = "benq_generic"

// Display controls a BenQ display or projector over its ASCII protocol.
// The protocol has no addressing; the id is kept for bookkeeping only.
type Display struct {
	display.Unimplemented

	conn   protocol.Runner
	id     int
	logger *utils.DisplayLogger
}

// New binds a BenQ display to conn. The connection should carry the
// prompt handshake the device expects.
func New(conn protocol.Runner, id int, logger *zap.Logger) (*Display, error) {
	if id < 0 || id > 0xFF {
		return nil, fmt.Errorf("%w: display id %d out of range", display.ErrCommandArgumentsInvalid, id)
	}
	return &Display{
		conn:   conn,
		id:     id,
		logger: utils.NewDisplayLogger(logger, conn.PortName(), VendorKey, id),
	}, nil
}

var _ display.Display = (*Display)(nil)

func (d *Display) ID() int { return d.id }

func (d *Display) VendorKey() string { return VendorKey }

func (d *Display) query(ctx context.Context, cmd string) (bool, string, error) {
	start := time.Now()

	raw, err := d.conn.RunCommand(ctx, Encode(cmd), true)
	if err != nil {
		d.logger.LogCommand(cmd, time.Since(start), false, err)
		return false, "", err
	}

	ack, value := Decode(cmd, raw)
	d.logger.LogCommand(cmd, time.Since(start), ack, nil)
	return ack, value, nil
}

// IsReadyForCommands sends a power query and reports whether it was answered
func (d *Display) IsReadyForCommands(ctx context.Context) (bool, error) {
	ack, _, err := d.query(ctx, cmdPowerGet)
	return ack, err
}

func (d *Display) PowerState(ctx context.Context) (display.Power, error) {
	_, value, err := d.query(ctx, cmdPowerGet)
	if err != nil {
		return display.PowerUnknown, err
	}
	switch powerToggle.Decode(value) {
	case display.ToggleEnabled:
		return display.PowerOn, nil
	case display.ToggleDisabled:
		return display.PowerOff, nil
	}
	return display.PowerUnknown, nil
}

func (d *Display) SetPowerState(ctx context.Context, state display.Power) (bool, error) {
	var cmd string
	switch state {
	case display.PowerOn:
		cmd = cmdPowerOn
	case display.PowerOff:
		cmd = cmdPowerOff
	default:
		return false, fmt.Errorf("%w: power state %s on BenQ", display.ErrCommandArgumentsInvalid, state)
	}
	ack, _, err := d.query(ctx, cmd)
	return ack, err
}

// InputChannel returns the active source. BenQ names sources with ASCII
// tokens, so Code is the position of the source in InputChannels.
func (d *Display) InputChannel(ctx context.Context) (display.Input, error) {
	_, value, err := d.query(ctx, cmdSourceGet)
	if err != nil {
		return display.Input{Code: -1, Label: display.UnknownInputLabel}, err
	}
	for i, s := range sources {
		if strings.EqualFold(s.token, value) {
			return display.Input{Code: i, Label: s.label}, nil
		}
	}
	return display.Input{Code: -1, Label: display.UnknownInputLabel}, nil
}

// SetInputChannel selects a source by label. showOSD has no BenQ equivalent.
func (d *Display) SetInputChannel(ctx context.Context, label string, showOSD bool) (bool, error) {
	for _, s := range sources {
		if s.label == label {
			ack, _, err := d.query(ctx, cmdSourceSet+strings.ToLower(s.token))
			return ack, err
		}
	}
	return false, fmt.Errorf("%w: input %q on BenQ", display.ErrCommandArgumentsInvalid, label)
}

func (d *Display) InputChannels() []string {
	labels := make([]string, len(sources))
	for i, s := range sources {
		labels[i] = s.label
	}
	return labels
}

// Adjust steps volume, brightness, contrast or sharpness by one
func (d *Display) Adjust(ctx context.Context, attribute display.Adjustment, direction display.Direction) (bool, error) {
	key, ok := adjustKeys[attribute]
	if !ok {
		return false, fmt.Errorf("%w: adjustment %q on BenQ", display.ErrCommandArgumentsInvalid, attribute)
	}
	step := "+"
	if direction == display.DirectionDown {
		step = "-"
	}
	ack, _, err := d.query(ctx, key+"="+step)
	return ack, err
}

func (d *Display) ModelName(ctx context.Context) (string, error) {
	_, value, err := d.query(ctx, cmdModelNameGet)
	return value, err
}

// PlatformLabel is the model name on BenQ devices
func (d *Display) PlatformLabel(ctx context.Context) (string, error) {
	return d.ModelName(ctx)
}

// OperatingHours returns the lamp/light source hours
func (d *Display) OperatingHours(ctx context.Context) (int, error) {
	ack, value, err := d.query(ctx, cmdLampTimeGet)
	if err != nil || !ack {
		return 0, err
	}
	hours, convErr := strconv.Atoi(value)
	if convErr != nil {
		return 0, nil
	}
	return hours, nil
}
