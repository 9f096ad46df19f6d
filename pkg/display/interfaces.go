// pkg/display/interfaces.go
package display

import "context"

// Display is the capability surface every vendor implementation exposes.
// Methods a vendor cannot serve return ErrCommandNotImplemented.
type Display interface {
	// Addressing
	ID() int
	VendorKey() string

	// Liveness probe, not a capability guarantee
	IsReadyForCommands(ctx context.Context) (bool, error)

	// Power
	PowerState(ctx context.Context) (Power, error)
	SetPowerState(ctx context.Context, state Power) (bool, error)

	// Input selection
	InputChannel(ctx context.Context) (Input, error)
	SetInputChannel(ctx context.Context, label string, showOSD bool) (bool, error)
	InputChannels() []string

	// Locks
	KeyLock(ctx context.Context) (Lock, error)
	SetKeyLock(ctx context.Context, state Lock) (bool, error)
	IRRemoteLock(ctx context.Context) (Lock, error)
	SetIRRemoteLock(ctx context.Context, state Lock) (bool, error)

	// Automatic input detection and failover ordering
	AutoDetectInput(ctx context.Context) (AutoDetect, error)
	SetAutoDetectInput(ctx context.Context, mode AutoDetect) (bool, error)
	FailoverInputs(ctx context.Context) ([]byte, error)
	SetFailoverInputs(ctx context.Context, codes []byte) (bool, error)

	// Relative picture/audio adjustments
	Adjust(ctx context.Context, attribute Adjustment, direction Direction) (bool, error)

	// Identity
	ControlSoftwareVersion(ctx context.Context) (string, error)
	PlatformLabel(ctx context.Context) (string, error)
	PlatformVersion(ctx context.Context) (string, error)
	SerialNumber(ctx context.Context) (string, error)
	ModelName(ctx context.Context) (string, error)
	OperatingHours(ctx context.Context) (int, error)
	Temperatures(ctx context.Context) ([]int, error)
}

// Unimplemented can be embedded by vendor displays so that every capability
// they do not override reports ErrCommandNotImplemented.
type Unimplemented struct{}

func (Unimplemented) IsReadyForCommands(context.Context) (bool, error) {
	return false, ErrCommandNotImplemented
}

func (Unimplemented) PowerState(context.Context) (Power, error) {
	return PowerUnknown, ErrCommandNotImplemented
}

func (Unimplemented) SetPowerState(context.Context, Power) (bool, error) {
	return false, ErrCommandNotImplemented
}

func (Unimplemented) InputChannel(context.Context) (Input, error) {
	return Input{Label: UnknownInputLabel}, ErrCommandNotImplemented
}

func (Unimplemented) SetInputChannel(context.Context, string, bool) (bool, error) {
	return false, ErrCommandNotImplemented
}

func (Unimplemented) InputChannels() []string {
	return nil
}

func (Unimplemented) KeyLock(context.Context) (Lock, error) {
	return LockUnknown, ErrCommandNotImplemented
}

func (Unimplemented) SetKeyLock(context.Context, Lock) (bool, error) {
	return false, ErrCommandNotImplemented
}

func (Unimplemented) IRRemoteLock(context.Context) (Lock, error) {
	return LockUnknown, ErrCommandNotImplemented
}

func (Unimplemented) SetIRRemoteLock(context.Context, Lock) (bool, error) {
	return false, ErrCommandNotImplemented
}

func (Unimplemented) AutoDetectInput(context.Context) (AutoDetect, error) {
	return AutoDetectUnknown, ErrCommandNotImplemented
}

func (Unimplemented) SetAutoDetectInput(context.Context, AutoDetect) (bool, error) {
	return false, ErrCommandNotImplemented
}

func (Unimplemented) FailoverInputs(context.Context) ([]byte, error) {
	return nil, ErrCommandNotImplemented
}

func (Unimplemented) SetFailoverInputs(context.Context, []byte) (bool, error) {
	return false, ErrCommandNotImplemented
}

func (Unimplemented) Adjust(context.Context, Adjustment, Direction) (bool, error) {
	return false, ErrCommandNotImplemented
}

func (Unimplemented) ControlSoftwareVersion(context.Context) (string, error) {
	return "", ErrCommandNotImplemented
}

func (Unimplemented) PlatformLabel(context.Context) (string, error) {
	return "", ErrCommandNotImplemented
}

func (Unimplemented) PlatformVersion(context.Context) (string, error) {
	return "", ErrCommandNotImplemented
}

func (Unimplemented) SerialNumber(context.Context) (string, error) {
	return "", ErrCommandNotImplemented
}

func (Unimplemented) ModelName(context.Context) (string, error) {
	return "", ErrCommandNotImplemented
}

func (Unimplemented) OperatingHours(context.Context) (int, error) {
	return 0, ErrCommandNotImplemented
}

func (Unimplemented) Temperatures(context.Context) ([]int, error) {
	return nil, ErrCommandNotImplemented
}
