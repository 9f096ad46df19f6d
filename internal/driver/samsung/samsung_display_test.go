package samsung

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-service/internal/protocol"
	"display-service/internal/protocol/prototest"
	"display-service/pkg/display"
)

// simulator keeps a small MDC state machine: queries report the stored
// value, commands with data store it and echo it back.
type simulator struct {
	id     byte
	state  map[byte][]byte
	frozen map[byte]bool // commands that are acknowledged but not applied
	nak    bool
}

func (s *simulator) respond(req []byte) []byte {
	if len(req) < 5 || req[0] != header || req[2] != s.id {
		return nil
	}
	if Checksum(req[:len(req)-1]) != req[len(req)-1] {
		return nil
	}
	cmd, data := req[1], req[4:len(req)-1]
	if s.nak {
		return EncodeNak(s.id, cmd, 0x01)
	}
	if len(data) > 0 {
		if !s.frozen[cmd] {
			s.state[cmd] = append([]byte(nil), data...)
		}
		return EncodeReply(s.id, cmd, data)
	}
	return EncodeReply(s.id, cmd, s.state[cmd])
}

func newTestDisplay(t *testing.T, id int, state map[byte][]byte) (*Display, *simulator, *prototest.Transport) {
	t.Helper()
	if state == nil {
		state = map[byte][]byte{}
	}
	sim := &simulator{id: byte(id), state: state, frozen: map[byte]bool{}}
	tr := prototest.NewTransport(sim.respond)
	conn := protocol.NewConnection(protocol.NewBus(prototest.Config("COM3"), tr, nil), nil)

	d, err := New(conn, id, nil)
	require.NoError(t, err)
	return d, sim, tr
}

func TestGetPowerScenario(t *testing.T) {
	d, _, tr := newTestDisplay(t, 2, map[byte][]byte{cmdPower: {0x01}})

	state, err := d.PowerState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, display.PowerOn, state)
	assert.Equal(t, []byte{0xAA, 0x11, 0x02, 0x00, 0x13}, tr.LastRequest())
}

func TestSetPower(t *testing.T) {
	d, sim, tr := newTestDisplay(t, 1, map[byte][]byte{cmdPower: {0x01}})
	ctx := context.Background()

	ack, err := d.SetPowerState(ctx, display.PowerOff)
	require.NoError(t, err)
	assert.True(t, ack)
	assert.Equal(t, Encode(0x01, cmdPower, []byte{powerOff}), tr.LastRequest())
	assert.Equal(t, []byte{powerOff}, sim.state[cmdPower])

	_, err = d.SetPowerState(ctx, display.PowerDeepSleep)
	assert.ErrorIs(t, err, display.ErrCommandArgumentsInvalid)
}

func TestReadyReflectsAck(t *testing.T) {
	d, sim, _ := newTestDisplay(t, 0, map[byte][]byte{cmdPower: {0x00}})
	ctx := context.Background()

	ready, err := d.IsReadyForCommands(ctx)
	require.NoError(t, err)
	assert.True(t, ready)

	sim.nak = true
	ready, err = d.IsReadyForCommands(ctx)
	require.NoError(t, err)
	assert.False(t, ready)

	state, err := d.PowerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.PowerUnknown, state)
}

func TestInputLabelSymmetry(t *testing.T) {
	d, _, _ := newTestDisplay(t, 1, nil)
	ctx := context.Background()

	labels := d.InputChannels()
	require.Len(t, labels, 15)
	for _, label := range labels {
		ack, err := d.SetInputChannel(ctx, label, false)
		require.NoError(t, err, label)
		assert.True(t, ack, label)

		in, err := d.InputChannel(ctx)
		require.NoError(t, err)
		assert.Equal(t, label, in.Label)
	}
}

func TestSetInputConfirmsByRereading(t *testing.T) {
	d, sim, tr := newTestDisplay(t, 1, map[byte][]byte{cmdInputSource: {0x14}})
	sim.frozen[cmdInputSource] = true

	ack, err := d.SetInputChannel(context.Background(), "HDMI", true)
	require.NoError(t, err)
	assert.False(t, ack)

	reqs := tr.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, Encode(0x01, cmdInputSource, []byte{0x21}), reqs[0])
	assert.Equal(t, Encode(0x01, cmdInputSource, nil), reqs[1])
}

func TestInputErrors(t *testing.T) {
	d, _, _ := newTestDisplay(t, 1, map[byte][]byte{cmdInputSource: {0x99}})
	ctx := context.Background()

	in, err := d.InputChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.UnknownInputLabel, in.Label)

	_, err = d.SetInputChannel(ctx, "USB", false)
	assert.ErrorIs(t, err, display.ErrCommandArgumentsInvalid)
}

func TestLocks(t *testing.T) {
	d, sim, _ := newTestDisplay(t, 1, map[byte][]byte{
		cmdSafetyLock:   {0x00},
		cmdRemoteEnable: {0x01},
	})
	ctx := context.Background()

	keys, err := d.KeyLock(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.LockNone, keys)
	ir, err := d.IRRemoteLock(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.LockNone, ir)

	ack, err := d.SetKeyLock(ctx, display.LockAll)
	require.NoError(t, err)
	assert.True(t, ack)
	assert.Equal(t, []byte{0x01}, sim.state[cmdSafetyLock])

	ack, err = d.SetIRRemoteLock(ctx, display.LockAll)
	require.NoError(t, err)
	assert.True(t, ack)
	assert.Equal(t, []byte{0x00}, sim.state[cmdRemoteEnable])

	ir, err = d.IRRemoteLock(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.LockAll, ir)

	_, err = d.SetKeyLock(ctx, display.LockPrimary)
	assert.ErrorIs(t, err, display.ErrCommandArgumentsInvalid)

	sim.state[cmdSafetyLock] = []byte{0x07}
	keys, err = d.KeyLock(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.LockUnknown, keys)
}

func TestAdjustVolumeOnly(t *testing.T) {
	d, _, tr := newTestDisplay(t, 1, nil)
	ctx := context.Background()

	ack, err := d.Adjust(ctx, display.AdjustVolume, display.DirectionDown)
	require.NoError(t, err)
	assert.True(t, ack)
	assert.Equal(t, Encode(0x01, cmdVolumeStep, []byte{volumeDown}), tr.LastRequest())

	_, err = d.Adjust(ctx, display.AdjustContrast, display.DirectionUp)
	assert.ErrorIs(t, err, display.ErrCommandNotImplemented)
}

func TestIdentity(t *testing.T) {
	d, _, _ := newTestDisplay(t, 1, map[byte][]byte{
		cmdSerialNumber: []byte("0ABC123456\x00\x00"),
		cmdModelName:    []byte("QM55R"),
		cmdSoftwareVer:  []byte("S-HKP2ELAC-1010.5"),
	})
	ctx := context.Background()

	serial, err := d.SerialNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0ABC123456", serial)

	model, err := d.ModelName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "QM55R", model)

	label, err := d.PlatformLabel(ctx)
	require.NoError(t, err)
	assert.Equal(t, model, label)

	sw, err := d.ControlSoftwareVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "S-HKP2ELAC-1010.5", sw)

	_, err = d.Temperatures(ctx)
	assert.ErrorIs(t, err, display.ErrCommandNotImplemented)
	_, err = d.AutoDetectInput(ctx)
	assert.ErrorIs(t, err, display.ErrCommandNotImplemented)
}

func TestNewRejectsOutOfRangeID(t *testing.T) {
	conn := protocol.NewConnection(protocol.NewBus(prototest.Config("COM3"), prototest.NewTransport(nil), nil), nil)
	_, err := New(conn, 300, nil)
	assert.ErrorIs(t, err, display.ErrCommandArgumentsInvalid)
}
