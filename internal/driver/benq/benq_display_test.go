package benq

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-service/internal/protocol"
	"display-service/internal/protocol/prototest"
	"display-service/pkg/display"
)

// simulator answers the prompt with '>' and keeps the values set by
// commands so queries report them back
type simulator struct {
	values   map[string]string
	noPrompt bool
}

func (s *simulator) respond(req []byte) []byte {
	if string(req) == "\r" {
		if s.noPrompt {
			return nil
		}
		return []byte(">")
	}

	cmd := strings.TrimSuffix(strings.TrimPrefix(string(req), "*"), "#\r")
	key, value, _ := strings.Cut(cmd, "=")
	if value == "?" {
		v, ok := s.values[key]
		if !ok {
			return EncodeError(cmd, "Block item")
		}
		return EncodeReply(cmd, v)
	}
	s.values[key] = strings.ToUpper(value)
	return EncodeReply(cmd, strings.ToUpper(value))
}

func newTestDisplay(t *testing.T, values map[string]string) (*Display, *simulator, *prototest.Transport) {
	t.Helper()
	if values == nil {
		values = map[string]string{}
	}
	sim := &simulator{values: values}
	tr := prototest.NewTransport(sim.respond)
	hs := protocol.SendAndReceiveHandshake{Send: []byte{0x0D}, Expect: []byte{0x3E}}
	conn := protocol.NewConnection(protocol.NewBus(prototest.Config("COM5"), tr, nil), hs)

	d, err := New(conn, 1, nil)
	require.NoError(t, err)
	return d, sim, tr
}

func TestSetPowerOnScenario(t *testing.T) {
	d, _, tr := newTestDisplay(t, nil)

	ack, err := d.SetPowerState(context.Background(), display.PowerOn)
	require.NoError(t, err)
	assert.True(t, ack)

	reqs := tr.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, []byte{0x0D}, reqs[0])
	assert.Equal(t, []byte("*pow=on#\r"), reqs[1])
}

func TestPowerState(t *testing.T) {
	d, sim, _ := newTestDisplay(t, map[string]string{"pow": "OFF"})
	ctx := context.Background()

	state, err := d.PowerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.PowerOff, state)

	sim.values["pow"] = "ON"
	state, err = d.PowerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.PowerOn, state)

	sim.values["pow"] = "WARMUP"
	state, err = d.PowerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, display.PowerUnknown, state)

	_, err = d.SetPowerState(ctx, display.PowerSave)
	assert.ErrorIs(t, err, display.ErrCommandArgumentsInvalid)
}

func TestHandshakeFailureStopsCommand(t *testing.T) {
	d, sim, tr := newTestDisplay(t, map[string]string{"pow": "ON"})
	sim.noPrompt = true

	_, err := d.PowerState(context.Background())
	assert.ErrorIs(t, err, protocol.ErrHandshakeFailed)
	assert.Equal(t, [][]byte{{0x0D}}, tr.Requests())
}

func TestReadyNeedsAnAnswer(t *testing.T) {
	d, sim, _ := newTestDisplay(t, nil)
	ctx := context.Background()

	ready, err := d.IsReadyForCommands(ctx)
	require.NoError(t, err)
	assert.False(t, ready)

	sim.values["pow"] = "ON"
	ready, err = d.IsReadyForCommands(ctx)
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestInputLabelSymmetry(t *testing.T) {
	d, _, _ := newTestDisplay(t, nil)
	ctx := context.Background()

	for i, label := range d.InputChannels() {
		ack, err := d.SetInputChannel(ctx, label, true)
		require.NoError(t, err, label)
		assert.True(t, ack, label)

		in, err := d.InputChannel(ctx)
		require.NoError(t, err)
		assert.Equal(t, display.Input{Code: i, Label: label}, in)
	}

	_, err := d.SetInputChannel(ctx, "SCART", false)
	assert.ErrorIs(t, err, display.ErrCommandArgumentsInvalid)
}

func TestAdjust(t *testing.T) {
	d, _, tr := newTestDisplay(t, nil)
	ctx := context.Background()

	ack, err := d.Adjust(ctx, display.AdjustSharpness, display.DirectionDown)
	require.NoError(t, err)
	assert.True(t, ack)
	assert.Equal(t, []byte("*sharp=-#\r"), tr.LastRequest())

	_, err = d.Adjust(ctx, display.AdjustVolume, display.DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, []byte("*vol=+#\r"), tr.LastRequest())
}

func TestIdentity(t *testing.T) {
	d, sim, _ := newTestDisplay(t, map[string]string{"modelname": "LU9235", "ltim": "1520"})
	ctx := context.Background()

	model, err := d.ModelName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LU9235", model)

	label, err := d.PlatformLabel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LU9235", label)

	hours, err := d.OperatingHours(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1520, hours)

	sim.values["ltim"] = "n/a"
	hours, err = d.OperatingHours(ctx)
	require.NoError(t, err)
	assert.Zero(t, hours)

	_, err = d.SerialNumber(ctx)
	assert.ErrorIs(t, err, display.ErrCommandNotImplemented)
	_, err = d.KeyLock(ctx)
	assert.ErrorIs(t, err, display.ErrCommandNotImplemented)
}
