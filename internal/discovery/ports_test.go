package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func TestListPortsOverride(t *testing.T) {
	l := NewSerialPortLister([]string{"/dev/ttyUSB1", "/dev/ttyUSB0"}, nil)
	l.detailed = func() ([]*enumerator.PortDetails, error) {
		t.Fatal("enumeration must not run with an override")
		return nil, nil
	}

	ports, err := l.ListPorts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []PortInfo{{Name: "/dev/ttyUSB1"}, {Name: "/dev/ttyUSB0"}}, ports)
}

func TestListPortsDetailed(t *testing.T) {
	l := NewSerialPortLister(nil, nil)
	l.detailed = func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "COM4"},
			{Name: "COM3", IsUSB: true, VID: "0403", PID: "6001", SerialNumber: "FT1234", Product: "USB Serial"},
		}, nil
	}

	ports, err := l.ListPorts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []PortInfo{
		{Name: "COM3", IsUSB: true, VID: "0403", PID: "6001", SerialNumber: "FT1234", Product: "USB Serial"},
		{Name: "COM4"},
	}, ports)
}

func TestListPortsFallback(t *testing.T) {
	l := NewSerialPortLister(nil, nil)
	l.detailed = func() ([]*enumerator.PortDetails, error) {
		return nil, errors.New("not supported")
	}
	l.plain = func() ([]string, error) { return []string{"/dev/ttyS1", "/dev/ttyS0"}, nil }

	ports, err := l.ListPorts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []PortInfo{{Name: "/dev/ttyS0"}, {Name: "/dev/ttyS1"}}, ports)

	l.plain = func() ([]string, error) { return nil, errors.New("boom") }
	_, err = l.ListPorts(context.Background())
	assert.ErrorContains(t, err, "boom")
}

func TestListPortsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSerialPortLister(nil, nil).ListPorts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
