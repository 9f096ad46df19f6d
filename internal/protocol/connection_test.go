package protocol_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-service/internal/protocol"
	"display-service/internal/protocol/prototest"
)

func newConnection(t *testing.T, tr *prototest.Transport, hs protocol.Handshake) *protocol.Connection {
	t.Helper()
	bus := protocol.NewBus(prototest.Config("/dev/ttyTEST0"), tr, nil)
	return protocol.NewConnection(bus, hs)
}

func TestRunCommandReturnsDrainedReply(t *testing.T) {
	tr := prototest.NewTransport(func([]byte) []byte { return []byte{0x01, 0x02, 0x03, 0x04, 0x05} })
	tr.ChunkSize = 2
	conn := newConnection(t, tr, nil)

	resp, err := conn.RunCommand(context.Background(), []byte{0xAA}, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, resp)
	assert.Equal(t, [][]byte{{0xAA}}, tr.Requests())
	assert.Equal(t, 1, tr.Opens())
	assert.Equal(t, 1, tr.Closes())
}

func TestRunCommandSilentDevice(t *testing.T) {
	tr := prototest.NewTransport(nil)
	conn := newConnection(t, tr, nil)

	resp, err := conn.RunCommand(context.Background(), []byte{0x01}, false)
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestRunCommandOpenFailure(t *testing.T) {
	cause := errors.New("no such device")
	tr := prototest.NewTransport(nil)
	tr.OpenErr = cause
	conn := newConnection(t, tr, nil)

	_, err := conn.RunCommand(context.Background(), []byte{0x01}, false)
	require.Error(t, err)

	var te *protocol.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, protocol.OpOpen, te.Op)
	assert.Equal(t, "/dev/ttyTEST0", te.Port)
	assert.ErrorIs(t, err, cause)
	assert.True(t, protocol.IsOpenError(err))
}

func TestRunCommandReadFailure(t *testing.T) {
	tr := prototest.NewTransport(nil)
	tr.ReadErr = errors.New("line dropped")
	conn := newConnection(t, tr, nil)

	_, err := conn.RunCommand(context.Background(), []byte{0x01}, false)
	var te *protocol.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, protocol.OpRead, te.Op)
	assert.False(t, protocol.IsOpenError(err))

	stats := conn.Bus().Stats()
	assert.Equal(t, int64(1), stats.ErrorCount)
}

func TestRunCommandCancelledContextSendsNothing(t *testing.T) {
	tr := prototest.NewTransport(nil)
	conn := newConnection(t, tr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.RunCommand(ctx, []byte{0x01}, true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tr.Requests())
}

func TestSendAndReceiveHandshakeSuccess(t *testing.T) {
	tr := prototest.NewTransport(func(req []byte) []byte {
		if len(req) == 1 && req[0] == 0x0D {
			return []byte{0x3E}
		}
		return []byte("*pow=on#")
	})
	conn := newConnection(t, tr, protocol.SendAndReceiveHandshake{
		Send:   []byte{0x0D},
		Expect: []byte{0x3E},
	})

	resp, err := conn.RunCommand(context.Background(), []byte("*pow=?#\r"), true)
	require.NoError(t, err)
	assert.Equal(t, []byte("*pow=on#"), resp)
	assert.Equal(t, [][]byte{{0x0D}, []byte("*pow=?#\r")}, tr.Requests())
}

func TestSendAndReceiveHandshakeMismatch(t *testing.T) {
	tr := prototest.NewTransport(func([]byte) []byte { return []byte{0x00} })
	conn := newConnection(t, tr, protocol.SendAndReceiveHandshake{
		Send:   []byte{0x0D},
		Expect: []byte{0x3E},
	})

	_, err := conn.RunCommand(context.Background(), []byte("*pow=?#\r"), true)
	require.ErrorIs(t, err, protocol.ErrHandshakeFailed)
	// The command itself must never reach the wire
	assert.Equal(t, [][]byte{{0x0D}}, tr.Requests())
}

func TestSendAndReceiveHandshakeSilentDevice(t *testing.T) {
	tr := prototest.NewTransport(nil)
	conn := newConnection(t, tr, protocol.SendAndReceiveHandshake{
		Send:   []byte{0x0D},
		Expect: []byte{0x3E},
	})

	_, err := conn.RunCommand(context.Background(), []byte{0x01}, true)
	assert.ErrorIs(t, err, protocol.ErrHandshakeFailed)
}

func TestHandshakeSkippedWhenNotRequested(t *testing.T) {
	tr := prototest.NewTransport(nil)
	conn := newConnection(t, tr, protocol.SendAndReceiveHandshake{
		Send:   []byte{0x0D},
		Expect: []byte{0x3E},
	})

	_, err := conn.RunCommand(context.Background(), []byte{0x01}, false)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x01}}, tr.Requests())
}

func TestWaitHandshakeWaits(t *testing.T) {
	tr := prototest.NewTransport(nil)
	conn := newConnection(t, tr, protocol.WaitHandshake{Wait: 20 * time.Millisecond})

	start := time.Now()
	_, err := conn.RunCommand(context.Background(), []byte{0x01}, true)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, [][]byte{{0x01}}, tr.Requests())
}

func TestConnectionsOnOneBusAreSerialized(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	tr := prototest.NewTransport(func(req []byte) []byte {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return req
	})

	bus := protocol.NewBus(prototest.Config("/dev/ttyTEST0"), tr, nil)
	plain := protocol.NewConnection(bus, nil)
	waiting := protocol.NewConnection(bus, protocol.WaitHandshake{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := plain
			if i%2 == 0 {
				conn = waiting
			}
			_, err := conn.RunCommand(context.Background(), []byte{byte(i)}, true)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
	assert.Len(t, tr.Requests(), 8)
	assert.Equal(t, int64(8), bus.Stats().ExchangeCount)
}

func TestBusPoolSharesBusPerPort(t *testing.T) {
	pool := protocol.NewBusPool(prototest.Config(""), prototest.NewTransport(nil), nil)

	a, err := pool.Bus("/dev/ttyUSB0")
	require.NoError(t, err)
	b, err := pool.Bus("/dev/ttyUSB0")
	require.NoError(t, err)
	c, err := pool.Bus("/dev/ttyUSB1")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "/dev/ttyUSB1", c.Config().Port)

	_, err = pool.Bus("")
	assert.Error(t, err)

	stats := pool.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "/dev/ttyUSB0", stats[0].Port)
}
