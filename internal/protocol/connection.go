// internal/protocol/connection.go
package protocol

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Upper bound on a drained response. Displays answer in well under 64 bytes;
// anything past this is a chattering line, not a reply.
const maxResponseSize = 4096

const readChunkSize = 64

// SerialConfig represents serial connection configuration
type SerialConfig struct {
	Port        string        `json:"port"`
	BaudRate    int           `json:"baud_rate"`
	DataBits    int           `json:"data_bits"`
	StopBits    int           `json:"stop_bits"`
	Parity      string        `json:"parity"`
	ReadTimeout time.Duration `json:"read_timeout"`
	SettleDelay time.Duration `json:"settle_delay"`
}

// DefaultSerialConfig returns 9600 8N1 with a one second settle delay
func DefaultSerialConfig(port string) SerialConfig {
	return SerialConfig{
		Port:        port,
		BaudRate:    9600,
		DataBits:    8,
		StopBits:    1,
		Parity:      "none",
		ReadTimeout: 100 * time.Millisecond,
		SettleDelay: time.Second,
	}
}

// Bus is the lock domain of one physical port. Every Connection bound to
// the same port must share the same Bus.
type Bus struct {
	config    SerialConfig
	transport Transport
	logger    *zap.Logger

	mu    sync.Mutex
	stats BusStats
}

// NewBus creates a bus for config.Port
func NewBus(config SerialConfig, transport Transport, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		config:    config,
		transport: transport,
		logger:    logger.With(zap.String("port", config.Port)),
		stats:     BusStats{Port: config.Port},
	}
}

// Port returns the port name
func (b *Bus) Port() string {
	return b.config.Port
}

// Config returns a copy of the serial configuration
func (b *Bus) Config() SerialConfig {
	return b.config
}

// Stats returns a snapshot of the bus statistics
func (b *Bus) Stats() BusStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// exchange opens the port, writes payload, waits settle and drains the
// reply. The caller must hold b.mu.
func (b *Bus) exchange(payload []byte, settle time.Duration) ([]byte, error) {
	start := time.Now()
	b.stats.ExchangeCount++
	b.stats.LastActivity = start

	resp, err := b.doExchange(payload, settle)
	if err != nil {
		b.stats.ErrorCount++
		b.logger.Debug("Exchange failed", zap.Binary("tx", payload), zap.Error(err))
		return nil, err
	}

	b.stats.BytesWritten += int64(len(payload))
	b.stats.BytesRead += int64(len(resp))
	b.updateAverageLatency(time.Since(start))

	b.logger.Debug("Exchange completed",
		zap.Binary("tx", payload),
		zap.Binary("rx", resp),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

func (b *Bus) doExchange(payload []byte, settle time.Duration) ([]byte, error) {
	port, err := b.transport.Open(b.config)
	if err != nil {
		return nil, &TransportError{Op: OpOpen, Port: b.config.Port, Err: err}
	}
	defer func() {
		if cerr := port.Close(); cerr != nil {
			b.logger.Warn("Failed to close port", zap.Error(cerr))
		}
	}()

	n, err := port.Write(payload)
	if err != nil {
		return nil, &TransportError{Op: OpWrite, Port: b.config.Port, Err: err}
	}
	if n != len(payload) {
		return nil, &TransportError{
			Op:   OpWrite,
			Port: b.config.Port,
			Err:  fmt.Errorf("%w: wrote %d of %d bytes", io.ErrShortWrite, n, len(payload)),
		}
	}

	if settle > 0 {
		time.Sleep(settle)
	}

	var out []byte
	buf := make([]byte, readChunkSize)
	for len(out) < maxResponseSize {
		n, err := port.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &TransportError{Op: OpRead, Port: b.config.Port, Err: err}
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}

func (b *Bus) updateAverageLatency(latency time.Duration) {
	if b.stats.AverageLatency == 0 {
		b.stats.AverageLatency = latency
	} else {
		b.stats.AverageLatency = (b.stats.AverageLatency + latency) / 2
	}
}

// Connection pairs a Bus with an optional Handshake. It is reused across
// commands and may be shared by any number of displays on the bus.
type Connection struct {
	bus       *Bus
	handshake Handshake
}

// NewConnection creates a connection; a nil handshake means none
func NewConnection(bus *Bus, handshake Handshake) *Connection {
	if handshake == nil {
		handshake = NoHandshake{}
	}
	return &Connection{bus: bus, handshake: handshake}
}

// Bus returns the underlying bus
func (c *Connection) Bus() *Bus {
	return c.bus
}

// PortName returns the name of the port behind the bus
func (c *Connection) PortName() string {
	return c.bus.Port()
}

// Handshake returns the configured handshake
func (c *Connection) Handshake() Handshake {
	return c.handshake
}

// RunCommand sends payload and returns every byte the device answered.
// With withHandshake set, the handshake runs first and the payload is not
// sent if it fails. The context is only consulted before the exchange
// starts; an exchange in flight always completes.
func (c *Connection) RunCommand(ctx context.Context, payload []byte, withHandshake bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	if withHandshake {
		if err := c.handshake.Perform(lockedBus{bus: c.bus}); err != nil {
			c.bus.logger.Debug("Handshake failed", zap.Error(err))
			return nil, err
		}
	}

	return c.bus.exchange(payload, c.bus.config.SettleDelay)
}
