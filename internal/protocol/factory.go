// internal/protocol/factory.go
package protocol

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// BusPool hands out exactly one Bus per port name, so that every
// connection to the same port shares one lock domain.
type BusPool struct {
	base      SerialConfig
	transport Transport
	logger    *zap.Logger

	mu    sync.Mutex
	buses map[string]*Bus
}

// NewBusPool creates a pool; base supplies everything but the port name
func NewBusPool(base SerialConfig, transport Transport, logger *zap.Logger) *BusPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusPool{
		base:      base,
		transport: transport,
		logger:    logger,
		buses:     make(map[string]*Bus),
	}
}

// Bus returns the bus for port, creating it on first use
func (p *BusPool) Bus(port string) (*Bus, error) {
	if port == "" {
		return nil, fmt.Errorf("serial port is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if bus, ok := p.buses[port]; ok {
		return bus, nil
	}

	config := p.base
	config.Port = port

	p.logger.Info("Creating serial bus",
		zap.String("port", port),
		zap.Int("baud_rate", config.BaudRate),
	)

	bus := NewBus(config, p.transport, p.logger)
	p.buses[port] = bus
	return bus, nil
}

// Stats returns statistics of every bus created so far, ordered by port
func (p *BusPool) Stats() []BusStats {
	p.mu.Lock()
	buses := make([]*Bus, 0, len(p.buses))
	for _, bus := range p.buses {
		buses = append(buses, bus)
	}
	p.mu.Unlock()

	stats := make([]BusStats, 0, len(buses))
	for _, bus := range buses {
		stats = append(stats, bus.Stats())
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Port < stats[j].Port })
	return stats
}
