// internal/discovery/ports.go
package discovery

import (
	"context"
	"fmt"
	"sort"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
)

// PortInfo describes one serial port found on the host
type PortInfo struct {
	Name         string `json:"name"`
	IsUSB        bool   `json:"is_usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Product      string `json:"product,omitempty"`
}

// PortLister enumerates the ports the detector should probe
type PortLister interface {
	ListPorts(ctx context.Context) ([]PortInfo, error)
}

// SerialPortLister lists the host's serial ports. A non-empty Override
// replaces enumeration entirely.
type SerialPortLister struct {
	Override []string
	logger   *zap.Logger

	// replaceable in tests
	detailed func() ([]*enumerator.PortDetails, error)
	plain    func() ([]string, error)
}

// NewSerialPortLister creates a lister that enumerates the host ports unless
// override names them explicitly
func NewSerialPortLister(override []string, logger *zap.Logger) *SerialPortLister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerialPortLister{
		Override: override,
		logger:   logger.With(zap.String("component", "port_lister")),
		detailed: enumerator.GetDetailedPortsList,
		plain:    serial.GetPortsList,
	}
}

// ListPorts returns ports sorted by name. Detailed enumeration is tried
// first; platforms without it fall back to the plain port list.
func (l *SerialPortLister) ListPorts(ctx context.Context) ([]PortInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(l.Override) > 0 {
		ports := make([]PortInfo, 0, len(l.Override))
		for _, name := range l.Override {
			ports = append(ports, PortInfo{Name: name})
		}
		return ports, nil
	}

	var ports []PortInfo
	details, err := l.detailed()
	if err == nil {
		for _, p := range details {
			ports = append(ports, PortInfo{
				Name:         p.Name,
				IsUSB:        p.IsUSB,
				VID:          p.VID,
				PID:          p.PID,
				SerialNumber: p.SerialNumber,
				Product:      p.Product,
			})
		}
	} else {
		l.logger.Debug("Detailed port enumeration failed, using plain list", zap.Error(err))

		names, err := l.plain()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports: %w", err)
		}
		for _, name := range names {
			ports = append(ports, PortInfo{Name: name})
		}
	}

	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}
