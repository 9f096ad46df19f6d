// internal/service/display_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"display-service/internal/config"
	"display-service/internal/driver"
	"display-service/internal/protocol"
	"display-service/internal/utils"
	"display-service/pkg/display"
)

// Address locates one display: the serial port, the vendor protocol
// spoken on it and the display id on the bus
type Address struct {
	Port   string `json:"port" form:"port" binding:"required"`
	Vendor string `json:"vendor" form:"vendor" binding:"required"`
	ID     int    `json:"id" form:"id" binding:"min=0,max=255"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s@%s#%d", a.Vendor, a.Port, a.ID)
}

// DisplayService resolves display addresses to bound displays. Every
// display on a port shares the port's bus.
type DisplayService struct {
	pool     *protocol.BusPool
	registry *driver.Registry
	config   *config.Config
	logger   *utils.ServiceLogger
}

// NewDisplayService creates a new display service instance
func NewDisplayService(
	pool *protocol.BusPool,
	registry *driver.Registry,
	config *config.Config,
	logger *zap.Logger,
) *DisplayService {
	return &DisplayService{
		pool:     pool,
		registry: registry,
		config:   config,
		logger:   utils.NewServiceLogger(logger, "display-service"),
	}
}

// Bind binds a display of vendorKey with the given id on port. The
// connection carries the vendor's handshake.
func (s *DisplayService) Bind(port, vendorKey string, id int) (display.Display, error) {
	if !s.registry.IsSupported(vendorKey) {
		return nil, fmt.Errorf("%w: %s", driver.ErrUnknownVendor, vendorKey)
	}

	bus, err := s.pool.Bus(port)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", display.ErrCommandArgumentsInvalid, err)
	}

	conn := protocol.NewConnection(bus, s.registry.Handshake(vendorKey))
	return s.registry.Create(vendorKey, conn, id)
}

// Resolve binds the display at addr
func (s *DisplayService) Resolve(addr Address) (display.Display, error) {
	return s.Bind(addr.Port, addr.Vendor, addr.ID)
}

// Vendors returns every registered vendor
func (s *DisplayService) Vendors() []driver.Vendor {
	return s.registry.List()
}

// BusStats returns traffic statistics of every port used so far
func (s *DisplayService) BusStats() []protocol.BusStats {
	return s.pool.Stats()
}

// Identity collects the identity fields of the display at addr. Fields
// the vendor does not implement stay empty; transport and handshake
// failures abort.
func (s *DisplayService) Identity(ctx context.Context, addr Address) (*display.Identity, error) {
	d, err := s.Resolve(addr)
	if err != nil {
		return nil, err
	}

	id := &display.Identity{}
	fetches := []struct {
		name string
		run  func() error
	}{
		{"serial_number", func() (err error) { id.SerialNumber, err = d.SerialNumber(ctx); return }},
		{"model_name", func() (err error) { id.ModelName, err = d.ModelName(ctx); return }},
		{"platform_label", func() (err error) { id.PlatformLabel, err = d.PlatformLabel(ctx); return }},
		{"platform_version", func() (err error) { id.PlatformVersion, err = d.PlatformVersion(ctx); return }},
		{"control_software_version", func() (err error) {
			id.ControlSoftwareVersion, err = d.ControlSoftwareVersion(ctx)
			return
		}},
		{"operating_hours", func() (err error) { id.OperatingHours, err = d.OperatingHours(ctx); return }},
		{"temperatures", func() (err error) { id.Temperatures, err = d.Temperatures(ctx); return }},
	}

	for _, f := range fetches {
		if err := f.run(); err != nil {
			if errors.Is(err, display.ErrCommandNotImplemented) {
				continue
			}
			s.logger.Warn("Identity fetch failed",
				zap.String("display", addr.String()),
				zap.String("field", f.name),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return id, nil
}
