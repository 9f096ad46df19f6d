// internal/driver/registry.go
package driver

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"display-service/internal/protocol"
	"display-service/pkg/display"
)

// ErrUnknownVendor is returned for vendor keys nobody registered
var ErrUnknownVendor = errors.New("unknown vendor key")

// Capability names reported for each vendor
const (
	CapabilityPower      = "power"
	CapabilityInput      = "input"
	CapabilityKeyLock    = "key_lock"
	CapabilityIRLock     = "ir_lock"
	CapabilityAutoDetect = "auto_detect"
	CapabilityFailover   = "failover"
	CapabilityAdjust     = "adjust"
	CapabilityIdentity   = "identity"
)

// Factory binds a display with the given bus id to a connection
type Factory func(conn protocol.Runner, id int, logger *zap.Logger) (display.Display, error)

// Vendor describes one registered protocol variant
type Vendor struct {
	Key          string   `json:"key"`
	Brand        string   `json:"brand"`
	Protocol     string   `json:"protocol"`
	Capabilities []string `json:"capabilities"`

	// Handshake is run before every command on connections for this vendor
	Handshake protocol.Handshake `json:"-"`
}

type registration struct {
	vendor  Vendor
	factory Factory
}

// Registry manages vendor registration and display creation
type Registry struct {
	vendors map[string]registration
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewRegistry creates a new vendor registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		vendors: make(map[string]registration),
		logger:  logger,
	}
}

// Register registers a vendor. A later registration with the same key
// replaces the earlier one.
func (r *Registry) Register(vendor Vendor, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vendor.Handshake == nil {
		vendor.Handshake = protocol.NoHandshake{}
	}
	r.vendors[vendor.Key] = registration{vendor: vendor, factory: factory}
	r.logger.Debug("Vendor registered",
		zap.String("vendor", vendor.Key),
		zap.String("protocol", vendor.Protocol),
	)
}

// Create binds a display of the given vendor to conn
func (r *Registry) Create(key string, conn protocol.Runner, id int) (display.Display, error) {
	r.mu.RLock()
	reg, exists := r.vendors[key]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVendor, key)
	}
	return reg.factory(conn, id, r.logger)
}

// Vendor returns the registration details of key
func (r *Registry) Vendor(key string) (Vendor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.vendors[key]
	return reg.vendor, exists
}

// Handshake returns the handshake connections for key should use
func (r *Registry) Handshake(key string) protocol.Handshake {
	if v, ok := r.Vendor(key); ok {
		return v.Handshake
	}
	return protocol.NoHandshake{}
}

// List returns all registered vendors ordered by key
func (r *Registry) List() []Vendor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vendors := make([]Vendor, 0, len(r.vendors))
	for _, reg := range r.vendors {
		vendors = append(vendors, reg.vendor)
	}
	sort.Slice(vendors, func(i, j int) bool { return vendors[i].Key < vendors[j].Key })
	return vendors
}

// IsSupported checks if a vendor key is registered
func (r *Registry) IsSupported(key string) bool {
	_, ok := r.Vendor(key)
	return ok
}
