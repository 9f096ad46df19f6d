// internal/driver/registry_init.go
package driver

import (
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"display-service/internal/config"
	"display-service/internal/driver/benq"
	"display-service/internal/driver/philips"
	"display-service/internal/driver/samsung"
	"display-service/internal/protocol"
	"display-service/pkg/display"
)

// RegisterDefaultDrivers registers all built-in vendors
func RegisterDefaultDrivers(registry *Registry, handshakes config.HandshakeConfig, logger *zap.Logger) error {
	registerPhilipsDrivers(registry)
	registerSamsungDriver(registry)

	hs, err := BenQHandshake(handshakes.BenQ)
	if err != nil {
		return fmt.Errorf("benq handshake: %w", err)
	}
	registerBenQDriver(registry, hs)

	logger.Info("Display drivers registered",
		zap.Int("vendors", len(registry.List())),
	)
	return nil
}

// BenQHandshake builds the prompt handshake from configuration
func BenQHandshake(cfg config.PromptHandshakeConfig) (protocol.Handshake, error) {
	if !cfg.Enabled {
		return protocol.NoHandshake{}, nil
	}
	send, err := hex.DecodeString(cfg.Send)
	if err != nil {
		return nil, fmt.Errorf("invalid send bytes %q: %w", cfg.Send, err)
	}
	expect, err := hex.DecodeString(cfg.Expect)
	if err != nil {
		return nil, fmt.Errorf("invalid expect bytes %q: %w", cfg.Expect, err)
	}
	if len(send) == 0 {
		return protocol.WaitHandshake{Wait: cfg.Wait}, nil
	}
	return protocol.SendAndReceiveHandshake{Wait: cfg.Wait, Send: send, Expect: expect}, nil
}

// registerPhilipsDrivers registers one vendor per SICP revision
func registerPhilipsDrivers(registry *Registry) {
	for _, key := range philips.Keys() {
		key := key
		desc, _ := philips.Lookup(key)

		caps := []string{CapabilityPower, CapabilityInput, CapabilityIdentity}
		if desc.KeyLock.Get.Supported() {
			caps = append(caps, CapabilityKeyLock)
		}
		if desc.IRLock.Get.Supported() {
			caps = append(caps, CapabilityIRLock)
		}
		if desc.AutoDetect.Supported() {
			caps = append(caps, CapabilityAutoDetect)
		}
		if desc.Failover.Supported() {
			caps = append(caps, CapabilityFailover)
		}

		registry.Register(Vendor{
			Key:          key,
			Brand:        "Philips",
			Protocol:     "SICP " + desc.Version,
			Capabilities: caps,
		}, func(conn protocol.Runner, id int, logger *zap.Logger) (display.Display, error) {
			d, err := philips.New(key, conn, id, logger)
			if err != nil {
				return nil, err
			}
			return d, nil
		})
	}
}

func registerSamsungDriver(registry *Registry) {
	registry.Register(Vendor{
		Key:      samsung.VendorKey,
		Brand:    "Samsung",
		Protocol: "MDC",
		Capabilities: []string{
			CapabilityPower, CapabilityInput, CapabilityKeyLock,
			CapabilityIRLock, CapabilityAdjust, CapabilityIdentity,
		},
	}, func(conn protocol.Runner, id int, logger *zap.Logger) (display.Display, error) {
		d, err := samsung.New(conn, id, logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}

func registerBenQDriver(registry *Registry, hs protocol.Handshake) {
	registry.Register(Vendor{
		Key:          benq.VendorKey,
		Brand:        "BenQ",
		Protocol:     "ASCII",
		Capabilities: []string{CapabilityPower, CapabilityInput, CapabilityAdjust, CapabilityIdentity},
		Handshake:    hs,
	}, func(conn protocol.Runner, id int, logger *zap.Logger) (display.Display, error) {
		d, err := benq.New(conn, id, logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
