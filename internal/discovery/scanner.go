// internal/discovery/scanner.go
package discovery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"display-service/internal/protocol"
	"display-service/internal/utils"
	"display-service/pkg/display"
)

// Target is one vendor key and the display IDs probed for it
type Target struct {
	VendorKey string `json:"vendor_key"`
	MinID     int    `json:"min_id"`
	MaxID     int    `json:"max_id"`
}

// Binder binds a display of the given vendor and id on port
type Binder interface {
	Bind(port, vendorKey string, id int) (display.Display, error)
}

// Detector probes every port for every target and reports the displays
// that answer
type Detector struct {
	lister  PortLister
	binder  Binder
	targets []Target
	logger  *zap.Logger
}

// NewDetector creates a detector over the given targets, probed in order
func NewDetector(lister PortLister, binder Binder, targets []Target, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		lister:  lister,
		binder:  binder,
		targets: targets,
		logger:  logger,
	}
}

type scanIDKey struct{}

// WithScanID tags ctx with the id of the scan it drives. Detect logs under
// that id and makes one up when ctx carries none.
func WithScanID(ctx context.Context, scanID string) context.Context {
	return context.WithValue(ctx, scanIDKey{}, scanID)
}

func scanIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(scanIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// Targets returns the configured targets
func (d *Detector) Targets() []Target {
	out := make([]Target, len(d.targets))
	copy(out, d.targets)
	return out
}

// Detect runs a scan. vendorKey limits it to one target; "" or "all"
// scans every target. observe, if not nil, sees each record as it is
// found. A cancelled ctx stops the scan between probes and returns the
// records found so far with the context error.
func (d *Detector) Detect(ctx context.Context, vendorKey string, observe Observer) ([]Record, error) {
	targets, err := d.selectTargets(vendorKey)
	if err != nil {
		return nil, err
	}

	ports, err := d.lister.ListPorts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}

	scanLog := utils.NewScanLogger(d.logger, scanIDFrom(ctx), vendorKey, len(targets))
	scanLog.Start(len(ports))

	records := []Record{}
	for _, target := range targets {
		before := len(records)
		for _, port := range ports {
			found, err := d.scanPort(ctx, port.Name, target, observe)
			records = append(records, found...)
			if err != nil {
				scanLog.Finished(len(records), err)
				return records, err
			}
		}
		scanLog.TargetScanned(target.VendorKey, len(records)-before)
	}

	scanLog.Finished(len(records), nil)
	return records, nil
}

func (d *Detector) selectTargets(vendorKey string) ([]Target, error) {
	if vendorKey == "" || vendorKey == "all" {
		return d.targets, nil
	}
	for _, t := range d.targets {
		if t.VendorKey == vendorKey {
			return []Target{t}, nil
		}
	}
	return nil, fmt.Errorf("%w: vendor %q is not enabled for discovery", display.ErrCommandArgumentsInvalid, vendorKey)
}

// scanPort probes the target's id range on one port. A port that cannot be
// opened is skipped for the remaining ids.
func (d *Detector) scanPort(ctx context.Context, port string, target Target, observe Observer) ([]Record, error) {
	var records []Record
	logger := d.logger.With(zap.String("port", port), zap.String("vendor", target.VendorKey))

	for id := target.MinID; id <= target.MaxID; id++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		disp, err := d.binder.Bind(port, target.VendorKey, id)
		if err != nil {
			logger.Warn("Cannot bind display", zap.Int("display_id", id), zap.Error(err))
			return records, nil
		}

		ready, err := disp.IsReadyForCommands(ctx)
		if err != nil {
			if protocol.IsOpenError(err) {
				logger.Debug("Port unavailable, skipping", zap.Error(err))
				return records, nil
			}
			logger.Debug("Probe failed", zap.Int("display_id", id), zap.Error(err))
			continue
		}
		if !ready {
			continue
		}

		rec := describe(ctx, port, disp)
		logger.Info("Display found", zap.Int("display_id", id), zap.String("label", rec.Label))
		records = append(records, rec)
		if observe != nil {
			observe(rec)
		}
	}
	return records, nil
}

// describe fetches what a responding display reports about itself. Every
// fetch is independent; failures leave the default.
func describe(ctx context.Context, port string, disp display.Display) Record {
	rec := Record{
		Port:      port,
		DisplayID: disp.ID(),
		VendorKey: disp.VendorKey(),
		Power:     display.PowerUnknown.String(),
		Input:     display.UnknownInputLabel,
	}

	if p, err := disp.PowerState(ctx); err == nil {
		rec.Power = p.String()
	}
	if s, err := disp.SerialNumber(ctx); err == nil {
		rec.Serial = s
	}
	if in, err := disp.InputChannel(ctx); err == nil {
		rec.Input = in.Label
	}
	if l, err := disp.PlatformLabel(ctx); err == nil {
		rec.Label = l
	}
	if v, err := disp.ControlSoftwareVersion(ctx); err == nil {
		rec.ProtocolVersion = v
	}
	return rec
}
