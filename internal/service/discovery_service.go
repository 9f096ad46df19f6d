// internal/service/discovery_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"display-service/internal/config"
	"display-service/internal/discovery"
	"display-service/internal/utils"
)

// ErrScanInProgress is returned when a scan is requested while another runs
var ErrScanInProgress = errors.New("discovery scan already in progress")

// ScanResult is the outcome of one discovery scan
type ScanResult struct {
	ID         string             `json:"id"`
	Vendor     string             `json:"vendor"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Records    []discovery.Record `json:"records"`
	Error      string             `json:"error,omitempty"`
}

// ScanHooks receive the progress of one scan. Started runs once the scan
// holds the single-flight slot, before any port is probed. Either may be nil.
type ScanHooks struct {
	Started func(result *ScanResult)
	Found   discovery.Observer
}

// DiscoveryService runs detector scans one at a time and remembers the
// last result
type DiscoveryService struct {
	detector    *discovery.Detector
	lister      discovery.PortLister
	scanTimeout time.Duration
	logger      *utils.ServiceLogger

	running sync.Mutex
	mu      sync.RWMutex
	last    *ScanResult
}

// NewDiscoveryService creates a new discovery service. A positive
// scanTimeout bounds every scan; zero leaves it to the caller's context.
func NewDiscoveryService(detector *discovery.Detector, lister discovery.PortLister, scanTimeout time.Duration, logger *zap.Logger) *DiscoveryService {
	return &DiscoveryService{
		detector:    detector,
		lister:      lister,
		scanTimeout: scanTimeout,
		logger:      utils.NewServiceLogger(logger, "discovery-service"),
	}
}

// TargetsFromConfig turns the enabled vendor ranges into detector targets,
// ordered by vendor key
func TargetsFromConfig(cfg config.DiscoveryConfig) []discovery.Target {
	targets := make([]discovery.Target, 0, len(cfg.Vendors))
	for key, v := range cfg.Vendors {
		if !v.Enabled {
			continue
		}
		targets = append(targets, discovery.Target{VendorKey: key, MinID: v.MinID, MaxID: v.MaxID})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].VendorKey < targets[j].VendorKey })
	return targets
}

// Scan runs the detector for vendor ("all" or a vendor key). A rejected
// scan returns ErrScanInProgress without calling any hook. A partial result
// is kept when the scan is interrupted or runs past the scan timeout.
func (s *DiscoveryService) Scan(ctx context.Context, vendor string, hooks ScanHooks) (*ScanResult, error) {
	if !s.running.TryLock() {
		return nil, ErrScanInProgress
	}
	defer s.running.Unlock()

	if s.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.scanTimeout)
		defer cancel()
	}

	if vendor == "" {
		vendor = "all"
	}
	result := &ScanResult{
		ID:        uuid.New().String(),
		Vendor:    vendor,
		StartedAt: time.Now(),
	}
	s.logger.Info("Starting display scan", zap.String("scan_id", result.ID), zap.String("vendor", vendor))
	if hooks.Started != nil {
		hooks.Started(result)
	}

	records, err := s.detector.Detect(discovery.WithScanID(ctx, result.ID), vendor, hooks.Found)
	result.FinishedAt = time.Now()
	result.Records = records
	if result.Records == nil {
		result.Records = []discovery.Record{}
	}
	if err != nil {
		result.Error = err.Error()
		if len(records) == 0 {
			return nil, err
		}
	}

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	s.logger.Info("Display scan completed",
		zap.String("scan_id", result.ID),
		zap.Int("displays_found", len(result.Records)),
		zap.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, err
}

// LastScan returns the most recent scan result, or nil
func (s *DiscoveryService) LastScan() *ScanResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Ports lists the ports a scan would probe
func (s *DiscoveryService) Ports(ctx context.Context) ([]discovery.PortInfo, error) {
	return s.lister.ListPorts(ctx)
}

// Targets returns the configured scan targets
func (s *DiscoveryService) Targets() []discovery.Target {
	return s.detector.Targets()
}
