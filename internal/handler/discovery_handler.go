// internal/handler/discovery_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"display-service/internal/service"
	"display-service/internal/utils"
)

// DiscoveryHandler handles display discovery requests
type DiscoveryHandler struct {
	discoveryService *service.DiscoveryService
	events           *ScanEvents
	logger           *utils.ServiceLogger
}

// NewDiscoveryHandler creates a new discovery handler. Scans started here
// are published on bus as well.
func NewDiscoveryHandler(discoveryService *service.DiscoveryService, bus *EventBus, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
		events:           NewScanEvents(bus, "http"),
		logger:           utils.NewServiceLogger(logger, "discovery-handler"),
	}
}

// RegisterRoutes registers discovery routes
func (h *DiscoveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	discovery := router.Group("/discovery")
	{
		discovery.GET("/scan", h.Scan)
		discovery.GET("/last", h.LastScan)
		discovery.GET("/ports", h.ListPorts)
		discovery.GET("/targets", h.ListTargets)
	}
}

// Scan runs the detector
// @Summary Scan for displays
// @Description Probe every port for the enabled vendors and id ranges. Blocks until the scan ends or discovery.scan_timeout passes. Hosts with many ports should start long scans over /ws/discovery, which streams each display as it is found.
// @Tags Discovery
// @Produce json
// @Param vendor query string false "Vendor key or all" default(all)
// @Success 200 {object} utils.APIResponse{data=service.ScanResult} "Scan completed"
// @Failure 400 {object} utils.APIResponse "Vendor not enabled for discovery"
// @Failure 409 {object} utils.APIResponse "Another scan is running"
// @Router /discovery/scan [get]
func (h *DiscoveryHandler) Scan(c *gin.Context) {
	vendor := c.DefaultQuery("vendor", "all")

	result, err := h.discoveryService.Scan(c.Request.Context(), vendor, h.events.Hooks())
	h.events.Finished(result, err)
	if err != nil {
		respondError(c, h.logger, "Failed to scan displays", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Display scan completed", result)
}

// LastScan returns the result of the most recent scan
// @Summary Last scan result
// @Tags Discovery
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.ScanResult} "Last scan"
// @Failure 404 {object} utils.APIResponse "No scan has run yet"
// @Router /discovery/last [get]
func (h *DiscoveryHandler) LastScan(c *gin.Context) {
	last := h.discoveryService.LastScan()
	if last == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "No scan has run yet", nil)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Last scan retrieved", last)
}

// ListPorts lists the ports a scan would probe
// @Summary List serial ports
// @Tags Discovery
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]discovery.PortInfo} "Ports listed"
// @Router /discovery/ports [get]
func (h *DiscoveryHandler) ListPorts(c *gin.Context) {
	ports, err := h.discoveryService.Ports(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list ports", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Ports listed", ports)
}

// ListTargets lists the vendors and id ranges a scan probes
// @Summary List scan targets
// @Tags Discovery
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]discovery.Target} "Targets listed"
// @Router /discovery/targets [get]
func (h *DiscoveryHandler) ListTargets(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Targets listed", h.discoveryService.Targets())
}
