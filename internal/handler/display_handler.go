// internal/handler/display_handler.go
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"display-service/internal/service"
	"display-service/internal/utils"
	"display-service/pkg/display"
)

// DisplayHandler handles display control requests. Displays are addressed
// by the port, vendor and id query parameters.
type DisplayHandler struct {
	displayService *service.DisplayService
	logger         *utils.ServiceLogger
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(displayService *service.DisplayService, logger *zap.Logger) *DisplayHandler {
	return &DisplayHandler{
		displayService: displayService,
		logger:         utils.NewServiceLogger(logger, "display-handler"),
	}
}

// RegisterRoutes registers display routes
func (h *DisplayHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/vendors", h.ListVendors)

	displays := router.Group("/displays")
	{
		displays.GET("/ready", h.GetReady)
		displays.GET("/power", h.GetPower)
		displays.PUT("/power", h.SetPower)
		displays.GET("/input", h.GetInput)
		displays.PUT("/input", h.SetInput)
		displays.GET("/inputs", h.ListInputs)
		displays.GET("/lock/keys", h.GetKeyLock)
		displays.PUT("/lock/keys", h.SetKeyLock)
		displays.GET("/lock/ir", h.GetIRLock)
		displays.PUT("/lock/ir", h.SetIRLock)
		displays.GET("/autodetect", h.GetAutoDetect)
		displays.PUT("/autodetect", h.SetAutoDetect)
		displays.GET("/failover", h.GetFailover)
		displays.PUT("/failover", h.SetFailover)
		displays.POST("/adjust", h.Adjust)
		displays.GET("/identity", h.GetIdentity)
	}
}

// StateRequest carries a power or lock state such as "on" or "all"
type StateRequest struct {
	State string `json:"state" binding:"required"`
}

// InputRequest selects an input by label
type InputRequest struct {
	Label   string `json:"label" binding:"required"`
	ShowOSD bool   `json:"show_osd"`
}

// AutoDetectRequest carries an auto detect mode
type AutoDetectRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// FailoverRequest carries the failover order as source codes
type FailoverRequest struct {
	Codes []int `json:"codes" binding:"required,dive,min=0,max=255"`
}

// AdjustRequest steps an attribute up or down
type AdjustRequest struct {
	Attribute string `json:"attribute" binding:"required"`
	Direction string `json:"direction" binding:"required"`
}

// resolve binds the display named by the query. It writes the error
// response itself and returns nil on failure.
func (h *DisplayHandler) resolve(c *gin.Context) display.Display {
	var addr service.Address
	if err := c.ShouldBindQuery(&addr); err != nil {
		utils.ValidationErrorResponse(c, map[string]string{"query": err.Error()})
		return nil
	}

	d, err := h.displayService.Resolve(addr)
	if err != nil {
		respondError(c, h.logger, "Cannot address display", err)
		return nil
	}
	return d
}

func (h *DisplayHandler) respondAck(c *gin.Context, ack bool, err error) {
	if err != nil {
		respondError(c, h.logger, "Display command failed", err)
		return
	}
	message := "Display acknowledged the command"
	if !ack {
		message = "Display did not acknowledge the command"
	}
	utils.SuccessResponse(c, http.StatusOK, message, gin.H{"ack": ack})
}

// ListVendors lists the registered vendors
// @Summary List vendors
// @Description List registered vendor keys with their capabilities
// @Tags Vendors
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]driver.Vendor} "Vendors retrieved"
// @Router /vendors [get]
func (h *DisplayHandler) ListVendors(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Vendors retrieved", h.displayService.Vendors())
}

// GetReady probes the display
// @Summary Probe display
// @Description Send the vendor's power query and report whether the display answered
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=object{ready=bool}} "Probe completed"
// @Failure 400 {object} utils.APIResponse "Invalid address"
// @Failure 502 {object} utils.APIResponse "Transport error"
// @Router /displays/ready [get]
func (h *DisplayHandler) GetReady(c *gin.Context) {
	d := h.resolve(c)
	if d == nil {
		return
	}
	ready, err := d.IsReadyForCommands(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Probe failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Probe completed", gin.H{"ready": ready})
}

// GetPower returns the power state
// @Summary Get power state
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=object{state=string}} "Power state retrieved"
// @Failure 502 {object} utils.APIResponse "Transport error"
// @Failure 504 {object} utils.APIResponse "Handshake failed"
// @Router /displays/power [get]
func (h *DisplayHandler) GetPower(c *gin.Context) {
	d := h.resolve(c)
	if d == nil {
		return
	}
	state, err := d.PowerState(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get power state", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Power state retrieved", gin.H{"state": state})
}

// SetPower switches the power state
// @Summary Set power state
// @Tags Displays
// @Accept json
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Param request body StateRequest true "Power state: on, off, power_save, deep_sleep"
// @Success 200 {object} utils.APIResponse{data=object{ack=bool}} "Command sent"
// @Failure 400 {object} utils.APIResponse "Invalid state"
// @Router /displays/power [put]
func (h *DisplayHandler) SetPower(c *gin.Context) {
	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	state, err := display.ParsePower(req.State)
	if err != nil {
		respondError(c, h.logger, "Invalid power state", err)
		return
	}
	d := h.resolve(c)
	if d == nil {
		return
	}
	ack, err := d.SetPowerState(c.Request.Context(), state)
	h.respondAck(c, ack, err)
}

// GetInput returns the active input
// @Summary Get input channel
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=display.Input} "Input retrieved"
// @Router /displays/input [get]
func (h *DisplayHandler) GetInput(c *gin.Context) {
	d := h.resolve(c)
	if d == nil {
		return
	}
	input, err := d.InputChannel(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get input channel", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Input retrieved", input)
}

// SetInput selects an input
// @Summary Set input channel
// @Tags Displays
// @Accept json
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Param request body InputRequest true "Input label as listed by /displays/inputs"
// @Success 200 {object} utils.APIResponse{data=object{ack=bool}} "Command sent"
// @Failure 400 {object} utils.APIResponse "Unknown input"
// @Router /displays/input [put]
func (h *DisplayHandler) SetInput(c *gin.Context) {
	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	d := h.resolve(c)
	if d == nil {
		return
	}
	ack, err := d.SetInputChannel(c.Request.Context(), req.Label, req.ShowOSD)
	h.respondAck(c, ack, err)
}

// ListInputs lists the input labels of the display's protocol
// @Summary List input channels
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=object{inputs=[]string}} "Inputs listed"
// @Router /displays/inputs [get]
func (h *DisplayHandler) ListInputs(c *gin.Context) {
	d := h.resolve(c)
	if d == nil {
		return
	}
	inputs := d.InputChannels()
	if inputs == nil {
		inputs = []string{}
	}
	utils.SuccessResponse(c, http.StatusOK, "Inputs listed", gin.H{"inputs": inputs})
}

// GetKeyLock returns the local keyboard lock
// @Summary Get key lock
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=object{state=string}} "Lock state retrieved"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/lock/keys [get]
func (h *DisplayHandler) GetKeyLock(c *gin.Context) {
	h.getLock(c, display.Display.KeyLock)
}

// SetKeyLock sets the local keyboard lock
// @Summary Set key lock
// @Tags Displays
// @Accept json
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Param request body StateRequest true "Lock state: none, all, all_but_power, ..."
// @Success 200 {object} utils.APIResponse{data=object{ack=bool}} "Command sent"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/lock/keys [put]
func (h *DisplayHandler) SetKeyLock(c *gin.Context) {
	h.setLock(c, display.Display.SetKeyLock)
}

// GetIRLock returns the IR remote lock
// @Summary Get IR remote lock
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=object{state=string}} "Lock state retrieved"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/lock/ir [get]
func (h *DisplayHandler) GetIRLock(c *gin.Context) {
	h.getLock(c, display.Display.IRRemoteLock)
}

// SetIRLock sets the IR remote lock
// @Summary Set IR remote lock
// @Tags Displays
// @Accept json
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Param request body StateRequest true "Lock state: none, all, ..."
// @Success 200 {object} utils.APIResponse{data=object{ack=bool}} "Command sent"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/lock/ir [put]
func (h *DisplayHandler) SetIRLock(c *gin.Context) {
	h.setLock(c, display.Display.SetIRRemoteLock)
}

func (h *DisplayHandler) getLock(c *gin.Context, get func(display.Display, context.Context) (display.Lock, error)) {
	d := h.resolve(c)
	if d == nil {
		return
	}
	state, err := get(d, c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get lock state", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Lock state retrieved", gin.H{"state": state})
}

func (h *DisplayHandler) setLock(c *gin.Context, set func(display.Display, context.Context, display.Lock) (bool, error)) {
	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	state, err := display.ParseLock(req.State)
	if err != nil {
		respondError(c, h.logger, "Invalid lock state", err)
		return
	}
	d := h.resolve(c)
	if d == nil {
		return
	}
	ack, err := set(d, c.Request.Context(), state)
	h.respondAck(c, ack, err)
}

// GetAutoDetect returns the automatic input detection mode
// @Summary Get auto detect mode
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=object{mode=string}} "Mode retrieved"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/autodetect [get]
func (h *DisplayHandler) GetAutoDetect(c *gin.Context) {
	d := h.resolve(c)
	if d == nil {
		return
	}
	mode, err := d.AutoDetectInput(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get auto detect mode", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Mode retrieved", gin.H{"mode": mode})
}

// SetAutoDetect sets the automatic input detection mode
// @Summary Set auto detect mode
// @Tags Displays
// @Accept json
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Param request body AutoDetectRequest true "Mode: off, on, all, failover"
// @Success 200 {object} utils.APIResponse{data=object{ack=bool}} "Command sent"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/autodetect [put]
func (h *DisplayHandler) SetAutoDetect(c *gin.Context) {
	var req AutoDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	mode, err := display.ParseAutoDetect(req.Mode)
	if err != nil {
		respondError(c, h.logger, "Invalid auto detect mode", err)
		return
	}
	d := h.resolve(c)
	if d == nil {
		return
	}
	ack, err := d.SetAutoDetectInput(c.Request.Context(), mode)
	h.respondAck(c, ack, err)
}

// GetFailover returns the failover input order
// @Summary Get failover inputs
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=object{codes=[]int}} "Failover order retrieved"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/failover [get]
func (h *DisplayHandler) GetFailover(c *gin.Context) {
	d := h.resolve(c)
	if d == nil {
		return
	}
	raw, err := d.FailoverInputs(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get failover inputs", err)
		return
	}
	codes := make([]int, len(raw))
	for i, b := range raw {
		codes[i] = int(b)
	}
	utils.SuccessResponse(c, http.StatusOK, "Failover order retrieved", gin.H{"codes": codes})
}

// SetFailover writes the failover input order
// @Summary Set failover inputs
// @Description The list is padded or truncated to the length the display reports
// @Tags Displays
// @Accept json
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Param request body FailoverRequest true "Source codes in priority order"
// @Success 200 {object} utils.APIResponse{data=object{ack=bool}} "Command sent"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/failover [put]
func (h *DisplayHandler) SetFailover(c *gin.Context) {
	var req FailoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	codes := make([]byte, len(req.Codes))
	for i, code := range req.Codes {
		if code < 0 || code > 0xFF {
			respondError(c, h.logger, "Invalid source code",
				fmt.Errorf("%w: source code %d", display.ErrCommandArgumentsInvalid, code))
			return
		}
		codes[i] = byte(code)
	}
	d := h.resolve(c)
	if d == nil {
		return
	}
	ack, err := d.SetFailoverInputs(c.Request.Context(), codes)
	h.respondAck(c, ack, err)
}

// Adjust steps a picture or audio attribute
// @Summary Adjust attribute
// @Tags Displays
// @Accept json
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Param request body AdjustRequest true "Attribute (volume, brightness, contrast, sharpness) and direction (up, down)"
// @Success 200 {object} utils.APIResponse{data=object{ack=bool}} "Command sent"
// @Failure 501 {object} utils.APIResponse "Not supported by the vendor"
// @Router /displays/adjust [post]
func (h *DisplayHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	attribute, direction, err := display.ParseAdjustment(req.Attribute, req.Direction)
	if err != nil {
		respondError(c, h.logger, "Invalid adjustment", err)
		return
	}
	d := h.resolve(c)
	if d == nil {
		return
	}
	ack, err := d.Adjust(c.Request.Context(), attribute, direction)
	h.respondAck(c, ack, err)
}

// GetIdentity returns the identity fields the display reports
// @Summary Get identity
// @Tags Displays
// @Produce json
// @Param port query string true "Serial port"
// @Param vendor query string true "Vendor key"
// @Param id query int false "Display id"
// @Success 200 {object} utils.APIResponse{data=display.Identity} "Identity retrieved"
// @Failure 502 {object} utils.APIResponse "Transport error"
// @Router /displays/identity [get]
func (h *DisplayHandler) GetIdentity(c *gin.Context) {
	var addr service.Address
	if err := c.ShouldBindQuery(&addr); err != nil {
		utils.ValidationErrorResponse(c, map[string]string{"query": err.Error()})
		return
	}
	identity, err := h.displayService.Identity(c.Request.Context(), addr)
	if err != nil {
		respondError(c, h.logger, "Failed to get identity", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Identity retrieved", identity)
}
