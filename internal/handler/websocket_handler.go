// internal/handler/websocket_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"display-service/internal/service"
	"display-service/internal/utils"
)

// scanTimeout bounds scans started from a WebSocket client
const scanTimeout = 15 * time.Minute

// WebSocketHandler streams discovery events to WebSocket clients
type WebSocketHandler struct {
	upgrader         websocket.Upgrader
	connections      *ConnectionManager
	discoveryService *service.DiscoveryService
	events           *ScanEvents
	logger           *utils.ServiceLogger
}

// NewWebSocketHandler creates a new WebSocket handler forwarding every
// discovery event published on bus
func NewWebSocketHandler(
	discoveryService *service.DiscoveryService,
	bus *EventBus,
	allowedOrigins []string,
	logger *zap.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		connections:      NewConnectionManager(),
		discoveryService: discoveryService,
		events:           NewScanEvents(bus, "websocket"),
		logger:           utils.NewServiceLogger(logger, "websocket-handler"),
	}

	go handler.forward(bus.SubscribeMany(EventScanStarted, EventDisplayFound, EventScanCompleted, EventScanFailed))

	return handler
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/discovery", h.HandleDiscoveryConnection)
	router.GET("/discovery/stats", h.GetStats)
}

// HandleDiscoveryConnection upgrades a discovery event stream connection
// @Summary Discovery event stream
// @Description Streams scan.started, display.found, scan.completed and scan.failed events. Send {"type":"scan","data":{"vendor":"all"}} to start a scan.
// @Tags Discovery
// @Router /ws/discovery [get]
func (h *WebSocketHandler) HandleDiscoveryConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Discovery WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("remote_addr", client.RemoteAddr),
	)

	if last := h.discoveryService.LastScan(); last != nil {
		h.sendMessage(client, &WebSocketMessage{Type: "last_scan", Data: last, Timestamp: time.Now()})
	}

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// forward relays bus events to every client
func (h *WebSocketHandler) forward(events <-chan Event) {
	for event := range events {
		message, err := json.Marshal(&WebSocketMessage{
			Type:      event.Type,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		if err != nil {
			h.logger.Error("Failed to marshal event", zap.Error(err))
			continue
		}
		for _, id := range h.connections.Broadcast(message) {
			h.logger.Warn("Client send channel full during broadcast", zap.String("client_id", id))
		}
	}
}

// handleClientRead handles reading messages from WebSocket client
func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.connections.Unregister(client)
		client.Connection.Close()
	}()

	client.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			break
		}

		var message WebSocketMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			h.sendError(client, "invalid message")
			continue
		}

		h.handleClientMessage(client, &message)
	}
}

// handleClientWrite handles writing messages to WebSocket client
func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleClientMessage handles incoming client messages
func (h *WebSocketHandler) handleClientMessage(client *Client, message *WebSocketMessage) {
	switch message.Type {
	case "scan":
		vendor := "all"
		if data, ok := message.Data.(map[string]interface{}); ok {
			if v, ok := data["vendor"].(string); ok && v != "" {
				vendor = v
			}
		}
		go h.runScan(client, vendor)
	case "ping":
		h.sendMessage(client, &WebSocketMessage{
			Type:      "pong",
			Timestamp: time.Now(),
			RequestID: message.RequestID,
		})
	default:
		h.sendError(client, "unknown message type: "+message.Type)
	}
}

// runScan runs a scan whose progress reaches clients through the bus. A
// scan rejected because another is running is reported to client only.
func (h *WebSocketHandler) runScan(client *Client, vendor string) {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	result, err := h.discoveryService.Scan(ctx, vendor, h.events.Hooks())
	if errors.Is(err, service.ErrScanInProgress) {
		// the client may have disconnected while the scan was refused
		message, _ := json.Marshal(&WebSocketMessage{
			Type:      "error",
			Data:      map[string]interface{}{"error": err.Error()},
			Timestamp: time.Now(),
		})
		h.connections.SendTo(client.ID, message)
		return
	}
	h.events.Finished(result, err)
}

// sendMessage sends a message to a client
func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		h.logger.Warn("Client send channel full, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}

// sendError sends an error message to a client
func (h *WebSocketHandler) sendError(client *Client, errorMsg string) {
	h.sendMessage(client, &WebSocketMessage{
		Type:      "error",
		Data:      map[string]interface{}{"error": errorMsg},
		Timestamp: time.Now(),
	})
}

// GetStats lists the connected discovery stream clients
// @Summary Discovery stream clients
// @Tags Discovery
// @Produce json
// @Success 200 {object} utils.APIResponse{data=ConnectionStats} "Clients listed"
// @Router /ws/discovery/stats [get]
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "WebSocket clients retrieved", h.connections.GetStats())
}
