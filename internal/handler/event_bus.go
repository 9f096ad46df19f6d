// internal/handler/event_bus.go
package handler

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"display-service/internal/discovery"
	"display-service/internal/service"
)

// Discovery event types
const (
	EventScanStarted   = "scan.started"
	EventDisplayFound  = "display.found"
	EventScanCompleted = "scan.completed"
	EventScanFailed    = "scan.failed"
)

// EventBus manages event distribution
type EventBus struct {
	subscribers map[string][]chan Event
	events      chan Event
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// Event represents a system event
type Event struct {
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		subscribers: make(map[string][]chan Event),
		events:      make(chan Event, 1000),
		logger:      logger,
	}
}

// Start distributes published events until the process exits
func (eb *EventBus) Start() {
	for event := range eb.events {
		eb.distributeEvent(event)
	}
}

// Publish publishes an event
func (eb *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case eb.events <- event:
	default:
		eb.logger.Warn("Event bus full, dropping event",
			zap.String("event_type", event.Type),
		)
	}
}

// Subscribe subscribes to events of a specific type
func (eb *EventBus) Subscribe(eventType string) <-chan Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	subscriber := make(chan Event, 100)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
	return subscriber
}

// SubscribeMany returns one channel carrying events of every listed type
// in the order they were published
func (eb *EventBus) SubscribeMany(eventTypes ...string) <-chan Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	subscriber := make(chan Event, 100)
	for _, eventType := range eventTypes {
		eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
	}
	return subscriber
}

// distributeEvent distributes an event to subscribers
func (eb *EventBus) distributeEvent(event Event) {
	eb.mutex.RLock()
	subscribers := eb.subscribers[event.Type]
	eb.mutex.RUnlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

// ScanEvents publishes the lifecycle of discovery scans
type ScanEvents struct {
	bus    *EventBus
	source string
}

// NewScanEvents creates a publisher tagging events with source
func NewScanEvents(bus *EventBus, source string) *ScanEvents {
	return &ScanEvents{bus: bus, source: source}
}

// Hooks returns scan hooks announcing the start and each found display
func (se *ScanEvents) Hooks() service.ScanHooks {
	return service.ScanHooks{
		Started: func(result *service.ScanResult) {
			se.publish(EventScanStarted, map[string]interface{}{
				"scan_id": result.ID,
				"vendor":  result.Vendor,
			})
		},
		Found: func(rec discovery.Record) {
			se.publish(EventDisplayFound, map[string]interface{}{"record": rec})
		},
	}
}

// Finished announces the scan outcome. A scan rejected because another
// one is running never started and is not announced.
func (se *ScanEvents) Finished(result *service.ScanResult, err error) {
	if errors.Is(err, service.ErrScanInProgress) {
		return
	}
	if err != nil {
		data := map[string]interface{}{"error": err.Error()}
		if result != nil {
			data["scan_id"] = result.ID
			data["displays_found"] = len(result.Records)
		}
		se.publish(EventScanFailed, data)
		return
	}
	se.publish(EventScanCompleted, map[string]interface{}{
		"scan_id":        result.ID,
		"vendor":         result.Vendor,
		"displays_found": len(result.Records),
	})
}

func (se *ScanEvents) publish(eventType string, data map[string]interface{}) {
	se.bus.Publish(Event{Type: eventType, Source: se.source, Data: data})
}
