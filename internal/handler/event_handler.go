package handler

import (
	"io"
	"net/http"

	"school-service/internal/eventbus"

	"github.com/labstack/echo/v4"
)

// bus is the process-wide event hub, shared by every handler that
// broadcasts entity changes
var bus *eventbus.Bus

// InitEventBus wires the shared event bus into the handler package
func InitEventBus(b *eventbus.Bus) {
	bus = b
}

// EventsStream registers an event subscriber and streams formatted frames
// until the client goes away
func EventsStream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.WriteHeader(http.StatusOK)

	sub := bus.Register()
	defer func() {
		// Unregistration must not block the response teardown
		go bus.Unregister(sub.ID())
	}()

	connected := eventbus.NewEvent(eventbus.EventConnected, "system", echo.Map{
		"client_id": sub.ID(),
	})
	if _, err := io.WriteString(w, connected.SSEFormat()); err != nil {
		return nil
	}
	w.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done():
			return nil
		case frame := <-sub.Frames():
			if _, err := io.WriteString(w, frame); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// ConnectedClientsCount reports the number of attached event subscribers
func ConnectedClientsCount(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"connected_clients": bus.SubscriberCount(),
	})
}
