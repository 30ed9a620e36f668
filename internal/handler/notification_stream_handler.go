package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/attenda/attenda-backend/internal/metrics"
	"github.com/attenda/attenda-backend/internal/middleware"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/attenda/attenda-backend/internal/response"
	ws "github.com/attenda/attenda-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// NotificationStreamHandler pushes a user's notifications over a WebSocket
// as soon as they are published on the Redis bus.
type NotificationStreamHandler struct {
	bus      *repository.NotificationBus
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewNotificationStreamHandler creates a new NotificationStreamHandler.
func NewNotificationStreamHandler(bus *repository.NotificationBus, log zerolog.Logger, allowedOrigins []string) *NotificationStreamHandler {
	return &NotificationStreamHandler{
		bus:      bus,
		log:      log.With().Str("component", "notification_stream").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/notifications?token=<JWT>
// All writes happen on this goroutine; the reader only reports pings and
// cancels the stream when the client goes away.
func (h *NotificationStreamHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("user_id", claims.UserID).Logger()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.bus.Subscribe(ctx, claims.UserID)
	defer pubsub.Close()

	// Wait for the subscription confirmation so no publish is missed
	// between "ready" and the first Channel() read.
	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Failed to subscribe to notifications")
		ws.WriteError(conn, "subscription failed")
		return
	}

	metrics.NotificationStreams.Inc()
	defer metrics.NotificationStreams.Dec()
	wsLog.Info().Msg("Notification stream opened")

	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, UserID: claims.UserID}); err != nil {
		return
	}

	pings := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, cancel, pings)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Notification stream closed")
			return

		case msg, ok := <-msgs:
			if !ok {
				return
			}
			out := ws.NotificationResponse{
				Event:        ws.EventNotification,
				Notification: json.RawMessage(msg.Payload),
			}
			if err := ws.WriteTyped(conn, out); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}

		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}

		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

func (h *NotificationStreamHandler) readLoop(conn *websocket.Conn, log zerolog.Logger, cancel context.CancelFunc, pings chan<- struct{}) {
	defer cancel()
	ws.KeepAlive(conn)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			select {
			case pings <- struct{}{}:
			default:
			}
		default:
			log.Debug().Str("action", string(msg.Action)).Msg("Ignoring unknown action")
		}
	}
}
