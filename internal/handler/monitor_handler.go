package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/insightflow/insightflow-backend/internal/config"
	"github.com/insightflow/insightflow-backend/internal/middleware"
	"github.com/insightflow/insightflow-backend/internal/response"
	"github.com/insightflow/insightflow-backend/internal/service"
)

const (
	monitorPingInterval = 30 * time.Second
	monitorWriteTimeout = 10 * time.Second
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
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

// MonitorHandler streams live response events to questionnaire owners over
// WebSocket, backed by Redis Pub/Sub.
type MonitorHandler struct {
	rdb             *redis.Client
	qnService       *service.QuestionnaireService
	responseService *service.ResponseService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(
	rdb *redis.Client,
	qnService *service.QuestionnaireService,
	responseService *service.ResponseService,
	log zerolog.Logger,
	allowedOrigins []string,
) *MonitorHandler {
	return &MonitorHandler{
		rdb:             rdb,
		qnService:       qnService,
		responseService: responseService,
		log:             log.With().Str("component", "monitor_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// MonitorResponses godoc
// WS /ws/v1/questionnaires/:id/monitor?token=...
// Upgrades to WebSocket and forwards response.received events as they
// arrive. Sends an initial snapshot with the current response total.
func (h *MonitorHandler) MonitorResponses(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Ownership check before the upgrade; errors can still use the envelope.
	if _, err := h.qnService.Get(c.Request.Context(), claims.UserID, id); err != nil {
		failQuestionnaireError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("questionnaire_id", id.String()).
		Str("user_id", claims.UserID.String()).
		Logger()
	wsLog.Info().Msg("Owner attached to live monitor")

	reqCtx := c.Request.Context()

	h.sendSnapshot(reqCtx, conn, id)

	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.ResponseMonitorChannel(id.String()))
	defer pubsub.Close()
	events := pubsub.Channel()

	// Read pump: discard inbound frames, detect disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(monitorPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-reqCtx.Done():
			wsLog.Info().Msg("Owner disconnected from live monitor")
			return

		case <-done:
			wsLog.Info().Msg("Owner closed live monitor connection")
			return

		case msg, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(monitorWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Monitor write failed")
				return
			}

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(monitorWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendSnapshot writes the initial event carrying the current response total.
// The Redis counter is authoritative when present; a cold counter falls
// back to the database and is reseeded.
func (h *MonitorHandler) sendSnapshot(ctx context.Context, conn *websocket.Conn, id uuid.UUID) {
	countKey := config.CacheKey.ResponseCountKey(id.String())
	total, err := h.rdb.Get(ctx, countKey).Int64()
	if err != nil {
		dbTotal, dbErr := h.responseService.CountResponses(ctx, id)
		if dbErr != nil {
			h.log.Warn().Err(dbErr).Msg("Snapshot count failed")
			return
		}
		total = int64(dbTotal)
		if err := h.rdb.Set(ctx, countKey, total, 0).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Counter reseed failed")
		}
	}

	snapshot, _ := json.Marshal(map[string]interface{}{
		"type":            "snapshot",
		"total_responses": total,
	})
	conn.SetWriteDeadline(time.Now().Add(monitorWriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, snapshot); err != nil {
		h.log.Debug().Err(err).Msg("Snapshot write failed")
	}
}
