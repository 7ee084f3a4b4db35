package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"skill-radar/internal/service"
)

const liveWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionHandler mantiene dependencias para endpoints de sesiones compartidas.
type SessionHandler struct {
	logger   *zap.Logger
	sessions *service.SessionService
}

// NewSessionHandler crea una instancia de SessionHandler.
func NewSessionHandler(logger *zap.Logger, sessions *service.SessionService) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{logger: logger, sessions: sessions}
}

// StartSession maneja POST /sessions.
func (h *SessionHandler) StartSession(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	session, err := h.sessions.Start(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, h.logger, "start session", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListSessions maneja GET /sessions.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	sessions, err := h.sessions.List(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.logger, "list sessions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSessionResults maneja GET /sessions/:id.
func (h *SessionHandler) GetSessionResults(c *gin.Context) {
	results, err := h.sessions.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, "load session results", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// LiveSession maneja GET /sessions/:id/live: envia el snapshot de resultados
// al conectar y otra vez tras cada cambio de la sesion.
func (h *SessionHandler) LiveSession(c *gin.Context) {
	sessionID := c.Param("id")
	feed, err := h.sessions.Open(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, h.logger, "load session results", err)
		return
	}
	defer feed.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Solo leemos para detectar el cierre del cliente.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("websocket read error", zap.Error(err))
				}
				return
			}
		}
	}()

	h.logger.Info("session live feed connected", zap.String("session_id", sessionID))
	err = feed.Run(ctx, func(results service.SessionResults) error {
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		return conn.WriteJSON(gin.H{"type": "results", "results": results})
	})
	if err != nil && ctx.Err() == nil {
		h.logger.Warn("session live feed stopped", zap.String("session_id", sessionID), zap.Error(err))
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	h.logger.Info("session live feed disconnected", zap.String("session_id", sessionID))
}
