package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/geoguess/internal/config"
	"github.com/cory-johannsen/geoguess/internal/game/chat"
	"github.com/cory-johannsen/geoguess/internal/game/room"
)

// Server is the HTTP surface: the websocket upgrade endpoint and the
// unauthenticated liveness probe.
type Server struct {
	cfg       config.Config
	hub       *Hub
	registry  *room.Registry
	lobby     *Lobby
	logger    *zap.Logger
	http      *http.Server
	startTime time.Time
}

// NewServer wires the gateway's HTTP routes.
//
// Precondition: hub, registry, lobby, and logger must be non-nil.
func NewServer(cfg config.Config, hub *Hub, registry *room.Registry, lobby *Lobby, logger *zap.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		hub:       hub,
		registry:  registry,
		lobby:     lobby,
		logger:    logger,
		startTime: time.Now(),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/ws", s.handleWebsocket)
	engine.GET("/healthz", s.handleHealthz)

	s.http = &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: engine,
	}
	return s
}

// Start runs the HTTP listener. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("gateway listening", zap.String("addr", s.cfg.Server.Addr()))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully within the configured timeout.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Warn("gateway shutdown", zap.Error(err))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Identity is an ephemeral per-connection UUID; there is no origin-bound
	// credential to protect, so cross-origin upgrades are allowed.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) handleWebsocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			zap.String("remote", c.ClientIP()),
			zap.Error(err),
		)
		return
	}

	id := uuid.NewString()
	conn := NewConn(ws, s.cfg.Game.ClientBuffer, s.logger)
	s.hub.Register(id, conn)

	session := NewSession(id, s.hub, s.registry, s.lobby, s.logger)

	s.logger.Info("client connected",
		zap.String("connection", chat.DisplayName(id)),
		zap.String("remote", c.ClientIP()),
	)

	go conn.WritePump()
	session.HandleConnect()
	conn.ReadPump(session)

	s.logger.Info("client disconnected", zap.String("connection", chat.DisplayName(id)))
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(s.startTime).Round(time.Second).String(),
		"rooms":       s.registry.Count(),
		"connections": s.hub.ConnectionCount(),
	})
}
