// Package server exposes the dashboard view to browsers.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradeboard/chart"
	"github.com/rustyeddy/tradeboard/config"
	"github.com/rustyeddy/tradeboard/dashboard"
	"github.com/rustyeddy/tradeboard/table"
)

// Dashboard is what the HTTP surface reads and drives.
type Dashboard interface {
	Snapshot() dashboard.View
	Sort(tableID, field string) (table.Order, error)
	SetRange(r chart.Range) error
	Refresh(ctx context.Context) error
	Ready() bool
	Subscribe() (<-chan uint64, func())
}

// Pages serves rendered chart pages by handle.
type Pages interface {
	HTML(h chart.Handle) ([]byte, bool)
}

type Server struct {
	cfg    config.ServerConfig
	dash   Dashboard
	pages  Pages
	health *Health
	log    *zap.Logger
	engine *gin.Engine
	srv    *http.Server
}

func New(cfg config.ServerConfig, dash Dashboard, pages Pages, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	s := &Server{
		cfg:    cfg,
		dash:   dash,
		pages:  pages,
		health: NewHealth(),
		log:    log,
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLog())
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/", s.index)
	r.GET("/chart", s.chartPage)
	r.GET("/ws", s.serveWS)
	r.GET("/healthz", s.healthz)
	r.GET("/readyz", s.readyz)

	api := r.Group("/api")
	api.GET("/view", s.view)
	api.POST("/tables/:table/sort", s.sort)
	api.POST("/chart/range/:range", s.setRange)
	api.POST("/refresh", s.refresh)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Health() *Health { return s.health }

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.srv = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server error", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

func (s *Server) view(c *gin.Context) {
	ok(c, s.dash.Snapshot(), nil)
}

func (s *Server) sort(c *gin.Context) {
	tableID := c.Param("table")
	field := c.Query("field")
	if field == "" {
		fail(c, http.StatusBadRequest, "field is required")
		return
	}
	order, err := s.dash.Sort(tableID, field)
	switch {
	case errors.Is(err, dashboard.ErrUnknownTable), errors.Is(err, table.ErrUnknownColumn):
		fail(c, http.StatusNotFound, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, s.dash.Snapshot(), map[string]any{"table": tableID, "field": field, "order": order})
}

func (s *Server) setRange(c *gin.Context) {
	r, err := chart.ParseRange(c.Param("range"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.dash.SetRange(r); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, s.dash.Snapshot().Chart, nil)
}

// refresh runs a cycle on demand. Per-kind failures are reported in meta;
// the cycle itself still counts as done.
func (s *Server) refresh(c *gin.Context) {
	var meta map[string]any
	if err := s.dash.Refresh(c.Request.Context()); err != nil {
		s.log.Warn("manual refresh", zap.Error(err))
		meta = map[string]any{"error": err.Error()}
	}
	ok(c, s.dash.Snapshot(), meta)
}

func (s *Server) chartPage(c *gin.Context) {
	h := s.dash.Snapshot().Chart.Handle
	if h == "" || s.pages == nil {
		fail(c, http.StatusNotFound, "no chart rendered yet")
		return
	}
	page, found := s.pages.HTML(h)
	if !found {
		fail(c, http.StatusNotFound, "chart expired")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ready":     s.dash.Ready(),
		"uptimeSec": int64(s.health.Uptime().Seconds()),
		"wsClients": s.health.WSClients(),
		"pushes":    s.health.Pushes(),
		"cycle":     s.dash.Snapshot().Cycle,
	})
}

func (s *Server) readyz(c *gin.Context) {
	if !s.dash.Ready() {
		c.String(http.StatusServiceUnavailable, "not ready")
		return
	}
	c.String(http.StatusOK, "ready")
}
