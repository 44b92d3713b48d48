// Package server exposes the game to a browser front-end as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dimaq12/minesweeper/game"
	"github.com/dimaq12/minesweeper/metrics"
	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/store"
)

type Options struct {
	Presets    models.Presets
	Store      store.BestTimes
	Tick       time.Duration
	SessionTTL time.Duration
	// Registry receives the game metrics and backs /metrics. A fresh one is
	// created when nil.
	Registry *prometheus.Registry
	// BoardOptions are handed to every board the server creates.
	BoardOptions []models.Option
	Log          *logrus.Entry
}

type Server struct {
	engine   *gin.Engine
	sessions *Sessions
	presets  models.Presets
	store    store.BestTimes
	metrics  *metrics.Collector
	tick     time.Duration
	ttl      time.Duration
	boardOps []models.Option
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func New(opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Presets == nil {
		opts.Presets = models.DefaultPresets()
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	collector := metrics.New(opts.Registry)
	s := &Server{
		sessions: NewSessions(opts.SessionTTL, collector),
		presets:  opts.Presets,
		store:    opts.Store,
		metrics:  collector,
		tick:     opts.Tick,
		ttl:      opts.SessionTTL,
		boardOps: opts.BoardOptions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: opts.Log,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/presets", s.listPresets)
	api.GET("/best/:preset", s.getBest)
	api.POST("/games", s.createGame)
	api.GET("/games/:id", s.getGame)
	api.DELETE("/games/:id", s.deleteGame)
	api.POST("/games/:id/open", s.openCell)
	api.POST("/games/:id/flag", s.toggleFlag)
	api.POST("/games/:id/restart", s.restartGame)
	api.POST("/games/:id/preset", s.changePreset)
	api.GET("/games/:id/ws", s.streamGame)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Sessions() *Sessions { return s.sessions }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.RunJanitor(ctx, max(s.ttl/2, time.Second), func(removed int) {
		s.log.WithField("removed", removed).Info("evicted idle sessions")
	})

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) newService(id string) *game.MinesweeperService {
	return game.NewMinesweeperService(
		game.WithStore(s.store),
		game.WithObserver(s.metrics),
		game.WithLogger(s.log.WithField("session", id)),
		game.WithBoardOptions(s.boardOps...),
	)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}
