package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dimaq12/minesweeper/game"
	"github.com/dimaq12/minesweeper/models"
)

const writeWait = 10 * time.Second

type presetRequest struct {
	Preset string `json:"preset" binding:"required"`
}

type cellRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

type gameResponse struct {
	ID   string    `json:"id"`
	Game game.View `json:"game"`
}

type flagResponse struct {
	ID    string    `json:"id"`
	Delta int       `json:"delta"`
	Game  game.View `json:"game"`
}

func (s *Server) listPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": s.presets})
}

func (s *Server) getBest(c *gin.Context) {
	preset, err := s.presets.Lookup(c.Param("preset"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	seconds, ok, err := s.store.Best(c.Request.Context(), preset.Name)
	if err != nil {
		s.log.WithError(err).WithField("preset", preset.Name).Warn("could not load best time")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "best time store unavailable"})
		return
	}

	resp := gin.H{"preset": preset.Name, "best": nil, "best_text": "—"}
	if ok {
		resp["best"] = seconds
		resp["best_text"] = game.FormatTime(seconds)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) bindPreset(c *gin.Context) (models.Preset, bool) {
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return models.Preset{}, false
	}
	preset, err := s.presets.Lookup(req.Preset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Preset{}, false
	}
	return preset, true
}

func (s *Server) createGame(c *gin.Context) {
	preset, ok := s.bindPreset(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var view game.View
	id := s.sessions.Create(func(id string) *game.MinesweeperService {
		svc := s.newService(id)
		svc.NewGame(ctx, preset)
		view = svc.View()
		return svc
	})

	c.JSON(http.StatusCreated, gameResponse{ID: id, Game: view})
}

// withGame runs fn on the session named in the path and replies 404 when
// it does not exist.
func (s *Server) withGame(c *gin.Context, fn func(svc *game.MinesweeperService)) bool {
	err := s.sessions.With(c.Param("id"), fn)
	if errors.Is(err, ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return false
	}
	return true
}

func (s *Server) getGame(c *gin.Context) {
	var view game.View
	if s.withGame(c, func(svc *game.MinesweeperService) { view = svc.View() }) {
		c.JSON(http.StatusOK, gameResponse{ID: c.Param("id"), Game: view})
	}
}

func (s *Server) deleteGame(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) openCell(c *gin.Context) {
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	var view game.View
	if s.withGame(c, func(svc *game.MinesweeperService) {
		svc.Open(ctx, *req.Row, *req.Col)
		view = svc.View()
	}) {
		c.JSON(http.StatusOK, gameResponse{ID: c.Param("id"), Game: view})
	}
}

func (s *Server) toggleFlag(c *gin.Context) {
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	var (
		delta int
		view  game.View
	)
	if s.withGame(c, func(svc *game.MinesweeperService) {
		delta = svc.ToggleFlag(*req.Row, *req.Col)
		view = svc.View()
	}) {
		c.JSON(http.StatusOK, flagResponse{ID: c.Param("id"), Delta: delta, Game: view})
	}
}

func (s *Server) restartGame(c *gin.Context) {
	ctx := c.Request.Context()
	var view game.View
	if s.withGame(c, func(svc *game.MinesweeperService) {
		svc.Restart(ctx)
		view = svc.View()
	}) {
		c.JSON(http.StatusOK, gameResponse{ID: c.Param("id"), Game: view})
	}
}

func (s *Server) changePreset(c *gin.Context) {
	preset, ok := s.bindPreset(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var view game.View
	if s.withGame(c, func(svc *game.MinesweeperService) {
		svc.NewGame(ctx, preset)
		view = svc.View()
	}) {
		c.JSON(http.StatusOK, gameResponse{ID: c.Param("id"), Game: view})
	}
}

// streamGame upgrades to a websocket and pushes the game view on every tick
// until the client goes away or the session is deleted.
func (s *Server) streamGame(c *gin.Context) {
	id := c.Param("id")
	if err := s.sessions.With(id, func(*game.MinesweeperService) {}); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Incoming messages are ignored; reading keeps control frames flowing
	// and notices the client leaving.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		var view game.View
		if err := s.sessions.With(id, func(svc *game.MinesweeperService) { view = svc.View() }); err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game closed"),
				time.Now().Add(writeWait))
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(gameResponse{ID: id, Game: view}); err != nil {
			s.log.WithError(err).WithField("session", id).Debug("websocket write failed")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
