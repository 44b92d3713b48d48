package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimaq12/minesweeper/game"
	"github.com/dimaq12/minesweeper/logger"
	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer mines only the bottom right corner of every board.
func newTestServer(t *testing.T) (*Server, store.BestTimes) {
	t.Helper()
	st := store.NewMemory()
	s := New(Options{
		Store:        st,
		Tick:         10 * time.Millisecond,
		BoardOptions: []models.Option{models.WithPlacer(models.FixedPlacer{{Row: 8, Col: 8}})},
		Log:          logger.Discard(),
	})
	return s, st
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func createGame(t *testing.T, s *Server, preset string) gameResponse {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/games", gin.H{"preset": preset})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[gameResponse](t, w)
}

func TestCreateAndPlay(t *testing.T) {
	s, _ := newTestServer(t)

	created := createGame(t, s, "beginner")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Beginner", created.Game.Preset)
	assert.Equal(t, 9, created.Game.Rows)
	assert.Len(t, created.Game.Cells, 9)
	assert.Equal(t, game.CellHidden, created.Game.Cells[8][8].State)
	assert.Equal(t, "playing", created.Game.Status)
	assert.Equal(t, 1, s.Sessions().Len())

	path := "/api/games/" + created.ID
	w := do(t, s, http.MethodPost, path+"/flag", gin.H{"row": 7, "col": 7})
	require.Equal(t, http.StatusOK, w.Code)
	flag := decode[flagResponse](t, w)
	assert.Equal(t, 1, flag.Delta)
	assert.Equal(t, game.CellFlagged, flag.Game.Cells[7][7].State)
	assert.Equal(t, 0, flag.Game.MinesLeft)

	w = do(t, s, http.MethodPost, path+"/flag", gin.H{"row": 7, "col": 7})
	assert.Equal(t, -1, decode[flagResponse](t, w).Delta)

	w = do(t, s, http.MethodPost, path+"/open", gin.H{"row": 0, "col": 0})
	require.Equal(t, http.StatusOK, w.Code)
	won := decode[gameResponse](t, w)
	assert.Equal(t, "won", won.Game.Status)
	assert.Equal(t, game.FaceWin, won.Game.Face)
	assert.Equal(t, game.CellFlagged, won.Game.Cells[8][8].State)
	require.NotNil(t, won.Game.Best)

	w = do(t, s, http.MethodGet, "/api/best/Beginner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"preset":"Beginner","best":0,"best_text":"0:00"}`, w.Body.String())

	// The game is over; further intents are ignored.
	w = do(t, s, http.MethodPost, path+"/flag", gin.H{"row": 8, "col": 8})
	assert.Equal(t, 0, decode[flagResponse](t, w).Delta)

	w = do(t, s, http.MethodPost, path+"/restart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "playing", decode[gameResponse](t, w).Game.Status)

	w = do(t, s, http.MethodPost, path+"/open", gin.H{"row": 8, "col": 8})
	lost := decode[gameResponse](t, w)
	assert.Equal(t, "lost", lost.Game.Status)
	assert.Equal(t, "Game Over", lost.Game.StatusText)
	assert.True(t, lost.Game.Cells[8][8].Hit)

	w = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `minesweeper_games_finished_total{preset="Beginner",status="won"} 1`)
	assert.Contains(t, w.Body.String(), `minesweeper_games_finished_total{preset="Beginner",status="lost"} 1`)
	assert.Contains(t, w.Body.String(), `minesweeper_sessions_active 1`)
}

func TestChangePresetAndDelete(t *testing.T) {
	s, _ := newTestServer(t)
	created := createGame(t, s, "Beginner")
	path := "/api/games/" + created.ID

	w := do(t, s, http.MethodPost, path+"/preset", gin.H{"preset": "Expert"})
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[gameResponse](t, w).Game
	assert.Equal(t, "Expert", v.Preset)
	assert.Equal(t, 16, v.Rows)
	assert.Equal(t, 30, v.Cols)

	w = do(t, s, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Expert", decode[gameResponse](t, w).Game.Preset)

	w = do(t, s, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, s.Sessions().Len())

	w = do(t, s, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, s, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBadRequests(t *testing.T) {
	s, _ := newTestServer(t)
	created := createGame(t, s, "Beginner")
	path := "/api/games/" + created.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown preset", http.MethodPost, "/api/games", gin.H{"preset": "Nightmare"}, http.StatusBadRequest},
		{"missing preset", http.MethodPost, "/api/games", gin.H{}, http.StatusBadRequest},
		{"missing col", http.MethodPost, path + "/open", gin.H{"row": 1}, http.StatusBadRequest},
		{"unknown game", http.MethodPost, "/api/games/nope/open", gin.H{"row": 1, "col": 1}, http.StatusNotFound},
		{"unknown best preset", http.MethodGet, "/api/best/Nightmare", nil, http.StatusNotFound},
		{"unknown game stream", http.MethodGet, "/api/games/nope/ws", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	// Out of bounds cells are a no-op, not an error.
	w := do(t, s, http.MethodPost, path+"/open", gin.H{"row": 99, "col": -1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "playing", decode[gameResponse](t, w).Game.Status)
}

func TestPresetsAndHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/presets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Presets []models.Preset `json:"presets"`
	}](t, w)
	assert.Equal(t, []models.Preset(models.DefaultPresets()), body.Presets)

	w = do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStreamGame(t *testing.T) {
	s, _ := newTestServer(t)
	created := createGame(t, s, "Beginner")

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + created.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var first gameResponse
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, "Beginner", first.Game.Preset)

	w := do(t, s, http.MethodPost, "/api/games/"+created.ID+"/open", gin.H{"row": 0, "col": 0})
	require.Equal(t, http.StatusOK, w.Code)

	// A later tick carries the finished game.
	var next gameResponse
	for next.Game.Status != "won" {
		require.NoError(t, conn.ReadJSON(&next))
	}

	require.Equal(t, http.StatusNoContent, do(t, s, http.MethodDelete, "/api/games/"+created.ID, nil).Code)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			break
		}
	}
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := NewSessions(time.Minute, nil)
	sessions.now = func() time.Time { return now }

	newGame := func(string) *game.MinesweeperService {
		return game.NewMinesweeperService(game.WithLogger(logger.Discard()))
	}
	idle := sessions.Create(newGame)
	active := sessions.Create(newGame)

	now = now.Add(45 * time.Second)
	require.NoError(t, sessions.With(active, func(*game.MinesweeperService) {}))

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, sessions.Sweep())
	assert.ErrorIs(t, sessions.With(idle, func(*game.MinesweeperService) {}), ErrSessionNotFound)
	assert.NoError(t, sessions.With(active, func(*game.MinesweeperService) {}))
}
