package game

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dimaq12/minesweeper/logger"
	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/store"
)

// Observer is notified when a game's timer starts and when the game ends.
type Observer interface {
	GameStarted(p models.Preset)
	GameFinished(p models.Preset, status models.GameStatus, elapsed time.Duration)
}

// MinesweeperService wraps the board engine with everything a player sees
// around it: the timer, the mines-left counter and the best time of the
// current preset. It forwards intents to the board and reacts to the status
// transitions the board reports.
//
// Like the board, it is not safe for concurrent use; callers serialise
// access.
type MinesweeperService struct {
	board  *models.Board
	preset models.Preset

	timer       *Timer
	started     bool
	flagsPlaced int

	store   store.BestTimes
	best    int
	hasBest bool

	boardOpts []models.Option
	observers []Observer
	log       *logrus.Entry
}

type ServiceOption func(*MinesweeperService)

func WithClock(c Clock) ServiceOption {
	return func(s *MinesweeperService) { s.timer = NewTimer(c) }
}

func WithStore(st store.BestTimes) ServiceOption {
	return func(s *MinesweeperService) { s.store = st }
}

func WithObserver(o Observer) ServiceOption {
	return func(s *MinesweeperService) { s.observers = append(s.observers, o) }
}

func WithLogger(l *logrus.Entry) ServiceOption {
	return func(s *MinesweeperService) { s.log = l }
}

// WithBoardOptions is passed to every board the service creates.
func WithBoardOptions(opts ...models.Option) ServiceOption {
	return func(s *MinesweeperService) { s.boardOpts = append(s.boardOpts, opts...) }
}

// NewMinesweeperService returns a service with no game. Call NewGame first.
func NewMinesweeperService(opts ...ServiceOption) *MinesweeperService {
	s := &MinesweeperService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.timer == nil {
		s.timer = NewTimer(nil)
	}
	if s.store == nil {
		s.store = store.NewMemory()
	}
	if s.log == nil {
		s.log = logger.Component("game")
	}
	return s
}

// NewGame starts a fresh board for preset and loads its best time.
func (s *MinesweeperService) NewGame(ctx context.Context, preset models.Preset) {
	s.preset = preset
	s.board = preset.NewBoard(s.boardOpts...)
	s.clear()
	s.loadBest(ctx)

	s.log.WithFields(logrus.Fields{
		"preset": preset.Name,
		"rows":   s.board.Rows(),
		"cols":   s.board.Cols(),
		"mines":  s.board.MineCount(),
	}).Debug("new game")
}

// Restart re-mines the current board. Without a board it starts a
// Beginner game.
func (s *MinesweeperService) Restart(ctx context.Context) {
	if s.board == nil {
		s.NewGame(ctx, models.Beginner)
		return
	}
	s.board.Reset()
	s.clear()
	s.log.WithField("preset", s.preset.Name).Debug("game restarted")
}

func (s *MinesweeperService) clear() {
	s.timer.Reset()
	s.started = false
	s.flagsPlaced = 0
}

func (s *MinesweeperService) loadBest(ctx context.Context) {
	s.best, s.hasBest = 0, false
	seconds, ok, err := s.store.Best(ctx, s.preset.Name)
	if err != nil {
		s.log.WithError(err).WithField("preset", s.preset.Name).Warn("could not load best time")
		return
	}
	s.best, s.hasBest = seconds, ok
}

// Open opens a cell. The first open that reaches the board starts the
// timer; a win or loss stops it and a win may record a new best time.
func (s *MinesweeperService) Open(ctx context.Context, row, col int) models.GameStatus {
	if s.board == nil {
		return models.Playing
	}
	if s.board.Status() != models.Playing {
		return s.board.Status()
	}

	cell, ok := s.board.Cell(row, col)
	if !ok || cell.IsRevealed || cell.IsFlagged {
		return s.board.Status()
	}

	if !s.started {
		s.started = true
		s.timer.Start()
		for _, o := range s.observers {
			o.GameStarted(s.preset)
		}
	}

	status := s.board.Open(row, col)
	if status != models.Playing {
		s.finish(ctx, status)
	}
	return status
}

func (s *MinesweeperService) finish(ctx context.Context, status models.GameStatus) {
	s.timer.Stop()
	elapsed := s.timer.Elapsed()
	for _, o := range s.observers {
		o.GameFinished(s.preset, status, elapsed)
	}

	log := s.log.WithFields(logrus.Fields{
		"preset":  s.preset.Name,
		"status":  status.String(),
		"elapsed": s.timer.Seconds(),
	})
	if status != models.Won {
		log.Info("game lost")
		return
	}
	log.Info("game won")
	s.recordBest(ctx, log)
}

func (s *MinesweeperService) recordBest(ctx context.Context, log *logrus.Entry) {
	seconds := s.timer.Seconds()
	improved, err := s.store.Record(ctx, s.preset.Name, seconds)
	if err != nil {
		log.WithError(err).Warn("could not record best time")
		return
	}
	if improved {
		s.best, s.hasBest = seconds, true
		log.Info("new best time")
	}
}

// ToggleFlag flags or unflags a cell and returns the flag delta.
func (s *MinesweeperService) ToggleFlag(row, col int) int {
	if s.board == nil {
		return 0
	}
	delta := s.board.ToggleFlag(row, col)
	s.flagsPlaced += delta
	return delta
}

func (s *MinesweeperService) Preset() models.Preset { return s.preset }

func (s *MinesweeperService) Status() models.GameStatus {
	if s.board == nil {
		return models.Playing
	}
	return s.board.Status()
}

// MinesLeft is the display counter: mines minus placed flags, never below
// zero, and zero once the game is won.
func (s *MinesweeperService) MinesLeft() int {
	if s.board == nil || s.board.Status() == models.Won {
		return 0
	}
	return max(0, s.board.MineCount()-s.flagsPlaced)
}

// Elapsed is the game time in whole seconds.
func (s *MinesweeperService) Elapsed() int { return s.timer.Seconds() }

// Best returns the best time of the current preset.
func (s *MinesweeperService) Best() (int, bool) { return s.best, s.hasBest }

// View snapshots the game for rendering.
func (s *MinesweeperService) View() View {
	if s.board == nil {
		return View{}
	}
	return newView(s)
}
