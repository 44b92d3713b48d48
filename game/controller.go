package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"github.com/dimaq12/minesweeper/models"
)

// GameController runs the terminal front-end. Every engine call happens on
// the tview event goroutine, so the service needs no locking.
type GameController struct {
	service  *MinesweeperService
	renderer *Renderer
	presets  models.Presets
	app      *tview.Application
	tick     time.Duration
	log      *logrus.Entry
}

func NewGameController(service *MinesweeperService, presets models.Presets, log *logrus.Entry) *GameController {
	return &GameController{
		service:  service,
		renderer: NewRenderer(),
		presets:  presets,
		tick:     time.Second,
		log:      log,
	}
}

// StartGame opens preset and blocks until the player quits or ctx is done.
func (c *GameController) StartGame(ctx context.Context, preset models.Preset) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.app = tview.NewApplication()
	c.service.NewGame(ctx, preset)
	c.renderer.DrawBoard(c.service.View())
	c.renderer.boardTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		return c.handleKey(ctx, event)
	})
	c.app.SetRoot(c.renderer.Layout(), true)

	go c.runTicker(ctx)
	go func() {
		<-ctx.Done()
		c.app.Stop()
	}()

	c.log.WithField("preset", preset.Name).Info("terminal game started")
	return c.app.Run()
}

// runTicker redraws the timer while the game is running.
func (c *GameController) runTicker(ctx context.Context) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.app.QueueUpdateDraw(func() {
				c.renderer.DrawHeader(c.service.View())
			})
		}
	}
}

// handleKey maps keys to intents. Navigation keys fall through to the table.
func (c *GameController) handleKey(ctx context.Context, event *tcell.EventKey) *tcell.EventKey {
	row, col := c.renderer.boardTable.GetSelection()

	switch event.Key() {
	case tcell.KeyEnter:
		c.service.Open(ctx, row, col)
	case tcell.KeyEscape:
		c.TerminateGame()
		return nil
	case tcell.KeyRune:
		switch r := event.Rune(); r {
		case ' ':
			c.service.Open(ctx, row, col)
		case 'f', 'F':
			c.service.ToggleFlag(row, col)
		case 'r', 'R':
			c.service.Restart(ctx)
		case 'q', 'Q':
			c.TerminateGame()
			return nil
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			preset, err := c.presets.Level(int(r - '0'))
			if err != nil {
				return nil
			}
			c.service.NewGame(ctx, preset)
		default:
			return event
		}
	default:
		return event
	}

	c.renderer.DrawBoard(c.service.View())
	return nil
}

func (c *GameController) TerminateGame() {
	c.log.Info("terminating the game")
	c.app.Stop()
}
