package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dimaq12/minesweeper/cli"
	"github.com/dimaq12/minesweeper/config"
	"github.com/dimaq12/minesweeper/game"
	"github.com/dimaq12/minesweeper/logger"
	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/server"
	"github.com/dimaq12/minesweeper/store"
)

func main() {
	if err := run(context.Background(), os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logOut, closeLog, err := logOutput(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	if _, err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: logOut}); err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	best, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer best.Close()

	if cfg.Mode == config.ModeWeb {
		return runWeb(ctx, cfg, best)
	}
	return runTerminal(ctx, cfg, best, in, out)
}

// logOutput keeps the terminal UI's screen clean: without a log file its
// logs are dropped.
func logOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if cfg.Mode == config.ModeTUI {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

func runTerminal(ctx context.Context, cfg *config.Config, best store.BestTimes, in io.Reader, out io.Writer) error {
	var (
		preset models.Preset
		err    error
	)
	if cfg.DefaultPreset != "" {
		preset, err = cfg.Presets.Lookup(cfg.DefaultPreset)
	} else {
		preset, err = cli.PromptPreset(in, out, cfg.Presets)
	}
	if errors.Is(err, cli.ErrQuit) {
		fmt.Fprintln(out, "Quitting...")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Level:", preset.Name)

	minesweeperService := game.NewMinesweeperService(
		game.WithStore(best),
		game.WithLogger(logger.Component("game")),
	)
	controller := game.NewGameController(minesweeperService, cfg.Presets, logger.Component("tui"))
	return controller.StartGame(ctx, preset)
}

func runWeb(ctx context.Context, cfg *config.Config, best store.BestTimes) error {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(server.Options{
		Presets:    cfg.Presets,
		Store:      best,
		Tick:       cfg.Server.Tick,
		SessionTTL: cfg.Server.SessionTTL,
		Log:        logger.Component("server"),
	})
	return srv.Run(ctx, cfg.Server.Listen)
}
