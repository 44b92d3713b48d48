// Package cli turns command-line arguments into a validated config and
// handles the interactive level prompt.
package cli

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dimaq12/minesweeper/config"
	"github.com/dimaq12/minesweeper/models"
)

// ErrQuit is returned by PromptPreset when the player asks to quit.
var ErrQuit = errors.New("quit")

// ExitError carries the process exit code for a failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns the resolved config, a
// boolean telling the caller to exit cleanly (help was printed), or an
// ExitError.
func Parse(args []string, output io.Writer) (*config.Config, bool, error) {
	flagSet := flag.NewFlagSet("minesweeper", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Minesweeper - terminal game and web API.

Usage:
  minesweeper [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL config file.")
	envFileFlag := flagSet.String("env-file", ".env", "Path to a .env file; missing files are ignored.")
	modeFlag := flagSet.String("mode", "", "Front-end: 'tui' or 'web'.")
	presetFlag := flagSet.String("preset", "", "Difficulty: Beginner, Intermediate or Expert.")
	listenFlag := flagSet.String("listen", "", "Listen address in web mode.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format: 'text' or 'json'.")
	logFileFlag := flagSet.String("log-file", "", "Write logs to this file instead of stderr.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	if err := config.LoadDotEnv(*envFileFlag); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := config.Default()
	if *configFlag != "" {
		if err := cfg.LoadFile(*configFlag); err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	}
	cfg.ApplyEnv()

	overrides := map[string]*string{
		"mode":       &cfg.Mode,
		"preset":     &cfg.DefaultPreset,
		"listen":     &cfg.Server.Listen,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
		"log-file":   &cfg.LogFile,
	}
	values := map[string]*string{
		"mode":       modeFlag,
		"preset":     presetFlag,
		"listen":     listenFlag,
		"log-level":  logLevelFlag,
		"log-format": logFormatFlag,
		"log-file":   logFileFlag,
	}
	flagSet.Visit(func(f *flag.Flag) {
		if dst, ok := overrides[f.Name]; ok {
			*dst = *values[f.Name]
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}

// PromptPreset asks for a level number until it gets a valid one or 'q'.
func PromptPreset(in io.Reader, out io.Writer, presets models.Presets) (models.Preset, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Enter the level (1-%d) or 'q' to quit: ", len(presets))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return models.Preset{}, fmt.Errorf("error reading input: %w", err)
			}
			return models.Preset{}, ErrQuit
		}

		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "q") {
			return models.Preset{}, ErrQuit
		}

		if level, err := strconv.Atoi(input); err == nil {
			if preset, err := presets.Level(level); err == nil {
				return preset, nil
			}
		}
		if preset, err := presets.Lookup(input); err == nil {
			return preset, nil
		}

		fmt.Fprintf(out, "Invalid input. Please enter a level between 1 and %d or 'q' to quit.\n", len(presets))
	}
}
