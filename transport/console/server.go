package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

type uGame interface {
	StartNewGame(ctx context.Context) (*entity.Match, error)
	SubmitMove(ctx context.Context, row, col int) (*entity.Match, error)
	AcknowledgeResult(ctx context.Context) (*entity.Match, error)
	Snapshot(ctx context.Context) (*entity.Match, error)
}

type handler func(ctx context.Context) (*entity.Match, error)

// Console is the terminal front end: it turns typed lines into game events and
// renders the match after each of them.
type Console struct {
	logger *slog.Logger
	uGame  uGame

	in     io.Reader
	output *termenv.Output

	handlers map[string]handler
}

func New(logger *slog.Logger, uGame uGame, in io.Reader, output *termenv.Output) *Console {
	console := &Console{
		logger: logger.With("component", "console"),
		uGame:  uGame,
		in:     in,
		output: output,
	}

	console.handlers = map[string]handler{
		"new":  console.handleNewGame,
		"n":    console.handleNewGame,
		"done": console.handleAcknowledge,
		"ok":   console.handleAcknowledge,
		"show": console.handleShow,
	}

	return console
}

// Start renders the current match and processes commands until quit, end of
// input or ctx cancellation.
func (that *Console) Start(ctx context.Context) error {
	log := that.logger.With("method", "Start")

	match, err := that.uGame.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}

	that.render(match)

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go readLines(that.in, lines, readErr, stop)

	for {
		that.prompt()

		select {
		case <-ctx.Done():
			return nil
		case err = <-readErr:
			return fmt.Errorf("failed to read input: %w", err)
		case line, ok := <-lines:
			if !ok {
				log.Info("input closed")
				return nil
			}

			quit, err := that.handleLine(ctx, line)
			if err != nil {
				return err
			}

			if quit {
				log.Info("quit requested")
				return nil
			}
		}
	}
}

func (that *Console) handleLine(ctx context.Context, line string) (bool, error) {
	log := that.logger.With("method", "handleLine")

	command := strings.ToLower(strings.TrimSpace(line))

	switch command {
	case "":
		return false, nil
	case "quit", "q", "exit":
		return true, nil
	case "help", "h", "?":
		that.printHelp()
		return false, nil
	}

	var (
		match *entity.Match
		err   error
	)

	if handle, ok := that.handlers[command]; ok {
		match, err = handle(ctx)
	} else {
		row, col, parseErr := parseMove(command)
		if parseErr != nil {
			that.printHint(parseErr.Error())
			return false, nil
		}

		match, err = that.uGame.SubmitMove(ctx, row, col)
	}

	if err != nil {
		log.Error("failed to process command", "command", command, "error", err)
		return false, fmt.Errorf("failed to process %q: %w", command, err)
	}

	that.render(match)

	return false, nil
}

func (that *Console) handleNewGame(ctx context.Context) (*entity.Match, error) {
	return that.uGame.StartNewGame(ctx)
}

func (that *Console) handleAcknowledge(ctx context.Context) (*entity.Match, error) {
	return that.uGame.AcknowledgeResult(ctx)
}

func (that *Console) handleShow(ctx context.Context) (*entity.Match, error) {
	return that.uGame.Snapshot(ctx)
}

func (that *Console) prompt() {
	fmt.Fprint(that.output, "> ")
}

func (that *Console) printHint(hint string) {
	fmt.Fprintln(that.output, that.output.String(hint).Faint().String())
}

func (that *Console) printHelp() {
	fmt.Fprintln(that.output, strings.Join([]string{
		"commands:",
		"  new, n          start a new game",
		"  <row> <col>     mark a cell, rows and columns go from 0 to 2 (also <row>,<col>)",
		"  done, ok        close the finished game and start the next one",
		"  show            draw the board again",
		"  quit, q         leave",
	}, "\n"))
}

func readLines(in io.Reader, lines chan<- string, readErr chan<- error, stop <-chan struct{}) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-stop:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		readErr <- err
		return
	}

	close(lines)
}
