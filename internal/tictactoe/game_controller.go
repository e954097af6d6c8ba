package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

// TransitionListener is called after every phase change.
type TransitionListener func(from, to entity.Phase)

type Option func(*GameController)

func WithTransitionListener(listener TransitionListener) Option {
	return func(that *GameController) {
		that.listener = listener
	}
}

// GameController owns the phase and the board of the live match. It is not
// safe for concurrent use; callers serialize events before reaching it.
type GameController struct {
	phase    entity.Phase
	board    entity.Board
	moves    int
	listener TransitionListener
}

func NewGameController(opts ...Option) *GameController {
	controller := &GameController{
		phase: entity.BeforeGame,
		board: entity.NewBoard(),
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// StartNewGame builds a fresh board and hands the first turn to X.
func (that *GameController) StartNewGame() error {
	if that.phase != entity.BeforeGame {
		return fmt.Errorf("%w: cannot start a game in phase %s", apperror.ErrInvalidPhaseTransition, that.phase)
	}

	that.resetBoard()
	that.transition(entity.TurnX)

	return nil
}

// SubmitMove places the mark of the player to move at (row, col) and resolves
// the next phase. Moves outside a turn or on an occupied cell change nothing.
func (that *GameController) SubmitMove(row, col int) error {
	if _, err := that.board.Get(row, col); err != nil {
		return err
	}

	if !that.phase.IsTurn() {
		return fmt.Errorf("%w: no turn in phase %s", apperror.ErrIllegalMove, that.phase)
	}

	mover := that.phase.Mover()

	placed, err := that.board.Place(row, col, mover)
	if err != nil {
		return fmt.Errorf("failed to place mark: %w", err)
	}

	if !placed {
		return fmt.Errorf("%w: %w at row %d, col %d", apperror.ErrIllegalMove, apperror.ErrCellOccupied, row, col)
	}

	that.moves++

	next, err := resolveNextPhase(that.phase, Evaluate(that.board))
	if err != nil {
		return err
	}

	that.transition(next)

	return nil
}

// AcknowledgeResult closes a finished match and immediately starts the next one.
func (that *GameController) AcknowledgeResult() error {
	if !that.phase.IsTerminal() {
		return fmt.Errorf("%w: nothing to acknowledge in phase %s", apperror.ErrInvalidPhaseTransition, that.phase)
	}

	that.transition(entity.BeforeGame)

	return that.StartNewGame()
}

// Restore re-seats a previously saved phase and board. The snapshot must be
// reachable through alternating legal play.
func (that *GameController) Restore(phase entity.Phase, board entity.Board) error {
	if err := validateSnapshot(phase, board); err != nil {
		return err
	}

	that.board = board
	that.moves = board.Count(entity.MarkX) + board.Count(entity.MarkO)

	if phase != that.phase {
		that.transition(phase)
	}

	return nil
}

func (that *GameController) CurrentPhase() entity.Phase {
	return that.phase
}

func (that *GameController) CellAt(row, col int) (entity.CellMark, error) {
	return that.board.Get(row, col)
}

// Board returns a copy of the board.
func (that *GameController) Board() entity.Board {
	return that.board
}

// Moves returns the number of marks placed in the current match.
func (that *GameController) Moves() int {
	return that.moves
}

func (that *GameController) resetBoard() {
	that.board = entity.NewBoard()
	that.moves = 0
}

func (that *GameController) transition(to entity.Phase) {
	from := that.phase
	that.phase = to

	if that.listener != nil {
		that.listener(from, to)
	}
}

func resolveNextPhase(current entity.Phase, outcome Outcome) (entity.Phase, error) {
	mover := current.Mover()

	switch outcome {
	case OutcomeNone:
		if current == entity.TurnX {
			return entity.TurnO, nil
		}
		return entity.TurnX, nil
	case OutcomeDraw:
		return entity.Draw, nil
	case OutcomeWinX, OutcomeWinO:
		if outcome.Winner() != mover {
			return current, fmt.Errorf("%w: %s won on a move by %s", apperror.ErrInconsistentBoard, outcome.Winner(), mover)
		}

		if mover == entity.MarkX {
			return entity.WinX, nil
		}
		return entity.WinO, nil
	default:
		return current, fmt.Errorf("%w: unknown outcome %d", apperror.ErrInconsistentBoard, outcome)
	}
}

func validateSnapshot(phase entity.Phase, board entity.Board) error {
	for row := range board {
		for col := range board[row] {
			if !board[row][col].IsValid() {
				return fmt.Errorf("%w: invalid mark at row %d, col %d", apperror.ErrInvalidSnapshot, row, col)
			}
		}
	}

	xCount, oCount := board.Count(entity.MarkX), board.Count(entity.MarkO)
	if xCount != oCount && xCount != oCount+1 {
		return fmt.Errorf("%w: %d X marks against %d O marks", apperror.ErrInvalidSnapshot, xCount, oCount)
	}

	outcome := Evaluate(board)

	var expected entity.Phase

	switch {
	case phase == entity.BeforeGame:
		if !board.IsEmpty() {
			return fmt.Errorf("%w: board is not empty before the game", apperror.ErrInvalidSnapshot)
		}
		return nil
	case outcome == OutcomeWinX && xCount == oCount+1:
		expected = entity.WinX
	case outcome == OutcomeWinO && xCount == oCount:
		expected = entity.WinO
	case outcome == OutcomeDraw:
		expected = entity.Draw
	case outcome == OutcomeNone && xCount == oCount:
		expected = entity.TurnX
	case outcome == OutcomeNone:
		expected = entity.TurnO
	default:
		return fmt.Errorf("%w: %s cannot win with %d X and %d O marks", apperror.ErrInvalidSnapshot, outcome.Winner(), xCount, oCount)
	}

	if phase != expected {
		return fmt.Errorf("%w: phase %s does not match board, expected %s", apperror.ErrInvalidSnapshot, phase, expected)
	}

	return nil
}
