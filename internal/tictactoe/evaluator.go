package tictactoe

import "github.com/rocketscienceinc/tictactoe-core/internal/entity"

// Outcome is the result of evaluating a board.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeWinX
	OutcomeWinO
	OutcomeDraw
)

func (that Outcome) String() string {
	switch that {
	case OutcomeWinX:
		return "winner_x"
	case OutcomeWinO:
		return "winner_o"
	case OutcomeDraw:
		return "draw"
	default:
		return "none"
	}
}

// Winner returns the winning mark, Empty for None and Draw.
func (that Outcome) Winner() entity.CellMark {
	switch that {
	case OutcomeWinX:
		return entity.MarkX
	case OutcomeWinO:
		return entity.MarkO
	default:
		return entity.Empty
	}
}

// Cell is a (row, col) board coordinate.
type Cell struct {
	Row int
	Col int
}

// Line is three cells that win the match when they hold the same mark.
type Line [3]Cell

// WinLines are checked in this order: rows top to bottom, columns left to
// right, then the diagonals starting at (0,0) and (0,2).
var WinLines = [8]Line{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Evaluate reports whether the board is won, drawn or still open.
func Evaluate(board entity.Board) Outcome {
	if line, ok := WinningLine(board); ok {
		if board[line[0].Row][line[0].Col] == entity.MarkX {
			return OutcomeWinX
		}
		return OutcomeWinO
	}

	if board.IsFull() {
		return OutcomeDraw
	}

	return OutcomeNone
}

// WinningLine returns the first line, in WinLines order, held entirely by one player.
func WinningLine(board entity.Board) (Line, bool) {
	for _, line := range WinLines {
		a := board[line[0].Row][line[0].Col]
		b := board[line[1].Row][line[1].Col]
		c := board[line[2].Row][line[2].Col]

		if a != entity.Empty && a == b && b == c {
			return line, true
		}
	}

	return Line{}, false
}
