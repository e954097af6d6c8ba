package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
)

// BoardSize is the number of rows and columns of the board.
const BoardSize = 3

// Board is the 3x3 grid of marks for one match, indexed by (row, col).
type Board [BoardSize][BoardSize]CellMark

func NewBoard() Board {
	return Board{}
}

// Place puts mark on an empty cell. An occupied cell is left untouched and
// reported with placed == false.
func (that *Board) Place(row, col int, mark CellMark) (bool, error) {
	if err := checkBounds(row, col); err != nil {
		return false, err
	}

	if mark != MarkX && mark != MarkO {
		return false, fmt.Errorf("%w: cannot place %q", apperror.ErrInvalidMark, mark)
	}

	if that[row][col] != Empty {
		return false, nil
	}

	that[row][col] = mark

	return true, nil
}

func (that Board) Get(row, col int) (CellMark, error) {
	if err := checkBounds(row, col); err != nil {
		return Empty, err
	}

	return that[row][col], nil
}

// Count returns how many cells hold mark.
func (that Board) Count(mark CellMark) int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				count++
			}
		}
	}

	return count
}

func (that Board) IsFull() bool {
	return that.Count(Empty) == 0
}

func (that Board) IsEmpty() bool {
	return that.Count(Empty) == BoardSize*BoardSize
}

func checkBounds(row, col int) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	return nil
}
