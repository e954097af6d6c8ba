package apperror

import "errors"

var (
	ErrOutOfBounds            = errors.New("cell coordinates are out of bounds")
	ErrInvalidMark            = errors.New("invalid cell mark")
	ErrIllegalMove            = errors.New("illegal move")
	ErrCellOccupied           = errors.New("cell is already occupied")
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")
	ErrInconsistentBoard      = errors.New("board is inconsistent with the game phase")
	ErrInvalidSnapshot        = errors.New("invalid match snapshot")
)
