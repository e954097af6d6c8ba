package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
)

// CellMark is the content of a single board cell.
type CellMark uint8

const (
	Empty CellMark = iota
	MarkX
	MarkO
)

func (that CellMark) String() string {
	switch that {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// IsValid reports whether the value is one of the three known marks.
func (that CellMark) IsValid() bool {
	return that <= MarkO
}

// Opponent returns the other player's mark, Empty for Empty.
func (that CellMark) Opponent() CellMark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return Empty
	}
}

func (that CellMark) MarshalText() ([]byte, error) {
	if !that.IsValid() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidMark, that)
	}

	return []byte(that.String()), nil
}

func (that *CellMark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = Empty
	case "X":
		*that = MarkX
	case "O":
		*that = MarkO
	default:
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, text)
	}

	return nil
}
