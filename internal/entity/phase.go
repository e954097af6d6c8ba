package entity

import (
	"errors"
	"fmt"
)

var ErrUnknownPhase = errors.New("unknown game phase")

// Phase is the current state of a match. It decides which moves are legal.
type Phase uint8

const (
	BeforeGame Phase = iota
	TurnX
	TurnO
	WinX
	WinO
	Draw
)

var phaseNames = map[Phase]string{
	BeforeGame: "before_game",
	TurnX:      "turn_x",
	TurnO:      "turn_o",
	WinX:       "win_x",
	WinO:       "win_o",
	Draw:       "draw",
}

func (that Phase) String() string {
	if name, ok := phaseNames[that]; ok {
		return name
	}

	return fmt.Sprintf("phase(%d)", uint8(that))
}

// IsTurn reports whether a player is expected to move.
func (that Phase) IsTurn() bool {
	return that == TurnX || that == TurnO
}

// IsTerminal reports whether the match has ended.
func (that Phase) IsTerminal() bool {
	return that == WinX || that == WinO || that == Draw
}

// Mover returns the mark of the player whose turn it is, Empty outside turn phases.
func (that Phase) Mover() CellMark {
	switch that {
	case TurnX:
		return MarkX
	case TurnO:
		return MarkO
	default:
		return Empty
	}
}

// Winner returns the mark that won the match, Empty unless the phase is WinX or WinO.
func (that Phase) Winner() CellMark {
	switch that {
	case WinX:
		return MarkX
	case WinO:
		return MarkO
	default:
		return Empty
	}
}

func (that Phase) MarshalText() ([]byte, error) {
	name, ok := phaseNames[that]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPhase, uint8(that))
	}

	return []byte(name), nil
}

func (that *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*that = phase
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownPhase, text)
}
