package console

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

const (
	colorX = "#E06C75"
	colorO = "#61AFEF"
)

func (that *Console) render(match *entity.Match) {
	fmt.Fprint(that.output, renderBoard(that.output, match.Board))
	fmt.Fprintln(that.output)
	fmt.Fprintln(that.output, renderStatus(that.output, match.Phase))
}

func renderBoard(output *termenv.Output, board entity.Board) string {
	highlight := map[tictactoe.Cell]bool{}
	if line, ok := tictactoe.WinningLine(board); ok {
		for _, cell := range line {
			highlight[cell] = true
		}
	}

	var builder strings.Builder

	builder.WriteString("    0   1   2\n")

	for row := range board {
		builder.WriteString(fmt.Sprintf("%d  ", row))

		for col := range board[row] {
			if col > 0 {
				builder.WriteString("|")
			}

			builder.WriteString(" ")
			builder.WriteString(renderCell(output, board[row][col], highlight[tictactoe.Cell{Row: row, Col: col}]))
			builder.WriteString(" ")
		}

		builder.WriteString("\n")

		if row < entity.BoardSize-1 {
			builder.WriteString("   ---+---+---\n")
		}
	}

	return builder.String()
}

func renderCell(output *termenv.Output, mark entity.CellMark, highlighted bool) string {
	var style termenv.Style

	switch mark {
	case entity.MarkX:
		style = output.String(mark.String()).Foreground(output.Color(colorX)).Bold()
	case entity.MarkO:
		style = output.String(mark.String()).Foreground(output.Color(colorO)).Bold()
	default:
		return output.String(".").Faint().String()
	}

	if highlighted {
		style = style.Reverse()
	}

	return style.String()
}

func renderStatus(output *termenv.Output, phase entity.Phase) string {
	switch phase {
	case entity.BeforeGame:
		return "Main menu: type new to start a game or quit to leave."
	case entity.TurnX:
		return output.String("X's turn").Foreground(output.Color(colorX)).String()
	case entity.TurnO:
		return output.String("O's turn").Foreground(output.Color(colorO)).String()
	case entity.WinX:
		return output.String("X wins!").Bold().String() + " Type done to play again."
	case entity.WinO:
		return output.String("O wins!").Bold().String() + " Type done to play again."
	case entity.Draw:
		return output.String("Draw!").Bold().String() + " Type done to play again."
	default:
		return phase.String()
	}
}
