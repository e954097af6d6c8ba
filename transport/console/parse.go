package console

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var (
	errUnknownCommand = errors.New("unknown command, type help to see the commands")
	errCellRange      = errors.New("rows and columns go from 0 to 2")
)

// parseMove accepts "<row> <col>" or "<row>,<col>".
func parseMove(command string) (int, int, error) {
	fields := strings.FieldsFunc(command, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	if len(fields) != 2 {
		return 0, 0, errUnknownCommand
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, errUnknownCommand
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, errUnknownCommand
	}

	if row < 0 || row >= entity.BoardSize || col < 0 || col >= entity.BoardSize {
		return 0, 0, errCellRange
	}

	return row, col, nil
}
