package local

import (
	"fmt"

	"termtactoe/types"
)

// Coordinate notation:
// - Columns: A-J, left to right
// - Rows: 1-10, top to bottom (as printed by the board widget)
// - Example: (row 0, col 0) is A1, (row 2, col 1) is B3

// FormatMove converts a move to display notation. NoMove formats as "-".
func FormatMove(m types.Move) string {
	if m.IsNone() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'A'+rune(m.Col), m.Row+1)
}
