package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	MinBoardSize = 3
	MaxBoardSize = 10
)

// ErrInvalidSize is returned for boards outside MinBoardSize..MaxBoardSize.
var ErrInvalidSize = errors.New("board size must be between 3 and 10")

// Board is a square grid of cells. Its size never changes after creation.
// Cells are indexed as cells[row][col].
type Board struct {
	size  int
	cells [][]Cell
	lines [][]Move
}

// NewBoard creates an empty n×n board.
func NewBoard(n int) (*Board, error) {
	if n < MinBoardSize || n > MaxBoardSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	cells := make([][]Cell, n)
	for i := range cells {
		cells[i] = make([]Cell, n)
	}
	return &Board{size: n, cells: cells, lines: buildLines(n)}, nil
}

// FromRows builds a board from rows of -1/0/+1 values.
func FromRows(rows [][]int) (*Board, error) {
	b, err := NewBoard(len(rows))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != b.size {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), b.size)
		}
		for c, v := range row {
			switch v {
			case int(Empty), int(Max), int(Min):
				b.cells[r][c] = Cell(v)
			default:
				return nil, fmt.Errorf("invalid cell value %d at (%d,%d)", v, r, c)
			}
		}
	}
	return b, nil
}

// buildLines lists every winning line: rows, columns, then both diagonals.
func buildLines(n int) [][]Move {
	lines := make([][]Move, 0, 2*n+2)
	for r := 0; r < n; r++ {
		line := make([]Move, n)
		for c := 0; c < n; c++ {
			line[c] = Move{r, c}
		}
		lines = append(lines, line)
	}
	for c := 0; c < n; c++ {
		line := make([]Move, n)
		for r := 0; r < n; r++ {
			line[r] = Move{r, c}
		}
		lines = append(lines, line)
	}
	diag := make([]Move, n)
	anti := make([]Move, n)
	for i := 0; i < n; i++ {
		diag[i] = Move{i, i}
		anti[i] = Move{i, n - 1 - i}
	}
	return append(lines, diag, anti)
}

// Size returns the board width (and height).
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// At returns the cell at (row, col). The coordinates must be in bounds.
func (b *Board) At(row, col int) Cell {
	return b.cells[row][col]
}

// EmptyCells returns the empty cells in row-major order.
// The order decides which move wins a tie during search.
func (b *Board) EmptyCells() []Move {
	cells := make([]Move, 0, b.size*b.size)
	for r, row := range b.cells {
		for c, cell := range row {
			if cell == Empty {
				cells = append(cells, Move{r, c})
			}
		}
	}
	return cells
}

// Full returns true when no empty cell remains.
func (b *Board) Full() bool {
	for _, row := range b.cells {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

// Apply places side at (row, col) if the cell exists and is empty.
// It returns false, leaving the board untouched, otherwise.
func (b *Board) Apply(row, col int, side Side) bool {
	if !b.InBounds(row, col) || b.cells[row][col] != Empty || !side.Valid() {
		return false
	}
	b.cells[row][col] = Cell(side)
	return true
}

// Clear empties (row, col). Used to take back moves.
func (b *Board) Clear(row, col int) {
	if b.InBounds(row, col) {
		b.cells[row][col] = Empty
	}
}

// Place sets (row, col) to side and returns a func restoring the previous
// content. The caller owns the cell until restore runs.
func (b *Board) Place(row, col int, side Side) (restore func()) {
	prev := b.cells[row][col]
	b.cells[row][col] = Cell(side)
	return func() {
		b.cells[row][col] = prev
	}
}

// Lines returns the 2N+2 winning lines. The result must not be modified.
func (b *Board) Lines() [][]Move {
	return b.lines
}

// Row returns a copy of row i.
func (b *Board) Row(i int) []Cell {
	return append([]Cell(nil), b.cells[i]...)
}

// Column returns a copy of column j.
func (b *Board) Column(j int) []Cell {
	col := make([]Cell, b.size)
	for i := range col {
		col[i] = b.cells[i][j]
	}
	return col
}

// Diagonal returns the main diagonal, top-left to bottom-right.
func (b *Board) Diagonal() []Cell {
	d := make([]Cell, b.size)
	for i := range d {
		d[i] = b.cells[i][i]
	}
	return d
}

// AntiDiagonal returns the diagonal from top-right to bottom-left.
func (b *Board) AntiDiagonal() []Cell {
	d := make([]Cell, b.size)
	for i := range d {
		d[i] = b.cells[i][b.size-1-i]
	}
	return d
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	cells := make([][]Cell, b.size)
	for i := range cells {
		cells[i] = append([]Cell(nil), b.cells[i]...)
	}
	return &Board{size: b.size, cells: cells, lines: b.lines}
}

// Rows returns the board as rows of -1/0/+1 values.
func (b *Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for r := range rows {
		rows[r] = make([]int, b.size)
		for c := range rows[r] {
			rows[r][c] = int(b.cells[r][c])
		}
	}
	return rows
}

// MarshalJSON encodes the board as a matrix of -1/0/+1.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Rows())
}

// UnmarshalJSON decodes a matrix of -1/0/+1.
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	nb, err := FromRows(rows)
	if err != nil {
		return err
	}
	*b = *nb
	return nil
}

// String renders the board with x for Max, o for Min and . for empty.
func (b *Board) String() string {
	var sb strings.Builder
	for r, row := range b.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			switch cell {
			case Cell(Max):
				sb.WriteByte('x')
			case Cell(Min):
				sb.WriteByte('o')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// ParseBoard reads the String format back. Rows may be separated by
// newlines or '/'.
func ParseBoard(s string) (*Board, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "/", "\n"))
	lines := strings.Split(s, "\n")
	rows := make([][]int, len(lines))
	for r, line := range lines {
		line = strings.TrimSpace(line)
		rows[r] = make([]int, len(line))
		for c, ch := range line {
			switch ch {
			case 'x', 'X':
				rows[r][c] = int(Max)
			case 'o', 'O':
				rows[r][c] = int(Min)
			case '.':
			default:
				return nil, fmt.Errorf("invalid board character %q", ch)
			}
		}
	}
	return FromRows(rows)
}
