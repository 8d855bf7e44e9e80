// Package types contains shared data structures for termtactoe.
package types

import (
	"encoding/json"
	"fmt"
)

// Side identifies a player. The two sides are opposite-signed so that
// negation flips the acting side.
type Side int8

const (
	// Max is the maximizing side (the computer, by convention).
	Max Side = +1
	// Min is the minimizing side (the opponent).
	Min Side = -1
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return -s
}

// Valid reports whether s is Max or Min.
func (s Side) Valid() bool {
	return s == Max || s == Min
}

func (s Side) String() string {
	switch s {
	case Max:
		return "max"
	case Min:
		return "min"
	}
	return fmt.Sprintf("side(%d)", int8(s))
}

// Cell is the content of one board square: Empty or the value of a Side.
type Cell int8

// Empty marks an unoccupied cell.
const Empty Cell = 0

// Owner returns the side occupying the cell and false if it is empty.
func (c Cell) Owner() (Side, bool) {
	if c == Empty {
		return 0, false
	}
	return Side(c), true
}

// Move identifies one cell by zero-based row and column.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove is returned at search leaves and for terminal positions.
var NoMove = Move{Row: -1, Col: -1}

// IsNone returns true for NoMove.
func (m Move) IsNone() bool {
	return m.Row < 0 || m.Col < 0
}

// UnmarshalJSON accepts either {"row":r,"col":c} or a [row, col] array.
func (m *Move) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err == nil {
		if len(v) != 2 {
			return fmt.Errorf("move needs 2 coordinates, got %d", len(v))
		}
		m.Row, m.Col = v[0], v[1]
		return nil
	}
	var obj struct {
		Row int `json:"row"`
		Col int `json:"col"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	m.Row, m.Col = obj.Row, obj.Col
	return nil
}

// GameState is a snapshot of a game handed to the UI.
type GameState struct {
	MoveNumber  int    `json:"move_number"`
	ToMove      Side   `json:"to_move"`
	Phase       string `json:"phase"` // "playing", "finished"
	Board       *Board `json:"board"`
	Outcome     string `json:"outcome"`
	Winner      Side   `json:"winner"` // 0 while playing or on a draw
	LastMove    Move   `json:"last_move"`
	WinningLine []Move `json:"winning_line,omitempty"`
}

// Finished returns true if the game is over.
func (g *GameState) Finished() bool {
	return g.Phase == "finished"
}

// Size returns the board size, or 0 when no board is attached.
func (g *GameState) Size() int {
	if g.Board == nil {
		return 0
	}
	return g.Board.Size()
}

// NewGameState creates a playing state around a fresh board.
func NewGameState(b *Board, first Side) *GameState {
	return &GameState{
		ToMove:   first,
		Phase:    "playing",
		Board:    b,
		LastMove: NoMove,
	}
}

// Copy returns a deep copy of the state, board included.
func (g *GameState) Copy() *GameState {
	c := *g
	if g.Board != nil {
		c.Board = g.Board.Clone()
	}
	if g.WinningLine != nil {
		c.WinningLine = append([]Move(nil), g.WinningLine...)
	}
	return &c
}
