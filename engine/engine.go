// Package engine defines the interface for game engines.
package engine

import (
	"time"

	"termtactoe/engine/search"
	"termtactoe/types"
)

// GameEngine defines the interface for playing against the computer.
type GameEngine interface {
	// Connect initializes the game and starts the computer if it moves first.
	Connect() error

	// GetGameState returns a snapshot of the current game.
	GetGameState() *types.GameState

	// PlayMove plays the human move at the given cell.
	// Returns an error if the move is illegal.
	PlayMove(row, col int) error

	// IsMyTurn returns true if it's the human player's turn.
	IsMyTurn() bool

	// GetPlayerSymbol returns the human player's symbol ('X' or 'O').
	GetPlayerSymbol() rune

	// LastSearch returns statistics of the most recent computer search.
	LastSearch() SearchInfo

	// OnMove registers a callback for when a move is played (by either player).
	// state is passed directly to avoid lock contention.
	OnMove(func(m types.Move, side types.Side, state *types.GameState))

	// Undo takes back the last human move and the computer reply after it.
	Undo() error

	// Redo replays the human move taken back by the last Undo.
	Redo() error

	// History returns the moves on the board in the order they were played.
	History() []types.Move

	// Variations reports how many alternatives were tried at the current
	// move and which one is on the board.
	Variations() (count, index int)

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// Close stops any search in progress.
	Close()
}

// SearchInfo describes one computer move.
type SearchInfo struct {
	Policy  string        // e.g. "alphabeta" or "minimax depth 2"
	Result  search.Result // chosen move and score
	Nodes   uint64        // nodes visited
	Elapsed time.Duration
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	BoardSize    int              // 3 to 10
	PlayerSymbol rune             // 'X' or 'O'
	HumanFirst   bool             // human plays the first move
	Algorithm    search.Algorithm // engine used for full searches
	Depth        int              // Minimax depth budget, search.FullDepth for no limit

	// FullSearchCells is the largest number of empty cells for which the
	// configured algorithm runs. Above it the computer falls back to Minimax
	// limited to FallbackDepth plies.
	FullSearchCells int
	FallbackDepth   int

	// ThinkDelay is the minimum time a computer move takes, for pacing.
	ThinkDelay time.Duration
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		BoardSize:       3,
		PlayerSymbol:    'X',
		HumanFirst:      true,
		Algorithm:       search.AlphaBeta,
		Depth:           search.FullDepth,
		FullSearchCells: 9,
		FallbackDepth:   2,
		ThinkDelay:      500 * time.Millisecond,
	}
}

// ComputerSymbol returns the symbol not taken by the human.
func (c GameConfig) ComputerSymbol() rune {
	if c.PlayerSymbol == 'O' {
		return 'X'
	}
	return 'O'
}
