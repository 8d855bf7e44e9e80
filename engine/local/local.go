// Package local implements engine.GameEngine in process: the human plays Min
// and the computer plays Max, choosing its moves with the search package.
package local

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"termtactoe/engine"
	"termtactoe/engine/search"
	"termtactoe/history"
	"termtactoe/types"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidMove   = errors.New("illegal move")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

var _ engine.GameEngine = (*Engine)(nil)

const (
	human    = types.Min
	computer = types.Max
)

// Engine plays one game against the computer.
type Engine struct {
	config engine.GameConfig

	// state.Board is owned by the search while thinking is set, so readers
	// get the published snapshot instead.
	state     *types.GameState
	published *types.GameState
	tree      *history.Tree
	myTurn    bool
	gameOver  bool
	thinking  bool
	closed    bool

	stats search.Counter
	last  engine.SearchInfo

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	moveCallback func(m types.Move, side types.Side, state *types.GameState)
	endCallback  func(outcome string)

	mu sync.Mutex
}

// NewEngine creates an engine with the given configuration. The game starts
// on Connect.
func NewEngine(cfg engine.GameConfig) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		config: cfg,
		tree:   history.NewTree(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect sets up the board and lets the computer open if it moves first.
func (e *Engine) Connect() error {
	b, err := types.NewBoard(e.config.BoardSize)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	if e.config.Algorithm != search.Minimax && e.config.Algorithm != search.AlphaBeta {
		return fmt.Errorf("unknown algorithm %d", int(e.config.Algorithm))
	}

	first := human
	if !e.config.HumanFirst {
		first = computer
	}

	e.mu.Lock()
	e.state = types.NewGameState(b, first)
	e.myTurn = e.config.HumanFirst
	e.publish()
	e.mu.Unlock()

	log.Info().
		Int("size", e.config.BoardSize).
		Str("player", string(e.config.PlayerSymbol)).
		Bool("human_first", e.config.HumanFirst).
		Stringer("algorithm", e.config.Algorithm).
		Msg("game started")

	if !e.config.HumanFirst {
		e.startComputer()
	}
	return nil
}

// publish refreshes the snapshot handed out to readers. Callers hold e.mu.
func (e *Engine) publish() {
	e.published = e.state.Copy()
}

// GetGameState returns a copy of the current game.
func (e *Engine) GetGameState() *types.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.published == nil {
		return nil
	}
	return e.published.Copy()
}

// IsMyTurn returns true if the human may move.
func (e *Engine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.myTurn && !e.gameOver
}

// GetPlayerSymbol returns the human player's symbol.
func (e *Engine) GetPlayerSymbol() rune {
	return e.config.PlayerSymbol
}

// LastSearch returns statistics of the most recent computer move.
func (e *Engine) LastSearch() engine.SearchInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// OnMove registers a callback for moves by either side. It also fires with
// NoMove after an undo.
func (e *Engine) OnMove(callback func(m types.Move, side types.Side, state *types.GameState)) {
	e.mu.Lock()
	e.moveCallback = callback
	e.mu.Unlock()
}

// OnGameEnd registers a callback for when the game ends.
func (e *Engine) OnGameEnd(callback func(outcome string)) {
	e.mu.Lock()
	e.endCallback = callback
	e.mu.Unlock()
}

// PlayMove plays the human move at row, col.
func (e *Engine) PlayMove(row, col int) error {
	e.mu.Lock()

	if e.state == nil || e.gameOver {
		e.mu.Unlock()
		return ErrGameOver
	}
	if !e.myTurn {
		e.mu.Unlock()
		return ErrNotYourTurn
	}
	if !e.state.Board.Apply(row, col, human) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidMove, FormatMove(types.Move{Row: row, Col: col}))
	}

	m := types.Move{Row: row, Col: col}
	e.record(m, human)
	e.myTurn = false
	finished, outcome := e.checkGameEnd()
	e.publish()
	stateCopy := e.published.Copy()
	moveCallback, endCallback := e.moveCallback, e.endCallback
	e.mu.Unlock()

	log.Debug().Str("move", FormatMove(m)).Msg("human move")

	// Notify outside the lock so callbacks may call back into the engine.
	if moveCallback != nil {
		moveCallback(m, human, stateCopy)
	}
	if finished {
		if endCallback != nil {
			endCallback(outcome)
		}
		return nil
	}

	e.startComputer()
	return nil
}

// record updates the bookkeeping after side played m. Callers hold e.mu.
func (e *Engine) record(m types.Move, side types.Side) {
	e.tree.AddMove(m, side)
	e.state.LastMove = m
	e.state.MoveNumber++
	e.state.ToMove = side.Opponent()
}

// checkGameEnd marks the game finished when someone completed a line or the
// board is full. Callers hold e.mu.
func (e *Engine) checkGameEnd() (bool, string) {
	winner, line := search.WinningLine(e.state.Board)
	if winner == 0 && !e.state.Board.Full() {
		return false, ""
	}

	e.gameOver = true
	e.myTurn = false
	e.state.Phase = "finished"
	e.state.Winner = winner
	e.state.WinningLine = line
	switch winner {
	case human:
		e.state.Outcome = fmt.Sprintf("%c wins. You win!", e.config.PlayerSymbol)
	case computer:
		e.state.Outcome = fmt.Sprintf("%c wins. You lose!", e.config.ComputerSymbol())
	default:
		e.state.Outcome = "Draw"
	}

	log.Info().
		Str("outcome", e.state.Outcome).
		Int("moves", e.state.MoveNumber).
		Msg("game over")
	return true, e.state.Outcome
}

// startComputer launches the computer's search unless the engine is closed.
// The WaitGroup is only added to under e.mu, before Close starts waiting.
func (e *Engine) startComputer() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		e.triggerComputerMove()
	}()
}

// policy picks the search for a position with the given number of empty
// cells: the configured algorithm when the rest of the game is small enough,
// a shallow Minimax otherwise.
func policy(cfg engine.GameConfig, empties int) (search.Options, string) {
	if empties <= cfg.FullSearchCells {
		if cfg.Algorithm == search.Minimax && cfg.Depth >= 0 {
			depth := playableDepth(cfg.Depth)
			return search.Options{Algorithm: search.Minimax, Depth: depth},
				fmt.Sprintf("minimax depth %d", depth)
		}
		return search.Options{Algorithm: cfg.Algorithm, Depth: cfg.Depth}, cfg.Algorithm.String()
	}
	depth := playableDepth(cfg.FallbackDepth)
	return search.Options{Algorithm: search.Minimax, Depth: depth},
		fmt.Sprintf("minimax depth %d", depth)
}

// playableDepth keeps a bounded depth at one ply or more. A depth 0 search
// only evaluates the root and has no move to return.
func playableDepth(depth int) int {
	if depth < 0 {
		return search.FullDepth
	}
	return max(depth, 1)
}

// triggerComputerMove searches for and plays the computer's move.
func (e *Engine) triggerComputerMove() {
	e.mu.Lock()
	if e.gameOver || e.myTurn || e.thinking {
		e.mu.Unlock()
		return
	}
	e.thinking = true
	board := e.state.Board
	opts, name := policy(e.config, len(board.EmptyCells()))
	e.mu.Unlock()

	began := time.Now()
	e.stats.Reset()
	res, err := search.BestMove(e.ctx, board, computer, opts, &e.stats)
	elapsed := time.Since(began)

	if err == nil && e.config.ThinkDelay > elapsed {
		select {
		case <-time.After(e.config.ThinkDelay - elapsed):
		case <-e.ctx.Done():
			err = e.ctx.Err()
		}
	}

	e.mu.Lock()
	e.thinking = false
	if err != nil {
		e.mu.Unlock()
		log.Warn().Err(err).Msg("computer move abandoned")
		return
	}
	if res.Move.IsNone() || !board.Apply(res.Move.Row, res.Move.Col, computer) {
		e.mu.Unlock()
		log.Error().Stringer("result", res).Msg("search returned no playable move")
		return
	}

	e.last = engine.SearchInfo{
		Policy:  name,
		Result:  res,
		Nodes:   e.stats.Nodes(),
		Elapsed: elapsed,
	}
	e.record(res.Move, computer)
	finished, outcome := e.checkGameEnd()
	if !finished {
		e.myTurn = true
	}
	e.publish()
	stateCopy := e.published.Copy()
	moveCallback, endCallback := e.moveCallback, e.endCallback
	e.mu.Unlock()

	log.Debug().
		Str("move", FormatMove(res.Move)).
		Str("policy", name).
		Int("score", res.Score).
		Uint64("nodes", e.last.Nodes).
		Msg("computer move")

	if moveCallback != nil {
		moveCallback(res.Move, computer, stateCopy)
	}
	if finished && endCallback != nil {
		endCallback(outcome)
	}
}

// Undo takes back moves until the last human move is gone. The undone moves
// stay in the history and can be replayed with Redo.
func (e *Engine) Undo() error {
	e.mu.Lock()

	if e.state == nil || e.thinking {
		e.mu.Unlock()
		return ErrNotYourTurn
	}

	hasHuman := false
	for _, n := range e.tree.PathFromRoot() {
		if n.Side == human {
			hasHuman = true
			break
		}
	}
	if !hasHuman {
		e.mu.Unlock()
		return ErrNothingToUndo
	}

	for {
		node := e.tree.Current
		e.state.Board.Clear(node.Move.Row, node.Move.Col)
		e.tree.Back()
		e.state.MoveNumber--
		if node.Side == human {
			break
		}
	}

	e.state.ToMove = human
	e.state.LastMove = e.tree.Current.Move
	e.state.Phase = "playing"
	e.state.Outcome = ""
	e.state.Winner = 0
	e.state.WinningLine = nil
	e.gameOver = false
	e.myTurn = true
	e.publish()
	stateCopy := e.published.Copy()
	moveCallback := e.moveCallback
	e.mu.Unlock()

	log.Debug().Int("move_number", stateCopy.MoveNumber).Msg("undo")

	if moveCallback != nil {
		moveCallback(types.NoMove, human, stateCopy)
	}
	return nil
}

// Redo replays the next human move in the history. The computer answers it
// again as usual.
func (e *Engine) Redo() error {
	e.mu.Lock()
	if e.state == nil {
		e.mu.Unlock()
		return ErrNothingToRedo
	}
	next := e.tree.Next()
	e.mu.Unlock()

	if next == nil || next.Side != human {
		return ErrNothingToRedo
	}
	return e.PlayMove(next.Move.Row, next.Move.Col)
}

// Close stops any search in progress and waits for it to return.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
}

// History returns the moves played so far, first move first.
func (e *Engine) History() []types.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	path := e.tree.PathFromRoot()
	moves := make([]types.Move, len(path))
	for i, n := range path {
		moves[i] = n.Move
	}
	return moves
}

// Variations returns the number of alternatives at the current move and the
// index of the one being played, as history.Tree reports them.
func (e *Engine) Variations() (count, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.NumVariations(), e.tree.VariationIndex()
}
