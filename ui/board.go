// Package ui specifies custom controls for tview to play tic-tac-toe in the terminal.
package ui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtactoe/config"
	"termtactoe/engine"
	"termtactoe/engine/local"
	"termtactoe/types"
)

// Indices into BoardUI.styles.
const (
	styleBoard = iota
	styleBoardAlt
	styleX
	styleO
	styleLine
	styleCursorFG
	styleCursorBG
	styleLastPlayed
	styleWinning
)

// Screen offset of the grid inside the widget, room for the row numbers.
const gridLeft = 4

type BoardUI struct {
	Box       *tview.Box
	State     *types.GameState
	hint      *tview.TextView
	cfg       *config.Config
	finished  bool
	selRow    int
	selCol    int
	message   string
	app       *tview.Application
	eng       engine.GameEngine
	styles    []tcell.Color
	infoPanel *GameInfoPanel
	focusMode bool
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *BoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *BoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

func (g *BoardUI) IsFocusMode() bool {
	return g.focusMode
}

// Size returns the board size, 0 before a game starts.
func (g *BoardUI) Size() int {
	if g.State == nil {
		return 0
	}
	return g.State.Size()
}

func (g *BoardUI) SelectedCell() *types.Move {
	if g.selRow == -1 && g.selCol == -1 {
		return nil
	}
	return &types.Move{Row: g.selRow, Col: g.selCol}
}

// MoveSelection moves the cursor by dRow, dCol. The first call only shows
// the cursor, on the last move or the centre.
func (g *BoardUI) MoveSelection(dRow, dCol int) {
	if g.State == nil || g.State.Finished() {
		g.ResetSelection()
		return
	}
	n := g.Size()
	if g.SelectedCell() == nil {
		g.selRow, g.selCol = g.State.LastMove.Row, g.State.LastMove.Col
		if g.SelectedCell() == nil || g.State.LastMove.IsNone() {
			g.selRow, g.selCol = n/2, n/2
		}
		return
	}
	if g.selRow+dRow < 0 || g.selRow+dRow >= n {
		return
	}
	if g.selCol+dCol < 0 || g.selCol+dCol >= n {
		return
	}
	g.selRow += dRow
	g.selCol += dCol
}

func (g *BoardUI) ResetSelection() {
	g.selRow = -1
	g.selCol = -1
}

func NewBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:    tview.NewBox(),
		hint:   hint,
		app:    app,
		selRow: -1,
		selCol: -1,
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		n := board.Size()
		if n == 0 {
			return x, y, 1, 1
		}
		lineStyle := tcell.StyleDefault.Background(board.styles[styleBoard]).Foreground(board.styles[styleLine])
		drawGrid(screen, x+gridLeft, y, n, board.cellContent, lineStyle)
		board.drawCoordinates(screen, x, y)
		w, h := gridSize(n)
		return x, y, w + gridLeft, h + 1
	})
	return board
}

// cellContent returns what to draw in one cell.
func (g *BoardUI) cellContent(row, col int) (rune, tcell.Style) {
	theme := g.cfg.Theme
	bg := g.styles[styleBoard]
	if (row+col)%2 == 1 {
		bg = g.styles[styleBoardAlt]
	}
	fg := g.styles[styleLine]
	r := theme.Symbols.EmptyCell

	if side, ok := g.State.Board.At(row, col).Owner(); ok {
		sym := g.symbolOf(side)
		if sym == 'X' {
			r, fg = theme.Symbols.X, g.styles[styleX]
		} else {
			r, fg = theme.Symbols.O, g.styles[styleO]
		}
	}

	m := types.Move{Row: row, Col: col}
	switch {
	case inLine(g.State.WinningLine, m):
		bg = g.styles[styleWinning]
	case row == g.selRow && col == g.selCol:
		if theme.DrawCursorBackground {
			bg = g.styles[styleCursorBG]
		} else if r == theme.Symbols.EmptyCell {
			r, fg = theme.Symbols.Cursor, g.styles[styleCursorFG]
		}
	case m == g.State.LastMove:
		if theme.DrawLastPlayedBackground {
			bg = g.styles[styleLastPlayed]
		} else if r == theme.Symbols.EmptyCell {
			r = theme.Symbols.LastPlayed
		}
	}
	return r, tcell.StyleDefault.Background(bg).Foreground(fg)
}

// symbolOf maps a side to the symbol shown for it. The human plays Min.
func (g *BoardUI) symbolOf(side types.Side) rune {
	human := 'X'
	if g.eng != nil {
		human = g.eng.GetPlayerSymbol()
	}
	if side == types.Min {
		return human
	}
	if human == 'X' {
		return 'O'
	}
	return 'X'
}

func inLine(line []types.Move, m types.Move) bool {
	for _, c := range line {
		if c == m {
			return true
		}
	}
	return false
}

// ConnectEngine connects the board to a game engine.
func (g *BoardUI) ConnectEngine(e engine.GameEngine) error {
	g.finished = false
	g.message = ""
	g.eng = e
	g.ResetSelection()

	// Callbacks run on the engine's goroutine; the widget is only touched
	// from the event loop, which re-reads the latest state.
	e.OnMove(func(m types.Move, side types.Side, state *types.GameState) {
		go g.app.QueueUpdateDraw(g.sync)
	})
	e.OnGameEnd(func(outcome string) {
		go g.app.QueueUpdateDraw(g.sync)
	})

	if err := e.Connect(); err != nil {
		return err
	}
	g.sync()
	return nil
}

// sync pulls the current game from the engine.
func (g *BoardUI) sync() {
	if g.eng == nil {
		return
	}
	g.State = g.eng.GetGameState()
	if g.State != nil && g.State.Finished() && !g.finished {
		g.finished = true
		g.ResetSelection()
	}
	g.refreshHint()
}

// PlayMove plays the human move at row, col.
func (g *BoardUI) PlayMove(row, col int) {
	if g.finished || g.eng == nil {
		return
	}
	if !g.eng.IsMyTurn() {
		return
	}
	if err := g.eng.PlayMove(row, col); err != nil {
		g.message = err.Error()
	} else {
		g.message = ""
	}
	g.sync()
}

// Undo takes back the last human move and the computer's answer.
func (g *BoardUI) Undo() {
	if g.eng == nil {
		return
	}
	if err := g.eng.Undo(); err != nil {
		g.message = err.Error()
	} else {
		g.message = ""
		g.finished = false
	}
	g.sync()
}

// Redo replays a move taken back with Undo.
func (g *BoardUI) Redo() {
	if g.eng == nil {
		return
	}
	err := g.eng.Redo()
	switch {
	case errors.Is(err, local.ErrNothingToRedo):
		g.message = "nothing to redo"
	case err != nil:
		g.message = err.Error()
	default:
		g.message = ""
	}
	g.sync()
}

// Close stops the engine.
func (g *BoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
}

func (g *BoardUI) SetConfig(c *config.Config) {
	g.styles = themeStyles(c)
	g.cfg = c
}

func themeStyles(c *config.Config) []tcell.Color {
	colors := c.Theme.Colors
	return []tcell.Color{
		styleBoard:      tcell.PaletteColor(colors.BoardColor),
		styleBoardAlt:   tcell.PaletteColor(colors.BoardColorAlt),
		styleX:          tcell.PaletteColor(colors.XColor),
		styleO:          tcell.PaletteColor(colors.OColor),
		styleLine:       tcell.PaletteColor(colors.LineColor),
		styleCursorFG:   tcell.PaletteColor(colors.CursorColorFG),
		styleCursorBG:   tcell.PaletteColor(colors.CursorColorBG),
		styleLastPlayed: tcell.PaletteColor(colors.LastPlayedColorBG),
		styleWinning:    tcell.PaletteColor(colors.WinningLineBG),
	}
}

func (g *BoardUI) refreshHint() {
	if g.infoPanel != nil && g.eng != nil {
		count, index := g.eng.Variations()
		g.infoPanel.SetGame(GameInfo{
			State:        g.State,
			Search:       g.eng.LastSearch(),
			Moves:        g.eng.History(),
			Variations:   count,
			Variation:    index,
			PlayerSymbol: g.eng.GetPlayerSymbol(),
		})
	}

	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}
	if g.State == nil {
		g.hint.SetText("")
		return
	}

	var statusLine, turnLine, controlsLine string

	if g.finished {
		statusLine = "───────── Game Over ─────────\n"
		turnLine = fmt.Sprintf("  %s\n", g.State.Outcome)
		controlsLine = "  u undo   q menu"
	} else {
		if g.message != "" {
			statusLine = fmt.Sprintf("  ! %s\n", g.message)
		} else if info := g.eng.LastSearch(); info.Nodes > 0 {
			statusLine = fmt.Sprintf("  Computer played %s · %d positions searched\n",
				local.FormatMove(info.Result.Move), info.Nodes)
		}

		if g.eng.IsMyTurn() {
			turnLine = fmt.Sprintf("  Your move (%c)\n", g.eng.GetPlayerSymbol())
		} else {
			turnLine = "  Thinking...\n"
		}

		controlsLine = "  hjkl/↑↓←→ move   ⏎ play   u undo   r redo   f focus   q quit"
	}

	g.hint.SetText(fmt.Sprintf("%s%s%s", statusLine, turnLine, controlsLine))
}

// gridSize returns the screen width and height of an n×n grid: three
// columns per cell plus separators, one row per cell plus separators.
func gridSize(n int) (int, int) {
	return n*4 - 1, n*2 - 1
}

// drawGrid draws an n×n grid with its top left corner at left, top.
func drawGrid(s tcell.Screen, left, top, n int, cell func(row, col int) (rune, tcell.Style), lineStyle tcell.Style) {
	for row := 0; row < n; row++ {
		y := top + row*2
		for col := 0; col < n; col++ {
			x := left + col*4
			r, style := cell(row, col)
			s.SetContent(x, y, ' ', nil, style)
			s.SetContent(x+1, y, r, nil, style)
			s.SetContent(x+2, y, ' ', nil, style)
			if col < n-1 {
				s.SetContent(x+3, y, '│', nil, lineStyle)
			}
		}
		if row == n-1 {
			continue
		}
		for col := 0; col < n; col++ {
			x := left + col*4
			for i := 0; i < 3; i++ {
				s.SetContent(x+i, y+1, '─', nil, lineStyle)
			}
			if col < n-1 {
				s.SetContent(x+3, y+1, '┼', nil, lineStyle)
			}
		}
	}
}

func (g *BoardUI) drawCoordinates(s tcell.Screen, x, y int) {
	n := g.Size()
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(g.styles[styleCursorBG])
	lpHighlight := tcell.StyleDefault.Background(g.styles[styleLastPlayed])
	_, h := gridSize(n)

	for col := 0; col < n; col++ {
		_style := style
		if col == g.selCol {
			_style = highlight
		} else if col == g.State.LastMove.Col {
			_style = lpHighlight
		}
		s.SetContent(x+gridLeft+col*4+1, y+h, rune('A'+col), nil, _style)
	}

	for row := 0; row < n; row++ {
		_style := style
		if row == g.selRow {
			_style = highlight
		} else if row == g.State.LastMove.Row {
			_style = lpHighlight
		}
		displayNum := row + 1
		tensRune := ' '
		if displayNum >= 10 {
			tensRune = rune('0' + displayNum/10)
		}
		s.SetContent(x+1, y+row*2, tensRune, nil, _style)
		s.SetContent(x+2, y+row*2, rune('0'+displayNum%10), nil, _style)
	}
}
