package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"termtactoe/engine"
	"termtactoe/engine/local"
	"termtactoe/types"
)

// GameInfo is what the info panel shows.
type GameInfo struct {
	State        *types.GameState
	Search       engine.SearchInfo
	Moves        []types.Move
	Variations   int
	Variation    int
	PlayerSymbol rune
}

// GameInfoPanel displays game information and move history alongside the board.
type GameInfoPanel struct {
	box  *tview.TextView
	info GameInfo
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetGame updates the panel.
func (p *GameInfoPanel) SetGame(info GameInfo) {
	p.info = info
	p.refresh()
}

// Text returns the panel content, color tags included.
func (p *GameInfoPanel) Text() string {
	return p.box.GetText(false)
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	state := p.info.State
	if state == nil {
		p.box.SetText("")
		return
	}

	var text string

	text += "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += fmt.Sprintf("[white]Board:[-:-:-] %dx%d\n", state.Size(), state.Size())
	text += fmt.Sprintf("[white]You:[-:-:-] %c\n", p.info.PlayerSymbol)
	text += fmt.Sprintf("[white]Move:[-:-:-] %d\n", state.MoveNumber)

	if s := p.info.Search; s.Policy != "" {
		text += "\n[white::b]Last Search[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"
		text += fmt.Sprintf("[white]Engine:[-:-:-] %s\n", s.Policy)
		text += fmt.Sprintf("[white]Nodes:[-:-:-] %d\n", s.Nodes)
		text += fmt.Sprintf("[white]Score:[-:-:-] %s\n", scoreText(s.Result.Score))
		text += fmt.Sprintf("[white]Time:[-:-:-] %s\n", s.Elapsed.Round(time.Millisecond))
	}

	moves := p.info.Moves
	if len(moves) > 0 {
		text += "\n[white::b]Moves[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"
		if p.info.Variations > 1 {
			text += fmt.Sprintf("[dimgray]var %d/%d[-]\n", p.info.Variation+1, p.info.Variations)
		}

		maxVisible := 12
		start := 0
		if len(moves) > maxVisible {
			start = len(moves) - maxVisible
		}

		for i := start; i < len(moves); i++ {
			m := moves[i]
			symbol := "?"
			if side, ok := state.Board.At(m.Row, m.Col).Owner(); ok {
				if side == types.Min {
					symbol = string(p.info.PlayerSymbol)
				} else {
					symbol = string(otherSymbol(p.info.PlayerSymbol))
				}
			}

			marker := " "
			if i == len(moves)-1 {
				marker = "[white]>[-]"
			}
			text += fmt.Sprintf("%s[dimgray]%3d.[-] %s %s\n", marker, i+1, symbol, local.FormatMove(m))
		}

		if start > 0 {
			text += fmt.Sprintf("[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	p.box.SetText(text)
}

// scoreText describes a search score from the computer's point of view.
func scoreText(score int) string {
	switch {
	case score > 0:
		return "computer wins"
	case score < 0:
		return "computer loses"
	}
	return "draw"
}

func otherSymbol(r rune) rune {
	if r == 'X' {
		return 'O'
	}
	return 'X'
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, hint)
	return gameFrame
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	board.infoPanel = infoPanel
	board.refreshHint()

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 3, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI) {
	gameFrame.Clear()

	boardWidth, boardHeight := gridSize(3)
	if n := board.Size(); n > 0 {
		boardWidth, boardHeight = gridSize(n)
	}
	boardWidth += gridLeft
	boardHeight++

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardWidth, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}
