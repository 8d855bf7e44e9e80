package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"termtactoe/config"
	"termtactoe/types"
)

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()

	selectedBoardColor int
	selectedLineColor  int
	editingLine        bool // true = editing line color, false = editing board color
}

type namedColor struct {
	code int
	name string
}

// Board backgrounds, dark enough for the X and O colors to stand out.
var boardColors = []namedColor{
	{16, "True Black"},
	{232, "Black"},
	{234, "Charcoal"},
	{236, "Dark Gray"},
	{238, "Slate"},
	{240, "Gray"},
	{17, "Navy Blue"},
	{18, "Dark Blue"},
	{22, "Dark Green"},
	{23, "Teal"},
	{52, "Dark Maroon"},
	{53, "Plum"},
	{58, "Olive"},
	{94, "Saddle Brown"},
	{180, "Tan"},
	{230, "Light Cream"},
}

// Grid line colors.
var lineColors = []namedColor{
	{244, "Medium Gray"},
	{248, "Light Gray"},
	{252, "Silver"},
	{255, "White"},
	{60, "Muted Blue"},
	{109, "Steel Blue"},
	{66, "Sea Green"},
	{136, "Dark Gold"},
	{130, "Dark Orange"},
	{88, "Dark Red"},
	{240, "Gray"},
	{236, "Dark Gray"},
}

// The preview shows a finished game: X won on the diagonal.
var previewBoard = mustPreviewBoard("xo./ox./o.x")

var previewLine = []types.Move{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}}

func mustPreviewBoard(s string) *types.Board {
	b, err := types.ParseBoard(s)
	if err != nil {
		panic(err)
	}
	return b
}

// NewColorConfig creates a new color configuration screen.
func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:                cfg,
		onDone:             onDone,
		selectedBoardColor: cfg.Theme.Colors.BoardColor,
		selectedLineColor:  cfg.Theme.Colors.LineColor,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.SetBorderColor(MenuColors.Border)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	// Moving through the list previews, Enter applies.
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		colors := cc.currentColors()
		if index < 0 || index >= len(colors) {
			return
		}
		if cc.editingLine {
			cc.selectedLineColor = colors[index].code
		} else {
			cc.selectedBoardColor = colors[index].code
		}
	})

	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if cc.editingLine {
			cc.cfg.Theme.Colors.LineColor = cc.selectedLineColor
			cc.save()
			cc.editingLine = false
			cc.populateColorList()
			return
		}
		cc.cfg.Theme.Colors.BoardColor = cc.selectedBoardColor
		cc.cfg.Theme.Colors.BoardColorAlt = cc.selectedBoardColor
		cc.save()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetBorderColor(MenuColors.Border)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) save() {
	if err := cc.cfg.Save(); err != nil {
		log.Error().Err(err).Msg("failed to save config")
	}
}

func (cc *ColorConfigUI) currentColors() []namedColor {
	if cc.editingLine {
		return lineColors
	}
	return boardColors
}

// populateColorList fills the list with appropriate colors based on editing mode.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	selected := cc.selectedBoardColor
	cc.colorList.SetTitle(" Select Board Color (Tab: switch to line) ")
	if cc.editingLine {
		selected = cc.selectedLineColor
		cc.colorList.SetTitle(" Select Line Color (Tab: switch to board) ")
	}

	for i, c := range cc.currentColors() {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range cc.currentColors() {
		if c.code == selected {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	n := previewBoard.Size()
	w, h := gridSize(n)
	if width < w+4 || height < h+4 {
		return x, y, width, height
	}

	colors := cc.cfg.Theme.Colors
	symbols := cc.cfg.Theme.Symbols
	boardColor := tcell.PaletteColor(cc.selectedBoardColor)
	lineStyle := tcell.StyleDefault.Background(boardColor).Foreground(tcell.PaletteColor(cc.selectedLineColor))
	xStyle := tcell.StyleDefault.Background(boardColor).Foreground(tcell.PaletteColor(colors.XColor))
	oStyle := tcell.StyleDefault.Background(boardColor).Foreground(tcell.PaletteColor(colors.OColor))
	winBG := tcell.PaletteColor(colors.WinningLineBG)

	startX := x + 2
	startY := y + 1
	drawGrid(screen, startX, startY, n, func(row, col int) (rune, tcell.Style) {
		r, style := symbols.EmptyCell, lineStyle
		switch previewBoard.At(row, col) {
		case types.Cell(types.Max):
			r, style = symbols.X, xStyle
		case types.Cell(types.Min):
			r, style = symbols.O, oStyle
		}
		if inLine(previewLine, types.Move{Row: row, Col: col}) {
			style = style.Background(winBG)
		}
		return r, style
	}, lineStyle)

	var info string
	if cc.editingLine {
		info = fmt.Sprintf("Line: %d  Board: %d", cc.selectedLineColor, cc.selectedBoardColor)
	} else {
		info = fmt.Sprintf("Board: %d  Line: %d", cc.selectedBoardColor, cc.selectedLineColor)
	}
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+h+1, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between board color and line color editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingLine = !cc.editingLine
	cc.populateColorList()
}
