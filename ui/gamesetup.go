// Package ui provides terminal UI components for termtactoe.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/tview"

	"termtactoe/engine"
	"termtactoe/engine/search"
	"termtactoe/types"
)

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	onStart  func(engine.GameConfig)
	onCancel func()
	onColors func()

	config engine.GameConfig
}

var setupAlgorithms = []search.Algorithm{search.AlphaBeta, search.Minimax}

// NewGameSetup creates a new game setup form preset with defaults.
func NewGameSetup(defaults engine.GameConfig, onStart func(engine.GameConfig), onCancel func(), onColors func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		onColors: onColors,
		config:   defaults,
	}

	var boardSizes []string
	for n := types.MinBoardSize; n <= types.MaxBoardSize; n++ {
		boardSizes = append(boardSizes, fmt.Sprintf("%dx%d", n, n))
	}
	symbols := []string{"X", "O"}
	firstMove := []string{"You", "Computer"}
	algorithms := []string{"Alpha-Beta (pruned)", "Minimax (exhaustive)"}

	form := tview.NewForm()

	sizeIndex := defaults.BoardSize - types.MinBoardSize
	if sizeIndex < 0 || sizeIndex >= len(boardSizes) {
		sizeIndex = 0
	}
	form.AddDropDown("Board Size", boardSizes, sizeIndex, func(option string, index int) {
		setup.config.BoardSize = types.MinBoardSize + index
	})

	symbolIndex := 0
	if defaults.PlayerSymbol == 'O' {
		symbolIndex = 1
	}
	form.AddDropDown("Your Symbol", symbols, symbolIndex, func(option string, index int) {
		setup.config.PlayerSymbol = rune(symbols[index][0])
	})

	firstIndex := 0
	if !defaults.HumanFirst {
		firstIndex = 1
	}
	form.AddDropDown("First Move", firstMove, firstIndex, func(option string, index int) {
		setup.config.HumanFirst = index == 0
	})

	algoIndex := 0
	if defaults.Algorithm == search.Minimax {
		algoIndex = 1
	}
	form.AddDropDown("Computer", algorithms, algoIndex, func(option string, index int) {
		setup.config.Algorithm = setupAlgorithms[index]
	})

	form.AddInputField("Minimax Depth", depthText(defaults.Depth), 8, func(text string, lastChar rune) bool {
		return (lastChar >= '0' && lastChar <= '9') || strings.HasPrefix("full", text)
	}, func(text string) {
		setup.config.Depth = parseDepth(text)
	})

	form.AddButton("Start Game", func() {
		onStart(setup.config)
	})

	form.AddButton("Board Color", func() {
		if onColors != nil {
			onColors()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)
	form.SetFieldBackgroundColor(MenuColors.CardBG)
	form.SetLabelColor(MenuColors.Label)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(MenuColors.Hint)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

func depthText(depth int) string {
	if depth < 0 {
		return "full"
	}
	return strconv.Itoa(depth)
}

// parseDepth reads the depth field. Anything that is not a number means a
// full-depth search.
func parseDepth(text string) int {
	d, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || d < 0 {
		return search.FullDepth
	}
	return d
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}
