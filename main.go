// termtactoe is a terminal application to play tic-tac-toe on boards from
// 3x3 to 10x10 against a minimax or alpha-beta computer player.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"termtactoe/config"
	"termtactoe/engine"
	"termtactoe/engine/local"
	"termtactoe/engine/search"
	"termtactoe/server"
	"termtactoe/types"
	"termtactoe/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagBoardSize  = flag.Int("boardsize", 0, "Board size (3 to 10)")
	flagSymbol     = flag.String("symbol", "", "Your symbol (X or O)")
	flagSecond     = flag.Bool("second", false, "Let the computer move first")
	flagAlgorithm  = flag.String("algorithm", "", "Computer engine (minimax or alphabeta)")
	flagDepth      = flag.Int("depth", -2, "Minimax depth budget (-1 for a full search)")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagServe      = flag.Bool("serve", false, "Run the analysis server instead of the game")
	flagAddr       = flag.String("addr", "", "Analysis server listen address")
	flagProfile    = flag.Bool("profile", false, "Write a CPU profile of the session")
	flagLogLevel   = flag.String("loglevel", "", "Log level (debug, info, warn, error)")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config

// stopProfile flushes the CPU profile when -profile is set.
var stopProfile = func() {}

// exit stops profiling before leaving, since deferred calls do not run on
// os.Exit.
func exit(code int) {
	stopProfile()
	os.Exit(code)
}

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termtactoe %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *flagLogLevel != "" {
		cfg.Log.Level = *flagLogLevel
	}

	if *flagProfile {
		path, err := xdg.StateFile("termtactoe/profile/cpu.pprof")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		prof := profile.Start(profile.CPUProfile, profile.ProfilePath(filepath.Dir(path)), profile.Quiet, profile.NoShutdownHook)
		stopProfile = prof.Stop
	}
	defer stopProfile()

	if *flagServe {
		if err := serve(); err != nil {
			log.Error().Err(err).Msg("server failed")
			exit(1)
		}
		return
	}

	closeLog, err := cfg.OpenLogFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit(1)
	}
	defer closeLog()

	if err := runGame(); err != nil {
		log.Error().Err(err).Msg("ui failed")
		fmt.Fprintln(os.Stderr, err)
		exit(1)
	}
}

// serve runs the analysis server until interrupted.
func serve() error {
	if err := cfg.ConsoleLogger(); err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if *flagAddr != "" {
		addr = *flagAddr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.New(cfg.Server.Timeout()).Run(ctx, addr)
	})
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case s := <-sig:
			log.Info().Stringer("signal", s).Msg("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})
	return g.Wait()
}

func runGame() error {
	quickStart := *flagQuickStart || *flagBoardSize > 0 || *flagSymbol != "" || *flagSecond || *flagAlgorithm != "" || *flagDepth >= -1 || *flagFocus

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" # termtactoe ")

	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoard(app, cfg, gameHint)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if gameBoard.SelectedCell() != nil {
				gameBoard.ResetSelection()
			} else {
				gameBoard.Close()
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyDown:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyRight:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyEnter:
			sel := gameBoard.SelectedCell()
			if sel == nil {
				return nil
			}
			gameBoard.PlayMove(sel.Row, sel.Col)
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(0, -1)
			case 'j':
				gameBoard.MoveSelection(1, 0)
			case 'k':
				gameBoard.MoveSelection(-1, 0)
			case 'l':
				gameBoard.MoveSelection(0, 1)
			case 'u':
				gameBoard.Undo()
			case 'r':
				gameBoard.Redo()
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
			}
		}
		return event
	})

	setupUI := ui.NewGameSetup(
		cfg.GameConfig(),
		func(gameCfg engine.GameConfig) {
			startGame(gameCfg)
		},
		func() {
			app.Stop()
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
	)

	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 64), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if quickStart {
		gameCfg, err := buildGameConfigFromFlags()
		if err != nil {
			return err
		}
		startGame(gameCfg)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	defer gameBoard.Close()
	return app.SetRoot(rootPage, true).Run()
}

// startGame starts a game with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	gameBoard.Close()

	eng := local.NewEngine(gameCfg)
	if err := gameBoard.ConnectEngine(eng); err != nil {
		log.Error().Err(err).Msg("failed to start game")
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.HidePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return
	}
	if gameBoard.IsFocusMode() {
		ui.BuildFocusLayout(gameFrame, gameBoard)
	}
	rootPage.SwitchToPage("gameview")
}

// buildGameConfigFromFlags creates a GameConfig from command-line flags on
// top of the configured defaults.
func buildGameConfigFromFlags() (engine.GameConfig, error) {
	gameCfg := cfg.GameConfig()

	if *flagBoardSize != 0 {
		if *flagBoardSize < types.MinBoardSize || *flagBoardSize > types.MaxBoardSize {
			return gameCfg, types.ErrInvalidSize
		}
		gameCfg.BoardSize = *flagBoardSize
	}

	switch strings.ToUpper(*flagSymbol) {
	case "":
	case "X", "O":
		gameCfg.PlayerSymbol = rune(strings.ToUpper(*flagSymbol)[0])
	default:
		return gameCfg, fmt.Errorf("symbol must be X or O, got %q", *flagSymbol)
	}

	if *flagSecond {
		gameCfg.HumanFirst = false
	}

	if *flagAlgorithm != "" {
		algo, err := search.ParseAlgorithm(*flagAlgorithm)
		if err != nil {
			return gameCfg, err
		}
		gameCfg.Algorithm = algo
	}

	if *flagDepth >= -1 {
		gameCfg.Depth = *flagDepth
	}

	return gameCfg, nil
}
