package config

import "termtactoe/engine/search"

var DefaultConfig Config

func init() {
	theme := Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		UseGridLines:             true,
		Colors: ConfigColors{
			BoardColor:        236,
			BoardColorAlt:     237,
			XColor:            81,
			OColor:            209,
			LineColor:         244,
			CursorColorFG:     2,
			CursorColorBG:     4,
			LastPlayedColorBG: 2,
			WinningLineBG:     1,
		},
		Symbols: ConfigSymbols{
			X:          'X',
			O:          'O',
			EmptyCell:  '·',
			Cursor:     '·',
			LastPlayed: '·',
		},
	}

	DefaultConfig = Config{
		Theme: theme,
		Engine: EngineConfig{
			DefaultBoardSize: 3,
			PlayerSymbol:     "X",
			HumanFirst:       true,
			Algorithm:        search.AlphaBeta,
			Depth:            search.FullDepth,
			FullSearchCells:  9,
			FallbackDepth:    2,
			ThinkDelayMS:     500,
		},
		Server: ServerConfig{
			Addr:      "localhost:8080",
			TimeoutMS: 10000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
