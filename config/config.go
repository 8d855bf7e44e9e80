package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/adrg/xdg"

	"termtactoe/engine"
	"termtactoe/engine/search"
	"termtactoe/types"
)

var (
	cfgFile = "termtactoe/config.json"
	logFile = "termtactoe/termtactoe.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board"`
	BoardColorAlt     int `json:"board_alt"`
	XColor            int `json:"x"`
	OColor            int `json:"o"`
	LineColor         int `json:"line"`
	CursorColorFG     int `json:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
	WinningLineBG     int `json:"winning_line_bg"`
}

type ConfigSymbols struct {
	X          rune `json:"x"`
	O          rune `json:"o"`
	EmptyCell  rune `json:"empty"`
	Cursor     rune `json:"cursor"`
	LastPlayed rune `json:"last_played"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	UseGridLines             bool          `json:"use_grid_lines"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// EngineConfig holds the defaults offered on the setup screen and the
// computer's search policy.
type EngineConfig struct {
	DefaultBoardSize int              `json:"default_board_size"`
	PlayerSymbol     string           `json:"player_symbol"`
	HumanFirst       bool             `json:"human_first"`
	Algorithm        search.Algorithm `json:"algorithm"`
	Depth            int              `json:"depth"`
	FullSearchCells  int              `json:"full_search_cells"`
	FallbackDepth    int              `json:"fallback_depth"`
	ThinkDelayMS     int              `json:"think_delay_ms"`
}

// ServerConfig holds settings for the analysis server.
type ServerConfig struct {
	Addr      string `json:"addr"`
	TimeoutMS int    `json:"timeout_ms"`
}

func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"` // empty: xdg state dir
}

type Config struct {
	Theme  Theme        `json:"theme"`
	Engine EngineConfig `json:"engine"`
	Server ServerConfig `json:"server"`
	Log    LogConfig    `json:"log"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	s := c.Theme.Symbols
	for _, r := range []rune{s.X, s.O, s.EmptyCell, s.Cursor, s.LastPlayed} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	e := c.Engine
	if e.DefaultBoardSize < types.MinBoardSize || e.DefaultBoardSize > types.MaxBoardSize {
		return &InvalidConfig{fmt.Sprintf("default_board_size must be between %d and %d", types.MinBoardSize, types.MaxBoardSize)}
	}
	if e.PlayerSymbol != "X" && e.PlayerSymbol != "O" {
		return &InvalidConfig{"player_symbol must be X or O"}
	}
	if e.Algorithm != search.Minimax && e.Algorithm != search.AlphaBeta {
		return &InvalidConfig{"algorithm must be minimax or alphabeta"}
	}
	if e.FallbackDepth < 0 || e.FullSearchCells < 0 || e.ThinkDelayMS < 0 {
		return &InvalidConfig{"fallback_depth, full_search_cells and think_delay_ms must not be negative"}
	}
	if e.FallbackDepth == 0 {
		return &InvalidConfig{"fallback_depth must be at least 1"}
	}
	if e.Algorithm == search.Minimax && e.Depth == 0 {
		return &InvalidConfig{"minimax depth must be at least 1, or -1 for a full search"}
	}
	if c.Server.TimeoutMS <= 0 {
		return &InvalidConfig{"server timeout_ms must be positive"}
	}
	return nil
}

// GameConfig returns the engine settings for a new game. The setup screen
// overrides size, symbol, first player and algorithm.
func (c *Config) GameConfig() engine.GameConfig {
	e := c.Engine
	return engine.GameConfig{
		BoardSize:       e.DefaultBoardSize,
		PlayerSymbol:    rune(e.PlayerSymbol[0]),
		HumanFirst:      e.HumanFirst,
		Algorithm:       e.Algorithm,
		Depth:           e.Depth,
		FullSearchCells: e.FullSearchCells,
		FallbackDepth:   e.FallbackDepth,
		ThinkDelay:      time.Duration(e.ThinkDelayMS) * time.Millisecond,
	}
}

// LogFile returns the path of the log file, creating its directory.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(logFile)
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(configReader, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
