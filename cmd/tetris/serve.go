package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/platform/web"
	"github.com/vovakirdan/tui-tetris/internal/session"
)

var (
	flagHTTPAddr    string
	flagSessionIdle time.Duration
	flagMaxSessions int
	flagVerbose     bool
	flagClassic     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serve games over a JSON API. Every client gets its own session;
the session ID comes back from /start as the tetris_session cookie and
the X-Session-ID header.

Routes:
  POST /start    (/api/start)   - start or restart the caller's game
  GET  /state    (/api/state)   - board, score and game-over flag
  POST /action   (/api/action)  - {"action": "left|right|rotate|drop|tick"}
  GET  /api/scores?limit=N      - high scores
  GET  /api/config              - board size and score table
  GET  /healthz                 - liveness

Examples:
  tetris serve
  tetris serve --addr :9000 --max-sessions 200
  tetris serve --idle-timeout 10m --scoring classic`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "addr", ":8080", "HTTP listen address (host:port)")
	serveCmd.Flags().DurationVar(&flagSessionIdle, "idle-timeout", 30*time.Minute, "Remove sessions idle for this long (0 = never)")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", 1000, "Maximum concurrent sessions (0 = unlimited)")
	serveCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every request")
	serveCmd.Flags().BoolVar(&flagClassic, "classic", false, "Record results under tetris_classic with the classic score table")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetris-http",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	gameCfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	gameID := "tetris"
	switch {
	case flagClassic:
		gameID = "tetris_classic"
		config.ApplyScoringPreset(&gameCfg, config.ScoringClassic)
	case flagScoring != "":
		preset := config.ScoringPreset(flagScoring)
		if !preset.Valid() {
			fmt.Fprintf(os.Stderr, "Error: unknown scoring preset %q\n", flagScoring)
			os.Exit(1)
		}
		config.ApplyScoringPreset(&gameCfg, preset)
	}

	factory := session.NewEngineFactory(gameCfg.EngineOptions(0))
	if seed := pinnedSeed(gameCfg); seed != 0 {
		base := factory
		factory = func(int64) (*engine.Session, error) { return base(seed) }
	}

	sessCfg := session.DefaultConfig()
	sessCfg.GameID = gameID
	sessCfg.IdleTimeout = flagSessionIdle
	sessCfg.MaxSessions = flagMaxSessions

	sessions := session.NewRegistry(sessCfg, factory, logger.WithPrefix("session"))

	store := openStoreOrWarn()
	var scores web.ScoreReader
	if store != nil {
		sessions.SetResultSaver(store)
		scores = store
	}
	sessions.Start()

	srvCfg := web.DefaultServerConfig()
	srvCfg.Address = flagHTTPAddr
	srvCfg.GameID = gameID
	server := web.NewServer(srvCfg, sessions, scores, gameCfg, logger)

	fmt.Printf("Serving %s on %s\n", gameID, server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	err = server.ListenAndServe()
	sessions.Stop()
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("closing score store", "err", cerr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// pinnedSeed returns the seed every new game should use, or 0 for a fresh
// seed per game. The --seed flag wins over the config file.
func pinnedSeed(cfg config.TetrisConfig) int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return cfg.Gameplay.Seed
}
