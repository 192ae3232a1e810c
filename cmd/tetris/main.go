// tetris is a falling-block game for the terminal, over SSH and over HTTP.
//
// Usage:
//
//	tetris list              - List available game variants
//	tetris play [variant]    - Play in this terminal
//	tetris menu              - Pick a variant interactively
//	tetris scores [variant]  - Show high scores and recent games
//	tetris serve             - Serve the JSON API for remote clients
//	tetris ssh               - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible gameplay
//	--db <path>        - Set database path (default: ~/.tetris/scores.db)
//	--config <path>    - Use a custom game config YAML
//	--scoring <preset> - Override the score table: modern, classic
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagScoring string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Falling-block puzzle game for your terminal",
	Long: `Stack falling pieces, complete rows and keep the well from
overflowing. Play locally, over SSH, or drive games through the JSON API.

Available commands:
  list     - Show all game variants
  play     - Play a variant directly
  menu     - Interactive variant picker
  scores   - View high scores
  serve    - Start the HTTP API server
  ssh      - Start SSH server for remote play

Examples:
  tetris play
  tetris play tetris_classic
  tetris menu --fps 30
  tetris serve --addr :8080
  tetris ssh --addr :2222`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagFPS <= 0 {
			return fmt.Errorf("--fps must be positive, got %d", flagFPS)
		}
		tetris.SetConfigPath(flagConfig)
		tetris.SetScoringPreset(flagScoring)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tetris/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagScoring, "scoring", "", "Scoring preset override: modern, classic")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
}
