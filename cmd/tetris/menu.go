package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a variant from a menu",
	Long: `Open the game picker. Leaving a game (Esc twice, or Esc after game
over) returns to it; Tab shows the scoreboard.

Controls:
  Up/Down/j/k  - Move
  Enter/Space  - Play
  Tab          - Scores
  Q            - Quit

Examples:
  tetris menu
  tetris menu --fps 30
  tetris menu --seed 42   # every game uses the same piece sequence`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	if err := tui.RunSession(store, runtimeConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
