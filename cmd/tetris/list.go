package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all game variants",
	Long:  `Print every variant ID with its title and, when a scores database exists, its best score.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	variants := registry.List()
	if len(variants) == 0 {
		fmt.Println("No variants registered.")
		return
	}

	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	width := len("variant")
	for _, v := range variants {
		width = max(width, len(v.ID))
	}

	fmt.Printf("%-*s  %-20s  %s\n", width, "variant", "title", "best")
	for _, v := range variants {
		best := "-"
		if store != nil {
			if score, err := store.HighScore(v.ID); err == nil && score > 0 {
				best = fmt.Sprint(score)
			}
		}
		fmt.Printf("%-*s  %-20s  %s\n", width, v.ID, v.Title, best)
	}
	fmt.Println("\nPlay one with: tetris play <variant>")
}
