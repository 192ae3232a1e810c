package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagScoresLimit int
	flagRecent      bool
	flagSession     string
	flagInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the top high scores for a variant (default: tetris).

With --recent, list the most recently finished games of every variant
instead, including games abandoned by restart or expiry on the server.

Examples:
  tetris scores
  tetris scores tetris_classic --limit 20
  tetris scores --recent
  tetris scores --session 3f2b...
  tetris scores -i          # browse every variant in the terminal`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show recently finished games")
	scoresCmd.Flags().StringVar(&flagSession, "session", "", "Show games played in one session")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the scoreboard screen")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := "tetris"
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tetris list' to see available variants.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		cfg := runtimeConfig()
		if _, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch {
	case flagSession != "":
		results, err := store.GameResultsBySession(flagSession)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
			return
		}
		fmt.Printf("Games in session %s\n\n", flagSession)
		printResults(results)
	case flagRecent:
		results, err := store.RecentGameResults(flagScoresLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
			return
		}
		fmt.Print("Recent games\n\n")
		printResults(results)
	default:
		printHighScores(store, gameID)
	}
}

func printHighScores(store *storage.Store, gameID string) {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", registry.Title(gameID))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tetris play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d   Games: %d   Average: %.0f   Lines: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.TotalLines)
	}
}

func printResults(results []storage.GameResult) {
	if len(results) == 0 {
		fmt.Println("No games recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-6s  %-6s  %-10s  %-6s  %s\n", "Variant", "Score", "Lines", "Pieces", "Ended", "Time", "Date")
	for _, r := range results {
		fmt.Printf("  %-16s  %-8d  %-6d  %-6d  %-10s  %-6s  %s\n",
			r.GameID, r.Score, r.Lines, r.Pieces, r.EndReason,
			fmt.Sprintf("%ds", r.DurationSecs),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
