package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	profilePath string

	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docstruct",
	Short: "docstruct - paragraph-record extraction for paginated documents",
	Long: `docstruct extracts numbered paragraphs from paginated regulatory
documents (PDF, paged Markdown, paged HTML) into an ordered JSON array of
records carrying heading context, printed page number and paragraph label.
Footnote and tabular text is excluded before it can reach any record.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(log)
	},
}

func main() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "path to a YAML extraction profile")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
