// Package cli implements the faqctl command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/davidbz/faqvoice/internal/app"
)

var jsonOutput bool

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "faqctl",
		Short: "Manage and query the FAQ voice assistant",
		Long: `faqctl prepares the FAQ corpus and queries the matching engine locally.

Configuration is read from the environment and an optional .env file, the same
way the server reads it.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(newEmbedCommand())
	rootCmd.AddCommand(newAskCommand())
	rootCmd.AddCommand(newStatsCommand())

	return rootCmd
}

// invoke builds the container and runs fn with its dependencies.
func invoke(fn interface{}) error {
	container, err := app.BuildContainer()
	if err != nil {
		return err
	}
	return container.Invoke(fn)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
