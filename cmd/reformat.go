// Package cmd — reformat command.
// Runs one normalization pass over a deck and prints the summary.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/ankitidy/core/reformat"
)

var reformatCmd = &cobra.Command{
	Use:   "reformat <deck>",
	Short: "Normalize the Text field of every note in a deck",
	Long: `Reformat fetches all notes of the given deck, normalizes each note's
"Text" field, and writes back the notes whose content changed as a
single batch call. Notes without a "Text" field are skipped.

Examples:
  ankitidy reformat English::Listening
  ankitidy reformat "My Deck" --url http://localhost:8765`,
	Args: cobra.ExactArgs(1),
	RunE: runReformat,
}

func init() {
	rootCmd.AddCommand(reformatCmd)
}

func runReformat(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	res, err := reformat.Run(context.Background(), store, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated: %d, Skipped: %d\n", res.Updated, res.Skipped)
	return nil
}
