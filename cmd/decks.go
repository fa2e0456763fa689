// Package cmd — decks command.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List the decks known to the note store",
	Args:  cobra.NoArgs,
	RunE:  runDecks,
}

func init() {
	rootCmd.AddCommand(decksCmd)
}

func runDecks(cmd *cobra.Command, _ []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	names, err := store.DeckNames(context.Background())
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
