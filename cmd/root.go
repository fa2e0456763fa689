// Package cmd implements the CLI commands for ankitidy using Cobra.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/ankitidy/core"
	"github.com/gaurav-prasanna/ankitidy/core/ankiconnect"
	"github.com/gaurav-prasanna/ankitidy/core/config"
)

// Persistent flags shared by all commands.
var (
	flagURL     string
	flagTimeout int
)

var rootCmd = &cobra.Command{
	Use:   "ankitidy",
	Short: "ankitidy — tidy the Text field of Anki notes via AnkiConnect",
	Long: `ankitidy talks to a locally running AnkiConnect service, normalizes
the "Text" field of the notes in a deck (strips stray markup, fixes
punctuation spacing, collapses whitespace) and writes back only the
notes that actually changed.

Usage:
  ankitidy reformat <deck>
  ankitidy decks`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "AnkiConnect base URL (default from ANKI_CONNECT_URL)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "Request timeout in seconds (default from ANKI_CONNECT_TIMEOUT)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newStore builds the AnkiConnect client from the environment config,
// with flags taking precedence.
func newStore() (core.NoteStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagURL != "" {
		cfg.URL = strings.TrimRight(flagURL, "/")
	}
	if flagTimeout > 0 {
		cfg.Timeout = time.Duration(flagTimeout) * time.Second
	}
	return ankiconnect.New(cfg.URL, cfg.Timeout), nil
}
