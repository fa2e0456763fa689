// Package reformat drives one normalization pass over a deck:
// find note IDs → batch read fields → normalize → batch write changes.
package reformat

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/ankitidy/core"
	"github.com/gaurav-prasanna/ankitidy/core/format"
)

// textField is the only field this tool reads or writes. Notes without
// it are skipped; heterogeneous decks make that an expected case.
const textField = "Text"

// Run normalizes the text field of every note in the named deck and
// writes back the notes whose content changed, as one batch call.
// Store failures abort the whole run; no partial update is attempted
// and no retry is performed.
func Run(ctx context.Context, store core.NoteStore, deck string) (core.Result, error) {
	ids, err := store.FindNotes(ctx, deckQuery(deck))
	if err != nil {
		return core.Result{}, fmt.Errorf("finding notes in %q: %w", deck, err)
	}
	if len(ids) == 0 {
		return core.Result{}, nil
	}

	notes, err := store.NotesInfo(ctx, ids)
	if err != nil {
		return core.Result{}, fmt.Errorf("reading notes in %q: %w", deck, err)
	}

	var res core.Result
	var batch []core.NoteUpdate
	for _, note := range notes {
		field, ok := note.Fields[textField]
		if !ok {
			res.Skipped++
			continue
		}
		cleaned := format.Normalize(field.Value)
		if cleaned == field.Value {
			res.Skipped++
			continue
		}
		batch = append(batch, core.NoteUpdate{
			ID:     note.ID,
			Fields: map[string]string{textField: cleaned},
		})
	}

	if len(batch) > 0 {
		if err := store.UpdateNotes(ctx, batch); err != nil {
			return core.Result{}, fmt.Errorf("updating notes in %q: %w", deck, err)
		}
	}

	res.Updated = len(batch)
	return res, nil
}

// deckQuery builds the Anki search query selecting a whole deck.
// The name is quoted so decks with spaces or special characters match.
func deckQuery(deck string) string {
	return `deck:"` + deck + `"`
}
