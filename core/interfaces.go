// Package core defines the shared types and ports for ankitidy.
// The note store is a clean, testable interface so the reformat driver
// can run against the real AnkiConnect client or an in-memory fake.
package core

import "context"

// Field is a single named field of a note as AnkiConnect returns it.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Note is one note record from the remote store.
type Note struct {
	ID     int64            `json:"noteId"`
	Fields map[string]Field `json:"fields"`
}

// NoteUpdate is one staged field rewrite, sent as part of a batch write.
type NoteUpdate struct {
	ID     int64
	Fields map[string]string
}

// Result summarizes one reformat run over a deck.
type Result struct {
	Updated int
	Skipped int
}

// NoteStore is the collaborator note-management service.
type NoteStore interface {
	// FindNotes returns the IDs of notes matching an Anki search query.
	FindNotes(ctx context.Context, query string) ([]int64, error)
	// NotesInfo returns field contents for the given note IDs in one call.
	NotesInfo(ctx context.Context, ids []int64) ([]Note, error)
	// UpdateNotes applies all staged field rewrites as a single batch call.
	UpdateNotes(ctx context.Context, updates []NoteUpdate) error
	// DeckNames lists the decks known to the store.
	DeckNames(ctx context.Context) ([]string, error)
}
