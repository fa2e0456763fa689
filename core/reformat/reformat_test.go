package reformat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/ankitidy/core"
)

// fakeStore is an in-memory NoteStore that records calls.
type fakeStore struct {
	notes []core.Note

	findErr   error
	infoErr   error
	updateErr error

	findCalls    int
	infoCalls    int
	updateCalls  int
	lastQuery    string
	lastIDs      []int64
	lastUpdates  []core.NoteUpdate
}

func (f *fakeStore) FindNotes(_ context.Context, query string) ([]int64, error) {
	f.findCalls++
	f.lastQuery = query
	if f.findErr != nil {
		return nil, f.findErr
	}
	ids := make([]int64, 0, len(f.notes))
	for _, n := range f.notes {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

func (f *fakeStore) NotesInfo(_ context.Context, ids []int64) ([]core.Note, error) {
	f.infoCalls++
	f.lastIDs = ids
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.notes, nil
}

func (f *fakeStore) UpdateNotes(_ context.Context, updates []core.NoteUpdate) error {
	f.updateCalls++
	f.lastUpdates = updates
	return f.updateErr
}

func (f *fakeStore) DeckNames(_ context.Context) ([]string, error) {
	return nil, nil
}

func textNote(id int64, value string) core.Note {
	return core.Note{ID: id, Fields: map[string]core.Field{"Text": {Value: value}}}
}

func TestRun_EmptyDeck(t *testing.T) {
	store := &fakeStore{}

	res, err := Run(context.Background(), store, "empty")

	require.NoError(t, err)
	assert.Equal(t, core.Result{}, res)
	assert.Equal(t, 1, store.findCalls)
	assert.Equal(t, 0, store.infoCalls, "no batch read for an empty deck")
	assert.Equal(t, 0, store.updateCalls)
}

func TestRun_QuotesDeckNameInQuery(t *testing.T) {
	store := &fakeStore{}

	_, err := Run(context.Background(), store, "English::Listening")

	require.NoError(t, err)
	assert.Equal(t, `deck:"English::Listening"`, store.lastQuery)
}

func TestRun_UpdatesOnlyChangedNotes(t *testing.T) {
	store := &fakeStore{notes: []core.Note{
		textNote(1, "already clean."),
		textNote(2, "<div>needs.cleanup</div>"),
		textNote(3, "fine as is!"),
	}}

	res, err := Run(context.Background(), store, "deck")

	require.NoError(t, err)
	assert.Equal(t, core.Result{Updated: 1, Skipped: 2}, res)
	require.Len(t, store.lastUpdates, 1)
	assert.Equal(t, int64(2), store.lastUpdates[0].ID)
	assert.Equal(t, "needs. cleanup", store.lastUpdates[0].Fields["Text"])
}

func TestRun_SkipsNotesWithoutTextField(t *testing.T) {
	store := &fakeStore{notes: []core.Note{
		{ID: 1, Fields: map[string]core.Field{"Front": {Value: "no text here"}}},
		{ID: 2, Fields: nil},
		textNote(3, "dirty<br>note"),
	}}

	res, err := Run(context.Background(), store, "mixed")

	require.NoError(t, err)
	assert.Equal(t, core.Result{Updated: 1, Skipped: 2}, res)
}

func TestRun_CleanDeckIssuesNoWrite(t *testing.T) {
	store := &fakeStore{notes: []core.Note{
		textNote(1, "clean. text!"),
		textNote(2, "more clean text?"),
	}}

	res, err := Run(context.Background(), store, "deck")

	require.NoError(t, err)
	assert.Equal(t, core.Result{Updated: 0, Skipped: 2}, res)
	assert.Equal(t, 0, store.updateCalls)
}

func TestRun_SingleBatchWriteForManyChanges(t *testing.T) {
	store := &fakeStore{notes: []core.Note{
		textNote(1, "a<br>b"),
		textNote(2, "c&nbsp;d"),
		textNote(3, "e.f"),
	}}

	res, err := Run(context.Background(), store, "deck")

	require.NoError(t, err)
	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, 1, store.updateCalls)
	assert.Len(t, store.lastUpdates, 3)
}

func TestRun_SecondRunIsNoOp(t *testing.T) {
	store := &fakeStore{notes: []core.Note{textNote(1, "messy.text<br>here")}}

	first, err := Run(context.Background(), store, "deck")
	require.NoError(t, err)
	require.Equal(t, 1, first.Updated)

	// Apply the write back to the fake, as the real store would.
	store.notes[0].Fields["Text"] = core.Field{Value: store.lastUpdates[0].Fields["Text"]}
	store.updateCalls = 0

	second, err := Run(context.Background(), store, "deck")
	require.NoError(t, err)
	assert.Equal(t, core.Result{Updated: 0, Skipped: 1}, second)
	assert.Equal(t, 0, store.updateCalls)
}

func TestRun_FindErrorIsFatal(t *testing.T) {
	store := &fakeStore{findErr: errors.New("connection refused")}

	_, err := Run(context.Background(), store, "deck")

	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 0, store.updateCalls)
}

func TestRun_ReadErrorIsFatal(t *testing.T) {
	store := &fakeStore{
		notes:   []core.Note{textNote(1, "x")},
		infoErr: errors.New("timeout"),
	}

	_, err := Run(context.Background(), store, "deck")

	require.Error(t, err)
	assert.Equal(t, 0, store.updateCalls)
}

func TestRun_UpdateErrorIsFatal(t *testing.T) {
	store := &fakeStore{
		notes:     []core.Note{textNote(1, "fix.me")},
		updateErr: errors.New("collection is not available"),
	}

	_, err := Run(context.Background(), store, "deck")

	require.Error(t, err)
	assert.ErrorContains(t, err, "collection is not available")
}
