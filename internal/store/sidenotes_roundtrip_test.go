package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestSideNotesPostgresRoundtrip exercises the real SQL against a disposable
// database: filter and ordering behavior of ListSideNotes, the JSONB list
// round trip, and the row-count checks in update and delete. Requires
// SITE_TEST_DATABASE_URL and drops the public schema of that database.
func TestSideNotesPostgresRoundtrip(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("SITE_TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("SITE_TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping database: %v", err)
	}

	resetPublicSchema(ctx, t, db)
	if err := ApplyMigrations(ctx, db, filepath.Join("..", "..", "db", "migrations")); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	st := NewPostgresStore(db)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	str := func(s string) *string { return &s }
	seed := []SideNote{
		{ID: "note_1", Content: "first", Type: NoteTypeQuote, Source: str("Zen Mind"), Tags: []string{"practice"}, DateAdded: base},
		{ID: "note_2", Content: "second", Type: NoteTypeThought, Source: str("Atomic Habits"), Tags: []string{"habits", "practice"}, DateAdded: base.Add(time.Minute)},
		{ID: "note_3", Content: "third", Type: NoteTypeIdea, DateAdded: base.Add(2 * time.Minute)},
	}
	for _, note := range seed {
		if err := st.InsertSideNote(ctx, note); err != nil {
			t.Fatalf("insert %s: %v", note.ID, err)
		}
	}

	listIDs := func(filter NoteFilter) []string {
		t.Helper()
		notes, err := st.ListSideNotes(ctx, filter)
		if err != nil {
			t.Fatalf("list %+v: %v", filter, err)
		}
		ids := make([]string, len(notes))
		for i, n := range notes {
			ids[i] = n.ID
		}
		return ids
	}
	assertIDs := func(got, want []string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("listing = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("listing = %v, want %v", got, want)
			}
		}
	}

	// newest first by default, oldest first when ascending
	assertIDs(listIDs(NoteFilter{SortBy: NoteSortDateAdded}), []string{"note_3", "note_2", "note_1"})
	assertIDs(listIDs(NoteFilter{SortBy: NoteSortDateAdded, SortAsc: true}), []string{"note_1", "note_2", "note_3"})

	// source ordering in both directions keeps null sources at the end
	assertIDs(listIDs(NoteFilter{SortBy: NoteSortSource, SortAsc: true}), []string{"note_2", "note_1", "note_3"})
	assertIDs(listIDs(NoteFilter{SortBy: NoteSortSource}), []string{"note_1", "note_2", "note_3"})

	// type filter and JSONB tag containment
	assertIDs(listIDs(NoteFilter{Type: NoteTypeQuote, SortBy: NoteSortDateAdded}), []string{"note_1"})
	assertIDs(listIDs(NoteFilter{Tag: "practice", SortBy: NoteSortDateAdded}), []string{"note_2", "note_1"})
	assertIDs(listIDs(NoteFilter{Tag: "habits", SortBy: NoteSortDateAdded}), []string{"note_2"})
	assertIDs(listIDs(NoteFilter{Tag: "unused", SortBy: NoteSortDateAdded}), []string{})

	got, err := st.GetSideNote(ctx, "note_2")
	if err != nil {
		t.Fatalf("get note_2: %v", err)
	}
	if got.Source == nil || *got.Source != "Atomic Habits" {
		t.Errorf("note_2 source = %v, want Atomic Habits", got.Source)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "habits" || got.Tags[1] != "practice" {
		t.Errorf("note_2 tags = %v, want [habits practice]", got.Tags)
	}
	if got.RelatedBooks == nil || len(got.RelatedBooks) != 0 {
		t.Errorf("note_2 related_books = %v, want empty non-nil list", got.RelatedBooks)
	}

	// update replaces mutable fields and leaves date_added alone
	revised := seed[0]
	revised.Content = "first, revised"
	revised.Source = nil
	revised.Tags = []string{"zen"}
	if err := st.UpdateSideNote(ctx, revised); err != nil {
		t.Fatalf("update note_1: %v", err)
	}
	got, err = st.GetSideNote(ctx, "note_1")
	if err != nil {
		t.Fatalf("get note_1 after update: %v", err)
	}
	if got.Content != "first, revised" || got.Source != nil {
		t.Errorf("note_1 after update = %+v", got)
	}
	if !got.DateAdded.Equal(base) {
		t.Errorf("note_1 date_added changed to %v, want %v", got.DateAdded, base)
	}

	if err := st.UpdateSideNote(ctx, SideNote{ID: "note_missing", Content: "x", Type: NoteTypeIdea}); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("update missing note error = %v, want sql.ErrNoRows", err)
	}

	if err := st.DeleteSideNote(ctx, "note_3"); err != nil {
		t.Fatalf("delete note_3: %v", err)
	}
	if err := st.DeleteSideNote(ctx, "note_3"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("repeat delete error = %v, want sql.ErrNoRows", err)
	}
	assertIDs(listIDs(NoteFilter{SortBy: NoteSortDateAdded}), []string{"note_2", "note_1"})
}

func resetPublicSchema(ctx context.Context, t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.ExecContext(ctx, `DROP SCHEMA IF EXISTS public CASCADE`); err != nil {
		t.Fatalf("drop public schema: %v", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE SCHEMA public`); err != nil {
		t.Fatalf("create public schema: %v", err)
	}
}
