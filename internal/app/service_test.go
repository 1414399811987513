package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/flores8/lauralee.space/internal/config"
	"github.com/flores8/lauralee.space/internal/content"
	"github.com/flores8/lauralee.space/internal/export"
	"github.com/flores8/lauralee.space/internal/store"
)

type fakeStore struct {
	listFn   func(context.Context, store.NoteFilter) ([]store.SideNote, error)
	getFn    func(context.Context, string) (store.SideNote, error)
	insertFn func(context.Context, store.SideNote) error
	updateFn func(context.Context, store.SideNote) error
	deleteFn func(context.Context, string) error
	pingFn   func(context.Context) error
}

func (f *fakeStore) ListSideNotes(ctx context.Context, filter store.NoteFilter) ([]store.SideNote, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeStore) GetSideNote(ctx context.Context, id string) (store.SideNote, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return store.SideNote{}, sql.ErrNoRows
}

func (f *fakeStore) InsertSideNote(ctx context.Context, note store.SideNote) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, note)
	}
	return nil
}

func (f *fakeStore) UpdateSideNote(ctx context.Context, note store.SideNote) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, note)
	}
	return nil
}

func (f *fakeStore) DeleteSideNote(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

func newTestService(t *testing.T, st noteStore) *Service {
	t.Helper()
	repo := content.NewRepository(content.NewDirReader(t.TempDir()), nil)
	return &Service{
		cfg:      config.Config{SearchLimitMax: 50},
		store:    st,
		content:  repo,
		exporter: export.NewService(),
		now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		newID:    func() string { return "note_fixed" },
	}
}

func strptr(s string) *string { return &s }

func TestCreateNoteValidationBeforeStore(t *testing.T) {
	cases := []struct {
		name  string
		input NoteInput
	}{
		{"missing content", NoteInput{Type: "quote"}},
		{"blank content", NoteInput{Content: "   ", Type: "quote"}},
		{"missing type", NoteInput{Content: "test"}},
		{"unknown type", NoteInput{Content: "test", Type: "musing"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inserted := false
			svc := newTestService(t, &fakeStore{
				insertFn: func(context.Context, store.SideNote) error {
					inserted = true
					return nil
				},
			})

			_, err := svc.CreateNote(context.Background(), tc.input)

			var domainErr *DomainError
			if !errors.As(err, &domainErr) {
				t.Fatalf("CreateNote() error = %v, want DomainError", err)
			}
			if domainErr.Status != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400", domainErr.Status)
			}
			if domainErr.Code != "VALIDATION_ERROR" {
				t.Errorf("Code = %q, want VALIDATION_ERROR", domainErr.Code)
			}
			if inserted {
				t.Error("store was mutated despite validation failure")
			}
		})
	}
}

func TestCreateNoteAssignsIDAndDate(t *testing.T) {
	var saved store.SideNote
	svc := newTestService(t, &fakeStore{
		insertFn: func(_ context.Context, note store.SideNote) error {
			saved = note
			return nil
		},
	})

	payload, err := svc.CreateNote(context.Background(), NoteInput{
		Content:      "Habits compound",
		Type:         "Quote",
		SourceAuthor: strptr("James Clear"),
	})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	if saved.ID != "note_fixed" {
		t.Errorf("stored ID = %q", saved.ID)
	}
	if saved.Type != store.NoteTypeQuote {
		t.Errorf("stored Type = %q, want %q", saved.Type, store.NoteTypeQuote)
	}
	if saved.DateAdded.IsZero() {
		t.Error("DateAdded not assigned")
	}
	if saved.Tags == nil || saved.RelatedBooks == nil || saved.RelatedWriting == nil {
		t.Error("absent lists should default to empty, not nil")
	}

	if payload.Type != "quote" {
		t.Errorf("payload type = %q, want lower-case quote", payload.Type)
	}
	if payload.DateAdded != "2025-06-01T12:00:00Z" {
		t.Errorf("payload date_added = %q", payload.DateAdded)
	}
	if payload.SourceAuthor == nil || *payload.SourceAuthor != "James Clear" {
		t.Errorf("payload source_author = %v", payload.SourceAuthor)
	}
}

func TestNotePayloadUsesExternalFieldNames(t *testing.T) {
	note := store.SideNote{
		ID:             "note_1",
		Content:        "test",
		Type:           store.NoteTypeInsight,
		SourceAuthor:   strptr("James Clear"),
		PageNumber:     intptr(12),
		RelatedBooks:   []string{"atomic-habits"},
		RelatedWriting: []string{},
		Tags:           []string{"habits"},
		DateAdded:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	raw, err := json.Marshal(notePayload(note))
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body := string(raw)

	for _, frag := range []string{
		`"type":"insight"`,
		`"source_author":"James Clear"`,
		`"page_number":12`,
		`"related_books":["atomic-habits"]`,
		`"related_writing":[]`,
		`"date_added":"2025-01-02T03:04:05Z"`,
		`"source":null`,
		`"personal_note":null`,
	} {
		if !strings.Contains(body, frag) {
			t.Errorf("payload JSON missing %s\n%s", frag, body)
		}
	}
}

func TestUpdateNoteFullReplace(t *testing.T) {
	var saved store.SideNote
	svc := newTestService(t, &fakeStore{
		updateFn: func(_ context.Context, note store.SideNote) error {
			saved = note
			return nil
		},
		getFn: func(_ context.Context, id string) (store.SideNote, error) {
			return store.SideNote{
				ID:        id,
				Content:   "replaced",
				Type:      store.NoteTypeThought,
				DateAdded: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	})

	payload, err := svc.UpdateNote(context.Background(), "note_1", NoteInput{
		Content: "replaced",
		Type:    "thought",
	})
	if err != nil {
		t.Fatalf("UpdateNote() error = %v", err)
	}

	if saved.ID != "note_1" {
		t.Errorf("updated ID = %q", saved.ID)
	}
	if saved.Source != nil || saved.PersonalNote != nil {
		t.Error("fields absent from the input must be replaced with null")
	}
	if saved.Tags == nil {
		t.Error("absent tags must be replaced with an empty list")
	}
	// date_added is immutable and comes back from the reload
	if payload.DateAdded != "2024-12-25T00:00:00Z" {
		t.Errorf("payload date_added = %q", payload.DateAdded)
	}
}

func TestUpdateNoteMissingIDMapsToNotFound(t *testing.T) {
	svc := newTestService(t, &fakeStore{
		updateFn: func(context.Context, store.SideNote) error { return sql.ErrNoRows },
	})

	_, err := svc.UpdateNote(context.Background(), "note_missing", NoteInput{Content: "x", Type: "idea"})
	status, code, _, _ := mapError(err)
	if status != http.StatusNotFound || code != "NOT_FOUND" {
		t.Errorf("mapError = %d %s, want 404 NOT_FOUND", status, code)
	}
}

func TestDeleteNotePropagatesNotFound(t *testing.T) {
	svc := newTestService(t, &fakeStore{
		deleteFn: func(context.Context, string) error { return sql.ErrNoRows },
	})

	err := svc.DeleteNote(context.Background(), "note_missing")
	if status, _, _, _ := mapError(err); status != http.StatusNotFound {
		t.Errorf("mapError status = %d, want 404", status)
	}
}

func TestNoteQueryFilter(t *testing.T) {
	cases := []struct {
		name    string
		query   NoteQuery
		want    store.NoteFilter
		wantErr bool
	}{
		{
			name:  "defaults",
			query: NoteQuery{},
			want:  store.NoteFilter{SortBy: store.NoteSortDateAdded},
		},
		{
			name:  "type is case insensitive",
			query: NoteQuery{Type: "QuOtE"},
			want:  store.NoteFilter{Type: store.NoteTypeQuote, SortBy: store.NoteSortDateAdded},
		},
		{
			name:  "sort by source ascending",
			query: NoteQuery{SortBy: "source", SortOrder: "asc"},
			want:  store.NoteFilter{SortBy: store.NoteSortSource, SortAsc: true},
		},
		{
			name:  "tag filter",
			query: NoteQuery{Tag: "habits"},
			want:  store.NoteFilter{Tag: "habits", SortBy: store.NoteSortDateAdded},
		},
		{
			name:  "type all means no type filter",
			query: NoteQuery{Type: "all"},
			want:  store.NoteFilter{SortBy: store.NoteSortDateAdded},
		},
		{
			name:  "tag all means no tag filter",
			query: NoteQuery{Tag: "all"},
			want:  store.NoteFilter{SortBy: store.NoteSortDateAdded},
		},
		{name: "unknown type", query: NoteQuery{Type: "musing"}, wantErr: true},
		{name: "unknown sort field", query: NoteQuery{SortBy: "mood"}, wantErr: true},
		{name: "unknown sort order", query: NoteQuery{SortOrder: "sideways"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.query.filter()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("filter() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("filter() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestExportNotesMarkdown(t *testing.T) {
	svc := newTestService(t, &fakeStore{
		listFn: func(_ context.Context, filter store.NoteFilter) ([]store.SideNote, error) {
			if filter.Type != store.NoteTypeQuote {
				t.Errorf("filter.Type = %q, want %q", filter.Type, store.NoteTypeQuote)
			}
			return []store.SideNote{
				{Content: "Habits compound", Type: store.NoteTypeQuote, Source: strptr("Atomic Habits")},
			}, nil
		},
	})

	result, err := svc.ExportNotes(context.Background(), "markdown", "quote")
	if err != nil {
		t.Fatalf("ExportNotes() error = %v", err)
	}
	if !strings.Contains(string(result.Data), "Habits compound") {
		t.Errorf("export output missing note content:\n%s", result.Data)
	}
	if result.MimeType != "text/markdown; charset=utf-8" {
		t.Errorf("MimeType = %q", result.MimeType)
	}
}

func TestExportNotesRejectsUnknownFormat(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	_, err := svc.ExportNotes(context.Background(), "docx", "")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != http.StatusBadRequest {
		t.Errorf("ExportNotes() error = %v, want 400 DomainError", err)
	}
}

func TestViewsDisabledWithoutCounter(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	_, err := svc.RecordView(context.Background(), "writing", "some-post")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != http.StatusNotImplemented {
		t.Errorf("RecordView() error = %v, want 501 DomainError", err)
	}
}

func intptr(n int) *int { return &n }
