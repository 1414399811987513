package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/flores8/lauralee.space/internal/config"
	"github.com/flores8/lauralee.space/internal/content"
	"github.com/flores8/lauralee.space/internal/export"
	"github.com/flores8/lauralee.space/internal/search"
	"github.com/flores8/lauralee.space/internal/store"
	"github.com/flores8/lauralee.space/internal/util"
	"github.com/flores8/lauralee.space/internal/views"
)

// NoteInput is the request body shape shared by note create and update.
// Field names follow the external snake_case convention; the type enum is
// lower-case. Absent lists default to empty, absent scalars to null.
type NoteInput struct {
	Content        string   `json:"content"`
	Type           string   `json:"type"`
	Source         *string  `json:"source"`
	SourceAuthor   *string  `json:"source_author"`
	RelatedBooks   []string `json:"related_books"`
	RelatedWriting []string `json:"related_writing"`
	Tags           []string `json:"tags"`
	PageNumber     *int     `json:"page_number"`
	Chapter        *string  `json:"chapter"`
	PersonalNote   *string  `json:"personal_note"`
	Mood           *string  `json:"mood"`
	Context        *string  `json:"context"`
}

// NotePayload is the external representation of a side note. Every stored
// field appears here under its external name so the translation with
// store.SideNote is lossless in both directions.
type NotePayload struct {
	ID             string   `json:"id"`
	Content        string   `json:"content"`
	Type           string   `json:"type"`
	Source         *string  `json:"source"`
	SourceAuthor   *string  `json:"source_author"`
	RelatedBooks   []string `json:"related_books"`
	RelatedWriting []string `json:"related_writing"`
	Tags           []string `json:"tags"`
	DateAdded      string   `json:"date_added"`
	PageNumber     *int     `json:"page_number"`
	Chapter        *string  `json:"chapter"`
	PersonalNote   *string  `json:"personal_note"`
	Mood           *string  `json:"mood"`
	Context        *string  `json:"context"`
}

// NoteQuery is the explicit query specification for note listings, built
// from query parameters at the HTTP boundary.
type NoteQuery struct {
	Type      string
	Tag       string
	SortBy    string
	SortOrder string
}

// ContentDetail is a content item with its body and resolved relations.
type ContentDetail struct {
	Item    content.Item   `json:"item"`
	Related []content.Item `json:"related"`
}

// noteTypes maps the external lower-case enum to the storage convention.
var noteTypes = map[string]string{
	"quote":   store.NoteTypeQuote,
	"thought": store.NoteTypeThought,
	"idea":    store.NoteTypeIdea,
	"insight": store.NoteTypeInsight,
}

type noteStore interface {
	ListSideNotes(context.Context, store.NoteFilter) ([]store.SideNote, error)
	GetSideNote(context.Context, string) (store.SideNote, error)
	InsertSideNote(context.Context, store.SideNote) error
	UpdateSideNote(context.Context, store.SideNote) error
	DeleteSideNote(context.Context, string) error
	Ping(context.Context) error
}

type Service struct {
	cfg      config.Config
	store    noteStore
	content  *content.Repository
	search   *search.Service
	exporter *export.Service
	views    *views.Counter

	now   func() time.Time
	newID func() string
}

// New wires the service. The search and views collaborators are optional
// and may be nil when their backends are not configured.
func New(cfg config.Config, dataStore *store.PostgresStore, repo *content.Repository, searchSvc *search.Service, exporter *export.Service, counter *views.Counter) *Service {
	return &Service{
		cfg:      cfg,
		store:    dataStore,
		content:  repo,
		search:   searchSvc,
		exporter: exporter,
		views:    counter,
		now:      time.Now,
		newID:    func() string { return util.NewID("note") },
	}
}

// Bootstrap populates the search indexes from current data. Failures are
// logged, not fatal: the scan fallback still serves queries.
func (s *Service) Bootstrap(ctx context.Context) {
	if s.search == nil {
		return
	}

	var contentRecords []search.ContentRecord
	items, err := s.content.AllItems()
	if err != nil {
		log.Printf("bootstrap: list content items: %v", err)
	} else {
		for _, item := range items {
			contentRecords = append(contentRecords, contentSearchRecord(item))
		}
	}

	var noteRecords []search.NoteRecord
	notes, err := s.store.ListSideNotes(ctx, store.NoteFilter{SortBy: store.NoteSortDateAdded})
	if err != nil {
		log.Printf("bootstrap: list side notes: %v", err)
	} else {
		for _, note := range notes {
			noteRecords = append(noteRecords, noteSearchRecord(note))
		}
	}

	s.search.ReindexAll(contentRecords, noteRecords)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ViewsEnabled reports whether the page-view counter is configured.
func (s *Service) ViewsEnabled() bool {
	return s.views != nil
}

// ViewsPing checks the counter backend. Only meaningful when ViewsEnabled.
func (s *Service) ViewsPing(ctx context.Context) error {
	if s.views == nil {
		return nil
	}
	return s.views.Ping(ctx)
}

// ListNotes returns notes matching the query in the external representation.
func (s *Service) ListNotes(ctx context.Context, query NoteQuery) ([]NotePayload, error) {
	filter, err := query.filter()
	if err != nil {
		return nil, err
	}
	notes, err := s.store.ListSideNotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list side notes: %w", err)
	}
	payloads := make([]NotePayload, 0, len(notes))
	for _, note := range notes {
		payloads = append(payloads, notePayload(note))
	}
	return payloads, nil
}

func (s *Service) GetNote(ctx context.Context, id string) (NotePayload, error) {
	note, err := s.store.GetSideNote(ctx, id)
	if err != nil {
		return NotePayload{}, err
	}
	return notePayload(note), nil
}

// CreateNote validates the input, then persists a new note with a generated
// id and creation timestamp. Validation happens before any store call.
func (s *Service) CreateNote(ctx context.Context, input NoteInput) (NotePayload, error) {
	storageType, err := validateNoteInput(input)
	if err != nil {
		return NotePayload{}, err
	}

	note := noteFromInput(input, storageType)
	note.ID = s.newID()
	note.DateAdded = s.now().UTC()

	if err := s.store.InsertSideNote(ctx, note); err != nil {
		return NotePayload{}, fmt.Errorf("insert side note: %w", err)
	}
	s.indexNote(note)
	return notePayload(note), nil
}

// UpdateNote replaces every mutable field of the note. Fields absent from
// the input become null/empty; date_added is immutable and survives. A
// nonexistent id surfaces as sql.ErrNoRows and maps to 404 at the boundary.
func (s *Service) UpdateNote(ctx context.Context, id string, input NoteInput) (NotePayload, error) {
	storageType, err := validateNoteInput(input)
	if err != nil {
		return NotePayload{}, err
	}

	note := noteFromInput(input, storageType)
	note.ID = id
	if err := s.store.UpdateSideNote(ctx, note); err != nil {
		return NotePayload{}, err
	}

	updated, err := s.store.GetSideNote(ctx, id)
	if err != nil {
		return NotePayload{}, fmt.Errorf("reload side note: %w", err)
	}
	s.indexNote(updated)
	return notePayload(updated), nil
}

func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.store.DeleteSideNote(ctx, id); err != nil {
		return err
	}
	if s.search != nil {
		s.search.DeleteNote(id)
	}
	return nil
}

// ExportNotes renders the (optionally type-filtered) collection to the
// requested format.
func (s *Service) ExportNotes(ctx context.Context, format, typeFilter string) (*export.Result, error) {
	f, ok := export.ParseFormat(format)
	if !ok {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "format must be one of: pdf, markdown", nil)
	}

	filter := store.NoteFilter{SortBy: store.NoteSortDateAdded}
	if typeFilter != "" && typeFilter != "all" {
		storageType, ok := noteTypes[strings.ToLower(typeFilter)]
		if !ok {
			return nil, invalidNoteType()
		}
		filter.Type = storageType
	}

	notes, err := s.store.ListSideNotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list side notes: %w", err)
	}

	req := export.Request{Format: f, Title: "Side Notes", Notes: make([]export.Note, 0, len(notes))}
	for _, note := range notes {
		req.Notes = append(req.Notes, export.Note{
			Content:      note.Content,
			Type:         strings.ToLower(note.Type),
			Source:       deref(note.Source),
			SourceAuthor: deref(note.SourceAuthor),
			Tags:         note.Tags,
			PageNumber:   derefInt(note.PageNumber),
			Chapter:      deref(note.Chapter),
			PersonalNote: deref(note.PersonalNote),
			DateAdded:    note.DateAdded,
		})
	}

	result, err := s.exporter.Export(req)
	if errors.Is(err, export.ErrPDFDependencyMissing) {
		return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF export is not available on this deployment", nil)
	}
	return result, err
}

// ContentItems lists the published items of one category.
func (s *Service) ContentItems(category string) ([]content.Item, error) {
	typ, ok := content.ParseType(category)
	if !ok {
		return nil, unknownCategory()
	}
	items, err := s.content.Items(typ)
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", typ, err)
	}
	if items == nil {
		items = []content.Item{}
	}
	return items, nil
}

// ContentItem resolves one item with its body and related content.
func (s *Service) ContentItem(category, slug string) (ContentDetail, error) {
	typ, ok := content.ParseType(category)
	if !ok {
		return ContentDetail{}, unknownCategory()
	}
	item, found, err := s.content.ItemBySlug(typ, slug)
	if err != nil {
		return ContentDetail{}, fmt.Errorf("resolve %s/%s: %w", category, slug, err)
	}
	if !found {
		return ContentDetail{}, domainError(http.StatusNotFound, "NOT_FOUND", "Content not found", nil)
	}
	related, err := s.content.RelatedTo(item)
	if err != nil {
		return ContentDetail{}, fmt.Errorf("resolve relations for %s/%s: %w", category, slug, err)
	}
	if related == nil {
		related = []content.Item{}
	}
	return ContentDetail{Item: item, Related: related}, nil
}

// Tags lists every distinct tag across published items, sorted.
func (s *Service) Tags() ([]string, error) {
	tags, err := s.content.AllTags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// ItemsByTag lists published items carrying the tag, newest first.
func (s *Service) ItemsByTag(tag string) ([]content.Item, error) {
	items, err := s.content.ItemsByTag(tag)
	if err != nil {
		return nil, fmt.Errorf("list items for tag %q: %w", tag, err)
	}
	if items == nil {
		items = []content.Item{}
	}
	return items, nil
}

// Search runs a site-wide search. Without a configured search service the
// response is empty rather than an error.
func (s *Service) Search(ctx context.Context, q search.Query) search.Response {
	if q.Limit <= 0 || q.Limit > s.cfg.SearchLimitMax {
		q.Limit = s.cfg.SearchLimitMax
	}
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	return s.search.Search(ctx, q)
}

// RecordView increments the page-view counter for a known content item.
func (s *Service) RecordView(ctx context.Context, category, slug string) (int64, error) {
	if err := s.checkViewTarget(category, slug); err != nil {
		return 0, err
	}
	return s.views.Increment(ctx, category, slug)
}

// ViewCount reads the page-view counter for a known content item.
func (s *Service) ViewCount(ctx context.Context, category, slug string) (int64, error) {
	if err := s.checkViewTarget(category, slug); err != nil {
		return 0, err
	}
	return s.views.Count(ctx, category, slug)
}

func (s *Service) checkViewTarget(category, slug string) error {
	if s.views == nil {
		return domainError(http.StatusNotImplemented, "VIEWS_DISABLED", "Page view tracking is not configured", nil)
	}
	typ, ok := content.ParseType(category)
	if !ok {
		return unknownCategory()
	}
	_, found, err := s.content.ItemBySlug(typ, slug)
	if err != nil {
		return fmt.Errorf("resolve %s/%s: %w", category, slug, err)
	}
	if !found {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Content not found", nil)
	}
	return nil
}

func (s *Service) indexNote(note store.SideNote) {
	if s.search == nil {
		return
	}
	s.search.IndexNote(noteSearchRecord(note))
}

func (q NoteQuery) filter() (store.NoteFilter, error) {
	filter := store.NoteFilter{SortBy: store.NoteSortDateAdded}

	// "all" is the conventional no-filter sentinel the site's note browser
	// sends for both parameters.
	if q.Type != "" && q.Type != "all" {
		storageType, ok := noteTypes[strings.ToLower(q.Type)]
		if !ok {
			return filter, invalidNoteType()
		}
		filter.Type = storageType
	}
	if q.Tag != "all" {
		filter.Tag = q.Tag
	}

	switch q.SortBy {
	case "", store.NoteSortDateAdded:
	case store.NoteSortSource:
		filter.SortBy = store.NoteSortSource
	default:
		return filter, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "sortBy must be one of: date_added, source", nil)
	}

	switch strings.ToLower(q.SortOrder) {
	case "", "desc":
	case "asc":
		filter.SortAsc = true
	default:
		return filter, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "sortOrder must be asc or desc", nil)
	}

	return filter, nil
}

// validateNoteInput enforces the create/update contract: non-empty content
// and a valid type. Returns the storage-convention type on success.
func validateNoteInput(input NoteInput) (string, error) {
	var missing []string
	if strings.TrimSpace(input.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(input.Type) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return "", domainError(http.StatusBadRequest, "VALIDATION_ERROR", "content and type are required", map[string]any{"missing": missing})
	}

	storageType, ok := noteTypes[strings.ToLower(strings.TrimSpace(input.Type))]
	if !ok {
		return "", invalidNoteType()
	}
	return storageType, nil
}

func invalidNoteType() *DomainError {
	return domainError(http.StatusBadRequest, "VALIDATION_ERROR", "type must be one of: quote, thought, idea, insight", nil)
}

func unknownCategory() *DomainError {
	return domainError(http.StatusNotFound, "NOT_FOUND", "Unknown content category", nil)
}

func noteFromInput(input NoteInput, storageType string) store.SideNote {
	return store.SideNote{
		Content:        input.Content,
		Type:           storageType,
		Source:         input.Source,
		SourceAuthor:   input.SourceAuthor,
		RelatedBooks:   nonNilStrings(input.RelatedBooks),
		RelatedWriting: nonNilStrings(input.RelatedWriting),
		Tags:           nonNilStrings(input.Tags),
		PageNumber:     input.PageNumber,
		Chapter:        input.Chapter,
		PersonalNote:   input.PersonalNote,
		Mood:           input.Mood,
		Context:        input.Context,
	}
}

func notePayload(note store.SideNote) NotePayload {
	return NotePayload{
		ID:             note.ID,
		Content:        note.Content,
		Type:           strings.ToLower(note.Type),
		Source:         note.Source,
		SourceAuthor:   note.SourceAuthor,
		RelatedBooks:   nonNilStrings(note.RelatedBooks),
		RelatedWriting: nonNilStrings(note.RelatedWriting),
		Tags:           nonNilStrings(note.Tags),
		DateAdded:      note.DateAdded.UTC().Format(time.RFC3339),
		PageNumber:     note.PageNumber,
		Chapter:        note.Chapter,
		PersonalNote:   note.PersonalNote,
		Mood:           note.Mood,
		Context:        note.Context,
	}
}

func contentSearchRecord(item content.Item) search.ContentRecord {
	return search.ContentRecord{
		ID:       search.ContentRecordID(string(item.Type), item.Slug),
		Title:    item.Title,
		Excerpt:  item.Excerpt,
		Category: string(item.Type),
		Slug:     item.Slug,
		Tags:     item.Tags,
	}
}

func noteSearchRecord(note store.SideNote) search.NoteRecord {
	return search.NoteRecord{
		ID:           note.ID,
		Content:      note.Content,
		Source:       deref(note.Source),
		SourceAuthor: deref(note.SourceAuthor),
		NoteType:     strings.ToLower(note.Type),
		Tags:         note.Tags,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
