package store

import "time"

// Side note types as persisted. The HTTP layer exposes the lower-case form;
// the storage convention is upper-case.
const (
	NoteTypeQuote   = "QUOTE"
	NoteTypeThought = "THOUGHT"
	NoteTypeIdea    = "IDEA"
	NoteTypeInsight = "INSIGHT"
)

// SideNote is a persisted note record in the storage convention. Optional
// scalars are pointers so the distinction between "absent" and "empty"
// survives the round trip; list columns are never null, only empty.
type SideNote struct {
	ID             string
	Content        string
	Type           string
	Source         *string
	SourceAuthor   *string
	RelatedBooks   []string
	RelatedWriting []string
	Tags           []string
	DateAdded      time.Time
	PageNumber     *int
	Chapter        *string
	PersonalNote   *string
	Mood           *string
	Context        *string
}

// Note sort fields accepted by ListSideNotes.
const (
	NoteSortDateAdded = "date_added"
	NoteSortSource    = "source"
)

// NoteFilter is the explicit query specification for listing side notes.
// Absent fields are zero values; filters combine with AND semantics.
type NoteFilter struct {
	Type     string // storage-convention enum value, empty = all
	Tag      string // membership test against the tags list, empty = all
	SortBy   string // NoteSortDateAdded (default) or NoteSortSource
	SortAsc  bool   // default descending
}
