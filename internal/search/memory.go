package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/flores8/lauralee.space/internal/content"
	"github.com/flores8/lauralee.space/internal/store"
)

// NoteSource is the slice of the note store the scanner needs.
type NoteSource interface {
	ListSideNotes(ctx context.Context, filter store.NoteFilter) ([]store.SideNote, error)
}

// Scan is the fallback searcher: a case-insensitive substring scan over the
// published content aggregate and the side-note table. Crude next to a real
// index, but the corpus is one person's site.
type Scan struct {
	repo  *content.Repository
	notes NoteSource
}

// NewScan creates the fallback searcher. notes may be nil when the note
// store is unavailable.
func NewScan(repo *content.Repository, notes NoteSource) *Scan {
	return &Scan{repo: repo, notes: notes}
}

func (s *Scan) Search(ctx context.Context, q Query) ([]Result, int, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle == "" {
		return []Result{}, 0, nil
	}

	var results []Result
	if q.FilterType == "" || q.FilterType == ResultContent {
		items, err := s.repo.AllItems()
		if err != nil {
			return nil, 0, fmt.Errorf("scan content: %w", err)
		}
		for _, item := range items {
			if matchesItem(item, needle) {
				results = append(results, Result{
					Type:     ResultContent,
					ID:       ContentRecordID(string(item.Type), item.Slug),
					Title:    item.Title,
					Snippet:  item.Excerpt,
					Category: string(item.Type),
					Slug:     item.Slug,
				})
			}
		}
	}

	if (q.FilterType == "" || q.FilterType == ResultNote) && s.notes != nil {
		notes, err := s.notes.ListSideNotes(ctx, store.NoteFilter{})
		if err != nil {
			return nil, 0, fmt.Errorf("scan notes: %w", err)
		}
		for _, note := range notes {
			if matchesNote(note, needle) {
				results = append(results, Result{
					Type:    ResultNote,
					ID:      note.ID,
					Title:   deref(note.Source),
					Snippet: note.Content,
				})
			}
		}
	}

	total := len(results)
	if q.Offset > 0 {
		if q.Offset >= total {
			return []Result{}, total, nil
		}
		results = results[q.Offset:]
	}
	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, total, nil
}

func matchesItem(item content.Item, needle string) bool {
	if containsFold(item.Title, needle) ||
		containsFold(item.Excerpt, needle) ||
		containsFold(item.Slug, needle) ||
		containsFold(item.Author, needle) {
		return true
	}
	for _, tag := range item.Tags {
		if containsFold(tag, needle) {
			return true
		}
	}
	return false
}

func matchesNote(note store.SideNote, needle string) bool {
	if containsFold(note.Content, needle) ||
		containsFold(deref(note.Source), needle) ||
		containsFold(deref(note.SourceAuthor), needle) {
		return true
	}
	for _, tag := range note.Tags {
		if containsFold(tag, needle) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
