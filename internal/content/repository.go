package content

import (
	"sort"
	"time"
)

// GitInfo resolves a file's last commit time. Implemented by gitlog.Service.
type GitInfo interface {
	LastModified(path string) (time.Time, bool)
}

// Repository aggregates documents by category. It reads from disk on every
// call: the content set is small, and re-reading keeps the repository free of
// staleness concerns.
type Repository struct {
	reader *DirReader
	git    GitInfo
}

// NewRepository creates a repository over a content directory. git may be nil
// when last-modified stamping is disabled.
func NewRepository(reader *DirReader, git GitInfo) *Repository {
	return &Repository{reader: reader, git: git}
}

// Items returns the published items of one category, newest first. Items with
// equal dates keep their enumeration (filename) order. Unpublished items
// never appear here.
func (r *Repository) Items(category Type) ([]Item, error) {
	docs, err := r.reader.ListDocuments(category)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		if !doc.Meta.Published {
			continue
		}
		items = append(items, r.stamp(doc))
	}
	sortByDateDesc(items)
	return items, nil
}

// ItemBySlug returns a single item with its body. The published gate applies
// to listings only; direct lookup returns drafts so the author can preview
// them. Absent documents report ok=false, not an error.
func (r *Repository) ItemBySlug(category Type, slug string) (Item, bool, error) {
	doc, ok, err := r.reader.GetDocument(category, slug)
	if err != nil || !ok {
		return Item{}, false, err
	}
	item := r.stamp(doc)
	item.Body = doc.Body
	return item, true, nil
}

// AllItems returns the published items of every category, newest first. This
// is the aggregate the relation resolver works against.
func (r *Repository) AllItems() ([]Item, error) {
	var all []Item
	for _, category := range Types() {
		items, err := r.Items(category)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	sortByDateDesc(all)
	return all, nil
}

// ItemsByTag filters the aggregate to items declaring the tag.
func (r *Repository) ItemsByTag(tag string) ([]Item, error) {
	all, err := r.AllItems()
	if err != nil {
		return nil, err
	}
	matched := make([]Item, 0)
	for _, item := range all {
		if item.HasTag(tag) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// AllTags returns every distinct tag across published items, sorted.
func (r *Repository) AllTags() ([]string, error) {
	all, err := r.AllItems()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, item := range all {
		for _, tag := range item.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// RelatedTo resolves the related-content set for an item against the full
// published aggregate.
func (r *Repository) RelatedTo(item Item) ([]Item, error) {
	all, err := r.AllItems()
	if err != nil {
		return nil, err
	}
	return Related(item, all), nil
}

func (r *Repository) stamp(doc Document) Item {
	item := doc.Meta
	if r.git != nil {
		if modified, ok := r.git.LastModified(doc.Path); ok {
			item.UpdatedAt = modified
		}
	}
	return item
}

func sortByDateDesc(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Date.After(items[b].Date)
	})
}
