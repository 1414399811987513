// Package content loads the site's file-based content (writing, reading,
// projects) and computes cross-content relations.
package content

import "time"

// Type identifies a content category. Slugs are unique within a category;
// (Type, Slug) is the global identity of an item.
type Type string

const (
	TypeWriting  Type = "writing"
	TypeReading  Type = "reading"
	TypeProjects Type = "projects"
)

// Types lists every category in enumeration order.
func Types() []Type {
	return []Type{TypeWriting, TypeReading, TypeProjects}
}

// ParseType validates a category name from an external caller.
func ParseType(raw string) (Type, bool) {
	switch Type(raw) {
	case TypeWriting, TypeReading, TypeProjects:
		return Type(raw), true
	default:
		return "", false
	}
}

// Reading statuses.
const (
	ReadingStatusReading    = "reading"
	ReadingStatusCompleted  = "completed"
	ReadingStatusWantToRead = "want-to-read"
)

// Project statuses.
const (
	ProjectStatusIdea       = "idea"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusMaintained = "maintained"
)

// Item is one content document. The Type field discriminates which of the
// category-specific fields are meaningful; callers narrow with an exhaustive
// switch on Type rather than probing fields.
type Item struct {
	Type      Type      `json:"type" yaml:"-"`
	Title     string    `json:"title" yaml:"title"`
	Slug      string    `json:"slug" yaml:"slug"`
	Date      time.Time `json:"date" yaml:"-"`
	Published bool      `json:"published" yaml:"published"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags"`
	Excerpt   string    `json:"excerpt,omitempty" yaml:"excerpt"`

	// writing and projects
	RelatedReading []string `json:"related_reading,omitempty" yaml:"related_reading"`
	InspiredBy     []string `json:"inspired_by,omitempty" yaml:"inspired_by"`

	// reading and projects
	RelatedWriting []string `json:"related_writing,omitempty" yaml:"related_writing"`

	// reading
	Author string `json:"author,omitempty" yaml:"author"`
	Status string `json:"status,omitempty" yaml:"status"`
	Rating int    `json:"rating,omitempty" yaml:"rating"`
	ISBN   string `json:"isbn,omitempty" yaml:"isbn"`
	Notes  string `json:"notes,omitempty" yaml:"notes"`

	// projects (Status is shared with reading)
	ProjectType string   `json:"project_type,omitempty" yaml:"project_type"`
	TechStack   []string `json:"tech_stack,omitempty" yaml:"tech_stack"`
	DemoURL     string   `json:"demo_url,omitempty" yaml:"demo_url"`
	GitHubURL   string   `json:"github_url,omitempty" yaml:"github_url"`

	// Body is empty in listings and populated by slug lookup.
	Body string `json:"body,omitempty" yaml:"-"`

	// UpdatedAt is the file's last commit time when the content directory is
	// a git checkout. Zero when git info is unavailable.
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"-"`
}

// HasTag reports whether the item declares the given tag.
func (i Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Document pairs an item's parsed front matter with its body text and the
// path it was read from.
type Document struct {
	Meta Item
	Body string
	Path string
}
