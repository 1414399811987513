// Package export renders the side-notes collection to downloadable formats.
package export

import (
	"errors"
	"time"
)

// Format represents the export output format
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates an externally supplied format name.
func ParseFormat(raw string) (Format, bool) {
	switch Format(raw) {
	case FormatPDF, FormatMarkdown:
		return Format(raw), true
	default:
		return "", false
	}
}

// Note is one side note prepared for export, already in the external
// (lower-case type) convention.
type Note struct {
	Content      string
	Type         string
	Source       string
	SourceAuthor string
	Tags         []string
	PageNumber   int
	Chapter      string
	PersonalNote string
	DateAdded    time.Time
}

// Request contains parameters for an export operation
type Request struct {
	Format Format
	Title  string
	Notes  []Note
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
var ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
