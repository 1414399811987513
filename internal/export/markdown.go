package export

import (
	"fmt"
	"strings"
)

// exportMarkdown renders the notes collection as a single Markdown document.
func exportMarkdown(req Request) (*Result, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", req.Title)
	fmt.Fprintf(&b, "%d notes\n", len(req.Notes))

	for _, n := range req.Notes {
		b.WriteString("\n---\n\n")

		switch n.Type {
		case "quote":
			for _, line := range strings.Split(n.Content, "\n") {
				fmt.Fprintf(&b, "> %s\n", line)
			}
		default:
			fmt.Fprintf(&b, "%s\n", n.Content)
		}

		if n.Source != "" {
			b.WriteString("\n&mdash; " + n.Source)
			if n.SourceAuthor != "" {
				b.WriteString(", " + n.SourceAuthor)
			}
			if n.PageNumber > 0 {
				fmt.Fprintf(&b, ", p. %d", n.PageNumber)
			}
			if n.Chapter != "" {
				b.WriteString(" (" + n.Chapter + ")")
			}
			b.WriteString("\n")
		}

		if n.PersonalNote != "" {
			fmt.Fprintf(&b, "\n*%s*\n", n.PersonalNote)
		}

		var meta []string
		meta = append(meta, n.Type)
		if !n.DateAdded.IsZero() {
			meta = append(meta, n.DateAdded.Format("2006-01-02"))
		}
		for _, tag := range n.Tags {
			meta = append(meta, "#"+tag)
		}
		fmt.Fprintf(&b, "\n`%s`\n", strings.Join(meta, " · "))
	}

	return &Result{
		Data:     []byte(b.String()),
		Filename: sanitizeFilename(req.Title) + ".md",
		MimeType: "text/markdown; charset=utf-8",
	}, nil
}
