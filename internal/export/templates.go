package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const notesTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Georgia, serif; max-width: 680px; margin: 40px auto; color: #1a1a1a; }
  h1 { font-size: 28px; border-bottom: 1px solid #ddd; padding-bottom: 12px; }
  .note { margin: 28px 0; page-break-inside: avoid; }
  .note-type { font-size: 11px; text-transform: uppercase; letter-spacing: 1px; color: #888; }
  .note-content { font-size: 16px; line-height: 1.5; margin: 6px 0; }
  .note-source { font-size: 13px; color: #555; }
  .note-personal { font-size: 13px; font-style: italic; color: #666; margin-top: 4px; }
  .note-meta { font-size: 12px; color: #999; margin-top: 4px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="note-meta">Exported {{formatDate .ExportedAt}} &middot; {{len .Notes}} notes</p>
{{range .Notes}}
<div class="note">
  <div class="note-type">{{.Type}}</div>
  <div class="note-content">{{.Content}}</div>
  {{if .Source}}<div class="note-source">{{.Source}}{{if .SourceAuthor}} by {{.SourceAuthor}}{{end}}{{if .PageNumber}}, p. {{.PageNumber}}{{end}}{{if .Chapter}}, {{.Chapter}}{{end}}</div>{{end}}
  {{if .PersonalNote}}<div class="note-personal">{{.PersonalNote}}</div>{{end}}
  <div class="note-meta">{{formatDate .DateAdded}}{{if .Tags}} &middot; {{join .Tags}}{{end}}</div>
</div>
{{end}}
</body>
</html>`

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"join": func(ss []string) string {
		out := ""
		for i, s := range ss {
			if i > 0 {
				out += ", "
			}
			out += "#" + s
		}
		return out
	},
}

type templateData struct {
	Title      string
	ExportedAt time.Time
	Notes      []Note
}

// renderNotesHTML renders the full notes collection as a standalone HTML page.
func renderNotesHTML(req Request) ([]byte, error) {
	tmpl, err := template.New("notes").Funcs(templateFuncs).Parse(notesTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse notes template: %w", err)
	}

	data := templateData{
		Title:      req.Title,
		ExportedAt: time.Now().UTC(),
		Notes:      req.Notes,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute notes template: %w", err)
	}
	return buf.Bytes(), nil
}
