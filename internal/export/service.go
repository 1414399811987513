package export

import "fmt"

// Service renders side-note collections to downloadable documents.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Export renders the request to the requested format.
func (s *Service) Export(req Request) (*Result, error) {
	if req.Title == "" {
		req.Title = "Side Notes"
	}

	switch req.Format {
	case FormatMarkdown:
		return exportMarkdown(req)
	case FormatPDF:
		html, err := renderNotesHTML(req)
		if err != nil {
			return nil, fmt.Errorf("render notes html: %w", err)
		}
		return exportPDF(string(html), req.Title)
	default:
		return nil, fmt.Errorf("unsupported export format: %q", req.Format)
	}
}
