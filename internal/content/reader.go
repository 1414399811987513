package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const documentExt = ".mdx"

var frontMatterDelimiter = []byte("---")

// DirReader reads content documents from a directory tree with one
// subdirectory per category and one <slug>.mdx file per item.
type DirReader struct {
	root string
}

func NewDirReader(root string) *DirReader {
	return &DirReader{root: root}
}

// ListDocuments reads every document in the category's directory in filename
// order. A missing directory is a normal "no content yet" state and yields an
// empty slice. A document whose front matter cannot be parsed is a hard
// failure: a broken file must not be silently dropped.
func (r *DirReader) ListDocuments(category Type) ([]Document, error) {
	dir := filepath.Join(r.root, string(category))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", dir, err)
	}

	var docs []Document
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), documentExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		doc, err := r.readFile(category, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// GetDocument reads a single document. A missing file is the ordinary
// not-found outcome, reported as ok=false with a nil error.
func (r *DirReader) GetDocument(category Type, slug string) (Document, bool, error) {
	path := filepath.Join(r.root, string(category), slug+documentExt)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Document{}, false, nil
	} else if err != nil {
		return Document{}, false, fmt.Errorf("stat document %s: %w", path, err)
	}
	doc, err := r.readFile(category, path)
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

func (r *DirReader) readFile(category Type, path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read document %s: %w", path, err)
	}
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return Document{}, fmt.Errorf("document %s: %w", path, err)
	}
	item, err := parseFrontMatter(meta)
	if err != nil {
		return Document{}, fmt.Errorf("document %s: %w", path, err)
	}
	item.Type = category
	return Document{Meta: item, Body: body, Path: path}, nil
}

// splitFrontMatter separates the leading "---" delimited YAML block from
// the body text.
func splitFrontMatter(raw []byte) ([]byte, string, error) {
	trimmed := bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(trimmed, frontMatterDelimiter) {
		return nil, "", errors.New("no front matter found")
	}
	rest := trimmed[len(frontMatterDelimiter):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if len(rest) == 0 || rest[0] != '\n' {
		return nil, "", errors.New("no front matter found")
	}
	rest = rest[1:]

	for _, marker := range []string{"\n---\n", "\n---\r\n"} {
		if idx := bytes.Index(rest, []byte(marker)); idx >= 0 {
			return rest[:idx], string(rest[idx+len(marker):]), nil
		}
	}
	if bytes.HasSuffix(rest, []byte("\n---")) {
		return rest[:len(rest)-len("\n---")], "", nil
	}
	return nil, "", errors.New("unclosed front matter")
}

type frontMatter struct {
	Item `yaml:",inline"`
	Date string `yaml:"date"`
}

func parseFrontMatter(meta []byte) (Item, error) {
	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return Item{}, fmt.Errorf("parse front matter: %w", err)
	}
	if strings.TrimSpace(fm.Date) != "" {
		date, err := parseDate(fm.Date)
		if err != nil {
			return Item{}, err
		}
		fm.Item.Date = date
	}
	return fm.Item, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if date, err := time.Parse(layout, raw); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse front matter: invalid date %q", raw)
}
