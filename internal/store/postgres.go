package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const sideNoteColumns = `id, content, type, source, source_author, related_books, related_writing, tags, date_added, page_number, chapter, personal_note, mood, context`

func (s *PostgresStore) ListSideNotes(ctx context.Context, filter NoteFilter) ([]SideNote, error) {
	query := `SELECT ` + sideNoteColumns + ` FROM side_notes`

	var conditions []string
	var args []any
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conditions = append(conditions, fmt.Sprintf("tags @> jsonb_build_array($%d::text)", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}
	switch filter.SortBy {
	case NoteSortSource:
		query += fmt.Sprintf(" ORDER BY source %s NULLS LAST, date_added DESC", direction)
	default:
		query += fmt.Sprintf(" ORDER BY date_added %s", direction)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list side notes: %w", err)
	}
	defer rows.Close()

	notes := make([]SideNote, 0)
	for rows.Next() {
		note, err := scanSideNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate side notes: %w", err)
	}
	return notes, nil
}

func (s *PostgresStore) GetSideNote(ctx context.Context, id string) (SideNote, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sideNoteColumns+` FROM side_notes WHERE id=$1`, id)
	note, err := scanSideNote(row)
	if err == sql.ErrNoRows {
		return SideNote{}, err
	}
	if err != nil {
		return SideNote{}, err
	}
	return note, nil
}

func (s *PostgresStore) InsertSideNote(ctx context.Context, note SideNote) error {
	relatedBooks, relatedWriting, tags, err := encodeLists(note)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO side_notes (`+sideNoteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, note.ID, note.Content, note.Type, note.Source, note.SourceAuthor,
		relatedBooks, relatedWriting, tags, note.DateAdded,
		note.PageNumber, note.Chapter, note.PersonalNote, note.Mood, note.Context)
	if err != nil {
		return fmt.Errorf("insert side note: %w", err)
	}
	return nil
}

// UpdateSideNote replaces every mutable field of the record. DateAdded is
// immutable after creation and deliberately left out. Reports sql.ErrNoRows
// when the id does not exist.
func (s *PostgresStore) UpdateSideNote(ctx context.Context, note SideNote) error {
	relatedBooks, relatedWriting, tags, err := encodeLists(note)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE side_notes
		SET content=$2, type=$3, source=$4, source_author=$5,
			related_books=$6, related_writing=$7, tags=$8,
			page_number=$9, chapter=$10, personal_note=$11, mood=$12, context=$13
		WHERE id=$1
	`, note.ID, note.Content, note.Type, note.Source, note.SourceAuthor,
		relatedBooks, relatedWriting, tags,
		note.PageNumber, note.Chapter, note.PersonalNote, note.Mood, note.Context)
	if err != nil {
		return fmt.Errorf("update side note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update side note: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStore) DeleteSideNote(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM side_notes WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete side note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete side note: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSideNote(row rowScanner) (SideNote, error) {
	var note SideNote
	var relatedBooks, relatedWriting, tags []byte
	err := row.Scan(
		&note.ID, &note.Content, &note.Type, &note.Source, &note.SourceAuthor,
		&relatedBooks, &relatedWriting, &tags, &note.DateAdded,
		&note.PageNumber, &note.Chapter, &note.PersonalNote, &note.Mood, &note.Context,
	)
	if err == sql.ErrNoRows {
		return SideNote{}, err
	}
	if err != nil {
		return SideNote{}, fmt.Errorf("scan side note: %w", err)
	}
	if note.RelatedBooks, err = decodeList(relatedBooks); err != nil {
		return SideNote{}, fmt.Errorf("decode related_books: %w", err)
	}
	if note.RelatedWriting, err = decodeList(relatedWriting); err != nil {
		return SideNote{}, fmt.Errorf("decode related_writing: %w", err)
	}
	if note.Tags, err = decodeList(tags); err != nil {
		return SideNote{}, fmt.Errorf("decode tags: %w", err)
	}
	return note, nil
}

func encodeLists(note SideNote) (relatedBooks, relatedWriting, tags []byte, err error) {
	if relatedBooks, err = encodeList(note.RelatedBooks); err != nil {
		return nil, nil, nil, fmt.Errorf("encode related_books: %w", err)
	}
	if relatedWriting, err = encodeList(note.RelatedWriting); err != nil {
		return nil, nil, nil, fmt.Errorf("encode related_writing: %w", err)
	}
	if tags, err = encodeList(note.Tags); err != nil {
		return nil, nil, nil, fmt.Errorf("encode tags: %w", err)
	}
	return relatedBooks, relatedWriting, tags, nil
}

func encodeList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func decodeList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
