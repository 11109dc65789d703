package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsbrief"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ newsbrief.DigestService = (*DigestService)(nil)

// DigestService implements newsbrief.DigestService using SQLite.
type DigestService struct {
	db  *DB
	now func() time.Time
}

// NewDigestService creates a new DigestService.
func NewDigestService(db *DB) *DigestService {
	return &DigestService{db: db, now: time.Now}
}

// HashContent returns the hex xxHash of article content. Two digests with
// the same hash were summarized from the same text.
func HashContent(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}

const digestColumns = "id, url, title, content_hash, summary, sentiment, related_count, created_at"

// CreateDigest records a digest, assigning its ID, content hash and
// creation time.
func (s *DigestService) CreateDigest(ctx context.Context, rec *newsbrief.DigestRecord, content string) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.ContentHash = HashContent(content)
	rec.CreatedAt = s.now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO digests (`+digestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.URL, rec.Title, rec.ContentHash, rec.Summary, rec.Sentiment,
		rec.RelatedCount, rec.CreatedAt.Format(time.RFC3339))

	return err
}

// FindDigestByID retrieves a digest by ID.
func (s *DigestService) FindDigestByID(ctx context.Context, id string) (*newsbrief.DigestRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+digestColumns+" FROM digests WHERE id = ?", id)
	rec, err := scanDigest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, newsbrief.Errorf(newsbrief.ENOTFOUND, "digest not found")
	}
	return rec, err
}

// FindDigests retrieves digests matching the filter, newest first.
func (s *DigestService) FindDigests(ctx context.Context, filter newsbrief.DigestFilter) ([]*newsbrief.DigestRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + digestColumns + " FROM digests WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	// rowid breaks ties between digests created within the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*newsbrief.DigestRecord
	for rows.Next() {
		rec, err := scanDigest(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteDigest permanently removes a digest.
func (s *DigestService) DeleteDigest(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM digests WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return newsbrief.Errorf(newsbrief.ENOTFOUND, "digest not found")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDigest(row scanner) (*newsbrief.DigestRecord, error) {
	var rec newsbrief.DigestRecord
	var createdAt string

	if err := row.Scan(&rec.ID, &rec.URL, &rec.Title, &rec.ContentHash, &rec.Summary,
		&rec.Sentiment, &rec.RelatedCount, &createdAt); err != nil {
		return nil, err
	}

	t, err := parseTime(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = t
	return &rec, nil
}
