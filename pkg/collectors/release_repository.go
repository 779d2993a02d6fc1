package collectors

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yair/media-stats/pkg/domain"
)

type ReleaseRepository struct {
	db *sql.DB
}

func NewReleaseRepository(db *sql.DB) (*ReleaseRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	repo := &ReleaseRepository{db: db}
	if err := repo.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return repo, nil
}

func (r *ReleaseRepository) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS releases (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		year INTEGER,
		format TEXT NOT NULL,
		genres TEXT,
		styles TEXT,
		cover_url TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_releases_format ON releases(format);
	CREATE INDEX IF NOT EXISTS idx_releases_artist ON releases(artist);
	`

	_, err := r.db.Exec(query)
	return err
}

const releaseColumns = `id, title, artist, year, format, genres, styles, cover_url, created_at`

func (r *ReleaseRepository) Create(ctx context.Context, release *domain.Release) error {
	if release == nil {
		return fmt.Errorf("release cannot be nil")
	}

	query := `
	INSERT INTO releases (` + releaseColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	release.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		release.ID,
		release.Title,
		release.Artist,
		release.Year,
		release.Format,
		joinTags(release.Genres),
		joinTags(release.Styles),
		release.CoverURL,
		release.CreatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrDuplicateRelease
		}
		return fmt.Errorf("failed to create release: %w", err)
	}

	return nil
}

func (r *ReleaseRepository) GetByID(ctx context.Context, id string) (*domain.Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases WHERE id = ?`

	release, err := scanRelease(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrReleaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get release by id: %w", err)
	}

	return release, nil
}

// List returns releases matching the filter, ordered by artist then year.
func (r *ReleaseRepository) List(ctx context.Context, filter domain.ReleaseFilter) ([]domain.Release, error) {
	var conditions []string
	var args []interface{}

	if filter.Format != "" {
		conditions = append(conditions, "format = ?")
		args = append(args, filter.Format)
	}
	// instr is case-sensitive and has no wildcards, unlike LIKE.
	if filter.Genre != "" {
		conditions = append(conditions, "instr(genres, ?) > 0")
		args = append(args, tagPattern(filter.Genre))
	}
	if filter.Style != "" {
		conditions = append(conditions, "instr(styles, ?) > 0")
		args = append(args, tagPattern(filter.Style))
	}

	query := `SELECT ` + releaseColumns + ` FROM releases`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY artist COLLATE NOCASE, year, title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer rows.Close()

	releases := []domain.Release{}
	for rows.Next() {
		release, err := scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan release: %w", err)
		}
		releases = append(releases, *release)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return releases, nil
}

func (r *ReleaseRepository) DistinctFormats(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT format FROM releases ORDER BY format`)
	if err != nil {
		return nil, fmt.Errorf("failed to list formats: %w", err)
	}
	defer rows.Close()

	formats := []string{}
	for rows.Next() {
		var format string
		if err := rows.Scan(&format); err != nil {
			return nil, fmt.Errorf("failed to scan format: %w", err)
		}
		formats = append(formats, format)
	}
	return formats, rows.Err()
}

func (r *ReleaseRepository) DistinctGenres(ctx context.Context) ([]string, error) {
	return r.distinctTags(ctx, "genres")
}

func (r *ReleaseRepository) DistinctStyles(ctx context.Context) ([]string, error) {
	return r.distinctTags(ctx, "styles")
}

func (r *ReleaseRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM releases`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count releases: %w", err)
	}
	return count, nil
}

func (r *ReleaseRepository) distinctTags(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+column+` FROM releases WHERE `+column+` IS NOT NULL AND `+column+` != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", column, err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var joined string
		if err := rows.Scan(&joined); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		for _, tag := range splitTags(joined) {
			seen[tag] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRelease(row rowScanner) (*domain.Release, error) {
	var release domain.Release
	var year sql.NullInt64
	var genres, styles, coverURL sql.NullString

	err := row.Scan(
		&release.ID,
		&release.Title,
		&release.Artist,
		&year,
		&release.Format,
		&genres,
		&styles,
		&coverURL,
		&release.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	release.Year = int(year.Int64)
	release.Genres = splitTags(genres.String)
	release.Styles = splitTags(styles.String)
	release.CoverURL = coverURL.String

	return &release, nil
}

// Tags are stored as ",a,b," so searching for ",a," matches whole values only.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

func tagPattern(tag string) string {
	return "," + tag + ","
}

func splitTags(joined string) []string {
	trimmed := strings.Trim(joined, ",")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ",")
}
