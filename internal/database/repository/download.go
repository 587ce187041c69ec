package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artur/tubedrop/internal/database/models"
)

// DefaultHistoryLimit is the page size used when ListRecent gets a non-positive limit
const DefaultHistoryLimit = 20

// ErrPersistence marks failures of the storage layer
var ErrPersistence = errors.New("persistence error")

// DownloadRepository handles download history persistence
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Append stores a download record and returns it with the assigned id and timestamp
func (r *DownloadRepository) Append(ctx context.Context, in models.DownloadInput) (*models.Download, error) {
	query := `
		INSERT INTO downloads (url, title, thumbnail, format, quality)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		in.URL,
		in.Title,
		in.Thumbnail,
		in.Format,
		in.Quality,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to record download: %w", ErrPersistence, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get download id: %w", ErrPersistence, err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a download record by id
func (r *DownloadRepository) GetByID(ctx context.Context, id int64) (*models.Download, error) {
	query := `
		SELECT id, url, title, thumbnail, format, quality, created_at
		FROM downloads
		WHERE id = ?
	`

	d, err := scanDownload(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get download %d: %w", ErrPersistence, id, err)
	}
	return d, nil
}

// ListRecent returns at most limit records, newest first
func (r *DownloadRepository) ListRecent(ctx context.Context, limit int) ([]models.Download, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, url, title, thumbnail, format, quality, created_at
		FROM downloads
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list downloads: %w", ErrPersistence, err)
	}
	defer rows.Close()

	downloads := make([]models.Download, 0, limit)
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan download: %w", ErrPersistence, err)
		}
		downloads = append(downloads, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list downloads: %w", ErrPersistence, err)
	}
	return downloads, nil
}

// GetTotalDownloads returns the number of recorded downloads
func (r *DownloadRepository) GetTotalDownloads(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM downloads").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count downloads: %w", ErrPersistence, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDownload(row rowScanner) (*models.Download, error) {
	var d models.Download
	var thumbnail, quality sql.NullString
	if err := row.Scan(&d.ID, &d.URL, &d.Title, &thumbnail, &d.Format, &quality, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Thumbnail = nullableString(thumbnail)
	d.Quality = nullableString(quality)
	return &d, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
