package service

import (
	"context"
	"log"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/artur/tubedrop/internal/database/models"
	"github.com/artur/tubedrop/internal/downloader"
)

const (
	// HistoryLimit caps the records returned to clients.
	HistoryLimit = 20
	// DefaultQuality is stored when the client did not pick a quality.
	DefaultQuality = "auto"
)

// HistoryStore is the append-only download log
type HistoryStore interface {
	Append(ctx context.Context, in models.DownloadInput) (*models.Download, error)
	ListRecent(ctx context.Context, limit int) ([]models.Download, error)
}

// Notifier is told about every recorded download
type Notifier interface {
	NotifyDownload(d *models.Download) error
}

// Recorder writes one history record per download the client started
type Recorder struct {
	store    HistoryStore
	notifier Notifier
}

// NewRecorder creates a Recorder. notifier may be nil.
func NewRecorder(store HistoryStore, notifier Notifier) *Recorder {
	return &Recorder{
		store:    store,
		notifier: notifier,
	}
}

// Record validates the input and appends it to the store
func (r *Recorder) Record(ctx context.Context, in models.DownloadInput) (*models.Download, error) {
	if err := validateDownloadInput(in); err != nil {
		return nil, err
	}

	if in.Quality == nil || *in.Quality == "" {
		quality := DefaultQuality
		in.Quality = &quality
	}

	d, err := r.store.Append(ctx, in)
	if err != nil {
		return nil, err
	}

	log.Printf("[HISTORY] Recorded download %d: %s (%s)", d.ID, d.Title, d.Format)

	if r.notifier != nil {
		go func(d *models.Download) {
			if err := r.notifier.NotifyDownload(d); err != nil {
				log.Printf("[HISTORY] Failed to notify about download %d: %v", d.ID, err)
			}
		}(d)
	}

	return d, nil
}

// Recent returns the latest records, newest first
func (r *Recorder) Recent(ctx context.Context) ([]models.Download, error) {
	return r.store.ListRecent(ctx, HistoryLimit)
}

// validateDownloadInput checks fields in declaration order and reports the
// first one that fails
func validateDownloadInput(in models.DownloadInput) error {
	checks := []struct {
		field string
		value any
		rules []validation.Rule
	}{
		{"url", in.URL, []validation.Rule{validation.Required, is.RequestURL}},
		{"title", in.Title, []validation.Rule{validation.Required}},
		{"format", in.Format, []validation.Rule{validation.Required, validation.Length(1, 10),
			validation.In(downloader.FormatMP4, downloader.FormatMP3)}},
		{"quality", in.Quality, []validation.Rule{validation.Length(0, 20)}},
	}

	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			return &ValidationError{Field: c.field, Message: err.Error()}
		}
	}
	return nil
}
