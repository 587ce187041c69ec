package models

import "time"

// Download represents a recorded download request
type Download struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Thumbnail *string   `json:"thumbnail"`
	Format    string    `json:"format"`
	Quality   *string   `json:"quality"`
	CreatedAt time.Time `json:"createdAt"`
}

// DownloadInput is a download record before the store assigns id and timestamp
type DownloadInput struct {
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Thumbnail *string `json:"thumbnail,omitempty"`
	Format    string  `json:"format"`
	Quality   *string `json:"quality,omitempty"`
}
