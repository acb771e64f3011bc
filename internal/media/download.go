package media

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) reelsmith/1.0"

// Downloader fetches image bytes over HTTP.
type Downloader struct {
	http *resty.Client
}

// NewDownloader returns a Downloader whose requests time out after timeout.
func NewDownloader(timeout time.Duration) *Downloader {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "image/*")
	return &Downloader{http: c}
}

// Get returns the body of url. Non-2xx responses are errors.
func (d *Downloader) Get(ctx context.Context, url string) ([]byte, error) {
	r, err := d.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("download %s: %s", url, r.Status())
	}
	if len(r.Body()) == 0 {
		return nil, fmt.Errorf("download %s: empty body", url)
	}
	return r.Body(), nil
}
