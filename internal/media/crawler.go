package media

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxSearchResults is the Custom Search API's per-request cap.
const maxSearchResults = 10

// Crawler finds candidate image URLs for a query.
type Crawler interface {
	Search(ctx context.Context, query string, n int) ([]string, error)
}

// CustomSearch is a Crawler backed by the Google Custom Search JSON API in
// image mode.
type CustomSearch struct {
	svc *customsearch.Service
	cx  string
}

// NewCustomSearch builds a client for the search engine cx.
func NewCustomSearch(ctx context.Context, apiKey, cx string) (*CustomSearch, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("custom search client: %w", err)
	}
	return &CustomSearch{svc: svc, cx: cx}, nil
}

// Search returns up to n image links for query, largest-first as ranked by
// the API. Results the API reports as smaller than "large" are not asked for.
func (c *CustomSearch) Search(ctx context.Context, query string, n int) ([]string, error) {
	if n > maxSearchResults {
		n = maxSearchResults
	}
	if n <= 0 {
		return nil, nil
	}
	res, err := c.svc.Cse.List().
		Cx(c.cx).
		Q(query).
		SearchType("image").
		ImgSize("large").
		Safe("active").
		Num(int64(n)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("image search %q: %w", query, err)
	}
	links := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		if it.Link != "" {
			links = append(links, it.Link)
		}
	}
	return links, nil
}
