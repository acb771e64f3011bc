package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"lukechampine.com/blake3"

	"github.com/backmassage/reelsmith/internal/content"
	"github.com/backmassage/reelsmith/internal/naming"
)

// Source tells where an image came from.
type Source string

const (
	SourceCover Source = "cover"
	SourceCrawl Source = "crawl"
)

// CoverName is the cover file written into the work directory.
const CoverName = "cover.jpg"

// minImages is the least number of distinct images a short is cut from;
// below it the cover is repeated instead.
const minImages = 2

// Image is one prepared frame source.
type Image struct {
	Path   string
	Source Source
}

// Set is the result of Collect.
type Set struct {
	Images     []Image
	CoverPath  string
	KeywordDir string
	// Fallback is set when the crawl yielded too little and Images is the
	// cover repeated.
	Fallback bool
}

// Paths returns the image paths in order.
func (s Set) Paths() []string {
	out := make([]string, len(s.Images))
	for i, im := range s.Images {
		out[i] = im.Path
	}
	return out
}

// Logger is the logging surface Collect needs.
type Logger interface {
	Warn(string, ...interface{})
	Debug(string, ...interface{})
}

// Fetcher downloads a URL. *Downloader implements it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Collector prepares the image set of one post.
type Collector struct {
	Fetch   Fetcher
	Crawler Crawler // nil disables the crawl

	Width, Height  int
	CrawlCount     int
	MinSize        int
	Workers        int
	FallbackRepeat int

	Log Logger
}

// Collect downloads and scales the cover (failure is fatal), then crawls
// for up to CrawlCount extra images of at least MinSize on both sides,
// dropping byte-identical duplicates. Crawl failures only log. When fewer
// than two images are ready the set is the cover repeated FallbackRepeat
// times.
func (c *Collector) Collect(ctx context.Context, post content.Post, workDir string) (Set, error) {
	set := Set{
		CoverPath:  filepath.Join(workDir, CoverName),
		KeywordDir: naming.KeywordDir(workDir, post.Title),
	}

	raw, err := c.Fetch.Get(ctx, post.ImageURL)
	if err != nil {
		return set, fmt.Errorf("cover: %w", err)
	}
	cover, err := Decode(raw)
	if err != nil {
		return set, fmt.Errorf("cover: %w", err)
	}
	if err := SaveJPEG(set.CoverPath, Resize(cover, c.Width, c.Height)); err != nil {
		return set, fmt.Errorf("cover: %w", err)
	}
	set.Images = append(set.Images, Image{Path: set.CoverPath, Source: SourceCover})

	seen := map[[32]byte]bool{blake3.Sum256(raw): true}
	crawled, err := c.crawl(ctx, post.Keyword, set.KeywordDir, seen)
	if err != nil {
		if ctx.Err() != nil {
			return set, ctx.Err()
		}
		c.Log.Warn("Crawler failed: %v", err)
	}
	set.Images = append(set.Images, crawled...)

	if len(set.Images) < minImages {
		repeat := max(c.FallbackRepeat, 1)
		set.Images = make([]Image, repeat)
		for i := range set.Images {
			set.Images[i] = Image{Path: set.CoverPath, Source: SourceCover}
		}
		set.Fallback = true
	}
	return set, nil
}

// crawl searches for query and keeps the usable results in search order.
func (c *Collector) crawl(ctx context.Context, query, dir string, seen map[[32]byte]bool) ([]Image, error) {
	if c.Crawler == nil || c.CrawlCount <= 0 {
		return nil, nil
	}
	urls, err := c.Crawler.Search(ctx, query, c.CrawlCount)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	// Downloads run in parallel into fixed slots so search order survives.
	bodies := make([][]byte, len(urls))
	var g errgroup.Group
	g.SetLimit(max(c.Workers, 1))
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			data, err := c.Fetch.Get(ctx, u)
			if err != nil {
				c.Log.Debug("skip %s: %v", u, err)
				return nil
			}
			bodies[i] = data
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Image
	for i, data := range bodies {
		if len(out) >= c.CrawlCount {
			break
		}
		if data == nil {
			continue
		}
		sum := blake3.Sum256(data)
		if seen[sum] {
			c.Log.Debug("skip %s: duplicate", urls[i])
			continue
		}
		seen[sum] = true

		w, h, err := Dimensions(data)
		if err != nil || w < c.MinSize || h < c.MinSize {
			c.Log.Debug("skip %s: %dx%d below %d", urls[i], w, h, c.MinSize)
			continue
		}
		img, err := Decode(data)
		if err != nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%06d.jpg", len(out)+1))
		if err := SaveJPEG(path, Resize(img, c.Width, c.Height)); err != nil {
			c.Log.Warn("save crawled image: %v", err)
			continue
		}
		out = append(out, Image{Path: path, Source: SourceCrawl})
	}
	return out, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
