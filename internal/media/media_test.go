package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/backmassage/reelsmith/internal/content"
)

type nopLog struct{}

func (nopLog) Warn(string, ...interface{})  {}
func (nopLog) Debug(string, ...interface{}) {}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// imageServer serves fixed bodies by path; unknown paths are 404.
func imageServer(t *testing.T, bodies map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(b)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fakeCrawler struct {
	urls []string
	err  error
}

func (f fakeCrawler) Search(context.Context, string, int) ([]string, error) {
	return f.urls, f.err
}

func newCollector(cr Crawler) *Collector {
	return &Collector{
		Fetch:          NewDownloader(5 * time.Second),
		Crawler:        cr,
		Width:          72,
		Height:         128,
		CrawlCount:     9,
		MinSize:        500,
		Workers:        4,
		FallbackRepeat: 10,
		Log:            nopLog{},
	}
}

func checkSize(t *testing.T, path string, w, h int) {
	t.Helper()
	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Errorf("%s is %dx%d, want %dx%d", path, b.Dx(), b.Dy(), w, h)
	}
}

func TestCollect_CoverAndCrawl(t *testing.T) {
	red := pngBytes(t, 600, 600, color.RGBA{255, 0, 0, 255})
	srv := imageServer(t, map[string][]byte{
		"/cover.png": pngBytes(t, 300, 200, color.White),
		"/a.png":     red,
		"/b.png":     pngBytes(t, 520, 800, color.RGBA{0, 0, 255, 255}),
		"/dup.png":   red,
		"/small.png": pngBytes(t, 100, 100, color.Black),
	})
	cr := fakeCrawler{urls: []string{
		srv.URL + "/a.png", srv.URL + "/missing.png", srv.URL + "/dup.png",
		srv.URL + "/small.png", srv.URL + "/b.png",
	}}
	post := content.Post{Title: "Đau lưng", Keyword: "Đau lưng", ImageURL: srv.URL + "/cover.png"}

	set, err := newCollector(cr).Collect(context.Background(), post, t.TempDir())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if set.Fallback {
		t.Error("unexpected fallback")
	}
	if len(set.Images) != 3 {
		t.Fatalf("got %d images, want 3 (cover, a, b): %+v", len(set.Images), set.Images)
	}
	if set.Images[0].Source != SourceCover || set.Images[1].Source != SourceCrawl {
		t.Errorf("sources = %v, %v", set.Images[0].Source, set.Images[1].Source)
	}
	for _, p := range set.Paths() {
		checkSize(t, p, 72, 128)
	}
	if _, err := os.Stat(set.KeywordDir); err != nil {
		t.Errorf("keyword dir: %v", err)
	}
}

func TestCollect_FallbackRepeatsCover(t *testing.T) {
	srv := imageServer(t, map[string][]byte{
		"/cover.png": pngBytes(t, 50, 50, color.White),
	})
	post := content.Post{Title: "x", Keyword: "x", ImageURL: srv.URL + "/cover.png"}

	for name, cr := range map[string]Crawler{
		"crawler error": fakeCrawler{err: errors.New("quota exceeded")},
		"no crawler":    nil,
		"no results":    fakeCrawler{},
	} {
		t.Run(name, func(t *testing.T) {
			set, err := newCollector(cr).Collect(context.Background(), post, t.TempDir())
			if err != nil {
				t.Fatalf("Collect: %v", err)
			}
			if !set.Fallback || len(set.Images) != 10 {
				t.Fatalf("got %d images (fallback=%v), want 10 copies", len(set.Images), set.Fallback)
			}
			for _, im := range set.Images {
				if im.Path != set.CoverPath {
					t.Errorf("image %q is not the cover", im.Path)
				}
			}
		})
	}
}

func TestCollect_CoverFailureIsFatal(t *testing.T) {
	srv := imageServer(t, map[string][]byte{"/notimage": []byte("hello")})
	for name, url := range map[string]string{
		"404":       srv.URL + "/missing.png",
		"not image": srv.URL + "/notimage",
	} {
		t.Run(name, func(t *testing.T) {
			post := content.Post{Title: "x", ImageURL: url}
			if _, err := newCollector(nil).Collect(context.Background(), post, t.TempDir()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCollect_CrawlCountCaps(t *testing.T) {
	bodies := map[string][]byte{"/cover.png": pngBytes(t, 10, 10, color.White)}
	var urls []string
	shades := []uint8{10, 60, 110, 160}
	for _, s := range shades {
		p := "/" + string(rune('a'+s%26)) + ".png"
		bodies[p] = pngBytes(t, 500, 500, color.Gray{Y: s})
	}
	srv := imageServer(t, bodies)
	for p := range bodies {
		if p != "/cover.png" {
			urls = append(urls, srv.URL+p)
		}
	}
	c := newCollector(fakeCrawler{urls: urls})
	c.CrawlCount = 2
	post := content.Post{Title: "x", Keyword: "x", ImageURL: srv.URL + "/cover.png"}
	set, err := c.Collect(context.Background(), post, t.TempDir())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(set.Images) != 3 {
		t.Errorf("got %d images, want cover + 2", len(set.Images))
	}
}

func TestResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 30, 10))
	dst := Resize(src, 72, 128)
	if b := dst.Bounds(); b.Dx() != 72 || b.Dy() != 128 {
		t.Errorf("Resize bounds = %v", b)
	}
}

func TestDownloader_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	if _, err := NewDownloader(time.Second).Get(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 403")
	}
}
