// Package naming turns free-form Vietnamese titles into filesystem- and
// URL-safe slugs and builds the output paths derived from them.
//
//   - CleanFilename(text, max) → slug (ASCII, lowercase, '_' separated)
//   - OutputPath(dir, slug) → <dir>/output_video_<slug>.mp4
//   - KeywordDir(workDir, title) → per-title crawl directory
//   - CollisionResolver: in-run duplicate slug resolver
package naming
