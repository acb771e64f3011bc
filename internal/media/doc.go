// Package media gathers the still images a short is cut from: the cover
// named in the spreadsheet row plus extra images found by an image search
// for the title. Every image is scaled to the output frame and written as
// JPEG.
//
//   - Downloader: resty-based HTTP fetch with timeout and user agent
//   - Crawler: image search (CustomSearch implements it on Google CSE)
//   - Collector.Collect: cover + crawl + dedup + fallback → Set
package media
