// Package pipeline runs the make command: it walks the configured
// worksheets for pending rows and turns each into a narrated short.
//
// Per row, in order:
//
//	extract post → images (cover + crawl) → narration (TTS, truncate) →
//	title overlay → plan → render with retry → status write → record →
//	cleanup
//
// Rows are processed sequentially. A failed row aborts the run; warnings
// from the crawler, overlay, status write and cleanup do not.
package pipeline
