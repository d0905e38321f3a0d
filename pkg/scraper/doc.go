// Package scraper runs lensdump extractors and acts on their messages.
//
// A run finds the extractor for a URL and walks its message sequence on a
// single goroutine:
//
//   - Directory messages pick the target directory from the extractor's
//     directory templates.
//   - URL messages render a file name, consult the download archive and
//     submit a job to the download pool.
//   - Queue messages start the named extractor on the queued URL, up to
//     download.max_depth levels deep.
//
// Downloads run concurrently on the worker pool while the extraction
// continues; a result consumer tallies the Summary. Both run under an
// errgroup so an extraction error cancels outstanding downloads.
//
// Usage:
//
//	s, err := scraper.New(cfg)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	summary, err := s.Run(ctx, "https://lensdump.com/a/1IhJr")
//
// Dump writes the messages as JSON lines instead of downloading.
package scraper
