package lensdump

import (
	"context"
	"iter"

	"lensdl/pkg/logger"
	"lensdl/pkg/metrics"
	"lensdl/pkg/text"
)

// PageFetcher returns the text of a page
type PageFetcher interface {
	GetPage(ctx context.Context, url string) (string, error)
}

// Page is the text of a listing page together with its URL
type Page struct {
	URL  string
	Text string
}

// Walker yields the list items of a paginated listing, oldest page first
type Walker struct {
	fetcher PageFetcher
	root    string
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewWalker creates a walker resolving links against root
func NewWalker(fetcher PageFetcher, root string, m *metrics.Metrics, log logger.Logger) *Walker {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Walker{fetcher: fetcher, root: root, metrics: m, logger: log}
}

// Nodes starts at the oldest page linked from start and follows "next"
// links until a page has none. start is reused instead of fetched again
// when the walk reaches its URL. A fetch error is yielded once and ends
// the sequence.
func (w *Walker) Nodes(ctx context.Context, start Page) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		pageURL := start.URL
		if href := text.Extr(text.Extr(start.Text, markerOldest, ">"), `href="`, `"`); href != "" {
			pageURL = text.URLJoin(w.root, href)
		}

		visited := make(map[string]bool)
		for pageURL != "" {
			if visited[pageURL] {
				w.logger.WarnWithFields("Pagination loops back to a visited page", map[string]interface{}{
					"url": pageURL,
				})
				return
			}
			visited[pageURL] = true

			current := start.Text
			if pageURL != start.URL {
				var err error
				current, err = w.fetcher.GetPage(ctx, pageURL)
				if err != nil {
					yield("", err)
					return
				}
			}
			w.metrics.IncPagesWalked()

			count := 0
			for node := range text.ExtractIter(current, markerItem, ">") {
				count++
				if !yield(node, nil) {
					return
				}
			}
			w.logger.DebugWithFields("Walked page", map[string]interface{}{
				"url":   pageURL,
				"items": count,
			})

			pageURL = ""
			if href := text.Extr(text.Extr(current, markerNext, ">"), `href="`, `"`); href != "" {
				pageURL = text.URLJoin(w.root, href)
			}
		}
	}
}
