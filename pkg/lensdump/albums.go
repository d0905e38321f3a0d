package lensdump

import (
	"context"
	"iter"

	"lensdl/pkg/text"
)

// AlbumsExtractor queues every album of a user's album list
type AlbumsExtractor struct {
	base
	user string
}

// NewAlbumsExtractor creates an extractor for the album list page at url
func NewAlbumsExtractor(c *Client, url, user string) *AlbumsExtractor {
	return &AlbumsExtractor{
		base: newBase(c, url, SubcategoryAlbums, Formats{}),
		user: user,
	}
}

func (e *AlbumsExtractor) User() string { return e.user }

// Items emits one queue message per album, targeting the album extractor
func (e *AlbumsExtractor) Items(ctx context.Context) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		page, err := e.client.GetPage(ctx, e.url)
		if err != nil {
			yield(Message{}, err)
			return
		}

		for node, err := range e.walker.Nodes(ctx, Page{URL: e.url, Text: page}) {
			if err != nil {
				yield(Message{}, err)
				return
			}
			short := text.Extr(node, markerShortURL, `"`)
			if short == "" {
				e.logger.Debug("List item without album link")
				continue
			}
			if !e.emit(yield, queueMessage(text.URLJoin(e.client.Root(), short), SubcategoryAlbum)) {
				return
			}
		}
	}
}
